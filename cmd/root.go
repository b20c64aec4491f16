package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hh-scorer"

	defaultBaseURL = "https://api.deepseek.com/v1"
	defaultModel   = "deepseek-chat"
)

type Config struct {
	API              *APIConfig    `mapstructure:"api"`
	Parser           *ParserConfig `mapstructure:"parser"`
	SupportedDomains []string      `mapstructure:"supported-domains"`
}

type APIConfig struct {
	BaseURL     string  `mapstructure:"base-url"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"`
	MaxRetries  int     `mapstructure:"max-retries"`
	RetryDelay  int     `mapstructure:"retry-delay"`
	MaxTokens   int     `mapstructure:"max-tokens"`
	Temperature float64 `mapstructure:"temperature"`
	APIKeyFile  string  `mapstructure:"api-key-file"`
}

type ParserConfig struct {
	Timeout    int      `mapstructure:"timeout"`
	MaxRetries int      `mapstructure:"max-retries"`
	UserAgents []string `mapstructure:"user-agents"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hh-scorer is a simple cli for scoring a candidate resume against a vacancy on hh.ru",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("api.api-key-file", "DEEPSEEK_API_KEY_FILE"); err != nil {
		log.Fatalf("binding DEEPSEEK_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hh-scorer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional since every key has a built-in default,
	// but a file parsed with error is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}
	config.applyDefaults()

	return config, nil
}

func (c *Config) applyDefaults() {
	if c.API == nil {
		c.API = &APIConfig{}
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	if c.API.Model == "" {
		c.API.Model = defaultModel
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = 30
	}
	if c.API.MaxRetries <= 0 {
		c.API.MaxRetries = 3
	}
	if c.API.RetryDelay <= 0 {
		c.API.RetryDelay = 5
	}
	if c.API.MaxTokens <= 0 {
		c.API.MaxTokens = 1000
	}

	if c.Parser == nil {
		c.Parser = &ParserConfig{}
	}
	if c.Parser.Timeout <= 0 {
		c.Parser.Timeout = 10
	}
	if c.Parser.MaxRetries <= 0 {
		c.Parser.MaxRetries = 3
	}

	if len(c.SupportedDomains) == 0 {
		c.SupportedDomains = []string{"hh.ru"}
	}
}
