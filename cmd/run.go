package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/vchernin/hh-scorer/internal/deepseek"
	"github.com/vchernin/hh-scorer/internal/extract"
	"github.com/vchernin/hh-scorer/internal/fetcher"
	"github.com/vchernin/hh-scorer/internal/logger"
	"github.com/vchernin/hh-scorer/internal/scoring"
	"github.com/vchernin/hh-scorer/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const provider = "deepseek"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch a vacancy and a resume from hh.ru and score the candidate",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("vacancy-url", "", "link to the vacancy page")
	runCmd.Flags().String("resume-url", "", "link to the resume page")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	zlog, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zlog.Fatal("getting a config", zap.Error(err))
	}

	zlog.Info("starting the hh-scorer", zap.String("version", version))

	vacancyURL, err := resolveURL(cmd, "vacancy-url", "Ссылка на вакансию (hh.ru)", config.SupportedDomains)
	if err != nil {
		zlog.Fatal("resolving vacancy url", zap.Error(err))
	}

	resumeURL, err := resolveURL(cmd, "resume-url", "Ссылка на резюме (hh.ru)", config.SupportedDomains)
	if err != nil {
		zlog.Fatal("resolving resume url", zap.Error(err))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "deepseek api key",
		File: config.API.APIKeyFile,
	})
	if err != nil {
		zlog.Fatal(
			"loading deepseek api key",
			zap.Error(err),
			zap.String("hint", "set DEEPSEEK_API_KEY_FILE environment variable or the 'api.api-key-file' key in the configuration file"),
		)
	}

	pages := fetcher.New(fetcher.Config{
		Timeout:    time.Duration(config.Parser.Timeout) * time.Second,
		MaxRetries: config.Parser.MaxRetries,
		UserAgents: config.Parser.UserAgents,
	}, zlog)

	zlog.Info("fetching the vacancy", zap.String("url", vacancyURL))

	vacancyPage, err := pages.Fetch(ctx, vacancyURL)
	if err != nil {
		zlog.Fatal("fetching vacancy page", zap.Error(err))
	}

	zlog.Info("fetching the resume", zap.String("url", resumeURL))

	resumePage, err := pages.Fetch(ctx, resumeURL)
	if err != nil {
		zlog.Fatal("fetching resume page", zap.Error(err))
	}

	vacancyMD, err := extract.ExtractVacancy(vacancyPage.Body)
	if err != nil {
		zlog.Fatal("extracting vacancy data", zap.Error(err))
	}

	resumeMD, err := extract.ExtractResume(resumePage.Body)
	if err != nil {
		zlog.Fatal("extracting resume data", zap.Error(err))
	}

	zlog.Debug("extracted vacancy document", zap.String("markdown", vacancyMD))
	zlog.Debug("extracted resume document", zap.String("markdown", resumeMD))

	aiLogger := logger.WithCommonFields(zlog, provider, config.API.Model)

	client, err := deepseek.New(apiKey, deepseek.Config{
		BaseURL:    config.API.BaseURL,
		Timeout:    time.Duration(config.API.Timeout) * time.Second,
		MaxRetries: config.API.MaxRetries,
		RetryDelay: time.Duration(config.API.RetryDelay) * time.Second,
	}, aiLogger)
	if err != nil {
		zlog.Fatal("creating deepseek client", zap.Error(err))
	}

	scorer := scoring.New(client, scoring.Config{
		Model:       config.API.Model,
		Temperature: config.API.Temperature,
		MaxTokens:   config.API.MaxTokens,
	}, aiLogger)

	zlog.Info("scoring the candidate", zap.String("model", config.API.Model))

	verdict, err := scorer.Score(ctx, vacancyMD, resumeMD)
	if err != nil {
		zlog.Fatal("scoring the candidate", zap.Error(err))
	}

	fmt.Println(verdict)
}

// resolveURL takes the url from the flag or asks for it interactively, then
// checks it against the supported domains.
func resolveURL(cmd *cobra.Command, flag, label string, domains []string) (string, error) {
	raw := strings.TrimSpace(cmd.Flag(flag).Value.String())

	if raw == "" {
		prompt := promptui.Prompt{
			Label: label,
			Validate: func(input string) error {
				if !fetcher.AllowedURL(input, domains) {
					return fmt.Errorf("expected an http(s) link to one of %v", domains)
				}
				return nil
			},
		}

		entered, err := prompt.Run()
		if err != nil {
			return "", err
		}
		raw = strings.TrimSpace(entered)
	}

	if !fetcher.AllowedURL(raw, domains) {
		return "", fmt.Errorf("unsupported url %q: expected an http(s) link to one of %v", raw, domains)
	}

	return raw, nil
}
