// Package scoring asks the model how well a candidate fits a vacancy.
package scoring

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/vchernin/hh-scorer/internal/deepseek"
	"github.com/vchernin/hh-scorer/internal/utils"

	"go.uber.org/zap"
)

//go:embed prompt.md
var systemPrompt string

const (
	defaultModel        = "deepseek-chat"
	defaultMaxTokens    = 1000
	defaultMaxLogLength = 200
)

type chatCompleter interface {
	Chat(ctx context.Context, model string, messages []deepseek.Message, opts *deepseek.ChatOptions) (map[string]any, error)
}

type Config struct {
	Model        string
	Temperature  float64
	MaxTokens    int
	MaxLogLength int
}

// Scorer builds the scoring prompt from the two extracted documents and
// returns the model verdict.
type Scorer struct {
	client      chatCompleter
	model       string
	temperature float64
	maxTokens   int
	maxLogLen   int
	logger      *zap.Logger
}

func New(client chatCompleter, cfg Config, logger *zap.Logger) *Scorer {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scorer{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
		maxLogLen:   maxLogLen,
		logger:      logger,
	}
}

// Score sends the vacancy and resume documents to the model and returns its
// verdict as plain text.
func (s *Scorer) Score(ctx context.Context, vacancyMD, resumeMD string) (string, error) {
	vacancyMD = strings.TrimSpace(vacancyMD)
	resumeMD = strings.TrimSpace(resumeMD)

	if vacancyMD == "" {
		return "", errors.New("vacancy document must not be empty")
	}

	if resumeMD == "" {
		return "", errors.New("resume document must not be empty")
	}

	userPrompt := fmt.Sprintf("# ВАКАНСИЯ\n%s\n\n# РЕЗЮМЕ\n%s", vacancyMD, resumeMD)

	s.logger.Debug("chat completion request",
		zap.String("model", s.model),
		zap.Int("prompt_length", utf8.RuneCountInString(userPrompt)),
		zap.String("prompt_preview", utils.TruncateForLog(userPrompt, s.maxLogLen)),
	)

	messages := []deepseek.Message{
		{Role: "system", Content: strings.TrimSpace(systemPrompt)},
		{Role: "user", Content: userPrompt},
	}

	resp, err := s.client.Chat(ctx, s.model, messages, &deepseek.ChatOptions{
		Temperature: &s.temperature,
		MaxTokens:   &s.maxTokens,
	})
	if err != nil {
		return "", err
	}

	verdict := strings.TrimSpace(deepseek.Content(resp))

	s.logger.Debug("chat completion response",
		zap.Int("response_length", utf8.RuneCountInString(verdict)),
		zap.String("response_preview", utils.TruncateForLog(verdict, s.maxLogLen)),
	)

	if verdict == "" {
		return "", errors.New("model returned an empty response")
	}

	return verdict, nil
}
