// Package ollama talks to a self-hosted Ollama server.
package ollama

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ollama"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai/chatmodel"
)

const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "mistral"
	defaultTimeout = 2 * time.Minute
)

// Config describes the Ollama chat model. Zero values pick defaults.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL = strings.TrimSpace(c.BaseURL); c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model = strings.TrimSpace(c.Model); c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// NewGenerator connects to the Ollama server at cfg.BaseURL. No request is
// made until the first generation.
func NewGenerator(ctx context.Context, cfg Config, logger *zap.Logger) (*chatmodel.Generator, error) {
	cfg = cfg.withDefaults()

	chat, err := ollama.NewChatModel(ctx, &ollama.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create ollama chat model: %w", err)
	}

	return chatmodel.New(chat, "ollama", cfg.Model, logger), nil
}
