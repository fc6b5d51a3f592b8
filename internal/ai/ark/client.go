package ark

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai/chatmodel"
)

const defaultBaseURL = "https://ark.cn-beijing.volces.com/api/v3"

// Config describes the Volcengine Ark chat model.
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
}

// NewGenerator builds an Ark chat model from cfg.
func NewGenerator(ctx context.Context, cfg Config, logger *zap.Logger) (*chatmodel.Generator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("ark api key is required")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return nil, errors.New("ark model is required")
	}

	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	var temperature *float32
	if cfg.Temperature != nil {
		val := float32(*cfg.Temperature)
		temperature = &val
	}

	chat, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     baseURL,
		Region:      cfg.Region,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("create ark chat model: %w", err)
	}

	return chatmodel.New(chat, "ark", cfg.Model, logger), nil
}
