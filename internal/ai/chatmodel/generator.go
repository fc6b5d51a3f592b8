// Package chatmodel adapts eino chat models to ai.Generator.
package chatmodel

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
)

// Generator sends a system and a user message to an eino chat model.
type Generator struct {
	chat     model.BaseChatModel
	provider string
	model    string
	logger   *zap.Logger
}

var _ ai.Generator = (*Generator)(nil)

func New(chat model.BaseChatModel, provider, modelName string, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{chat: chat, provider: provider, model: modelName, logger: logger}
}

func (g *Generator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", errors.New("message must not be empty")
	}

	input := make([]*schema.Message, 0, 2)
	if system = strings.TrimSpace(system); system != "" {
		input = append(input, schema.SystemMessage(system))
	}
	input = append(input, schema.UserMessage(message))

	resp, err := g.chat.Generate(ctx, input)
	if err != nil {
		return "", ai.AsFailure(g.provider, err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ai.Failf(ai.FailureEmpty, g.provider, "model returned empty response")
	}

	g.logger.Debug(g.provider+" response received", zap.Int("response_length", len(resp.Content)))
	return strings.TrimSpace(resp.Content), nil
}

func (g *Generator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
