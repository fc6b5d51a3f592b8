package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talentscout/internal/ai"
	"github.com/spigell/talentscout/internal/ai/ark"
	"github.com/spigell/talentscout/internal/ai/gemini"
	"github.com/spigell/talentscout/internal/ai/ollama"
	"github.com/spigell/talentscout/internal/conversation"
	"github.com/spigell/talentscout/internal/interview"
	appLogger "github.com/spigell/talentscout/internal/logger"
	"github.com/spigell/talentscout/internal/secrets"
	"github.com/spigell/talentscout/internal/sentiment"
	"github.com/spigell/talentscout/internal/translate"
)

const rateLimitBurst = 3

// setup builds the logger and reads the config; any failure here is fatal.
func setup() (*zap.Logger, *Config) {
	logger, err := appLogger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	zap.ReplaceGlobals(logger)

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the talentscout", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	return logger, config
}

func redacted(config *Config) Config {
	out := *config
	if config.AI == nil {
		return out
	}

	aiCfg := *config.AI
	if aiCfg.Gemini != nil && aiCfg.Gemini.APIKey != "" {
		g := *aiCfg.Gemini
		g.APIKey = "***"
		aiCfg.Gemini = &g
	}
	if aiCfg.Ark != nil && aiCfg.Ark.APIKey != "" {
		a := *aiCfg.Ark
		a.APIKey = "***"
		aiCfg.Ark = &a
	}
	out.AI = &aiCfg
	return out
}

// newGenerator connects the configured language model provider.
func newGenerator(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Generator, error) {
	var (
		gen ai.Generator
		err error
	)

	switch cfg.Provider {
	case "none":
		return ai.Unavailable{}, nil
	case "gemini", "":
		gen, err = newGemini(ctx, cfg.Gemini, logger)
	case "ark":
		gen, err = newArk(ctx, cfg.Ark, logger)
	case "ollama":
		gen, err = newOllama(ctx, cfg.Ollama, logger)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	return ai.NewRateLimited(gen, cfg.RequestsPerMinute, rateLimitBurst), nil
}

func newGemini(ctx context.Context, cfg *GeminiConfig, logger *zap.Logger) (ai.Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ai.gemini section is required for the gemini provider")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:           "gemini api key",
		Value:          cfg.APIKey,
		File:           cfg.APIKeyFile,
		KeyringAccount: cfg.KeyringAccount,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file, TALENTSCOUT_AI_GEMINI_API_KEY or run `%s secret set %s`)", err, app, cfg.KeyringAccount)
	}

	genLogger := appLogger.WithCommonFields(logger, "gemini", cfg.Model).With(zap.Int("ai_retry_attempts", cfg.MaxRetries))
	return gemini.NewGenerator(ctx, apiKey, cfg.Model, cfg.MaxRetries, genLogger)
}

func newArk(ctx context.Context, cfg *ArkConfig, logger *zap.Logger) (ai.Generator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("ai.ark section is required for the ark provider")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:           "ark api key",
		Value:          cfg.APIKey,
		File:           cfg.APIKeyFile,
		KeyringAccount: cfg.KeyringAccount,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.ark.api-key-file, TALENTSCOUT_AI_ARK_API_KEY or run `%s secret set %s`)", err, app, cfg.KeyringAccount)
	}

	gen, err := ark.NewGenerator(ctx, ark.Config{
		APIKey:      apiKey,
		Model:       cfg.Model,
		BaseURL:     cfg.BaseURL,
		Region:      cfg.Region,
		Temperature: cfg.Temperature,
	}, appLogger.WithCommonFields(logger, "ark", cfg.Model))
	if err != nil {
		return nil, err
	}

	return gen, nil
}

func newOllama(ctx context.Context, cfg *OllamaConfig, logger *zap.Logger) (ai.Generator, error) {
	if cfg == nil {
		cfg = &OllamaConfig{}
	}

	gen, err := ollama.NewGenerator(ctx, ollama.Config{
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	}, appLogger.WithCommonFields(logger, "ollama", cfg.Model))
	if err != nil {
		return nil, err
	}

	return gen, nil
}

// buildMachine wires the conversation collaborators. Without a working
// language model the conversation still runs on fallback questions.
func buildMachine(ctx context.Context, config *Config, logger *zap.Logger) *conversation.Machine {
	gen, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Warn("continuing without language model", zap.Error(err),
			zap.String("hint", "questions and follow-ups fall back to generic texts"))
		gen = ai.Unavailable{}
	}

	questions := interview.New(gen, appLogger.WithCommonFields(logger, config.AI.Provider, gen.Model()), interview.Options{
		MaxQuestions: config.AI.MaxQuestions,
		MaxLogLength: config.AI.MaxLogLength,
	})

	return conversation.NewMachine(questions, questions, sentiment.New(), logger,
		conversation.WithTranslator(translate.NewLLM(gen, logger, translate.WithCached(conversation.FixedMessages()...))),
	)
}
