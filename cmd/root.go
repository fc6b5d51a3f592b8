package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "talentscout"
	envPrefix = "TALENTSCOUT"
)

type Config struct {
	AI        *AIConfig     `mapstructure:"ai" validate:"required"`
	Language  string        `mapstructure:"language" validate:"omitempty,oneof=en fr es de hi"`
	Server    *ServerConfig `mapstructure:"server" validate:"required"`
	ReportDir string        `mapstructure:"report-dir"`
}

type AIConfig struct {
	Provider          string        `mapstructure:"provider" validate:"oneof=gemini ark ollama none"`
	MaxQuestions      int           `mapstructure:"max-questions" validate:"min=1,max=5"`
	RequestsPerMinute float64       `mapstructure:"requests-per-minute" validate:"gte=0"`
	MaxLogLength      int           `mapstructure:"max-log-length" validate:"gte=0"`
	Gemini            *GeminiConfig `mapstructure:"gemini"`
	Ark               *ArkConfig    `mapstructure:"ark"`
	Ollama            *OllamaConfig `mapstructure:"ollama"`
}

type GeminiConfig struct {
	APIKey         string `mapstructure:"api-key"`
	APIKeyFile     string `mapstructure:"api-key-file"`
	KeyringAccount string `mapstructure:"keyring-account"`
	Model          string `mapstructure:"model"`
	MaxRetries     int    `mapstructure:"max-retries" validate:"gte=0"`
}

type ArkConfig struct {
	APIKey         string   `mapstructure:"api-key"`
	APIKeyFile     string   `mapstructure:"api-key-file"`
	KeyringAccount string   `mapstructure:"keyring-account"`
	Model          string   `mapstructure:"model"`
	BaseURL        string   `mapstructure:"base-url" validate:"omitempty,url"`
	Region         string   `mapstructure:"region"`
	Temperature    *float64 `mapstructure:"temperature" validate:"omitempty,gte=0,lte=2"`
}

type OllamaConfig struct {
	BaseURL string        `mapstructure:"base-url" validate:"omitempty,url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gte=0"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" validate:"required"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "talentscout is a hiring assistant that screens candidates in a chat",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is talentscout.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

// setDefaults registers every key so environment overrides reach Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("language", "")
	v.SetDefault("report-dir", "")
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("ai.provider", "gemini")
	v.SetDefault("ai.max-questions", 5)
	v.SetDefault("ai.requests-per-minute", 30)
	v.SetDefault("ai.max-log-length", 200)

	v.SetDefault("ai.gemini.api-key", "")
	v.SetDefault("ai.gemini.api-key-file", "")
	v.SetDefault("ai.gemini.keyring-account", "gemini")
	v.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	v.SetDefault("ai.gemini.max-retries", 3)

	v.SetDefault("ai.ark.api-key", "")
	v.SetDefault("ai.ark.api-key-file", "")
	v.SetDefault("ai.ark.keyring-account", "ark")
	v.SetDefault("ai.ark.model", "")
	v.SetDefault("ai.ark.base-url", "")
	v.SetDefault("ai.ark.region", "")

	v.SetDefault("ai.ollama.base-url", "http://localhost:11434")
	v.SetDefault("ai.ollama.model", "mistral")
	v.SetDefault("ai.ollama.timeout", "2m")
}

func initConfig() {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	// no default exists for an unset temperature
	viper.BindEnv("ai.ark.temperature")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// We can't proceed if the given config file is missing or parsed with error.
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	return decodeConfig(viper.GetViper())
}

func decodeConfig(v *viper.Viper) (*Config, error) {
	var config *Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("config is empty")
	}

	if config.AI != nil {
		config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))
	}
	config.Language = strings.ToLower(strings.TrimSpace(config.Language))

	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(config); err != nil {
		return nil, err
	}
	return config, nil
}
