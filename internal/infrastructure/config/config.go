package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ServerAddress   string        `mapstructure:"server_address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	DatabasePath    string        `mapstructure:"database_path"`

	// QuestionBankPath overrides the embedded bank when set.
	QuestionBankPath string `mapstructure:"question_bank_path"`

	LLM     LLMConfig     `mapstructure:"llm"`
	Grading GradingConfig `mapstructure:"grading"`

	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// LLMConfig points at an OpenAI-compatible endpoint: OpenAI itself, Ollama
// or LM Studio.
type LLMConfig struct {
	APIKey  string        `mapstructure:"api_key"`
	BaseURL string        `mapstructure:"base_url"` // empty means api.openai.com
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type GradingConfig struct {
	ChunkSize int `mapstructure:"chunk_size"`
	Workers   int `mapstructure:"workers"`
}

var envBindings = map[string]string{
	"server_address":       "SERVER_ADDRESS",
	"shutdown_timeout":     "SHUTDOWN_TIMEOUT",
	"database_path":        "DATABASE_PATH",
	"question_bank_path":   "QUESTION_BANK_PATH",
	"llm.api_key":          "LLM_API_KEY",
	"llm.base_url":         "LLM_BASE_URL",
	"llm.model":            "LLM_MODEL",
	"llm.timeout":          "LLM_TIMEOUT",
	"grading.chunk_size":   "GRADING_CHUNK_SIZE",
	"grading.workers":      "GRADING_WORKERS",
	"cors_allowed_origins": "CORS_ALLOWED_ORIGINS",
}

// Load reads configuration from the environment, after loading a .env file
// if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("server_address", ":8080")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("database_path", "civics.db")
	v.SetDefault("question_bank_path", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.timeout", "120s")
	v.SetDefault("grading.chunk_size", 50)
	v.SetDefault("grading.workers", 1)
	v.SetDefault("cors_allowed_origins", []string{"*"})

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", env, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unable to decode: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.ServerAddress == "" {
		errs = append(errs, errors.New("SERVER_ADDRESS is empty"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout))
	}
	if c.LLM.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("LLM_TIMEOUT must be positive, got %s", c.LLM.Timeout))
	}
	if c.Grading.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("GRADING_CHUNK_SIZE must be > 0, got %d", c.Grading.ChunkSize))
	}
	if c.Grading.Workers < 1 {
		errs = append(errs, fmt.Errorf("GRADING_WORKERS must be >= 1, got %d", c.Grading.Workers))
	}
	return errors.Join(errs...)
}
