package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultOpenAICompatibleBaseURL is Gemini's OpenAI-compatible gateway.
const DefaultOpenAICompatibleBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// Supported llm.provider values.
const (
	ProviderOllama           = "ollama"
	ProviderOpenAI           = "openai"
	ProviderOpenAICompatible = "openai-compatible"
	ProviderGemini           = "gemini"
	ProviderAnthropic        = "anthropic"
)

type Config struct {
	Env     string
	Server  ServerConfig
	Logger  LoggerConfig
	LLM     LLMConfig
	Quiz    QuizConfig
	Redis   RedisConfig
	DB      DBConfig
	Auth    AuthConfig
	History HistoryConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Env   string
	Level string
}

type LLMConfig struct {
	Provider    string
	Model       string
	ServerURL   string // ollama
	BaseURL     string // openai-compatible / anthropic override
	APIKey      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type QuizConfig struct {
	MaxQuestions int
	// Seed makes option shuffling and truncation reproducible. 0 seeds from the clock.
	Seed       uint64
	SessionTTL time.Duration
	ReviewTTL  time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type DBConfig struct {
	Driver   string // sqlite3, postgres or oracle
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

type AuthConfig struct {
	Secret   string
	TokenTTL time.Duration
}

type HistoryConfig struct {
	Retention     time.Duration
	PurgeInterval time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "20s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("logger.env", "development")
	v.SetDefault("logger.level", "info")
	v.SetDefault("llm.provider", ProviderOpenAICompatible)
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.server_url", "http://localhost:11434")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("quiz.max_questions", 50)
	v.SetDefault("quiz.seed", 0)
	v.SetDefault("quiz.session_ttl", "24h")
	v.SetDefault("quiz.review_ttl", "24h")
	v.SetDefault("redis.db", 0)
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "file:quizbot.db?_foreign_keys=on")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("history.retention", "720h")
	v.SetDefault("history.purge_interval", "1h")
}

// LoadConfig reads .env, config.yaml and the environment, in increasing priority.
// A missing config file is not an error; every key has a default.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	cfg := fromViper(v)

	// Provider API keys under their conventional names, as the SDKs document them.
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = providerKeyFromEnv(cfg.LLM.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Env: v.GetString("env"),
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Logger: LoggerConfig{
			Env:   v.GetString("logger.env"),
			Level: v.GetString("logger.level"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			Model:       v.GetString("llm.model"),
			ServerURL:   v.GetString("llm.server_url"),
			BaseURL:     v.GetString("llm.base_url"),
			APIKey:      v.GetString("llm.api_key"),
			Temperature: v.GetFloat64("llm.temperature"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
			Timeout:     v.GetDuration("llm.timeout"),
		},
		Quiz: QuizConfig{
			MaxQuestions: v.GetInt("quiz.max_questions"),
			Seed:         v.GetUint64("quiz.seed"),
			SessionTTL:   v.GetDuration("quiz.session_ttl"),
			ReviewTTL:    v.GetDuration("quiz.review_ttl"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		DB: DBConfig{
			Driver:   v.GetString("db.driver"),
			DSN:      v.GetString("db.dsn"),
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			DBName:   v.GetString("db.name"),
		},
		Auth: AuthConfig{
			Secret:   v.GetString("auth.secret"),
			TokenTTL: v.GetDuration("auth.token_ttl"),
		},
		History: HistoryConfig{
			Retention:     v.GetDuration("history.retention"),
			PurgeInterval: v.GetDuration("history.purge_interval"),
		},
	}
}

func providerKeyFromEnv(provider string) string {
	switch provider {
	case ProviderOpenAI:
		return os.Getenv("OPENAI_API_KEY")
	case ProviderGemini, ProviderOpenAICompatible:
		return os.Getenv("GEMINI_API_KEY")
	case ProviderAnthropic:
		return os.Getenv("ANTHROPIC_API_KEY")
	default:
		return ""
	}
}

// Validate rejects configurations the services cannot start with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOllama, ProviderOpenAI, ProviderOpenAICompatible, ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("unsupported llm.provider %q", c.LLM.Provider)
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model is required")
	}
	if c.Quiz.MaxQuestions < 1 {
		return fmt.Errorf("quiz.max_questions must be positive, got %d", c.Quiz.MaxQuestions)
	}
	switch c.DB.Driver {
	case "sqlite3", "postgres", "oracle":
	default:
		return fmt.Errorf("unsupported db.driver %q", c.DB.Driver)
	}
	return nil
}

// GetDSN returns the driver connection string, building the Oracle URL from parts
// when no explicit DSN is configured.
func (c *Config) GetDSN() string {
	if c.DB.Driver == "oracle" && c.DB.Host != "" {
		return fmt.Sprintf("oracle://%s:%s@%s:%d/%s",
			c.DB.User,
			c.DB.Password,
			c.DB.Host,
			c.DB.Port,
			c.DB.DBName,
		)
	}
	return c.DB.DSN
}
