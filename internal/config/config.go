package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// APIKeyEnv is the fixed secret name the completion provider key is read from.
const APIKeyEnv = "OPENROUTER_API_KEY"

type Config struct {
	HTTP struct {
		Addr string
	}
	Session struct {
		Store    string // memory, redis, sqlite3, mysql or postgres
		Lifetime time.Duration
	}
	DB struct {
		Driver string
		DSN    string
	}
	Redis struct {
		Addr     string
		Password string
		DB       int
	}
	Log struct {
		Level       string
		Development bool
	}
	LLM struct {
		Provider    string
		BaseURL     string
		Model       string
		APIKey      string
		Referer     string
		Title       string
		MaxTokens   int
		Temperature float64
		Timeout     time.Duration
	}
	Prompt struct {
		Variant  string
		Template string
	}
	InsecureCookies bool
}

// SQLStore reports whether sessions are kept in a SQL database.
func (c *Config) SQLStore() bool {
	switch c.Session.Store {
	case "sqlite3", "mysql", "postgres":
		return true
	}
	return false
}

// Load reads config from environment (PG_ prefix), an optional .env file and an
// optional prompt-generator.yaml. A missing API key is not an error: the web
// page reports it to the user instead.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env

	v := viper.New()
	v.SetEnvPrefix("PG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("prompt-generator")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	_ = v.BindEnv("llm.api_key", APIKeyEnv, "PG_LLM_API_KEY")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("session.store", "memory")
	v.SetDefault("session.lifetime", "24h")
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("log.level", "info")
	v.SetDefault("llm.provider", "openrouter")
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.referer", "https://prompt-generator.local")
	v.SetDefault("llm.title", "Prompt Generator")
	v.SetDefault("prompt.variant", "structured")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.Session.Store = strings.ToLower(v.GetString("session.store"))
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Redis.Addr = v.GetString("redis.addr")
	cfg.Redis.Password = v.GetString("redis.password")
	cfg.Redis.DB = v.GetInt("redis.db")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Development = v.GetBool("log.development")
	cfg.LLM.Provider = strings.ToLower(v.GetString("llm.provider"))
	cfg.LLM.BaseURL = v.GetString("llm.base_url")
	cfg.LLM.Model = v.GetString("llm.model")
	cfg.LLM.APIKey = strings.TrimSpace(v.GetString("llm.api_key"))
	cfg.LLM.Referer = v.GetString("llm.referer")
	cfg.LLM.Title = v.GetString("llm.title")
	cfg.LLM.MaxTokens = v.GetInt("llm.max_tokens")
	cfg.LLM.Temperature = v.GetFloat64("llm.temperature")
	cfg.Prompt.Variant = strings.ToLower(v.GetString("prompt.variant"))
	cfg.Prompt.Template = v.GetString("prompt.template")
	cfg.InsecureCookies = v.GetBool("insecure_cookies")

	lifetime, err := time.ParseDuration(v.GetString("session.lifetime"))
	if err != nil {
		return nil, fmt.Errorf("invalid PG_SESSION_LIFETIME: %w", err)
	}
	cfg.Session.Lifetime = lifetime

	timeout, err := time.ParseDuration(v.GetString("llm.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid PG_LLM_TIMEOUT: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("PG_LLM_TIMEOUT must be positive, got %s", timeout)
	}
	cfg.LLM.Timeout = timeout

	switch cfg.Session.Store {
	case "memory", "redis":
	case "sqlite3", "mysql", "postgres":
		cfg.DB.Driver = cfg.Session.Store
		if cfg.DB.DSN == "" {
			return nil, fmt.Errorf("PG_DB_DSN is required when PG_SESSION_STORE is %s", cfg.Session.Store)
		}
	default:
		return nil, fmt.Errorf("unsupported PG_SESSION_STORE %q (memory, redis, sqlite3, mysql, postgres)", cfg.Session.Store)
	}

	switch cfg.Prompt.Variant {
	case "structured", "classic":
	default:
		return nil, fmt.Errorf("unsupported PG_PROMPT_VARIANT %q (structured, classic)", cfg.Prompt.Variant)
	}

	switch cfg.LLM.Provider {
	case "openrouter", "openai", "openai-compatible", "anthropic":
	default:
		return nil, fmt.Errorf("unsupported PG_LLM_PROVIDER %q (openrouter, openai, anthropic)", cfg.LLM.Provider)
	}

	if cfg.LLM.MaxTokens <= 0 {
		return nil, fmt.Errorf("PG_LLM_MAX_TOKENS must be positive, got %d", cfg.LLM.MaxTokens)
	}

	return cfg, nil
}
