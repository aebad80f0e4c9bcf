package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting of the triage service. Values come from a .env
// file in the working directory and the process environment, the latter winning.
type Config struct {
	Port      string `mapstructure:"PORT"`
	Env       string `mapstructure:"ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	AIModelType      string `mapstructure:"AI_MODEL_TYPE"`
	AIModelAPIKey    string `mapstructure:"AI_MODEL_API_KEY"`
	AIModelEndpoint  string `mapstructure:"AI_MODEL_ENDPOINT"`
	AIModelName      string `mapstructure:"AI_MODEL_NAME"`
	GeminiAPIKey     string `mapstructure:"GEMINI_API_KEY"`
	AITimeoutSeconds int    `mapstructure:"AI_TIMEOUT_SECONDS"`

	RuleLatencyMinMS int `mapstructure:"RULE_LATENCY_MIN_MS"`
	RuleLatencyMaxMS int `mapstructure:"RULE_LATENCY_MAX_MS"`

	RemoteAPIURL         string `mapstructure:"REMOTE_API_URL"`
	PollIntervalSeconds  int    `mapstructure:"POLL_INTERVAL_SECONDS"`
	RemoteTimeoutSeconds int    `mapstructure:"REMOTE_TIMEOUT_SECONDS"`

	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisDB            int    `mapstructure:"REDIS_DB"`
	SnapshotTTLSeconds int    `mapstructure:"SNAPSHOT_TTL_SECONDS"`

	CORSOrigins   []string `mapstructure:"CORS_ORIGINS"`
	AdmitOnIntake bool     `mapstructure:"ADMIT_ON_INTAKE"`
}

// Load reads the configuration from .env and the environment
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile is Load with an explicit env file path. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
	v.SetDefault("AI_MODEL_TYPE", "gemini")
	v.SetDefault("AI_TIMEOUT_SECONDS", 10)
	v.SetDefault("RULE_LATENCY_MIN_MS", 800)
	v.SetDefault("RULE_LATENCY_MAX_MS", 1800)
	v.SetDefault("POLL_INTERVAL_SECONDS", 5)
	v.SetDefault("REMOTE_TIMEOUT_SECONDS", 5)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SNAPSHOT_TTL_SECONDS", 3600)
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("ADMIT_ON_INTAKE", true)

	// Unmarshal only sees keys viper knows about
	for _, key := range []string{
		"PORT", "ENV", "LOG_LEVEL", "LOG_FORMAT",
		"AI_MODEL_TYPE", "AI_MODEL_API_KEY", "AI_MODEL_ENDPOINT", "AI_MODEL_NAME",
		"AI_TIMEOUT_SECONDS", "RULE_LATENCY_MIN_MS", "RULE_LATENCY_MAX_MS",
		"REMOTE_API_URL", "POLL_INTERVAL_SECONDS", "REMOTE_TIMEOUT_SECONDS",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "SNAPSHOT_TTL_SECONDS",
		"CORS_ORIGINS", "ADMIT_ON_INTAKE",
	} {
		_ = v.BindEnv(key)
	}
	// the front-end build exposed the key as VITE_GEMINI_API_KEY
	_ = v.BindEnv("GEMINI_API_KEY", "GEMINI_API_KEY", "VITE_GEMINI_API_KEY")

	// Try reading the env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if len(cfg.CORSOrigins) == 1 && strings.Contains(cfg.CORSOrigins[0], ",") {
		cfg.CORSOrigins = strings.Split(cfg.CORSOrigins[0], ",")
	}
	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	return cfg, nil
}

// IsDev reports whether the service runs in development mode
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// ModelAPIKey returns the key for the configured LLM, preferring AI_MODEL_API_KEY.
// An empty result means no model is configured and triage runs on rules alone.
func (c *Config) ModelAPIKey() string {
	if c.AIModelAPIKey != "" {
		return c.AIModelAPIKey
	}
	if strings.EqualFold(c.AIModelType, "gemini") || c.AIModelType == "" {
		return c.GeminiAPIKey
	}
	return ""
}

// AITimeout is the deadline applied to a single LLM call
func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AITimeoutSeconds) * time.Second
}

// RuleLatency returns the bounds of the simulated delay before a rule-based result
func (c *Config) RuleLatency() (time.Duration, time.Duration) {
	return time.Duration(c.RuleLatencyMinMS) * time.Millisecond,
		time.Duration(c.RuleLatencyMaxMS) * time.Millisecond
}

// PollInterval is the dashboard refresh period
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// RemoteTimeout bounds a single call to the remote service
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.RemoteTimeoutSeconds) * time.Second
}

// SnapshotTTL is how long a cached dashboard snapshot stays valid
func (c *Config) SnapshotTTL() time.Duration {
	return time.Duration(c.SnapshotTTLSeconds) * time.Second
}

// Validate rejects settings the service cannot run with
func (c *Config) Validate() error {
	switch strings.ToLower(c.AIModelType) {
	case "", "gemini", "claude", "anthropic", "gpt4", "openai":
	default:
		return fmt.Errorf("AI_MODEL_TYPE must be one of gemini, claude or gpt4, got %q", c.AIModelType)
	}
	if c.AITimeoutSeconds <= 0 {
		return fmt.Errorf("AI_TIMEOUT_SECONDS must be positive, got %d", c.AITimeoutSeconds)
	}
	if c.RuleLatencyMinMS < 0 || c.RuleLatencyMaxMS < c.RuleLatencyMinMS {
		return fmt.Errorf("rule latency bounds are invalid: min %dms, max %dms",
			c.RuleLatencyMinMS, c.RuleLatencyMaxMS)
	}
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("POLL_INTERVAL_SECONDS must be positive, got %d", c.PollIntervalSeconds)
	}
	if c.RemoteTimeoutSeconds <= 0 {
		return fmt.Errorf("REMOTE_TIMEOUT_SECONDS must be positive, got %d", c.RemoteTimeoutSeconds)
	}
	if c.RemoteAPIURL != "" && !strings.HasPrefix(c.RemoteAPIURL, "http://") &&
		!strings.HasPrefix(c.RemoteAPIURL, "https://") {
		return fmt.Errorf("REMOTE_API_URL must be an http(s) URL, got %q", c.RemoteAPIURL)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("REDIS_DB must not be negative, got %d", c.RedisDB)
	}
	if c.RedisAddr != "" && c.SnapshotTTLSeconds <= 0 {
		return fmt.Errorf("SNAPSHOT_TTL_SECONDS must be positive when REDIS_ADDR is set")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be \"json\" or \"console\", got %q", c.LogFormat)
	}
	return nil
}
