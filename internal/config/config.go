package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App     AppConfig
	Mongo   MongoConfig
	Session SessionConfig
	Redis   RedisConfig
	SMTP    SMTPConfig
	Login   LoginLimitConfig
}

type AppConfig struct {
	Port        string
	Env         string
	LogLevel    string
	CORSOrigins []string

	// TrustedProxies lists the proxy addresses or CIDRs whose forwarding
	// headers are honoured. Empty means the TCP peer is the client.
	TrustedProxies []string
}

type MongoConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

// RedisConfig is optional. An empty URL keeps session revocations in process.
type RedisConfig struct {
	URL string
}

// SMTPConfig is optional. An empty host disables appointment emails.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type LoginLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads the optional .env file into the process environment and then
// resolves every key through viper, falling back to defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("API_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ORIGINS", "http://localhost:8080")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("MONGO_DATABASE", "simple-ehr")
	v.SetDefault("MONGO_TIMEOUT", "5s")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("LOGIN_RATE_RPS", 1.0)
	v.SetDefault("LOGIN_RATE_BURST", 5)

	cfg := &Config{
		App: AppConfig{
			Port:           v.GetString("API_PORT"),
			Env:            v.GetString("APP_ENV"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			CORSOrigins:    splitList(v.GetString("CORS_ORIGINS")),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
		Mongo: MongoConfig{
			URI:      v.GetString("MONGO_URI"),
			Database: v.GetString("MONGO_DATABASE"),
			Timeout:  parseDuration(v.GetString("MONGO_TIMEOUT"), 5*time.Second),
		},
		Session: SessionConfig{
			Secret: v.GetString("SESSION_SECRET"),
			TTL:    parseDuration(v.GetString("SESSION_TTL"), 24*time.Hour),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("MAIL_FROM"),
		},
		Login: LoginLimitConfig{
			RequestsPerSecond: v.GetFloat64("LOGIN_RATE_RPS"),
			Burst:             v.GetInt("LOGIN_RATE_BURST"),
		},
	}

	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.Session.Secret == "" {
		if !c.IsDev() {
			return fmt.Errorf("SESSION_SECRET is required when APP_ENV=%s", c.App.Env)
		}
		c.Session.Secret = "development-only-secret"
	}
	return nil
}

func (c *Config) IsDev() bool {
	return c.App.Env == "development"
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
