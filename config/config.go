// Package config loads process configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the process.
type Config struct {
	Port            string        `mapstructure:"PORT"`
	WebPort         string        `mapstructure:"WEB_PORT"`
	WebEnabled      bool          `mapstructure:"WEB_ENABLED"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	DBDriver    string `mapstructure:"DB_DRIVER"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBName      string `mapstructure:"DB_NAME"`

	APIBaseURL  string `mapstructure:"API_BASE_URL"`
	RedirectURL string `mapstructure:"REDIRECT_URL"`

	// StaticDir, when set, is served by the web listener for any path the
	// sign-up screens do not handle (e.g. the post-subscribe destination).
	StaticDir string `mapstructure:"STATIC_DIR"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	SMTPHost string `mapstructure:"SMTP_HOST"`
	SMTPPort string `mapstructure:"SMTP_PORT"`
	SMTPUser string `mapstructure:"SMTP_USER"`
	SMTPPass string `mapstructure:"SMTP_PASS"`
	SMTPFrom string `mapstructure:"SMTP_FROM"`
}

var keys = []string{
	"PORT", "WEB_PORT", "WEB_ENABLED", "SHUTDOWN_TIMEOUT",
	"DB_DRIVER", "DATABASE_URL", "DB_USER", "DB_PASSWORD", "DB_HOST", "DB_PORT", "DB_NAME",
	"API_BASE_URL", "REDIRECT_URL", "STATIC_DIR",
	"LOG_LEVEL", "LOG_FORMAT",
	"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_FROM",
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			slog.Debug("loaded env file", "path", f)
		}
	}

	v := viper.New()
	v.SetDefault("PORT", "5050")
	v.SetDefault("WEB_PORT", "3001")
	v.SetDefault("WEB_ENABLED", true)
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "127.0.0.1")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_NAME", "signup")
	v.SetDefault("API_BASE_URL", "http://localhost:5050")
	v.SetDefault("REDIRECT_URL", "/strangerthings/index.html")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.AutomaticEnv()

	// Unmarshal only sees keys viper already knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "mysql":
		if c.DatabaseURL == "" && c.DBUser == "" {
			return fmt.Errorf("DATABASE_URL or DB_USER is required for the mysql driver")
		}
	case "sqlite3":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the sqlite3 driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	return nil
}

// APIAddr is the listen address of the subscription API.
func (c *Config) APIAddr() string { return ":" + c.Port }

// WebAddr is the listen address of the sign-up web client.
func (c *Config) WebAddr() string { return ":" + c.WebPort }

// SMTPEnabled reports whether every SMTP setting needed to send mail is present.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPPort != "" && c.SMTPUser != "" && c.SMTPPass != ""
}
