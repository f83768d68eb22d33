package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads,
// e.g. TASKS_SERVER_PORT or TASKS_DATABASE_URL.
const EnvPrefix = "TASKS"

// defaults lists every key the loader knows about. Registering each key is what
// lets viper resolve it from the environment during Unmarshal.
var defaults = map[string]any{
	"server.port":                     8080,
	"server.log_level":                "info",
	"server.shutdown_timeout_seconds": 10,

	"database.driver":         DriverPostgres,
	"database.url":            "",
	"database.max_open_conns": 10,
	"database.max_idle_conns": 5,

	"cache.backend":             CacheBackendMemory,
	"cache.capacity":            10000,
	"cache.num_shards":          64,
	"cache.ttl_minutes":         60,
	"cache.eviction_percentage": 10,

	"notify.enabled":               false,
	"notify.provider":              NotifyProviderLog,
	"notify.admin_email":           "",
	"notify.from":                  "",
	"notify.queue_size":            100,
	"notify.worker_count":          2,
	"notify.send_timeout_seconds":  10,
	"notify.smtp.host":             "",
	"notify.smtp.port":             587,
	"notify.smtp.username":         "",
	"notify.smtp.password":         "",
	"notify.smtp.use_tls":          false,
	"notify.ses.region":            "us-east-1",
	"notify.ses.profile":           "",
	"notify.ses.configuration_set": "",
}

// Load configuration from environment variables and an optional config.yaml
// in the working directory. Environment variables take precedence over values
// from config files. Returns a populated Config struct or an error if
// loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile behaves like Load but reads the given config file instead of
// searching the working directory. An empty path falls back to the search.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct-level validation plus the cross-field rules that tags
// cannot express cleanly.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Notify.Enabled && c.Notify.Provider != NotifyProviderLog {
		if c.Notify.AdminEmail == "" {
			return fmt.Errorf("config validation failed: notify.admin_email is required when notifications are enabled")
		}
		if c.Notify.From == "" {
			return fmt.Errorf("config validation failed: notify.from is required for provider %q", c.Notify.Provider)
		}
	}

	if c.Notify.Enabled && c.Notify.Provider == NotifyProviderSMTP && c.Notify.SMTP.Host == "" {
		return fmt.Errorf("config validation failed: notify.smtp.host is required for the smtp provider")
	}

	if c.Notify.Enabled && c.Notify.Provider == NotifyProviderSES && c.Notify.SES.Region == "" {
		return fmt.Errorf("config validation failed: notify.ses.region is required for the ses provider")
	}

	return nil
}
