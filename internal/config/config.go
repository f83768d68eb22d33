package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
	Notify   NotifyConfig   `mapstructure:"notify"   validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error fatal"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// ShutdownTimeout returns the graceful shutdown window as a duration.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Database drivers understood by the application.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"         validate:"required,oneof=postgres sqlite"`
	URL          string `mapstructure:"url"            validate:"required"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// Cache backends understood by the application.
const (
	CacheBackendMemory   = "memory"
	CacheBackendSturdyc  = "sturdyc"
	CacheBackendDisabled = "disabled"
)

// CacheConfig selects and tunes the response cache.
// Capacity, NumShards, TTLMinutes and EvictionPercentage only apply to the sturdyc backend.
type CacheConfig struct {
	Backend            string `mapstructure:"backend"             validate:"required,oneof=memory sturdyc disabled"`
	Capacity           int    `mapstructure:"capacity"            validate:"gt=0"`
	NumShards          int    `mapstructure:"num_shards"          validate:"gt=0"`
	TTLMinutes         int    `mapstructure:"ttl_minutes"         validate:"gt=0"`
	EvictionPercentage int    `mapstructure:"eviction_percentage" validate:"min=1,max=100"`
}

// TTL returns the sturdyc entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// Notification providers understood by the application.
const (
	NotifyProviderLog  = "log"
	NotifyProviderSMTP = "smtp"
	NotifyProviderSES  = "ses"
)

// NotifyConfig controls the task-created email notification.
type NotifyConfig struct {
	Enabled            bool       `mapstructure:"enabled"`
	Provider           string     `mapstructure:"provider"             validate:"required,oneof=log smtp ses"`
	AdminEmail         string     `mapstructure:"admin_email"          validate:"omitempty,email"`
	From               string     `mapstructure:"from"                 validate:"omitempty,email"`
	QueueSize          int        `mapstructure:"queue_size"           validate:"gt=0"`
	WorkerCount        int        `mapstructure:"worker_count"         validate:"gt=0"`
	SendTimeoutSeconds int        `mapstructure:"send_timeout_seconds" validate:"gt=0"`
	SMTP               SMTPConfig `mapstructure:"smtp"`
	SES                SESConfig  `mapstructure:"ses"`
}

// SendTimeout returns the per-notification deadline as a duration.
func (c NotifyConfig) SendTimeout() time.Duration {
	return time.Duration(c.SendTimeoutSeconds) * time.Second
}

// SMTPConfig holds SMTP relay settings.
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"     validate:"omitempty,gt=0,lt=65536"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	UseTLS   bool   `mapstructure:"use_tls"`
}

// SESConfig holds AWS SES settings.
type SESConfig struct {
	Region           string `mapstructure:"region"`
	Profile          string `mapstructure:"profile"`
	ConfigurationSet string `mapstructure:"configuration_set"`
}
