package config

import (
	"fmt"
	"time"
)

// Config holds the application's configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Vault      VaultConfig      `mapstructure:"vault"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Log        LogConfig        `mapstructure:"log"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // in minutes
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode)
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// AuthConfig configures token issuance and validation. SigningSecret is the
// process-wide key; it is loaded once at startup (from here or from Vault)
// and injected into the codec, never read as an ambient global. ClockLeeway
// is the explicit skew tolerance applied during expiry checks.
type AuthConfig struct {
	SigningSecret string        `mapstructure:"signing_secret"`
	TokenTTL      time.Duration `mapstructure:"token_ttl"`
	ClockLeeway   time.Duration `mapstructure:"clock_leeway"`
}

type VaultConfig struct {
	Address    string `mapstructure:"address"`
	Token      string `mapstructure:"token"`
	MountPath  string `mapstructure:"mount_path"`
	SecretPath string `mapstructure:"secret_path"`
}

type KafkaConfig struct {
	Brokers      []string      `mapstructure:"brokers"`
	AuditTopic   string        `mapstructure:"audit_topic"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	BatchSize    int           `mapstructure:"batch_size"`
	BatchTimeout time.Duration `mapstructure:"batch_timeout"`
}

// CacheConfig controls the read-through device list cache. Keys are scoped
// per account, so caching never crosses the tenant boundary.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	DeviceTTL time.Duration `mapstructure:"device_ttl"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type TracingConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	ServiceName    string  `mapstructure:"service_name"`
	SamplingRate   float64 `mapstructure:"sampling_rate"`
}

type MonitoringConfig struct {
	PprofEnabled bool `mapstructure:"pprof_enabled"`
}

// Validate checks for configuration that cannot be defaulted.
func (c *Config) Validate() error {
	if c.Auth.SigningSecret == "" && c.Vault.Address == "" {
		return fmt.Errorf("auth.signing_secret or a vault source must be configured")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	if c.Auth.ClockLeeway < 0 {
		return fmt.Errorf("auth.clock_leeway must not be negative")
	}
	return nil
}
