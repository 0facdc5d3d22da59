package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/perimetra/devscope/pkg/constants"
)

// Loader reads configuration from file and environment and supports watching
// the file for changes.
type Loader struct {
	v *viper.Viper
}

// NewLoader builds a viper instance with defaults, file lookup paths, and the
// DEVSCOPE_ environment prefix.
func NewLoader() *Loader {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "devscope")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 20)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	// Unmarshal only sees environment overrides for keys viper already
	// knows, so secret-bearing keys need explicit empty defaults.
	v.SetDefault("auth.signing_secret", "")
	v.SetDefault("auth.token_ttl", constants.DefaultTokenTTL.String())
	v.SetDefault("auth.clock_leeway", constants.DefaultClockLeeway.String())

	v.SetDefault("vault.address", "")
	v.SetDefault("vault.token", "")
	v.SetDefault("vault.mount_path", "secret")
	v.SetDefault("vault.secret_path", "devscope/api")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.audit_topic", "devscope.audit")
	v.SetDefault("kafka.write_timeout", "5s")
	v.SetDefault("kafka.batch_size", 100)
	v.SetDefault("kafka.batch_timeout", "1s")

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.device_ttl", "30s")

	v.SetDefault("log.level", "info")

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.jaeger_endpoint", "")
	v.SetDefault("tracing.service_name", "devscope-api")
	v.SetDefault("tracing.sampling_rate", 0.1)

	v.SetDefault("monitoring.pprof_enabled", false)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/devscope/")
	v.AddConfigPath(".")

	v.SetEnvPrefix("DEVSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// Load reads and validates the configuration. A missing config file is not an
// error; defaults and environment variables still apply.
func (l *Loader) Load() (*Config, error) {
	if err := l.v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Watch re-reads the configuration whenever the underlying file changes and
// hands the result to onChange. Only dynamic settings (currently the log
// level) should be applied from the callback; everything else is fixed at
// startup.
func (l *Loader) Watch(onChange func(*Config)) {
	l.v.OnConfigChange(func(_ fsnotify.Event) {
		var cfg Config
		if err := l.v.Unmarshal(&cfg); err != nil {
			return
		}
		if err := cfg.Validate(); err != nil {
			return
		}
		onChange(&cfg)
	})
	l.v.WatchConfig()
}
