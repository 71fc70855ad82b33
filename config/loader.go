package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LoadConfig reads the yaml file at path (if it exists), overlays environment
// variables and validates the result. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// default first
	setDefaults(v)

	// Env Config
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if err := bindLegacyEnv(v); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	// File Config
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")

		var notFound viper.ConfigFileNotFoundError
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	applyRabbitMQDefaults(cfg.RabbitMQ)

	// Validate
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("service_name", "sitewatch")
	v.SetDefault("port", 8080)

	v.SetDefault("store.driver", "redis")
	v.SetDefault("store.table", "sites")

	v.SetDefault("probe.slow_response_seconds", 5)
	v.SetDefault("probe.timeout", "30s")

	v.SetDefault("notify.subject", "Notification of Website Status Change")
	v.SetDefault("notify.exchange_name", "")
	v.SetDefault("notify.routing_key", "site.changed")
	v.SetDefault("notify.status_page_url", "")

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.interval", "5m")

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 5)
	v.SetDefault("redis.conn_max_lifetime", "2m")
	v.SetDefault("redis.conn_max_idle_time", "30s")

	v.SetDefault("db.url", "")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.min_idle_conns", 2)
	v.SetDefault("db.conn_max_lifetime", "1h")
	v.SetDefault("db.conn_max_idle_time", "30m")
	v.SetDefault("db.health_timeout", "5s")
}

// bindLegacyEnv keeps the older flat variable names working.
func bindLegacyEnv(v *viper.Viper) error {
	legacy := map[string][]string{
		"probe.slow_response_seconds": {"PROBE_SLOW_RESPONSE_SECONDS", "RESPONSE_LIMIT"},
		"notify.status_page_url":      {"NOTIFY_STATUS_PAGE_URL", "STATUS_PAGE_URL"},
		"store.table":                 {"STORE_TABLE", "TABLE_NAME"},
	}
	for key, envs := range legacy {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return err
		}
	}
	return nil
}

func applyRabbitMQDefaults(r *RabbitMQConfig) {
	if r == nil {
		return
	}
	if r.ExchangeType == "" {
		r.ExchangeType = "direct"
	}
	if r.WorkerCount == 0 {
		r.WorkerCount = 4
	}
	if r.HandlerTimeout <= 0 {
		r.HandlerTimeout = 5 * time.Minute
	}
}

func validateConfig(cfg *Config) error {

	validate := validator.New()
	validate.RegisterStructValidation(storeValidation, Config{})

	if err := validate.Struct(cfg); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return formatValidationErrors(ve)
		}
		return err
	}
	return nil
}

// storeValidation checks the fields that depend on other sections.
func storeValidation(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	if cfg.Store != nil {
		switch cfg.Store.Driver {
		case "redis":
			if cfg.Redis == nil || cfg.Redis.URL == "" {
				sl.ReportError(cfg.Redis, "Redis.URL", "URL", "required_for_redis_store", "")
			}
		case "postgres":
			if cfg.DB == nil || cfg.DB.URL == "" {
				sl.ReportError(cfg.DB, "DB.URL", "URL", "required_for_postgres_store", "")
			}
		}
	}

	if cfg.Scheduler != nil && cfg.Scheduler.Enabled {
		if cfg.RabbitMQ == nil {
			sl.ReportError(cfg.RabbitMQ, "RabbitMQ", "RabbitMQ", "required_for_scheduler", "")
		}
		if len(cfg.Scheduler.Sites) == 0 {
			sl.ReportError(cfg.Scheduler.Sites, "Scheduler.Sites", "Sites", "required_for_scheduler", "")
		}
		if cfg.Scheduler.Interval <= 0 {
			sl.ReportError(cfg.Scheduler.Interval, "Scheduler.Interval", "Interval", "gt", "0")
		}
	}
}

func formatValidationErrors(ve validator.ValidationErrors) error {
	var sb strings.Builder
	sb.WriteString("config validation failed:\n")

	for _, fe := range ve {
		fmt.Fprintf(&sb, "- field '%s' failed on '%s'\n", fe.Namespace(), fe.Tag())
	}
	return errors.New(sb.String())
}
