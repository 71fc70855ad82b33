package config

import "time"

type RabbitMQConfig struct {
	BrokerLink   string `mapstructure:"broker_link" validate:"required"`
	ExchangeName string `mapstructure:"exchange_name" validate:"required"`
	ExchangeType string `mapstructure:"exchange_type" validate:"required,oneof=direct topic fanout"`
	QueueName    string `mapstructure:"queue_name" validate:"required"`
	RoutingKey   string `mapstructure:"routing_key"`
	WorkerCount  int    `mapstructure:"worker_count" validate:"gte=1"`

	// HandlerTimeout bounds the processing of one batch message.
	HandlerTimeout time.Duration `mapstructure:"handler_timeout"`
}

type RedisConfig struct {
	URL             string        `mapstructure:"url"`
	DialTimeout     time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	PoolSize        int           `mapstructure:"pool_size"`
	MinIdleConns    int           `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type DBConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int32         `mapstructure:"max_open_conns"`
	MinIdleConns    int32         `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	HealthTimeout   time.Duration `mapstructure:"health_timeout"`
}

// StoreConfig selects where site records are persisted.
type StoreConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=redis postgres"`
	Table  string `mapstructure:"table" validate:"required"`
}

type ProbeConfig struct {
	SlowResponseSeconds int           `mapstructure:"slow_response_seconds" validate:"gte=1"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

type NotifyConfig struct {
	ExchangeName  string `mapstructure:"exchange_name"`
	RoutingKey    string `mapstructure:"routing_key"`
	StatusPageURL string `mapstructure:"status_page_url"`
	Subject       string `mapstructure:"subject" validate:"required"`
}

type SchedulerConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Interval time.Duration `mapstructure:"interval"`
	Sites    []string      `mapstructure:"sites"`
}

type Config struct {
	Port        int              `mapstructure:"port" validate:"gte=1,lte=65535"`
	Env         string           `mapstructure:"env"`
	ServiceName string           `mapstructure:"service_name"`
	Store       *StoreConfig     `mapstructure:"store" validate:"required"`
	Redis       *RedisConfig     `mapstructure:"redis"`
	DB          *DBConfig        `mapstructure:"db"`
	RabbitMQ    *RabbitMQConfig  `mapstructure:"rabbitmq"`
	Probe       *ProbeConfig     `mapstructure:"probe" validate:"required"`
	Notify      *NotifyConfig    `mapstructure:"notify" validate:"required"`
	Scheduler   *SchedulerConfig `mapstructure:"scheduler"`
}
