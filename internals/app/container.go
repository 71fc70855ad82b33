package app

import (
	"context"
	"errors"
	"fmt"

	"sitewatch/config"
	"sitewatch/internals/modules/alert"
	"sitewatch/internals/modules/check"
	"sitewatch/internals/modules/executor"
	"sitewatch/internals/modules/scheduler"
	"sitewatch/internals/modules/site"
	"sitewatch/pkg/db"
	"sitewatch/pkg/httpclient"
	"sitewatch/pkg/rabbitmq"
	"sitewatch/pkg/redisstore"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type Container struct {
	DB          *pgxpool.Pool
	RedisClient *redisstore.Client
	AMQPConn    *amqp091.Connection
	Logger      *zerolog.Logger
	Consumer    *rabbitmq.Consumer
	Scheduler   *scheduler.Scheduler

	checkSvc     *check.Service
	checkHandler *check.Handler
	siteHandler  *site.Handler
	publishers   []*rabbitmq.Publisher
	pingers      []func(context.Context) error
}

func NewContainer(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*Container, error) {
	c := &Container{Logger: logger}

	store, err := c.newStore(ctx, cfg)
	if err != nil {
		c.Shutdown(context.Background())
		return nil, err
	}

	if cfg.RabbitMQ != nil {
		conn, err := rabbitmq.NewConnection(cfg.RabbitMQ, logger)
		if err != nil {
			c.Shutdown(context.Background())
			return nil, err
		}
		c.AMQPConn = conn
		if err := rabbitmq.SetupTopology(conn, cfg.RabbitMQ); err != nil {
			c.Shutdown(context.Background())
			return nil, fmt.Errorf("setup rabbitmq topology: %w", err)
		}
	}

	sender, err := c.newSender(cfg)
	if err != nil {
		c.Shutdown(context.Background())
		return nil, err
	}

	validate := validator.New()

	prober := executor.NewExecutor(
		httpclient.NewHttpClient(cfg.Probe.Timeout),
		executor.Options{SlowResponseSeconds: cfg.Probe.SlowResponseSeconds},
	)
	alertSvc := alert.NewService(sender, cfg.Notify.Subject)
	c.checkSvc = check.NewService(store, prober, alertSvc, cfg.Notify.StatusPageURL, logger)
	c.checkHandler = check.NewHandler(c.checkSvc, validate)
	c.siteHandler = site.NewHandler(site.NewService(store))

	if c.AMQPConn != nil {
		consumer, err := rabbitmq.NewConsumer(c.AMQPConn, cfg.RabbitMQ.QueueName, cfg.RabbitMQ.WorkerCount, cfg.RabbitMQ.HandlerTimeout, logger)
		if err != nil {
			c.Shutdown(context.Background())
			return nil, fmt.Errorf("create consumer: %w", err)
		}
		c.Consumer = consumer
	}

	if cfg.Scheduler != nil && cfg.Scheduler.Enabled {
		pub, err := rabbitmq.NewPublisher(c.AMQPConn, cfg.RabbitMQ.ExchangeName, cfg.RabbitMQ.RoutingKey)
		if err != nil {
			c.Shutdown(context.Background())
			return nil, fmt.Errorf("create scheduler publisher: %w", err)
		}
		c.publishers = append(c.publishers, pub)
		c.Scheduler = scheduler.NewScheduler(ctx, cfg.Scheduler.Interval, cfg.Scheduler.Sites, pub, logger)
	}

	return c, nil
}

func (c *Container) newStore(ctx context.Context, cfg *config.Config) (check.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		pool, err := db.ConnectToDB(ctx, cfg.DB, c.Logger)
		if err != nil {
			return nil, err
		}
		c.DB = pool
		c.pingers = append(c.pingers, pool.Ping)

		repo := site.NewRepository(pool, cfg.Store.Table, c.Logger)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		c.Logger.Info().Str("table", cfg.Store.Table).Msg("postgres site store ready")
		return repo, nil

	default:
		client, err := redisstore.New(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		c.RedisClient = client
		c.pingers = append(c.pingers, client.Ping)
		c.Logger.Info().Msg("redis site store ready")
		return redisstore.NewSiteStore(client), nil
	}
}

// newSender publishes digests to the notify exchange when one is configured,
// otherwise it only logs them.
func (c *Container) newSender(cfg *config.Config) (alert.Sender, error) {
	if cfg.Notify.ExchangeName == "" || c.AMQPConn == nil {
		c.Logger.Warn().Msg("no notify exchange configured, change digests will only be logged")
		return alert.NewLogSender(c.Logger), nil
	}

	if err := rabbitmq.DeclareExchange(c.AMQPConn, cfg.Notify.ExchangeName, "topic"); err != nil {
		return nil, fmt.Errorf("declare notify exchange: %w", err)
	}
	pub, err := rabbitmq.NewPublisher(c.AMQPConn, cfg.Notify.ExchangeName, cfg.Notify.RoutingKey)
	if err != nil {
		return nil, fmt.Errorf("create notify publisher: %w", err)
	}
	c.publishers = append(c.publishers, pub)
	return alert.NewAMQPSender(pub), nil
}

// Ping checks every backing store.
func (c *Container) Ping(ctx context.Context) error {
	for _, ping := range c.pingers {
		if err := ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	if c.Consumer != nil {
		errs = append(errs, c.Consumer.Shutdown(ctx))
	}
	for _, pub := range c.publishers {
		errs = append(errs, pub.Close())
	}
	if c.AMQPConn != nil && !c.AMQPConn.IsClosed() {
		errs = append(errs, c.AMQPConn.Close())
	}
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}
	if c.DB != nil {
		c.DB.Close()
	}

	return errors.Join(errs...)
}
