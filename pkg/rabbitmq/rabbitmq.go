package rabbitmq

import (
	"errors"
	"time"

	"sitewatch/config"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

func NewConnection(rmqCfg *config.RabbitMQConfig, log *zerolog.Logger) (*amqp091.Connection, error) {

	var conn *amqp091.Connection
	var err error
	for i := range 5 {
		conn, err = amqp091.Dial(rmqCfg.BrokerLink)
		if err == nil {
			return conn, nil
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("rabbitmq connection attempt failed")
		time.Sleep(2 * time.Second)
	}
	log.Error().Err(err).Int("attempts", 5).Msg("failed to connect to rabbitmq")
	return nil, errors.New("failed to connect to rabbitmq")
}

// SetupTopology declares the check exchange and queue and binds them.
func SetupTopology(conn *amqp091.Connection, rmqCfg *config.RabbitMQConfig) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(
		rmqCfg.ExchangeName,
		rmqCfg.ExchangeType,
		true, false, false, false, nil,
	); err != nil {
		return err
	}

	if _, err := ch.QueueDeclare(
		rmqCfg.QueueName,
		true, false, false, false, nil,
	); err != nil {
		return err
	}

	if err = ch.QueueBind(
		rmqCfg.QueueName,
		rmqCfg.RoutingKey,
		rmqCfg.ExchangeName,
		false, nil,
	); err != nil {
		return err
	}

	return nil
}

// DeclareExchange declares a durable exchange for publishers that own no queue.
func DeclareExchange(conn *amqp091.Connection, name, kind string) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	return ch.ExchangeDeclare(name, kind, true, false, false, false, nil)
}
