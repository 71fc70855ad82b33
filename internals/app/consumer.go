package app

import (
	"context"

	"sitewatch/pkg/rabbitmq"
)

func StartConsumer(ctx context.Context, c *Container) {
	if c.Consumer == nil {
		c.Logger.Info().Msg("rabbitmq not configured, queue trigger disabled")
		return
	}

	handler := rabbitmq.NewCheckBatchHandler(c.checkSvc)

	// this runs as a separate goroutine as consume ranges over the delivery channel
	go func() {
		if err := c.Consumer.Consume(ctx, handler); err != nil {
			c.Logger.Error().
				Err(err).
				Msg("rabbitmq consumer stopped")
		}
	}()
}
