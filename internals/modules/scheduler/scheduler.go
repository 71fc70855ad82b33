package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"sitewatch/pkg/rabbitmq"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type BatchPublisher interface {
	PublishBatch(ctx context.Context, bodies [][]byte) error
}

// Scheduler puts the configured site list on the check queue at a fixed interval.
type Scheduler struct {
	// lifecycle
	ctx      context.Context
	interval time.Duration

	// work
	sites     []string
	publisher BatchPublisher

	// misc
	logger *zerolog.Logger
}

func NewScheduler(
	ctx context.Context,
	interval time.Duration,
	sites []string,
	publisher BatchPublisher,
	logger *zerolog.Logger,
) *Scheduler {

	return &Scheduler{
		ctx:       ctx,
		interval:  interval,
		sites:     sites,
		publisher: publisher,
		logger:    logger,
	}
}

// Run publishes one batch immediately and then on every tick until the
// context is done.
func (sc *Scheduler) Run() {
	if sc.interval <= 0 {
		panic("scheduler interval must be > 0")
	}
	sc.logger.Info().Dur("interval", sc.interval).Int("sites", len(sc.sites)).Msg("scheduler started")
	ticker := time.NewTicker(sc.interval)
	defer func() {
		ticker.Stop()
		sc.logger.Info().Msg("scheduler stopped")
	}()

	sc.doWork()

	for {
		select {
		case <-sc.ctx.Done():
			return

		case <-ticker.C:
			sc.doWork()
		}
	}
}

func (sc *Scheduler) doWork() {
	msg := rabbitmq.CheckBatchMessage{
		ID:   uuid.NewString(),
		URLs: sc.sites,
	}
	body, err := json.Marshal(msg)
	if err != nil {
		sc.logger.Error().Err(err).Msg("error encoding check batch")
		return
	}

	if err := sc.publisher.PublishBatch(sc.ctx, [][]byte{body}); err != nil {
		// transient broker error → log & wait for the next tick
		sc.logger.Error().Err(err).Str("batch_id", msg.ID).Msg("error publishing check batch")
		return
	}
	sc.logger.Debug().Str("batch_id", msg.ID).Msg("check batch published")
}
