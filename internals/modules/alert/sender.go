package alert

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// BatchPublisher is implemented by rabbitmq.Publisher.
type BatchPublisher interface {
	PublishBatch(ctx context.Context, bodies [][]byte) error
}

// AMQPSender publishes each digest as one JSON message.
type AMQPSender struct {
	publisher BatchPublisher
}

func NewAMQPSender(publisher BatchPublisher) *AMQPSender {
	return &AMQPSender{publisher: publisher}
}

func (s *AMQPSender) Send(ctx context.Context, d Digest) error {
	body, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.publisher.PublishBatch(ctx, [][]byte{body})
}

// LogSender writes digests to the log. Used when no notify exchange is configured.
type LogSender struct {
	logger *zerolog.Logger
}

func NewLogSender(logger *zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(_ context.Context, d Digest) error {
	s.logger.Warn().
		Str("subject", d.Subject).
		Int("sites", len(d.Sites)).
		Str("status_page_url", d.StatusPageURL).
		Msg(d.Message)
	return nil
}
