package check

import (
	"context"

	"sitewatch/internals/modules/executor"
	"sitewatch/internals/modules/site"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Store interface {
	Get(ctx context.Context, url string) (*site.Snapshot, error)
	Put(ctx context.Context, s site.Snapshot) error
}

type Prober interface {
	CheckWebsite(ctx context.Context, prev site.Record) (site.Snapshot, executor.Event)
}

type Notifier interface {
	NotifyChanges(ctx context.Context, changed []site.Record, statusPageURL string) error
}

type Service struct {
	store         Store
	prober        Prober
	notifier      Notifier
	statusPageURL string
	logger        *zerolog.Logger
}

func NewService(store Store, prober Prober, notifier Notifier, statusPageURL string, logger *zerolog.Logger) *Service {
	return &Service{
		store:         store,
		prober:        prober,
		notifier:      notifier,
		statusPageURL: statusPageURL,
		logger:        logger,
	}
}

// RunBatch checks urls one after another. A failing URL is logged and skipped;
// it never stops the rest of the batch. One digest is sent for all changes.
func (s *Service) RunBatch(ctx context.Context, batchID string, urls []string) Report {
	if batchID == "" {
		batchID = uuid.NewString()
	}
	log := s.logger.With().Str("batch_id", batchID).Logger()

	report := Report{
		BatchID: batchID,
		Changed: []site.Snapshot{},
		Failed:  []FailedURL{},
	}
	var changed []site.Record

	seen := make(map[string]struct{}, len(urls))
	for _, url := range urls {
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}

		if err := ctx.Err(); err != nil {
			report.Failed = append(report.Failed, FailedURL{URL: url, Stage: StageCancelled, Error: err.Error()})
			continue
		}

		rec, stage, err := s.load(ctx, url)
		if err != nil {
			log.Error().Err(err).Str("url", url).Str("stage", stage).Msg("unable to process url")
			report.Failed = append(report.Failed, FailedURL{URL: url, Stage: stage, Error: err.Error()})
			continue
		}

		log.Info().Str("url", url).Msg("checking website")
		snap, ev := s.prober.CheckWebsite(ctx, rec)
		logEvent(&log, ev)

		if err := s.store.Put(ctx, snap); err != nil {
			log.Error().Err(err).Str("url", url).Str("stage", StagePersist).Msg("unable to process url")
			report.Failed = append(report.Failed, FailedURL{URL: url, Stage: StagePersist, Error: err.Error()})
			continue
		}
		report.Checked++

		if snap.IsChanged {
			updated, err := site.New(snap)
			if err != nil {
				// cannot happen for a snapshot built from a valid record
				log.Error().Err(err).Str("url", url).Msg("changed record could not be rebuilt")
				continue
			}
			changed = append(changed, updated.WithChanged(true))
			report.Changed = append(report.Changed, snap)
		}
	}

	if len(changed) > 0 {
		log.Info().Int("changed", len(changed)).Msg("publishing status changes")
		// changes are already persisted; notify even if the batch was cancelled
		if err := s.notifier.NotifyChanges(context.WithoutCancel(ctx), changed, s.statusPageURL); err != nil {
			log.Error().Err(err).Msg("failed publishing website change notification")
		} else {
			report.Notified = true
		}
	}

	log.Info().
		Int("urls", len(seen)).
		Int("checked", report.Checked).
		Int("changed", len(report.Changed)).
		Int("failed", len(report.Failed)).
		Msg("batch processed")

	return report
}

func (s *Service) load(ctx context.Context, url string) (site.Record, string, error) {
	prev, err := s.store.Get(ctx, url)
	if err != nil {
		return site.Record{}, StageLoad, err
	}
	if prev == nil {
		rec, err := site.NewFromURL(url)
		return rec, StageConstruct, err
	}
	// the stored key wins over whatever url the payload carries
	snap := *prev
	snap.URL = url
	rec, err := site.New(snap)
	return rec, StageConstruct, err
}

func logEvent(log *zerolog.Logger, ev executor.Event) {
	var e *zerolog.Event
	switch ev.Path {
	case executor.PathConnectionError:
		e = log.Warn().Err(ev.Err)
	case executor.PathProtocolError:
		e = log.Warn()
	default:
		e = log.Debug()
	}

	e.Str("url", ev.URL).
		Str("path", string(ev.Path)).
		Str("http_status", ev.Status.String()).
		Dur("elapsed", ev.Elapsed).
		Bool("changed", ev.Changed).
		Msg("probe completed")
}
