package site

import (
	"context"
	"errors"
	"fmt"

	"sitewatch/pkg/db"
	"sitewatch/pkg/utils"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
)

// Repository keeps one row per URL in a Postgres table.
type Repository struct {
	dbExecutor db.DBTX
	table      string
	logger     *zerolog.Logger
}

func NewRepository(dbExecutor db.DBTX, table string, logger *zerolog.Logger) *Repository {
	return &Repository{
		dbExecutor: dbExecutor,
		table:      pgx.Identifier{table}.Sanitize(),
		logger:     logger,
	}
}

func (r *Repository) EnsureSchema(ctx context.Context) error {
	const op string = "repo.site.ensure_schema"

	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	url          TEXT PRIMARY KEY,
	http_status  TEXT,
	http_reason  TEXT,
	last_checked TIMESTAMPTZ,
	last_changed TIMESTAMPTZ,
	elapsed_time INTEGER,
	is_up        BOOLEAN NOT NULL DEFAULT FALSE,
	is_slow      BOOLEAN NOT NULL DEFAULT FALSE
)`, r.table)

	if _, err := r.dbExecutor.Exec(ctx, query); err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	return nil
}

// Get returns nil, nil when the URL has no row.
func (r *Repository) Get(ctx context.Context, url string) (*Snapshot, error) {
	const op string = "repo.site.get"

	query := fmt.Sprintf(`SELECT url, http_status, http_reason, last_checked, last_changed, elapsed_time, is_up, is_slow
FROM %s WHERE url = $1`, r.table)

	var (
		s           Snapshot
		status      pgtype.Text
		reason      pgtype.Text
		lastChecked pgtype.Timestamptz
		lastChanged pgtype.Timestamptz
		elapsed     pgtype.Int4
	)
	err := r.dbExecutor.QueryRow(ctx, query, url).Scan(
		&s.URL, &status, &reason, &lastChecked, &lastChanged, &elapsed, &s.IsUp, &s.IsSlow,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, utils.WrapRepoError(op, err, false, r.logger)
	}

	if status.Valid {
		parsed, err := ParseStatus(status.String)
		if err != nil {
			return nil, utils.WrapRepoError(op, err, false, r.logger)
		}
		s.HTTPStatus = parsed
	}
	s.HTTPReason = utils.FromPgText(reason)
	s.LastChecked = utils.FromPgTimestamptz(lastChecked, TimestampLayout)
	s.LastChanged = utils.FromPgTimestamptz(lastChanged, TimestampLayout)
	s.ElapsedTime = utils.FromPgInt4(elapsed)

	return &s, nil
}

// Put upserts the row for s.URL. is_changed is transient and not stored.
func (r *Repository) Put(ctx context.Context, s Snapshot) error {
	const op string = "repo.site.put"

	query := fmt.Sprintf(`INSERT INTO %s (url, http_status, http_reason, last_checked, last_changed, elapsed_time, is_up, is_slow)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (url) DO UPDATE SET
	http_status = EXCLUDED.http_status,
	http_reason = EXCLUDED.http_reason,
	last_checked = EXCLUDED.last_checked,
	last_changed = EXCLUDED.last_changed,
	elapsed_time = EXCLUDED.elapsed_time,
	is_up = EXCLUDED.is_up,
	is_slow = EXCLUDED.is_slow`, r.table)

	var status pgtype.Text
	if !s.HTTPStatus.IsZero() {
		status = pgtype.Text{String: s.HTTPStatus.String(), Valid: true}
	}

	_, err := r.dbExecutor.Exec(ctx, query,
		s.URL,
		status,
		utils.ToPgText(s.HTTPReason),
		utils.ToPgTimestamptz(s.LastChecked, TimestampLayout),
		utils.ToPgTimestamptz(s.LastChanged, TimestampLayout),
		utils.ToPgInt4(s.ElapsedTime),
		s.IsUp,
		s.IsSlow,
	)
	if err != nil {
		return utils.WrapRepoError(op, err, false, r.logger)
	}
	return nil
}
