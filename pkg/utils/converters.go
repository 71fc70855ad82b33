package utils

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

func ToPgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func FromPgText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func ToPgInt4(i *int) pgtype.Int4 {
	if i == nil {
		return pgtype.Int4{Valid: false}
	}
	return pgtype.Int4{Int32: int32(*i), Valid: true}
}

func FromPgInt4(i pgtype.Int4) *int {
	if !i.Valid {
		return nil
	}
	v := int(i.Int32)
	return &v
}

// ToPgTimestamptz parses an ISO-8601 string; nil or unparsable values become NULL.
func ToPgTimestamptz(s *string, layout string) pgtype.Timestamptz {
	if s == nil || *s == "" {
		return pgtype.Timestamptz{Valid: false}
	}
	t, err := time.Parse(layout, *s)
	if err != nil {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: t.UTC(), Valid: true}
}

func FromPgTimestamptz(ts pgtype.Timestamptz, layout string) *string {
	if !ts.Valid || ts.InfinityModifier != pgtype.Finite {
		return nil
	}
	s := ts.Time.UTC().Format(layout)
	return &s
}
