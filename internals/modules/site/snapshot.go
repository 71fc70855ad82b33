package site

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// TimestampLayout is the ISO-8601 form used for last_checked and last_changed.
const TimestampLayout = time.RFC3339Nano

// Unreachable is the http_status sentinel for probes that never got a response.
const Unreachable = "N/A"

// Status is an HTTP status code, the Unreachable sentinel, or absent (zero value).
type Status struct {
	code        int
	unreachable bool
}

func StatusCode(code int) Status { return Status{code: code} }

func StatusUnreachable() Status { return Status{unreachable: true} }

func (s Status) IsZero() bool      { return s.code == 0 && !s.unreachable }
func (s Status) Unreachable() bool { return s.unreachable }

// Code returns the numeric status, or false for absent and unreachable.
func (s Status) Code() (int, bool) {
	if s.unreachable || s.code == 0 {
		return 0, false
	}
	return s.code, true
}

func (s Status) String() string {
	switch {
	case s.unreachable:
		return Unreachable
	case s.code == 0:
		return ""
	default:
		return strconv.Itoa(s.code)
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	switch {
	case s.unreachable:
		return json.Marshal(Unreachable)
	case s.code == 0:
		return []byte("null"), nil
	default:
		return json.Marshal(s.code)
	}
}

func (s *Status) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = Status{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		parsed, err := ParseStatus(str)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}

	var code int
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("http_status: %w", err)
	}
	*s = StatusCode(code)
	return nil
}

// ParseStatus accepts the textual forms produced by String.
func ParseStatus(str string) (Status, error) {
	switch str {
	case "":
		return Status{}, nil
	case Unreachable:
		return StatusUnreachable(), nil
	}
	code, err := strconv.Atoi(str)
	if err != nil {
		return Status{}, fmt.Errorf("http_status: %q is neither a code nor %q", str, Unreachable)
	}
	return StatusCode(code), nil
}

// Snapshot is the flat representation of a Record. It is the only form that
// crosses storage and messaging boundaries.
type Snapshot struct {
	URL         string  `json:"url"`
	HTTPStatus  Status  `json:"http_status"`
	HTTPReason  *string `json:"http_reason"`
	LastChecked *string `json:"last_checked"`
	LastChanged *string `json:"last_changed"`
	ElapsedTime *int    `json:"elapsed_time"`
	IsUp        bool    `json:"is_up"`
	IsSlow      bool    `json:"is_slow"`
	IsChanged   bool    `json:"is_changed"`
}

func (r Record) Snapshot() Snapshot {
	return Snapshot{
		URL:         r.url,
		HTTPStatus:  r.httpStatus,
		HTTPReason:  cloneString(r.httpReason),
		LastChecked: formatTimestamp(r.lastChecked),
		LastChanged: formatTimestamp(r.lastChanged),
		ElapsedTime: cloneInt(r.elapsedTime),
		IsUp:        r.isUp,
		IsSlow:      r.isSlow,
		IsChanged:   r.isChanged,
	}
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(TimestampLayout)
	return &s
}

func parseTimestamp(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(TimestampLayout, *s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimestamp, *s)
	}
	t = t.UTC()
	return &t, nil
}
