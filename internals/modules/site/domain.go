package site

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"sitewatch/pkg/apperror"
)

var (
	ErrInvalidURL       = errors.New("invalid url")
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// Record is the observed state of one website. Values are never modified in
// place: the With methods return an updated copy.
type Record struct {
	url         string
	httpStatus  Status
	httpReason  *string
	lastChecked *time.Time
	lastChanged *time.Time
	elapsedTime *int
	isUp        bool
	isSlow      bool
	isChanged   bool
}

// New builds a Record from its stored representation. The changed flag is
// always cleared.
func New(s Snapshot) (Record, error) {
	const op = "site.new"

	if err := ValidateURL(s.URL); err != nil {
		return Record{}, apperror.New(apperror.InvalidInput, op, err)
	}

	lastChecked, err := parseTimestamp(s.LastChecked)
	if err != nil {
		return Record{}, apperror.New(apperror.InvalidInput, op, fmt.Errorf("last_checked: %w", err))
	}
	lastChanged, err := parseTimestamp(s.LastChanged)
	if err != nil {
		return Record{}, apperror.New(apperror.InvalidInput, op, fmt.Errorf("last_changed: %w", err))
	}

	return Record{
		url:         s.URL,
		httpStatus:  s.HTTPStatus,
		httpReason:  cloneString(s.HTTPReason),
		lastChecked: lastChecked,
		lastChanged: lastChanged,
		elapsedTime: cloneInt(s.ElapsedTime),
		isUp:        s.IsUp,
		isSlow:      s.IsSlow,
	}, nil
}

// NewFromURL returns the defaults for a site that has never been checked.
func NewFromURL(rawURL string) (Record, error) {
	return New(Snapshot{URL: rawURL})
}

// ValidateURL reports whether raw is an absolute URL with a scheme and a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %q: %v", ErrInvalidURL, raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q: scheme and host are required", ErrInvalidURL, raw)
	}
	return nil
}

func (r Record) URL() string        { return r.url }
func (r Record) HTTPStatus() Status { return r.httpStatus }
func (r Record) IsUp() bool         { return r.isUp }
func (r Record) IsSlow() bool       { return r.isSlow }
func (r Record) IsChanged() bool    { return r.isChanged }

func (r Record) HTTPReason() (string, bool) {
	if r.httpReason == nil {
		return "", false
	}
	return *r.httpReason, true
}

func (r Record) LastChecked() (time.Time, bool) {
	if r.lastChecked == nil {
		return time.Time{}, false
	}
	return *r.lastChecked, true
}

func (r Record) LastChanged() (time.Time, bool) {
	if r.lastChanged == nil {
		return time.Time{}, false
	}
	return *r.lastChanged, true
}

func (r Record) ElapsedTime() (int, bool) {
	if r.elapsedTime == nil {
		return 0, false
	}
	return *r.elapsedTime, true
}

func (r Record) WithHTTPStatus(s Status) Record {
	r.httpStatus = s
	return r
}

func (r Record) WithHTTPReason(reason string) Record {
	r.httpReason = &reason
	return r
}

func (r Record) WithLastChecked(t time.Time) Record {
	t = t.UTC()
	r.lastChecked = &t
	return r
}

func (r Record) WithLastChanged(t time.Time) Record {
	t = t.UTC()
	r.lastChanged = &t
	return r
}

func (r Record) WithElapsedTime(seconds int) Record {
	r.elapsedTime = &seconds
	return r
}

func (r Record) WithUp(up bool) Record {
	r.isUp = up
	return r
}

func (r Record) WithSlow(slow bool) Record {
	r.isSlow = slow
	return r
}

func (r Record) WithChanged(changed bool) Record {
	r.isChanged = changed
	return r
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
