package site

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"sitewatch/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNew_ValidURLs(t *testing.T) {
	urls := []string{
		"https://example.com",
		"http://example.com/health?full=1",
		"https://user@example.com:8443/path",
		"http://127.0.0.1:8080",
		"ftp://files.example.com",
	}

	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			rec, err := NewFromURL(u)
			require.NoError(t, err)
			assert.Equal(t, u, rec.URL())
		})
	}
}

func TestNew_InvalidURLs(t *testing.T) {
	urls := []string{
		"",
		"example.com",
		"/relative/path",
		"http://",
		"mailto:ops@example.com",
		"://missing-scheme.com",
		"http://exa mple.com",
	}

	for _, u := range urls {
		t.Run(u, func(t *testing.T) {
			_, err := NewFromURL(u)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidURL))
			assert.True(t, apperror.IsKind(err, apperror.InvalidInput))
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	rec, err := NewFromURL("https://example.com")
	require.NoError(t, err)

	assert.True(t, rec.HTTPStatus().IsZero())
	_, ok := rec.HTTPReason()
	assert.False(t, ok)
	_, ok = rec.LastChecked()
	assert.False(t, ok)
	_, ok = rec.LastChanged()
	assert.False(t, ok)
	_, ok = rec.ElapsedTime()
	assert.False(t, ok)
	assert.False(t, rec.IsUp())
	assert.False(t, rec.IsSlow())
	assert.False(t, rec.IsChanged())
}

func TestNew_ClearsChangedFlag(t *testing.T) {
	rec, err := New(Snapshot{URL: "https://example.com", IsChanged: true})
	require.NoError(t, err)

	assert.False(t, rec.IsChanged())
}

func TestNew_RejectsMalformedTimestamp(t *testing.T) {
	_, err := New(Snapshot{URL: "https://example.com", LastChecked: ptr("yesterday")})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidTimestamp))
}

func TestNew_AcceptsOffsetTimestamps(t *testing.T) {
	rec, err := New(Snapshot{
		URL:         "https://example.com",
		LastChanged: ptr("2024-03-01T10:15:30.123456+00:00"),
	})
	require.NoError(t, err)

	changed, ok := rec.LastChanged()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 15, 30, 123456000, time.UTC), changed)
}

func TestSnapshot_RoundTrip(t *testing.T) {
	checked := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	changed := time.Date(2024, 5, 1, 7, 30, 0, 500, time.UTC)

	base, err := NewFromURL("https://example.com")
	require.NoError(t, err)

	rec := base.
		WithHTTPStatus(StatusCode(503)).
		WithHTTPReason("Service Unavailable").
		WithLastChecked(checked).
		WithLastChanged(changed).
		WithElapsedTime(3).
		WithUp(true).
		WithSlow(true).
		WithChanged(true)

	snap := rec.Snapshot()
	assert.True(t, snap.IsChanged)

	reloaded, err := New(snap)
	require.NoError(t, err)

	want := snap
	want.IsChanged = false
	assert.Equal(t, want, reloaded.Snapshot())

	again, err := New(reloaded.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, reloaded.Snapshot(), again.Snapshot())
}

func TestRecord_WithDoesNotMutateOriginal(t *testing.T) {
	orig, err := NewFromURL("https://example.com")
	require.NoError(t, err)

	updated := orig.WithHTTPStatus(StatusCode(200)).WithHTTPReason("OK").WithUp(true)

	assert.True(t, orig.HTTPStatus().IsZero())
	_, ok := orig.HTTPReason()
	assert.False(t, ok)
	assert.False(t, orig.IsUp())

	code, ok := updated.HTTPStatus().Code()
	require.True(t, ok)
	assert.Equal(t, 200, code)
}

func TestSnapshot_JSONFieldNames(t *testing.T) {
	rec, err := NewFromURL("https://example.com")
	require.NoError(t, err)

	raw, err := json.Marshal(rec.WithHTTPStatus(StatusUnreachable()).WithHTTPReason("dial tcp: refused").Snapshot())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))

	assert.Len(t, fields, 9)
	assert.Equal(t, "N/A", fields["http_status"])
	assert.Equal(t, "dial tcp: refused", fields["http_reason"])
	assert.Nil(t, fields["last_checked"])
	assert.Nil(t, fields["elapsed_time"])
	assert.Equal(t, false, fields["is_changed"])
}

func TestStatus_JSON(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		json   string
	}{
		{name: "absent", status: Status{}, json: "null"},
		{name: "code", status: StatusCode(404), json: "404"},
		{name: "unreachable", status: StatusUnreachable(), json: `"N/A"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(tc.status)
			require.NoError(t, err)
			assert.JSONEq(t, tc.json, string(raw))

			var got Status
			require.NoError(t, json.Unmarshal(raw, &got))
			assert.Equal(t, tc.status, got)
		})
	}
}

func TestStatus_UnmarshalNumericString(t *testing.T) {
	var s Status
	require.NoError(t, json.Unmarshal([]byte(`"301"`), &s))
	assert.Equal(t, StatusCode(301), s)

	assert.Error(t, json.Unmarshal([]byte(`"teapot"`), &s))
}

func TestStatus_Comparison(t *testing.T) {
	assert.Equal(t, StatusCode(200), StatusCode(200))
	assert.NotEqual(t, StatusCode(200), StatusCode(503))
	assert.NotEqual(t, StatusCode(200), StatusUnreachable())
	assert.NotEqual(t, Status{}, StatusUnreachable())
}
