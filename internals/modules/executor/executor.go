package executor

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"sitewatch/internals/modules/site"
)

type Executor struct {
	httpClient    *http.Client
	slowThreshold int
	clock         Clock
}

func NewExecutor(httpClient *http.Client, opts Options) *Executor {
	threshold := opts.SlowResponseSeconds
	if threshold <= 0 {
		threshold = DefaultSlowResponseSeconds
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Executor{
		httpClient:    httpClient,
		slowThreshold: threshold,
		clock:         systemClock{},
	}
}

// CheckWebsite probes prev.URL() once and returns the snapshot of the new
// record. Network failures are recorded in the snapshot, never returned.
func (e *Executor) CheckWebsite(ctx context.Context, prev site.Record) (site.Snapshot, Event) {
	current := prev.WithChanged(false)
	event := Event{URL: prev.URL()}

	start := e.clock.Now()
	resp, err := e.do(ctx, prev.URL())
	elapsed := e.clock.Now().Sub(start)
	event.Elapsed = elapsed

	switch {
	case err != nil:
		// no response: only status and reason move
		current = current.
			WithHTTPStatus(site.StatusUnreachable()).
			WithHTTPReason(err.Error())
		event.Path = PathConnectionError
		event.Err = err

	case resp.StatusCode >= http.StatusBadRequest:
		// error statuses keep the previous up/slow/elapsed values
		current = current.
			WithHTTPStatus(site.StatusCode(resp.StatusCode)).
			WithHTTPReason(reasonPhrase(resp))
		event.Path = PathProtocolError

	default:
		seconds := int(math.Round(elapsed.Seconds()))
		reason := reasonPhrase(resp)
		if reason == "" {
			reason = "OK"
		}
		current = current.
			WithHTTPStatus(site.StatusCode(resp.StatusCode)).
			WithHTTPReason(reason).
			WithElapsedTime(seconds).
			WithUp(true).
			WithSlow(seconds > e.slowThreshold)
		event.Path = PathResponse
	}

	now := e.clock.Now().UTC()
	if current.HTTPStatus() != prev.HTTPStatus() || current.IsSlow() != prev.IsSlow() {
		current = current.WithLastChanged(now).WithChanged(true)
	}
	current = current.WithLastChecked(now)

	event.Status = current.HTTPStatus()
	event.Changed = current.IsChanged()

	return current.Snapshot(), event
}

func (e *Executor) do(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	// only the status line matters; drain a little so the connection can be reused
	_, _ = io.CopyN(io.Discard, resp.Body, 4096)
	_ = resp.Body.Close()

	return resp, nil
}

// reasonPhrase extracts the text after the code in the status line.
func reasonPhrase(resp *http.Response) string {
	return strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
}
