package executor

import (
	"time"

	"sitewatch/internals/modules/site"
)

// Path tells which branch a probe took.
type Path string

const (
	// PathResponse: a response below 400 was received.
	PathResponse Path = "response"
	// PathProtocolError: the server answered with an error status.
	PathProtocolError Path = "protocol_error"
	// PathConnectionError: no response was obtained at all.
	PathConnectionError Path = "connection_error"
)

// Event describes one probe. The executor does not log; callers decide what
// to do with it.
type Event struct {
	URL     string
	Path    Path
	Status  site.Status
	Elapsed time.Duration
	Changed bool
	Err     error
}

type Options struct {
	// SlowResponseSeconds is the threshold above which a response is slow.
	SlowResponseSeconds int
}

const DefaultSlowResponseSeconds = 5

type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
