package httpclient

import (
	"net"
	"net/http"
	"time"
)

// NewHttpClient returns the client used for probes. timeout bounds dialing and
// waiting for response headers; zero keeps the defaults below.
func NewHttpClient(timeout time.Duration) *http.Client {
	dialTimeout := 5 * time.Second
	headerTimeout := 10 * time.Second
	if timeout > 0 {
		dialTimeout = timeout
		headerTimeout = timeout
	}

	dialer := &net.Dialer{
		Timeout:   dialTimeout,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: headerTimeout,
		ExpectContinueTimeout: 1 * time.Second,

		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &http.Client{
		Transport: transport,
	}
}
