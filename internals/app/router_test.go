package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"sitewatch/config"
	"sitewatch/internals/modules/alert"
	"sitewatch/internals/modules/check"
	"sitewatch/internals/modules/executor"
	"sitewatch/internals/modules/site"
	"sitewatch/pkg/redisstore"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func newTestContainer(t *testing.T) (*Container, *miniredis.Miniredis) {
	t.Helper()
	log := zerolog.Nop()

	mr := miniredis.RunT(t)
	client, err := redisstore.New(&config.RedisConfig{URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	store := redisstore.NewSiteStore(client)
	prober := executor.NewExecutor(&http.Client{Timeout: 5 * time.Second}, executor.Options{})
	notifier := alert.NewService(alert.NewLogSender(&log), "")

	c := &Container{Logger: &log, RedisClient: client}
	c.pingers = append(c.pingers, client.Ping)
	c.checkSvc = check.NewService(store, prober, notifier, "https://status.example.com", &log)
	c.checkHandler = check.NewHandler(c.checkSvc, validator.New())
	c.siteHandler = site.NewHandler(site.NewService(store))
	return c, mr
}

func TestRouter_Health(t *testing.T) {
	c, _ := newTestContainer(t)

	rec := httptest.NewRecorder()
	RegisterRoutes(c).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_HealthReportsStoreFailure(t *testing.T) {
	c, _ := newTestContainer(t)
	c.pingers = append(c.pingers, func(context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	RegisterRoutes(c).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouter_CheckThenLookup(t *testing.T) {
	c, mr := newTestContainer(t)
	router := RegisterRoutes(c)

	target := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer target.Close()

	body := `{"urls":["` + target.URL + `"]}`
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/checks", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	var report check.Report
	require.NoError(t, json.Unmarshal(resp.Data, &report))
	assert.Equal(t, 1, report.Checked)
	require.Len(t, report.Changed, 1)
	assert.Equal(t, site.StatusCode(503), report.Changed[0].HTTPStatus)
	assert.True(t, report.Notified)

	assert.True(t, mr.Exists("site:"+target.URL))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sites?url="+url.QueryEscape(target.URL), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	var snap site.Snapshot
	require.NoError(t, json.Unmarshal(resp.Data, &snap))
	assert.Equal(t, target.URL, snap.URL)
	assert.Equal(t, site.StatusCode(503), snap.HTTPStatus)
	assert.Equal(t, "Service Unavailable", *snap.HTTPReason)
	assert.NotNil(t, snap.LastChanged)
}

func TestRouter_LookupUnknownSite(t *testing.T) {
	c, _ := newTestContainer(t)

	rec := httptest.NewRecorder()
	RegisterRoutes(c).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/sites?url="+url.QueryEscape("https://never.example"), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
