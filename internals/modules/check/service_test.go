package check

import (
	"context"
	"errors"
	"testing"

	"sitewatch/internals/modules/executor"
	"sitewatch/internals/modules/site"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	sites  map[string]site.Snapshot
	getErr map[string]error
	putErr map[string]error
	puts   []site.Snapshot
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sites:  map[string]site.Snapshot{},
		getErr: map[string]error{},
		putErr: map[string]error{},
	}
}

func (f *fakeStore) Get(_ context.Context, url string) (*site.Snapshot, error) {
	if err := f.getErr[url]; err != nil {
		return nil, err
	}
	s, ok := f.sites[url]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeStore) Put(_ context.Context, s site.Snapshot) error {
	if err := f.putErr[s.URL]; err != nil {
		return err
	}
	f.puts = append(f.puts, s)
	f.sites[s.URL] = s
	return nil
}

// fakeProber answers with a fixed status per URL and applies the same change
// rule as the executor.
type fakeProber struct {
	status map[string]site.Status
	probed []site.Record
}

func (f *fakeProber) CheckWebsite(_ context.Context, prev site.Record) (site.Snapshot, executor.Event) {
	f.probed = append(f.probed, prev)
	next := prev.WithHTTPStatus(f.status[prev.URL()]).WithHTTPReason("reason")
	changed := next.HTTPStatus() != prev.HTTPStatus()
	next = next.WithChanged(changed)
	return next.Snapshot(), executor.Event{URL: prev.URL(), Path: executor.PathResponse, Status: next.HTTPStatus(), Changed: changed}
}

type fakeNotifier struct {
	calls     [][]site.Record
	statusURL string
	err       error
}

func (f *fakeNotifier) NotifyChanges(_ context.Context, changed []site.Record, statusPageURL string) error {
	f.calls = append(f.calls, changed)
	f.statusURL = statusPageURL
	return f.err
}

func newTestService(store Store, prober Prober, notifier Notifier) *Service {
	log := zerolog.Nop()
	return NewService(store, prober, notifier, "https://status.example.com", &log)
}

func TestRunBatch_NoChangesNoNotification(t *testing.T) {
	store := newFakeStore()
	store.sites["https://a.example"] = site.Snapshot{URL: "https://a.example", HTTPStatus: site.StatusCode(200)}
	prober := &fakeProber{status: map[string]site.Status{"https://a.example": site.StatusCode(200)}}
	notifier := &fakeNotifier{}

	report := newTestService(store, prober, notifier).RunBatch(context.Background(), "b1", []string{"https://a.example"})

	assert.Equal(t, "b1", report.BatchID)
	assert.Equal(t, 1, report.Checked)
	assert.Empty(t, report.Changed)
	assert.False(t, report.Notified)
	assert.Empty(t, notifier.calls)
	require.Len(t, store.puts, 1)
	assert.False(t, store.puts[0].IsChanged)
}

func TestRunBatch_OneDigestForAllChanges(t *testing.T) {
	store := newFakeStore()
	store.sites["https://a.example"] = site.Snapshot{URL: "https://a.example", HTTPStatus: site.StatusCode(200)}
	store.sites["https://b.example"] = site.Snapshot{URL: "https://b.example", HTTPStatus: site.StatusCode(200)}
	store.sites["https://c.example"] = site.Snapshot{URL: "https://c.example", HTTPStatus: site.StatusCode(200)}
	prober := &fakeProber{status: map[string]site.Status{
		"https://a.example": site.StatusCode(503),
		"https://b.example": site.StatusCode(200),
		"https://c.example": site.StatusUnreachable(),
	}}
	notifier := &fakeNotifier{}

	report := newTestService(store, prober, notifier).RunBatch(context.Background(), "",
		[]string{"https://a.example", "https://b.example", "https://c.example"})

	assert.NotEmpty(t, report.BatchID)
	assert.Equal(t, 3, report.Checked)
	assert.True(t, report.Notified)
	require.Len(t, report.Changed, 2)

	require.Len(t, notifier.calls, 1)
	digest := notifier.calls[0]
	require.Len(t, digest, 2)
	assert.Equal(t, "https://a.example", digest[0].URL())
	assert.Equal(t, site.StatusCode(503), digest[0].HTTPStatus())
	assert.True(t, digest[0].IsChanged())
	assert.Equal(t, "https://c.example", digest[1].URL())
	assert.Equal(t, site.StatusUnreachable(), digest[1].HTTPStatus())
	assert.Equal(t, "https://status.example.com", notifier.statusURL)
}

func TestRunBatch_UnknownURLStartsFromDefaults(t *testing.T) {
	store := newFakeStore()
	prober := &fakeProber{status: map[string]site.Status{"https://new.example": site.StatusCode(200)}}
	notifier := &fakeNotifier{}

	report := newTestService(store, prober, notifier).RunBatch(context.Background(), "b", []string{"https://new.example"})

	require.Len(t, prober.probed, 1)
	assert.True(t, prober.probed[0].HTTPStatus().IsZero())
	assert.Equal(t, 1, report.Checked)
	assert.Len(t, notifier.calls, 1)
	assert.Contains(t, store.sites, "https://new.example")
}

func TestRunBatch_FailuresDoNotAbortBatch(t *testing.T) {
	store := newFakeStore()
	store.getErr["https://load.example"] = errors.New("redis: connection refused")
	store.putErr["https://persist.example"] = errors.New("redis: connection refused")
	prober := &fakeProber{status: map[string]site.Status{
		"https://persist.example": site.StatusCode(500),
		"https://ok.example":      site.StatusCode(500),
	}}
	notifier := &fakeNotifier{}

	report := newTestService(store, prober, notifier).RunBatch(context.Background(), "b", []string{
		"not-a-url",
		"https://load.example",
		"https://persist.example",
		"https://ok.example",
	})

	assert.Equal(t, 1, report.Checked)
	require.Len(t, report.Failed, 3)
	assert.Equal(t, FailedURL{URL: "not-a-url", Stage: StageConstruct, Error: report.Failed[0].Error}, report.Failed[0])
	assert.Equal(t, StageLoad, report.Failed[1].Stage)
	assert.Equal(t, StagePersist, report.Failed[2].Stage)

	// an unpersisted change is not announced
	require.Len(t, notifier.calls, 1)
	require.Len(t, notifier.calls[0], 1)
	assert.Equal(t, "https://ok.example", notifier.calls[0][0].URL())
}

func TestRunBatch_NotificationFailureIsSwallowed(t *testing.T) {
	store := newFakeStore()
	prober := &fakeProber{status: map[string]site.Status{"https://a.example": site.StatusCode(200)}}
	notifier := &fakeNotifier{err: errors.New("broker unavailable")}

	report := newTestService(store, prober, notifier).RunBatch(context.Background(), "b", []string{"https://a.example"})

	assert.Equal(t, 1, report.Checked)
	assert.Len(t, report.Changed, 1)
	assert.False(t, report.Notified)
	assert.Len(t, notifier.calls, 1)
}

func TestRunBatch_DuplicateURLsCheckedOnce(t *testing.T) {
	store := newFakeStore()
	prober := &fakeProber{status: map[string]site.Status{"https://a.example": site.StatusCode(200)}}

	report := newTestService(store, prober, &fakeNotifier{}).RunBatch(context.Background(), "b",
		[]string{"https://a.example", "https://a.example"})

	assert.Equal(t, 1, report.Checked)
	assert.Len(t, prober.probed, 1)
}

func TestRunBatch_CancelledContext(t *testing.T) {
	store := newFakeStore()
	prober := &fakeProber{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := newTestService(store, prober, &fakeNotifier{}).RunBatch(ctx, "b", []string{"https://a.example"})

	assert.Zero(t, report.Checked)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, StageCancelled, report.Failed[0].Stage)
	assert.Empty(t, prober.probed)
}

func TestRunBatch_StoredChangedFlagIsIgnored(t *testing.T) {
	store := newFakeStore()
	store.sites["https://a.example"] = site.Snapshot{URL: "https://a.example", HTTPStatus: site.StatusCode(200), IsChanged: true}
	prober := &fakeProber{status: map[string]site.Status{"https://a.example": site.StatusCode(200)}}
	notifier := &fakeNotifier{}

	newTestService(store, prober, notifier).RunBatch(context.Background(), "b", []string{"https://a.example"})

	require.Len(t, prober.probed, 1)
	assert.False(t, prober.probed[0].IsChanged())
	assert.Empty(t, notifier.calls)
}
