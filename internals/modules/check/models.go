package check

import "sitewatch/internals/modules/site"

// Stage names where a URL dropped out of a batch.
const (
	StageLoad      = "load"
	StageConstruct = "construct"
	StagePersist   = "persist"
	StageCancelled = "cancelled"
)

type FailedURL struct {
	URL   string `json:"url"`
	Stage string `json:"stage"`
	Error string `json:"error"`
}

// Report summarises one batch.
type Report struct {
	BatchID  string          `json:"batch_id"`
	Checked  int             `json:"checked"`
	Changed  []site.Snapshot `json:"changed"`
	Failed   []FailedURL     `json:"failed"`
	Notified bool            `json:"notified"`
}
