package alert

import "sitewatch/internals/modules/site"

// SiteChange is the part of a changed record that goes into a digest.
type SiteChange struct {
	URL        string      `json:"url"`
	HTTPStatus site.Status `json:"http_status"`
	HTTPReason string      `json:"http_reason"`
}

// Digest is one notification covering every site that changed in a batch.
type Digest struct {
	Subject       string       `json:"subject"`
	Message       string       `json:"message"`
	StatusPageURL string       `json:"status_page_url"`
	Sites         []SiteChange `json:"sites"`
}
