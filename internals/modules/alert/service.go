package alert

import (
	"context"
	"fmt"
	"strings"

	"sitewatch/internals/modules/site"
	"sitewatch/pkg/apperror"
)

const DefaultSubject = "Notification of Website Status Change"

type Sender interface {
	Send(ctx context.Context, d Digest) error
}

type Service struct {
	sender  Sender
	subject string
}

func NewService(sender Sender, subject string) *Service {
	if subject == "" {
		subject = DefaultSubject
	}
	return &Service{
		sender:  sender,
		subject: subject,
	}
}

// NotifyChanges sends a single digest for changed. Nothing is sent for an
// empty list.
func (s *Service) NotifyChanges(ctx context.Context, changed []site.Record, statusPageURL string) error {
	const op = "alert.notify_changes"

	if len(changed) == 0 {
		return nil
	}

	d := BuildDigest(s.subject, changed, statusPageURL)
	if err := s.sender.Send(ctx, d); err != nil {
		return apperror.New(apperror.Dependency, op, err)
	}
	return nil
}

func BuildDigest(subject string, changed []site.Record, statusPageURL string) Digest {
	sites := make([]SiteChange, 0, len(changed))

	var sb strings.Builder
	sb.WriteString("The following websites are reporting a status change:\n\n")
	for _, rec := range changed {
		reason, _ := rec.HTTPReason()
		sites = append(sites, SiteChange{
			URL:        rec.URL(),
			HTTPStatus: rec.HTTPStatus(),
			HTTPReason: reason,
		})
		fmt.Fprintf(&sb, "%s: status: %s - %s\n", rec.URL(), rec.HTTPStatus(), reason)
	}
	fmt.Fprintf(&sb, "\nYou can view the full website status here: %s", statusPageURL)

	return Digest{
		Subject:       subject,
		Message:       sb.String(),
		StatusPageURL: statusPageURL,
		Sites:         sites,
	}
}
