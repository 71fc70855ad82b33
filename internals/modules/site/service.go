package site

import (
	"context"

	"sitewatch/pkg/apperror"
)

type Store interface {
	Get(ctx context.Context, url string) (*Snapshot, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// GetSite returns the last stored state of url.
func (s *Service) GetSite(ctx context.Context, url string) (Snapshot, error) {
	const op = "service.site.get"

	if err := ValidateURL(url); err != nil {
		return Snapshot{}, apperror.New(apperror.InvalidInput, op, err).WithMessage("url must be absolute with scheme and host")
	}

	snap, err := s.store.Get(ctx, url)
	if err != nil {
		return Snapshot{}, err
	}
	if snap == nil {
		return Snapshot{}, apperror.New(apperror.NotFound, op, nil).WithMessage("site has not been checked yet")
	}
	return *snap, nil
}
