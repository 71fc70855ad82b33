package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"sitewatch/internals/modules/site"
	"sitewatch/pkg/apperror"

	"github.com/redis/go-redis/v9"
)

const siteKeyPrefix = "site:"

func siteKey(url string) string {
	return siteKeyPrefix + url
}

// GetSite returns nil, nil when no record is stored for url.
func (c *Client) GetSite(ctx context.Context, url string) (*site.Snapshot, error) {
	const op = "redisstore.site.get"

	var raw []byte
	err := retry(ctx, 2, func() error {
		var err error
		raw, err = c.rdb.Get(ctx, siteKey(url)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, apperror.New(apperror.Dependency, op, err)
	}
	if raw == nil {
		return nil, nil
	}

	var s site.Snapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, apperror.New(apperror.Internal, op, fmt.Errorf("decode %s: %w", siteKey(url), err))
	}
	return &s, nil
}

// PutSite stores s without expiry, replacing any previous record for the URL.
func (c *Client) PutSite(ctx context.Context, s site.Snapshot) error {
	const op = "redisstore.site.put"

	raw, err := json.Marshal(s)
	if err != nil {
		return apperror.New(apperror.Internal, op, err)
	}

	err = retry(ctx, 3, func() error {
		return c.rdb.Set(ctx, siteKey(s.URL), raw, 0).Err()
	})
	if err != nil {
		return apperror.New(apperror.Dependency, op, err)
	}
	return nil
}

func (c *Client) DelSite(ctx context.Context, url string) error {
	return c.rdb.Del(ctx, siteKey(url)).Err()
}

// SiteStore adapts the client to the store interface used by the check service.
type SiteStore struct {
	client *Client
}

func NewSiteStore(client *Client) *SiteStore {
	return &SiteStore{client: client}
}

func (s *SiteStore) Get(ctx context.Context, url string) (*site.Snapshot, error) {
	return s.client.GetSite(ctx, url)
}

func (s *SiteStore) Put(ctx context.Context, snap site.Snapshot) error {
	return s.client.PutSite(ctx, snap)
}
