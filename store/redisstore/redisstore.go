// Package redisstore provides a store.Store backed by Redis, so several
// processes can share one cached domain list.
package redisstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/optimode/disposable/store"
	"github.com/optimode/disposable/types"
)

// DefaultPrefix namespaces every key written by the store.
const DefaultPrefix = "disposable:"

// Store keeps entries as JSON strings. Redis TTL mirrors the entry expiration
// so stale lists are evicted even if nobody reads them again.
type Store struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ store.Store = (*Store)(nil)

// Option customizes a Store.
type Option func(*Store)

// WithPrefix overrides DefaultPrefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) { s.prefix = prefix }
}

// WithClock overrides the clock used to compute TTLs (for tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New wraps an existing client. The client is not closed by the store.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{client: client, prefix: DefaultPrefix, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial parses a redis:// URL, connects and pings.
func Dial(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis URL")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "redis ping failed")
	}
	return client, nil
}

func (s *Store) Get(ctx context.Context, key string) (types.Entry, bool, error) {
	b, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return types.Entry{}, false, nil
	}
	if err != nil {
		return types.Entry{}, false, errors.Wrap(err, "redis get")
	}

	var e types.Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return types.Entry{}, false, errors.Wrap(err, "decode cache entry")
	}
	return e, true, nil
}

func (s *Store) Put(ctx context.Context, key string, entry types.Entry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "encode cache entry")
	}

	// Zero means no expiry; an already expired entry is still written and
	// left to the reader to discard.
	ttl := entry.ExpiresAt.Sub(s.now())
	if ttl < time.Second {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.prefix+key, b, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis set")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Wrap(err, "redis del")
	}
	return nil
}
