// Package sqlstore provides a store.Store backed by a PostgreSQL table.
package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-faster/errors"
	"github.com/lib/pq"

	"github.com/optimode/disposable/store"
	"github.com/optimode/disposable/types"
)

// DefaultTable is the table created by Migrate.
const DefaultTable = "disposable_domain_cache"

// Store keeps one row per cache key: the domains as a text[] and the
// expiration as timestamptz.
type Store struct {
	db    *sql.DB
	table string
}

var _ store.Store = (*Store)(nil)

// Open connects using the lib/pq driver and pings the server.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping database")
	}
	return db, nil
}

// New wraps an open database. An empty table name means DefaultTable.
func New(db *sql.DB, table string) *Store {
	if table == "" {
		table = DefaultTable
	}
	return &Store{db: db, table: pq.QuoteIdentifier(table)}
}

// Migrate creates the cache table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+s.table+` (
	cache_key  TEXT PRIMARY KEY,
	domains    TEXT[] NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
)`)
	if err != nil {
		return errors.Wrap(err, "create cache table")
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) (types.Entry, bool, error) {
	var (
		domains   []string
		expiresAt time.Time
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT domains, expires_at FROM `+s.table+` WHERE cache_key = $1`, key,
	).Scan(pq.Array(&domains), &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Entry{}, false, nil
	}
	if err != nil {
		return types.Entry{}, false, errors.Wrap(err, "select cache entry")
	}

	return types.Entry{Domains: types.NewDomainSet(domains...), ExpiresAt: expiresAt}, true, nil
}

func (s *Store) Put(ctx context.Context, key string, entry types.Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO `+s.table+` (cache_key, domains, expires_at) VALUES ($1, $2, $3)
ON CONFLICT (cache_key) DO UPDATE SET domains = EXCLUDED.domains, expires_at = EXCLUDED.expires_at`,
		key, pq.Array(entry.Domains.Sorted()), entry.ExpiresAt,
	)
	if err != nil {
		return errors.Wrap(err, "upsert cache entry")
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+s.table+` WHERE cache_key = $1`, key); err != nil {
		return errors.Wrap(err, "delete cache entry")
	}
	return nil
}
