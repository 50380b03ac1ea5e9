// Package domainlist provides the current set of disposable domains, served
// from a cache entry while it is valid and fetched from the remote source
// otherwise.
package domainlist

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/optimode/disposable/internal/metrics"
	"github.com/optimode/disposable/source"
	"github.com/optimode/disposable/store"
	"github.com/optimode/disposable/types"
)

const (
	// DefaultRetention is how long a fetched list stays valid: 30 days.
	DefaultRetention = 30 * 24 * time.Hour
	// DefaultCacheKey is the single slot the list is cached under.
	DefaultCacheKey = "disposable_domains"
)

// errEmptyList rejects a successful response that carried no domains, so a
// blank body never gets cached for a whole retention window.
var errEmptyList = errors.New("domain list is empty")

// Config configures a Provider.
type Config struct {
	// Retention is added to the fetch time to compute the entry expiration. Default: 30 days
	Retention time.Duration
	// CacheKey is the store key holding the list. Default: "disposable_domains"
	CacheKey string
	// Logger receives cache and fetch events. Default: no-op
	Logger *zap.Logger
	// Registerer receives the provider metrics. Default: nil (not registered)
	Registerer prometheus.Registerer
	// Now is the clock used for expiration. Default: time.Now
	Now func() time.Time
}

// DefaultConfig returns the configuration used when fields are left unset.
func DefaultConfig() Config {
	return Config{
		Retention: DefaultRetention,
		CacheKey:  DefaultCacheKey,
		Logger:    zap.NewNop(),
		Now:       time.Now,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Retention <= 0 {
		c.Retention = def.Retention
	}
	if c.CacheKey == "" {
		c.CacheKey = def.CacheKey
	}
	if c.Logger == nil {
		c.Logger = def.Logger
	}
	if c.Now == nil {
		c.Now = def.Now
	}
	return c
}

// Provider returns the current disposable domain set.
// Calls are synchronous: a miss blocks on the remote fetch. Concurrent misses
// are not coordinated; each fetches and writes, and the last write wins.
type Provider struct {
	cfg     Config
	source  source.Source
	store   store.Store
	log     *zap.Logger
	metrics *metrics.Metrics
}

// New creates a Provider. A nil store runs the provider without a cache,
// fetching on every call.
func New(src source.Source, st store.Store, cfg Config) *Provider {
	cfg = cfg.withDefaults()
	return &Provider{
		cfg:     cfg,
		source:  src,
		store:   st,
		log:     cfg.Logger.With(zap.String("cache_key", cfg.CacheKey)),
		metrics: metrics.New(cfg.Registerer),
	}
}

// Cached reports whether the provider has a store to cache into.
func (p *Provider) Cached() bool {
	return p.store != nil
}

// Domains returns the domain set from a valid cache entry, or fetches and
// caches a fresh one. Every fetch failure is a *types.SourceUnavailableError.
// A successful response that contains no domains (only blank or '#' lines)
// counts as a transfer failure and is never cached.
func (p *Provider) Domains(ctx context.Context) (types.DomainSet, error) {
	if p.store != nil {
		if domains, ok := p.lookup(ctx); ok {
			return domains, nil
		}
	}
	return p.Refresh(ctx)
}

// Refresh fetches the list unconditionally and overwrites the cache entry.
func (p *Provider) Refresh(ctx context.Context) (types.DomainSet, error) {
	start := time.Now()
	domains, err := p.download(ctx)
	p.metrics.ObserveFetch(start, err, domains.Len())
	if err != nil {
		p.log.Warn("Fetching disposable domain list failed", zap.Error(err))
		return nil, err
	}

	fetchedAt := p.cfg.Now()
	p.log.Info("Fetched disposable domain list",
		zap.Int("domains", domains.Len()),
		zap.Duration("took", time.Since(start)))

	if p.store != nil {
		entry := types.Entry{Domains: domains, ExpiresAt: fetchedAt.Add(p.cfg.Retention)}
		if err := p.store.Put(ctx, p.cfg.CacheKey, entry); err != nil {
			p.metrics.CacheErrors.Inc()
			p.log.Warn("Writing disposable domain cache failed", zap.Error(err))
		}
	}

	return domains, nil
}

// lookup returns the cached set when a valid entry exists. Expired and
// unreadable entries are deleted and reported as a miss.
func (p *Provider) lookup(ctx context.Context) (types.DomainSet, bool) {
	entry, found, err := p.store.Get(ctx, p.cfg.CacheKey)
	switch {
	case err != nil:
		p.metrics.CacheErrors.Inc()
		p.log.Warn("Reading disposable domain cache failed, treating as miss", zap.Error(err))
		p.discard(ctx)
	case !found:
		p.log.Debug("Disposable domain cache miss")
	case entry.Valid(p.cfg.Now()):
		p.metrics.CacheHits.Inc()
		p.log.Debug("Disposable domain cache hit", zap.Time("expires_at", entry.ExpiresAt))
		return entry.Domains, true
	default:
		p.metrics.CacheExpired.Inc()
		p.log.Debug("Disposable domain cache expired", zap.Time("expires_at", entry.ExpiresAt))
		p.discard(ctx)
	}

	p.metrics.CacheMisses.Inc()
	return nil, false
}

func (p *Provider) discard(ctx context.Context) {
	if err := p.store.Delete(ctx, p.cfg.CacheKey); err != nil {
		p.metrics.CacheErrors.Inc()
		p.log.Warn("Deleting disposable domain cache failed", zap.Error(err))
	}
}

func (p *Provider) download(ctx context.Context) (types.DomainSet, error) {
	body, err := p.source.Fetch(ctx)
	if err != nil {
		return nil, unavailable(err)
	}
	defer func() { _ = body.Close() }()

	domains, err := Parse(body)
	if err != nil {
		return nil, unavailable(err)
	}
	if domains.Len() == 0 {
		return nil, unavailable(errEmptyList)
	}
	return domains, nil
}

// unavailable normalizes any fetch failure to the uniform error kind.
// Errors that already carry it pass through unchanged.
func unavailable(err error) error {
	if errors.Is(err, types.ErrSourceUnavailable) {
		return err
	}

	reason := types.ReasonTransfer
	if errors.Is(err, context.DeadlineExceeded) {
		reason = types.ReasonTimeout
	}
	return &types.SourceUnavailableError{Reason: reason, Message: err.Error(), Err: err}
}
