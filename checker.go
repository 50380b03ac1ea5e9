package disposable

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/optimode/disposable/check"
	"github.com/optimode/disposable/domainlist"
	"github.com/optimode/disposable/internal/parse"
	"github.com/optimode/disposable/source"
	"github.com/optimode/disposable/source/httpsource"
	"github.com/optimode/disposable/store"
	"github.com/optimode/disposable/store/filestore"
	"github.com/optimode/disposable/types"
)

// DomainProvider returns the current disposable domain set.
// *domainlist.Provider is the production implementation.
type DomainProvider interface {
	Domains(ctx context.Context) (types.DomainSet, error)
}

// Checker is the main fluent builder struct.
// Instantiate with New() or NewWithProvider().
// With* methods must be called before the first classification; the
// provider is assembled on first use and not rebuilt afterwards.
type Checker struct {
	opts   Options
	store  store.Store
	source source.Source

	mu       sync.Mutex
	provider DomainProvider
	fixed    bool // provider supplied by the caller
}

// New creates a Checker that fetches the default blocklist over HTTP and
// caches it in the file system. Optionally overrides the default Options.
func New(opts ...Options) *Checker {
	o := defaultOptions()
	if len(opts) > 0 {
		o = opts[0].withDefaults()
	}
	return &Checker{opts: o}
}

// NewWithProvider creates a Checker around an existing provider, e.g. a shared
// *domainlist.Provider or a test double.
func NewWithProvider(p DomainProvider) *Checker {
	return &Checker{opts: defaultOptions(), provider: p, fixed: true}
}

// WithStore replaces the file cache with another backend
// (memstore, redisstore, sqlstore, s3store or a custom store.Store).
func (c *Checker) WithStore(s store.Store) *Checker {
	c.store = s
	return c
}

// WithSource replaces the HTTP source, e.g. to read a mirrored or local list.
func (c *Checker) WithSource(s source.Source) *Checker {
	c.source = s
	return c
}

// WithoutCache fetches the list on every call.
func (c *Checker) WithoutCache() *Checker {
	c.opts.DisableCache = true
	return c
}

// IsDisposable reports whether email is disposable. Invalid syntax counts as
// disposable and never touches the network. Provider errors, including
// *SourceUnavailableError, are returned unchanged.
func (c *Checker) IsDisposable(ctx context.Context, email string) (bool, error) {
	res, err := c.Classify(ctx, email)
	if err != nil {
		return false, err
	}
	return res.Disposable, nil
}

// Classify is IsDisposable with the details of the decision.
func (c *Checker) Classify(ctx context.Context, email string) (Result, error) {
	parsed := parse.NewEmail(email)
	res, ok := classifySyntax(email, parsed)
	if !ok {
		return res, nil
	}

	domains, err := c.domains(ctx)
	if err != nil {
		return res, err
	}
	return classifyDomain(res, parsed, domains), nil
}

// ClassifyMany classifies a batch in input order. The domain list is
// obtained at most once per call, and not at all when every address is
// syntactically invalid.
func (c *Checker) ClassifyMany(ctx context.Context, emails []string) ([]Result, error) {
	results := make([]Result, len(emails))
	parsed := make([]parse.Email, len(emails))
	pending := false

	for i, e := range emails {
		parsed[i] = parse.NewEmail(e)
		var ok bool
		results[i], ok = classifySyntax(e, parsed[i])
		pending = pending || ok
	}
	if !pending {
		return results, nil
	}

	domains, err := c.domains(ctx)
	if err != nil {
		return nil, err
	}
	for i := range results {
		if results[i].ValidSyntax {
			results[i] = classifyDomain(results[i], parsed[i], domains)
		}
	}
	return results, nil
}

// classifySyntax fails closed: ok is false when the address is invalid and
// the returned result is already final.
func classifySyntax(email string, parsed parse.Email) (Result, bool) {
	if v := check.Syntax(parsed); v != "" {
		return Result{Email: email, Disposable: true, Details: string(v)}, false
	}
	return Result{Email: email, Domain: parsed.Domain, ValidSyntax: true}, true
}

func classifyDomain(res Result, parsed parse.Email, domains types.DomainSet) Result {
	if check.Disposable(parsed, domains) {
		res.Disposable = true
		res.Details = "disposable email domain detected"
		return res
	}
	res.Details = "domain ok"
	return res
}

func (c *Checker) domains(ctx context.Context) (types.DomainSet, error) {
	p := c.domainProvider()
	if p == nil {
		return nil, ErrNilProvider
	}
	return p.Domains(ctx)
}

// domainProvider assembles the provider on first use.
func (c *Checker) domainProvider() DomainProvider {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.provider != nil || c.fixed {
		return c.provider
	}

	src := c.source
	if src == nil {
		src = httpsource.New(httpsource.Config{
			URL:          c.opts.SourceURL,
			Timeout:      c.opts.FetchTimeout,
			MaxRedirects: c.opts.MaxRedirects,
			UserAgent:    c.opts.UserAgent,
		})
	}

	c.provider = domainlist.New(src, c.cacheStore(), domainlist.Config{
		Retention:  c.opts.Retention,
		Logger:     c.opts.Logger,
		Registerer: c.opts.Registerer,
	})
	return c.provider
}

// cacheStore picks the configured store, or resolves a writable directory.
// A nil result means the provider runs without a cache.
func (c *Checker) cacheStore() store.Store {
	if c.opts.DisableCache {
		return nil
	}
	if c.store != nil {
		return c.store
	}

	fs, err := filestore.Resolve(c.opts.CacheDir)
	if err != nil {
		c.opts.Logger.Warn("No writable cache directory, running without cache",
			zap.String("preferred_dir", c.opts.CacheDir), zap.Error(err))
		return nil
	}
	return fs
}
