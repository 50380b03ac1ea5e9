package disposable

import (
	"time"

	"github.com/go-faster/errors"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/optimode/disposable/domainlist"
	"github.com/optimode/disposable/source/httpsource"
	"github.com/optimode/disposable/store/filestore"
)

// Options configures a Checker. Zero fields take the defaults below.
type Options struct {
	// SourceURL is the newline-delimited blocklist. Default: httpsource.DefaultURL
	SourceURL string
	// Retention is how long a fetched list stays valid. Default: 30 days
	Retention time.Duration
	// CacheDir is the preferred file cache location. Default: <user cache dir>/disposable.
	// When it is not writable the system temp dir is used, and when that fails
	// too the Checker runs without a cache.
	CacheDir string
	// DisableCache fetches the list on every call. Default: false
	DisableCache bool
	// FetchTimeout bounds one remote fetch. Default: 30s
	FetchTimeout time.Duration
	// MaxRedirects followed before the fetch fails. Default: 10
	MaxRedirects int
	// UserAgent sent to the list host. Default: "disposable-go"
	UserAgent string
	// Logger receives cache and fetch events. Default: no-op
	Logger *zap.Logger
	// Registerer receives Prometheus metrics. Default: nil (metrics not registered)
	Registerer prometheus.Registerer
}

func defaultOptions() Options {
	return Options{
		SourceURL:    httpsource.DefaultURL,
		Retention:    domainlist.DefaultRetention,
		CacheDir:     filestore.DefaultDir(),
		FetchTimeout: 30 * time.Second,
		MaxRedirects: 10,
		UserAgent:    "disposable-go",
		Logger:       zap.NewNop(),
	}
}

// withDefaults fills unset values from defaultOptions.
func (o Options) withDefaults() Options {
	def := defaultOptions()
	if o.SourceURL == "" {
		o.SourceURL = def.SourceURL
	}
	if o.Retention <= 0 {
		o.Retention = def.Retention
	}
	if o.CacheDir == "" {
		o.CacheDir = def.CacheDir
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = def.FetchTimeout
	}
	if o.MaxRedirects <= 0 {
		o.MaxRedirects = def.MaxRedirects
	}
	if o.UserAgent == "" {
		o.UserAgent = def.UserAgent
	}
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	return o
}

// envOptions is the environment form of Options.
type envOptions struct {
	SourceURL    string        `env:"DISPOSABLE_SOURCE_URL" env-default:"https://raw.githubusercontent.com/disposable-email-domains/disposable-email-domains/refs/heads/main/disposable_email_blocklist.conf"` //nolint: lll
	Retention    time.Duration `env:"DISPOSABLE_RETENTION" env-default:"720h"`
	CacheDir     string        `env:"DISPOSABLE_CACHE_DIR"`
	DisableCache bool          `env:"DISPOSABLE_DISABLE_CACHE" env-default:"false"`
	FetchTimeout time.Duration `env:"DISPOSABLE_FETCH_TIMEOUT" env-default:"30s"`
	MaxRedirects int           `env:"DISPOSABLE_MAX_REDIRECTS" env-default:"10"`
	UserAgent    string        `env:"DISPOSABLE_USER_AGENT" env-default:"disposable-go"`
}

// LoadOptions reads Options from DISPOSABLE_* environment variables.
// Unset variables keep their defaults; Logger and Registerer are left for
// the caller to set.
func LoadOptions() (Options, error) {
	var env envOptions
	if err := cleanenv.ReadEnv(&env); err != nil {
		return Options{}, errors.Wrap(err, "read environment")
	}

	return Options{
		SourceURL:    env.SourceURL,
		Retention:    env.Retention,
		CacheDir:     env.CacheDir,
		DisableCache: env.DisableCache,
		FetchTimeout: env.FetchTimeout,
		MaxRedirects: env.MaxRedirects,
		UserAgent:    env.UserAgent,
	}.withDefaults(), nil
}
