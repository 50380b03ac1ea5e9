// Package httpsource provides a source.Source that downloads the blocklist
// over HTTP(S) and maps every transport failure to *types.SourceUnavailableError.
package httpsource

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/optimode/disposable/source"
	"github.com/optimode/disposable/types"
)

// DefaultURL is the community-maintained disposable-email-domains blocklist.
const DefaultURL = "https://raw.githubusercontent.com/disposable-email-domains/disposable-email-domains/refs/heads/main/disposable_email_blocklist.conf"

var (
	errTooManyRedirects = errors.New("too many redirects")
	errBodyTooLarge     = errors.New("response body exceeds size limit")
)

// Config configures the HTTP source.
type Config struct {
	// URL of the newline-delimited list. Default: DefaultURL
	URL string
	// Timeout bounds the whole request including the body read. Default: 30s
	Timeout time.Duration
	// MaxRedirects is how many redirects are followed before giving up. Default: 10
	MaxRedirects int
	// UserAgent sent with the request. Default: "disposable-go"
	UserAgent string
	// MaxBodyBytes caps the accepted response size. Default: 16 MiB
	MaxBodyBytes int64
}

func (c Config) withDefaults() Config {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = 10
	}
	if c.UserAgent == "" {
		c.UserAgent = "disposable-go"
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = 16 << 20
	}
	return c
}

// Source downloads the blocklist. It is safe for concurrent use.
type Source struct {
	cfg    Config
	client *http.Client
}

// Ensure Source conforms to the source.Source interface at compile time.
var _ source.Source = (*Source)(nil)

// New creates an HTTP source with its own http.Client.
func New(cfg Config) *Source {
	return NewWithClient(cfg, &http.Client{})
}

// NewWithClient creates an HTTP source around the given client (useful for
// tests and custom transports). The client is copied; its Timeout and
// CheckRedirect are filled from cfg when unset.
func NewWithClient(cfg Config, client *http.Client) *Source {
	cfg = cfg.withDefaults()
	c := *client
	if c.Timeout == 0 {
		c.Timeout = cfg.Timeout
	}
	if c.CheckRedirect == nil {
		maxRedirects := cfg.MaxRedirects
		c.CheckRedirect = func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errTooManyRedirects
			}
			return nil
		}
	}
	return &Source{cfg: cfg, client: &c}
}

// URL returns the address the list is fetched from.
func (s *Source) URL() string {
	return s.cfg.URL
}

// Fetch performs a single GET. Non-2xx responses, connection failures,
// timeouts and redirect loops all come back as *types.SourceUnavailableError.
func (s *Source) Fetch(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.URL, nil)
	if err != nil {
		return nil, classify(errors.Wrap(err, "create request"))
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)
	req.Header.Set("Accept", "text/plain")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, classify(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		_ = resp.Body.Close()
		return nil, &types.SourceUnavailableError{
			Reason:     types.ReasonStatus,
			Message:    "unexpected response status " + resp.Status,
			StatusCode: resp.StatusCode,
		}
	}

	return &body{rc: resp.Body, remaining: s.cfg.MaxBodyBytes}, nil
}

// body enforces the size limit and maps read failures to the uniform error.
type body struct {
	rc        io.ReadCloser
	remaining int64
}

func (b *body) Read(p []byte) (int, error) {
	if b.remaining <= 0 {
		// Probe one byte: a body of exactly the limit is fine.
		var probe [1]byte
		n, err := b.rc.Read(probe[:])
		if n > 0 {
			return 0, classify(errBodyTooLarge)
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, classify(err)
		}
		return 0, err
	}
	if int64(len(p)) > b.remaining {
		p = p[:b.remaining]
	}
	n, err := b.rc.Read(p)
	b.remaining -= int64(n)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, classify(err)
	}
	return n, err
}

func (b *body) Close() error {
	return b.rc.Close()
}

// classify maps a transport error to the single error kind exposed to callers.
func classify(err error) *types.SourceUnavailableError {
	out := &types.SourceUnavailableError{
		Reason:  types.ReasonTransfer,
		Message: err.Error(),
		Err:     err,
	}

	var (
		netErr net.Error
		opErr  *net.OpError
		dnsErr *net.DNSError
	)
	switch {
	case errors.Is(err, errTooManyRedirects):
		out.Reason = types.ReasonRedirects
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		out.Reason = types.ReasonTimeout
	case errors.As(err, &dnsErr), errors.As(err, &opErr) && opErr.Op == "dial":
		out.Reason = types.ReasonConnect
	}
	return out
}
