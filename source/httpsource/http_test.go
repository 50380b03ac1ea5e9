package httpsource_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/optimode/disposable/source/httpsource"
	"github.com/optimode/disposable/types"
)

func readAll(t *testing.T, rc io.ReadCloser) (string, error) {
	t.Helper()
	defer func() { _ = rc.Close() }()
	b, err := io.ReadAll(rc)
	return string(b), err
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		_, _ = io.WriteString(w, "0-mail.com\n\nmailinator.com\n")
	}))
	defer srv.Close()

	s := httpsource.New(httpsource.Config{URL: srv.URL, UserAgent: "test-agent"})
	rc, err := s.Fetch(context.Background())
	require.NoError(t, err)

	body, err := readAll(t, rc)
	require.NoError(t, err)
	assert.Equal(t, "0-mail.com\n\nmailinator.com\n", body)
}

func TestFetch_DefaultURL(t *testing.T) {
	s := httpsource.New(httpsource.Config{})
	assert.Equal(t, httpsource.DefaultURL, s.URL())
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := httpsource.New(httpsource.Config{URL: srv.URL}).Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrSourceUnavailable)

	var sue *types.SourceUnavailableError
	require.ErrorAs(t, err, &sue)
	assert.Equal(t, types.ReasonStatus, sue.Reason)
	assert.Equal(t, http.StatusServiceUnavailable, sue.StatusCode)
}

func TestFetch_ConnectionRefused(t *testing.T) {
	// Grab a free port and close it so nothing is listening.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())

	_, err = httpsource.New(httpsource.Config{URL: "http://" + addr}).Fetch(context.Background())

	var sue *types.SourceUnavailableError
	require.ErrorAs(t, err, &sue)
	assert.Equal(t, types.ReasonConnect, sue.Reason)
	assert.Zero(t, sue.StatusCode)
	assert.NotEmpty(t, sue.Message)
}

func TestFetch_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	s := httpsource.New(httpsource.Config{URL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := s.Fetch(context.Background())

	var sue *types.SourceUnavailableError
	require.ErrorAs(t, err, &sue)
	assert.Equal(t, types.ReasonTimeout, sue.Reason)
}

func TestFetch_TooManyRedirects(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, srv.URL+"/loop", http.StatusFound)
	}))
	defer srv.Close()

	_, err := httpsource.New(httpsource.Config{URL: srv.URL, MaxRedirects: 3}).Fetch(context.Background())

	var sue *types.SourceUnavailableError
	require.ErrorAs(t, err, &sue)
	assert.Equal(t, types.ReasonRedirects, sue.Reason)
}

func TestFetch_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("a", 64))
	}))
	defer srv.Close()

	rc, err := httpsource.New(httpsource.Config{URL: srv.URL, MaxBodyBytes: 16}).Fetch(context.Background())
	require.NoError(t, err)

	_, err = readAll(t, rc)
	var sue *types.SourceUnavailableError
	require.ErrorAs(t, err, &sue)
	assert.Equal(t, types.ReasonTransfer, sue.Reason)
}

func TestFetch_BodyExactlyAtLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, strings.Repeat("a", 16))
	}))
	defer srv.Close()

	rc, err := httpsource.New(httpsource.Config{URL: srv.URL, MaxBodyBytes: 16}).Fetch(context.Background())
	require.NoError(t, err)

	body, err := readAll(t, rc)
	require.NoError(t, err)
	assert.Len(t, body, 16)
}
