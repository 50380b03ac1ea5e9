// Package disposable reports whether an email address belongs to a known
// disposable (throwaway) mail domain.
//
// The domain list is the community-maintained disposable-email-domains
// blocklist. It is fetched over HTTP, cached with an absolute expiration
// (30 days by default) and consulted with a case-insensitive lookup of the
// part after the last @.
//
// Basic usage:
//
//	disposable, err := disposable.New().IsDisposable(ctx, "user@example.com")
//
// Shared cache:
//
//	client, _ := redisstore.Dial(ctx, "redis://localhost:6379/0")
//	checker := disposable.New().WithStore(redisstore.New(client))
//
// Syntactically invalid addresses are reported as disposable without any
// network access. When neither a valid cache entry nor the remote list is
// available, the error matches ErrSourceUnavailable.
package disposable

import "github.com/optimode/disposable/types"

// DomainSet is a re-export from the types package so that consumers
// don't need to import the types package directly.
type DomainSet = types.DomainSet

// SourceUnavailableError is a re-export.
type SourceUnavailableError = types.SourceUnavailableError

// ErrSourceUnavailable is a re-export.
var ErrSourceUnavailable = types.ErrSourceUnavailable
