// Package source defines where the disposable domain list comes from.
package source

import (
	"context"
	"io"
)

// Source fetches the raw blocklist: newline-delimited domain names.
// Implementations return *types.SourceUnavailableError for every transport
// failure so callers only ever see one error shape.
//
//go:generate mockgen -package mocksource -source=source.go -destination=mocksource/mocksource.go
type Source interface {
	// Fetch opens the remote list. The caller closes the returned body.
	Fetch(ctx context.Context) (io.ReadCloser, error)
}

// Func adapts an ordinary function to the Source interface.
type Func func(ctx context.Context) (io.ReadCloser, error)

func (f Func) Fetch(ctx context.Context) (io.ReadCloser, error) {
	return f(ctx)
}
