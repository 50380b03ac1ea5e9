// Package filestore provides a directory-backed store.Store. Each key is a
// single JSON file holding the domain list and its expiration.
package filestore

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-faster/errors"

	"github.com/optimode/disposable/store"
	"github.com/optimode/disposable/types"
)

// DirName is the subdirectory created under the user cache dir or temp dir.
const DirName = "disposable"

const fileSuffix = ".cache"

// ErrNoWritableDir is returned by Resolve when no candidate directory is writable.
var ErrNoWritableDir = errors.New("filestore: no writable cache directory")

// Store keeps cache entries as files in one directory.
type Store struct {
	dir string
}

var _ store.Store = (*Store)(nil)

// New creates the directory if needed and verifies it is writable.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("filestore: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create cache dir %q", dir)
	}
	probe, err := os.CreateTemp(dir, ".probe-*")
	if err != nil {
		return nil, errors.Wrapf(err, "cache dir %q not writable", dir)
	}
	_ = probe.Close()
	_ = os.Remove(probe.Name())

	return &Store{dir: dir}, nil
}

// DefaultDir returns the preferred cache location, <user cache dir>/disposable,
// or "" when the platform has no user cache dir.
func DefaultDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, DirName)
}

// Resolve returns a store in the first writable directory among the given
// candidates, falling back to <os.TempDir()>/disposable. Empty candidates are
// skipped. ErrNoWritableDir means the caller should run without a cache.
func Resolve(candidates ...string) (*Store, error) {
	dirs := append(slices.Clip(candidates), filepath.Join(os.TempDir(), DirName))
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if s, err := New(dir); err == nil {
			return s, nil
		}
	}
	return nil, ErrNoWritableDir
}

// Dir returns the directory the store writes to.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) Get(_ context.Context, key string) (types.Entry, bool, error) {
	b, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return types.Entry{}, false, nil
	}
	if err != nil {
		return types.Entry{}, false, errors.Wrap(err, "read cache file")
	}

	var e types.Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return types.Entry{}, false, errors.Wrap(err, "decode cache file")
	}
	return e, true, nil
}

// Put writes through a temp file and rename so readers never see a partial file.
func (s *Store) Put(_ context.Context, key string, entry types.Entry) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "encode cache entry")
	}

	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create temp file")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close temp file")
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return errors.Wrap(err, "rename cache file")
	}
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrap(err, "remove cache file")
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, sanitize(key)+fileSuffix)
}

// sanitize keeps keys inside the cache directory.
func sanitize(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		default:
			return '_'
		}
	}, strings.TrimLeft(key, "."))
}
