package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"brewbook/internal/config"
	"brewbook/internal/fileutil"
)

const (
	lockFileName   = ".brewbook-recipes.lock"
	lockRetryDelay = 25 * time.Millisecond
)

// FS stores documents as <dir>/<slug>.xml. Writers in this and other
// processes are serialized through a lock file in the same directory.
type FS struct {
	dir  string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewFS returns a filesystem backend rooted at dir, creating it if needed.
func NewFS(dir string) (*FS, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage: recipes directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create recipes directory: %w", err)
	}
	return &FS{dir: dir, lock: flock.New(filepath.Join(dir, lockFileName))}, nil
}

func (s *FS) Driver() string { return config.StorageFilesystem }

// Dir returns the directory documents are stored in.
func (s *FS) Dir() string { return s.dir }

func (s *FS) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	slugs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if slug, ok := slugFromName(entry.Name()); ok {
			slugs = append(slugs, slug)
		}
	}
	sort.Strings(slugs)
	return slugs, nil
}

func (s *FS) Read(ctx context.Context, slug string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name, err := documentName(slug)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, notFound(slug)
		}
		return nil, fmt.Errorf("read recipe %q: %w", slug, err)
	}
	return data, nil
}

func (s *FS) Write(ctx context.Context, slug string, data []byte) error {
	name, err := documentName(slug)
	if err != nil {
		return err
	}
	unlock, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := fileutil.WriteFileAtomic(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write recipe %q: %w", slug, err)
	}
	return nil
}

func (s *FS) Delete(ctx context.Context, slug string) (bool, error) {
	name, err := documentName(slug)
	if err != nil {
		return false, err
	}
	unlock, err := s.acquire(ctx)
	if err != nil {
		return false, err
	}
	defer unlock()

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("delete recipe %q: %w", slug, err)
	}
	return true, nil
}

func (s *FS) acquire(ctx context.Context) (func(), error) {
	s.mu.Lock()
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("lock recipes directory: %w", err)
	}
	if !locked {
		s.mu.Unlock()
		return nil, fmt.Errorf("lock recipes directory: %s is held by another process", s.lock.Path())
	}
	return func() {
		_ = s.lock.Unlock()
		s.mu.Unlock()
	}, nil
}
