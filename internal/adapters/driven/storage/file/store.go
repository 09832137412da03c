package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/assetdeck/internal/core/domain"
	"github.com/custodia-labs/assetdeck/internal/core/ports/driven"
	"github.com/custodia-labs/assetdeck/internal/logger"
)

// Ensure Store implements the interfaces.
var (
	_ driven.KVStore   = (*Store)(nil)
	_ driven.KVWatcher = (*Store)(nil)
)

const (
	fileExt = ".json"

	// DefaultDebounce coalesces the burst of events a single rename produces.
	DefaultDebounce = 100 * time.Millisecond
)

var (
	log = logger.For("filestore")

	validKey = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
)

// Store keeps one JSON file per key in a directory.
type Store struct {
	dir      string
	debounce time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithDebounce sets how long Watch waits for events to settle.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		s.debounce = d
	}
}

// NewStore creates a file store rooted at dir, creating it if needed.
// If dir is empty, defaults to ~/.assetdeck/data.
func NewStore(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".assetdeck", "data")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &Store{dir: dir, debounce: DefaultDebounce}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Dir returns the directory holding the records.
func (s *Store) Dir() string {
	return s.dir
}

// PathFor returns the file that holds key.
func (s *Store) PathFor(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("%w: key %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(s.dir, key+fileExt), nil
}

// Get returns the contents of the key's file.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.PathFor(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return data, nil
}

// Put atomically replaces the key's file with value.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	path, err := s.PathFor(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op after a successful rename

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: writing %s: %v", domain.ErrStorageUnavailable, key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: closing %s: %v", domain.ErrStorageUnavailable, key, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("%w: replacing %s: %v", domain.ErrStorageUnavailable, key, err)
	}
	return nil
}

// Delete removes the key's file. Deleting a missing key is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	path, err := s.PathFor(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}

// Watch reports changes to key until ctx is cancelled, then closes the
// returned channel. Bursts of events are coalesced into one notification,
// and a notification is dropped if the previous one has not been consumed.
func (s *Store) Watch(ctx context.Context, key string) (<-chan struct{}, error) {
	path, err := s.PathFor(key)
	if err != nil {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	// Watch the directory: rename-based writes replace the file's inode.
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", s.dir, err)
	}

	out := make(chan struct{}, 1)
	go s.run(ctx, watcher, path, out)
	log.Debug("watching %s", path)
	return out, nil
}

func (s *Store) run(ctx context.Context, watcher *fsnotify.Watcher, path string, out chan<- struct{}) {
	defer close(out)
	defer watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isRelevant(event, path) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(s.debounce)
			} else {
				timer.Reset(s.debounce)
			}
			fire = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn("watch error: %v", err)

		case <-fire:
			fire = nil
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}

// isRelevant reports whether event touches the watched file's contents.
func isRelevant(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}
