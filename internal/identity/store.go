package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/joefazee/globeguide/internal/backend"
	"github.com/joefazee/globeguide/internal/logger"
)

// FileStore persists the signed-in session as a JSON file readable only by
// its owner.
type FileStore struct {
	path string

	// mu serializes writers in this process.
	mu sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: filepath.Clean(path)}
}

// Path returns the session file location.
func (s *FileStore) Path() string {
	return s.path
}

// Load returns the stored session, or nil when there is none. An unreadable
// or corrupt file counts as no session.
func (s *FileStore) Load() (*backend.Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("identity: read session: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var sess backend.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("identity: decode session: %w", err)
	}
	if sess.AccessToken == "" {
		return nil, nil
	}
	return &sess, nil
}

// Save writes sess by renaming a temporary file over the session file so
// readers never see a partial document.
func (s *FileStore) Save(sess *backend.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("identity: encode session: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("identity: create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("identity: write session: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("identity: write session: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("identity: write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("identity: write session: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("identity: write session: %w", err)
	}
	return nil
}

// Clear removes the session file. A missing file is not an error.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("identity: clear session: %w", err)
	}
	return nil
}

// Watch calls onChange whenever the session file is created, written,
// removed or renamed, until ctx is done. The parent directory is watched so
// that the file may come and go. The watch is registered before Watch
// returns; the returned channel is closed once the watch loop has exited.
func (s *FileStore) Watch(ctx context.Context, log logger.Logger, onChange func()) (<-chan struct{}, error) {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("identity: create session dir: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("identity: watch: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("identity: watch %s: %w", dir, err)
	}
	log.Debug("watching session file", map[string]interface{}{"path": s.path})

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer watcher.Close()
		s.watchLoop(ctx, watcher, log, onChange)
	}()
	return done, nil
}

func (s *FileStore) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, log logger.Logger, onChange func()) {
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != s.path {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Error(err, map[string]interface{}{"op": "watch_session"})
		}
	}
}
