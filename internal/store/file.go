// Package store holds the durable state of the bot: whole-file JSON documents
// for medications, contacts, activity and locations, plus the append-only
// dose-event log. Every mutation is a locked read-modify-write of the full
// file followed by an atomic replace, so concurrent writers cannot corrupt a
// document or silently drop each other's updates.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"
)

// ErrLocked is returned when the advisory lock cannot be acquired in time.
// Callers surface it to the user as a retryable failure.
var ErrLocked = errors.New("store: file is locked")

const lockTimeout = 5 * time.Second

// jsonFile wraps one JSON document on disk behind a file-scoped advisory
// lock. The flock covers other processes; the mutex covers goroutines in
// this one, since a shared flock handle does not exclude its own holder.
// The zero value is not usable; construct with newJSONFile.
type jsonFile struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
	log  zerolog.Logger
}

func newJSONFile(path string, log zerolog.Logger) *jsonFile {
	return &jsonFile{
		path: path,
		lock: flock.New(path + ".lock"),
		log:  log.With().Str("file", filepath.Base(path)).Logger(),
	}
}

// read decodes the document into v. A missing or corrupt file leaves v
// untouched: reads degrade to the zero value instead of failing.
func (f *jsonFile) read(v any) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.log.Warn().Err(err).Msg("read failed, treating as empty")
		}
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		f.log.Warn().Err(err).Msg("corrupt document, treating as empty")
	}
}

// replace writes v to a temp file in the same directory and renames it over
// the document, so a failed write never leaves a partial file behind.
func (f *jsonFile) replace(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", f.path, err)
	}
	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", f.path, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp for %s: %w", f.path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp for %s: %w", f.path, err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// withLock runs fn holding the exclusive advisory lock.
func (f *jsonFile) withLock(fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	ok, err := f.lock.TryLockContext(ctx, 50*time.Millisecond)
	if err != nil || !ok {
		return fmt.Errorf("%w: %s", ErrLocked, f.path)
	}
	defer f.lock.Unlock()
	return fn()
}

// withRLock runs fn holding the shared advisory lock.
func (f *jsonFile) withRLock(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	ok, err := f.lock.TryRLockContext(ctx, 50*time.Millisecond)
	if err != nil || !ok {
		// Reads degrade rather than fail; proceed without the lock.
		f.log.Warn().Msg("read lock unavailable, reading anyway")
		fn()
		return
	}
	defer f.lock.Unlock()
	fn()
}
