package store

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"seniorcare-bot/pkg"
)

// DoseLog records dose taken/missed events for adherence reporting.
type DoseLog interface {
	Append(ctx context.Context, ev pkg.DoseEvent) error
	Since(ctx context.Context, userID string, since time.Time) ([]pkg.DoseEvent, error)
}

// FileDoseLog appends events as JSON lines. Unreadable lines are skipped on
// read, matching the degrade-to-empty contract of the other stores.
type FileDoseLog struct {
	f *jsonFile // reused for its lock; the document itself is line-oriented
}

func NewFileDoseLog(path string, log zerolog.Logger) *FileDoseLog {
	return &FileDoseLog{f: newJSONFile(path, log)}
}

func (l *FileDoseLog) Append(ctx context.Context, ev pkg.DoseEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode dose event: %w", err)
	}
	return l.f.withLock(func() error {
		file, err := os.OpenFile(l.f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open dose log: %w", err)
		}
		defer file.Close()
		if _, err := file.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("append dose event: %w", err)
		}
		return nil
	})
}

func (l *FileDoseLog) Since(ctx context.Context, userID string, since time.Time) ([]pkg.DoseEvent, error) {
	var out []pkg.DoseEvent
	var scanErr error
	l.f.withRLock(func() {
		file, err := os.Open(l.f.path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				scanErr = err
			}
			return
		}
		defer file.Close()
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			var ev pkg.DoseEvent
			if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
				continue
			}
			if ev.UserID == userID && !ev.At.Before(since) {
				out = append(out, ev)
			}
		}
		scanErr = scanner.Err()
	})
	return out, scanErr
}
