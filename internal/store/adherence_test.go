package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"seniorcare-bot/pkg"
)

func TestFileDoseLogAppendAndSince(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medication_log.jsonl")
	l := NewFileDoseLog(path, zerolog.Nop())
	ctx := context.Background()
	now := time.Now()

	events := []pkg.DoseEvent{
		{ID: "1", UserID: "100", MedKey: "aspirin", Action: pkg.DoseTaken, At: now.Add(-48 * time.Hour)},
		{ID: "2", UserID: "100", MedKey: "aspirin", Action: pkg.DoseMissed, At: now.Add(-1 * time.Hour)},
		{ID: "3", UserID: "200", MedKey: "metformin", Action: pkg.DoseTaken, At: now},
	}
	for _, ev := range events {
		if err := l.Append(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}

	got, err := l.Since(ctx, "100", now.Add(-24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("Since = %v, want just the recent event for user 100", got)
	}

	got, err = l.Since(ctx, "100", now.Add(-72*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("Since over 72h = %v, want both events", got)
	}
}

func TestFileDoseLogSkipsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "medication_log.jsonl")
	l := NewFileDoseLog(path, zerolog.Nop())
	ctx := context.Background()

	if err := l.Append(ctx, pkg.DoseEvent{ID: "1", UserID: "100", Action: pkg.DoseTaken, At: time.Now()}); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("{truncated\n"); err != nil {
		t.Fatal(err)
	}
	f.Close()
	if err := l.Append(ctx, pkg.DoseEvent{ID: "2", UserID: "100", Action: pkg.DoseMissed, At: time.Now()}); err != nil {
		t.Fatal(err)
	}

	got, err := l.Since(ctx, "100", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("Since = %v, want the two intact events", got)
	}
}

func TestFileDoseLogMissingFile(t *testing.T) {
	l := NewFileDoseLog(filepath.Join(t.TempDir(), "nope.jsonl"), zerolog.Nop())
	got, err := l.Since(context.Background(), "100", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("Since on missing file = %v, want empty", got)
	}
}
