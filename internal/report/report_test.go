package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"seniorcare-bot/pkg"
)

type memDoseLog struct {
	events []pkg.DoseEvent
	err    error
}

func (m *memDoseLog) Append(_ context.Context, ev pkg.DoseEvent) error {
	m.events = append(m.events, ev)
	return nil
}

func (m *memDoseLog) Since(_ context.Context, userID string, since time.Time) ([]pkg.DoseEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []pkg.DoseEvent
	for _, ev := range m.events {
		if ev.UserID == userID && !ev.At.Before(since) {
			out = append(out, ev)
		}
	}
	return out, nil
}

type stubPhraser struct {
	out string
	err error
}

func (p *stubPhraser) Phrase(_ context.Context, _ string) (string, error) { return p.out, p.err }

func weekEvents(userID string) []pkg.DoseEvent {
	now := time.Now()
	return []pkg.DoseEvent{
		{UserID: userID, MedName: "Aspirin", Action: pkg.DoseTaken, At: now.Add(-2 * time.Hour)},
		{UserID: userID, MedName: "Aspirin", Action: pkg.DoseTaken, At: now.Add(-26 * time.Hour)},
		{UserID: userID, MedName: "Metformin", Action: pkg.DoseMissed, At: now.Add(-3 * time.Hour)},
		{UserID: userID, MedName: "Aspirin", Action: pkg.DoseTaken, At: now.Add(-30 * 24 * time.Hour)}, // too old
		{UserID: "other", MedName: "Aspirin", Action: pkg.DoseTaken, At: now},
	}
}

func TestWeeklyTally(t *testing.T) {
	s := NewService(&memDoseLog{events: weekEvents("100")}, nil, zerolog.Nop())

	w, err := s.Weekly(context.Background(), "100")
	if err != nil {
		t.Fatal(err)
	}
	if w.Taken != 2 || w.Missed != 1 {
		t.Errorf("week = %+v, want 2 taken / 1 missed", w)
	}
	if rate := w.AdherenceRate(); rate < 0.66 || rate > 0.67 {
		t.Errorf("rate = %v, want 2/3", rate)
	}
}

func TestAdherenceRateEmpty(t *testing.T) {
	if rate := (Week{}).AdherenceRate(); rate != 0 {
		t.Errorf("rate of empty week = %v, want 0", rate)
	}
}

func TestRenderPlain(t *testing.T) {
	s := NewService(&memDoseLog{events: weekEvents("100")}, nil, zerolog.Nop())

	text, err := s.Render(context.Background(), "100")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Taken: 2", "Missed: 1", "Adherence Rate: 66.7%"} {
		if !strings.Contains(text, want) {
			t.Errorf("report %q missing %q", text, want)
		}
	}
}

func TestRenderWithPhraser(t *testing.T) {
	s := NewService(&memDoseLog{events: weekEvents("100")},
		&stubPhraser{out: "Nice week, keep it up."}, zerolog.Nop())

	text, err := s.Render(context.Background(), "100")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "Taken: 2") || !strings.Contains(text, "Nice week, keep it up.") {
		t.Errorf("report = %q, want numbers plus the friendly paragraph", text)
	}
}

func TestRenderPhraserFailureFallsBack(t *testing.T) {
	s := NewService(&memDoseLog{events: weekEvents("100")},
		&stubPhraser{err: errors.New("rate limited")}, zerolog.Nop())

	text, err := s.Render(context.Background(), "100")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, "Taken: 2") {
		t.Errorf("report = %q, want the plain template", text)
	}
}

func TestRenderPropagatesLogError(t *testing.T) {
	s := NewService(&memDoseLog{err: errors.New("disk")}, nil, zerolog.Nop())
	if _, err := s.Render(context.Background(), "100"); err == nil {
		t.Error("want error when the dose log is unreadable")
	}
}
