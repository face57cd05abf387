// Package report builds weekly medication adherence summaries from the dose
// event log.
package report

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"seniorcare-bot/internal/store"
	"seniorcare-bot/pkg"
)

// Week aggregates one user's trailing seven days of dose events.
type Week struct {
	Taken  int
	Missed int
	Events []pkg.DoseEvent
}

// AdherenceRate is taken/(taken+missed), or zero with no data.
func (w Week) AdherenceRate() float64 {
	total := w.Taken + w.Missed
	if total == 0 {
		return 0
	}
	return float64(w.Taken) / float64(total)
}

// Service computes weekly reports. When a Phraser is configured the numbers
// are additionally rendered as a short friendly paragraph; any phrasing
// failure falls back silently to the plain template.
type Service struct {
	doses   store.DoseLog
	phraser Phraser
	log     zerolog.Logger
}

func NewService(doses store.DoseLog, phraser Phraser, log zerolog.Logger) *Service {
	return &Service{
		doses:   doses,
		phraser: phraser,
		log:     log.With().Str("component", "report").Logger(),
	}
}

// Weekly tallies the user's dose events from the trailing seven days.
func (s *Service) Weekly(ctx context.Context, userID string) (Week, error) {
	since := time.Now().AddDate(0, 0, -7)
	events, err := s.doses.Since(ctx, userID, since)
	if err != nil {
		return Week{}, fmt.Errorf("load dose events: %w", err)
	}
	w := Week{Events: events}
	for _, ev := range events {
		switch ev.Action {
		case pkg.DoseTaken:
			w.Taken++
		case pkg.DoseMissed:
			w.Missed++
		}
	}
	return w, nil
}

// Render produces the user-facing weekly report message.
func (s *Service) Render(ctx context.Context, userID string) (string, error) {
	w, err := s.Weekly(ctx, userID)
	if err != nil {
		return "", err
	}
	plain := fmt.Sprintf(
		"Here is your weekly report:\nTaken: %d\nMissed: %d\nAdherence Rate: %.1f%%",
		w.Taken, w.Missed, w.AdherenceRate()*100,
	)
	if s.phraser == nil {
		return plain, nil
	}
	friendly, err := s.phrase(ctx, w)
	if err != nil {
		s.log.Warn().Err(err).Str("user", userID).Msg("friendly phrasing unavailable")
		return plain, nil
	}
	return plain + "\n\n" + friendly, nil
}

func (s *Service) phrase(ctx context.Context, w Week) (string, error) {
	var meds []string
	seen := map[string]bool{}
	for _, ev := range w.Events {
		if !seen[ev.MedName] {
			seen[ev.MedName] = true
			meds = append(meds, ev.MedName)
		}
	}
	prompt := fmt.Sprintf(
		"Over the last week the user took %d doses and missed %d. Medications involved: %s.",
		w.Taken, w.Missed, strings.Join(meds, ", "),
	)
	return s.phraser.Phrase(ctx, prompt)
}
