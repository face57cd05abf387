// Package remind schedules daily medication reminders, escalates
// unacknowledged doses to family, and watches for user inactivity.
package remind

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"seniorcare-bot/internal/store"
	"seniorcare-bot/pkg"
)

// Messenger delivers a reminder to the user's own chat. The Telegram bot
// implements it and attaches the Taken/Snooze buttons.
type Messenger interface {
	SendReminder(userID, medKey, text string) error
}

// MedSource is the slice of the medication store the scheduler reads.
type MedSource interface {
	All() map[string]map[string]pkg.MedicationRecord
	Load(userID string) map[string]pkg.MedicationRecord
}

// ActivitySource yields last-activity stamps for the check-in watch.
type ActivitySource interface {
	All() map[string]time.Time
}

// Alerter escalates to family. The notify dispatcher implements it.
type Alerter interface {
	DoseMissed(userID, medName string)
	Inactive(userID string, hours int)
}

type Options struct {
	MissedWindow time.Duration
	SnoozeDelay  time.Duration
	CheckinHours int
}

// Scheduler owns the cron entries (one per medication time) and the one-shot
// missed-dose timers. All exported methods are safe for concurrent use.
type Scheduler struct {
	cron  *cron.Cron
	meds  MedSource
	acts  ActivitySource
	doses store.DoseLog
	msgr  Messenger
	alert Alerter
	opts  Options
	log   zerolog.Logger

	mu          sync.Mutex
	entries     map[string][]cron.EntryID
	pending     map[string]*time.Timer // user|medKey -> missed-dose timer
	lastCheckin map[string]time.Time   // user -> when family was last alerted
}

func NewScheduler(meds MedSource, acts ActivitySource, doses store.DoseLog, msgr Messenger, alert Alerter, opts Options, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		meds:        meds,
		acts:        acts,
		doses:       doses,
		msgr:        msgr,
		alert:       alert,
		opts:        opts,
		log:         log.With().Str("component", "remind").Logger(),
		entries:     make(map[string][]cron.EntryID),
		pending:     make(map[string]*time.Timer),
		lastCheckin: make(map[string]time.Time),
	}
}

// Start builds reminder entries for every stored user and begins dispatch.
func (s *Scheduler) Start() {
	for userID := range s.meds.All() {
		s.Reschedule(userID)
	}
	if _, err := s.cron.AddFunc("@every 1h", s.checkActivity); err != nil {
		s.log.Error().Err(err).Msg("activity check not scheduled")
	}
	s.cron.Start()
}

// Stop halts dispatch and drops pending missed-dose timers.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, t := range s.pending {
		t.Stop()
		delete(s.pending, key)
	}
}

// Reschedule rebuilds the daily entries for one user, e.g. after a save,
// delete or reminder toggle.
func (s *Scheduler) Reschedule(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.entries[userID] {
		s.cron.Remove(id)
	}
	s.entries[userID] = nil
	for medKey, med := range s.meds.Load(userID) {
		if !med.Remind {
			continue
		}
		for _, t := range med.Times {
			spec := fmt.Sprintf("%d %d * * *", t.Minute, t.Hour)
			medKey := medKey
			id, err := s.cron.AddFunc(spec, func() { s.fire(userID, medKey) })
			if err != nil {
				s.log.Error().Err(err).Str("user", userID).Str("med", medKey).Str("spec", spec).Msg("reminder not scheduled")
				continue
			}
			s.entries[userID] = append(s.entries[userID], id)
		}
	}
	s.log.Debug().Str("user", userID).Int("entries", len(s.entries[userID])).Msg("reminders rebuilt")
}

// fire delivers one reminder and arms the missed-dose escalation window.
func (s *Scheduler) fire(userID, medKey string) {
	med, ok := s.meds.Load(userID)[medKey]
	if !ok || !med.Remind {
		return
	}
	msg := fmt.Sprintf("\U0001F48A Time to take your %s!", med.Name)
	if med.Dosage != "" {
		msg = fmt.Sprintf("\U0001F48A Time to take your %s (%s)!", med.Name, med.Dosage)
	}
	if err := s.msgr.SendReminder(userID, medKey, msg); err != nil {
		s.log.Error().Err(err).Str("user", userID).Str("med", medKey).Msg("reminder delivery failed")
		return
	}
	s.armMissed(userID, medKey, med.Name)
}

func (s *Scheduler) armMissed(userID, medKey, medName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pendingKey := userID + "|" + medKey
	if t, ok := s.pending[pendingKey]; ok {
		t.Stop()
	}
	s.pending[pendingKey] = time.AfterFunc(s.opts.MissedWindow, func() {
		s.mu.Lock()
		delete(s.pending, pendingKey)
		s.mu.Unlock()
		s.record(userID, medKey, medName, pkg.DoseMissed)
		s.alert.DoseMissed(userID, medName)
	})
}

// Acknowledge handles a Taken press: cancels the escalation and logs the
// dose. It returns the medication name for the confirmation copy.
func (s *Scheduler) Acknowledge(userID, medKey string) (string, bool) {
	med, ok := s.meds.Load(userID)[medKey]
	if !ok {
		return "", false
	}
	s.mu.Lock()
	if t, ok := s.pending[userID+"|"+medKey]; ok {
		t.Stop()
		delete(s.pending, userID+"|"+medKey)
	}
	s.mu.Unlock()
	s.record(userID, medKey, med.Name, pkg.DoseTaken)
	return med.Name, true
}

// Snooze re-sends the reminder after the configured delay. The missed-dose
// window stays armed; snoozing is not an acknowledgement.
func (s *Scheduler) Snooze(userID, medKey string) (string, bool) {
	med, ok := s.meds.Load(userID)[medKey]
	if !ok {
		return "", false
	}
	time.AfterFunc(s.opts.SnoozeDelay, func() { s.fire(userID, medKey) })
	return med.Name, true
}

func (s *Scheduler) record(userID, medKey, medName string, action pkg.DoseAction) {
	ev := pkg.DoseEvent{
		ID:      uuid.NewString(),
		UserID:  userID,
		MedKey:  medKey,
		MedName: medName,
		Action:  action,
		At:      time.Now(),
	}
	if err := s.doses.Append(context.Background(), ev); err != nil {
		s.log.Error().Err(err).Str("user", userID).Str("med", medKey).Msg("dose event not recorded")
	}
}

// checkActivity alerts family once per silence period when a user has been
// quiet longer than the check-in threshold.
func (s *Scheduler) checkActivity() {
	age := time.Duration(s.opts.CheckinHours) * time.Hour
	for userID, last := range s.acts.All() {
		if time.Since(last) < age {
			continue
		}
		s.mu.Lock()
		alerted := s.lastCheckin[userID]
		if alerted.After(last) {
			s.mu.Unlock()
			continue
		}
		s.lastCheckin[userID] = time.Now()
		s.mu.Unlock()
		s.alert.Inactive(userID, s.opts.CheckinHours)
	}
}
