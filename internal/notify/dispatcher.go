// Package notify fans events out to a user's family (and, for emergencies,
// care) contacts. Delivery is strictly best effort: a failure for one
// contact never aborts delivery to the others and never reaches the user
// whose action triggered the notification.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"seniorcare-bot/pkg"
)

// Sender delivers one message to one chat. The Telegram bot implements it.
type Sender interface {
	Send(chatID int64, text string) error
}

// FamilySource yields a user's family contacts.
type FamilySource interface {
	Load(userID string) map[string]pkg.FamilyContact
}

// CareSource yields a user's professional care contacts.
type CareSource interface {
	Load(userID string) []pkg.CareContact
}

type Dispatcher struct {
	family FamilySource
	care   CareSource
	sender Sender
	log    zerolog.Logger
}

func NewDispatcher(family FamilySource, care CareSource, sender Sender, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		family: family,
		care:   care,
		sender: sender,
		log:    log.With().Str("component", "notify").Logger(),
	}
}

// MedicationEvent tells family about a schedule change. Implements the flow
// engine's Notifier.
func (d *Dispatcher) MedicationEvent(_ context.Context, userID string, kind pkg.EventKind, rec pkg.MedicationRecord) {
	var msg string
	switch kind {
	case pkg.EventAdded:
		msg = fmt.Sprintf("\U0001F48A Schedule update: your family member added %s to their medications. Reminders: %s.",
			rec.Name, pkg.FormatClocks(rec.Times))
	case pkg.EventUpdated:
		msg = fmt.Sprintf("\U0001F48A Schedule update: your family member updated %s. Reminders: %s.",
			rec.Name, pkg.FormatClocks(rec.Times))
	case pkg.EventRemoved:
		msg = fmt.Sprintf("\U0001F48A Schedule update: your family member removed %s from their medications.", rec.Name)
	default:
		msg = fmt.Sprintf("\U0001F48A Schedule update for %s.", rec.Name)
	}
	d.toFamily(userID, string(kind), msg)
}

// DoseMissed alerts family that a reminder went unacknowledged.
func (d *Dispatcher) DoseMissed(userID, medName string) {
	d.toFamily(userID, string(pkg.EventMissed),
		fmt.Sprintf("⚠️ Your family member may have missed their %s. You may want to check on them.", medName))
}

// Inactive alerts family that the user has not interacted for too long.
func (d *Dispatcher) Inactive(userID string, hours int) {
	d.toFamily(userID, string(pkg.EventInactive),
		fmt.Sprintf("❓ Your family member has not used their care bot in over %d hours. A quick check-in may be welcome.", hours))
}

// Emergency fans an alert out to family and care contacts alike.
func (d *Dispatcher) Emergency(userID, msg string) {
	sent := d.toFamily(userID, string(pkg.EventEmergency), msg)
	for _, c := range d.care.Load(userID) {
		if c.ChatID == 0 {
			continue
		}
		if err := d.sender.Send(c.ChatID, msg); err != nil {
			d.log.Error().Err(err).Str("user", userID).Str("contact", c.Name).Msg("care delivery failed")
			continue
		}
		sent++
	}
	d.log.Info().Str("user", userID).Int("delivered", sent).Msg("emergency fan-out")
}

func (d *Dispatcher) toFamily(userID, kind, msg string) int {
	sent := 0
	for _, c := range d.family.Load(userID) {
		if err := d.sender.Send(c.ChatID, msg); err != nil {
			d.log.Error().Err(err).
				Str("user", userID).Str("kind", kind).Str("contact", c.Name).
				Msg("family delivery failed")
			continue
		}
		sent++
	}
	d.log.Debug().Str("user", userID).Str("kind", kind).Int("delivered", sent).Msg("family fan-out")
	return sent
}
