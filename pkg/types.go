package pkg

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Illness is the closed set of conditions a medication can be filed under.
type Illness string

const (
	IllnessDiabetes     Illness = "Diabetes"
	IllnessHypertension Illness = "Hypertension"
	IllnessHeartDisease Illness = "Heart Disease"
	IllnessStroke       Illness = "Stroke"
	IllnessKidney       Illness = "Kidney Disease"
	IllnessOther        Illness = "Other"
)

// Illnesses lists the named conditions in menu order; "Other" is appended
// by the keyboard builder.
var Illnesses = []Illness{
	IllnessDiabetes,
	IllnessHypertension,
	IllnessHeartDisease,
	IllnessStroke,
	IllnessKidney,
}

// ParseIllness maps a selection token back to an Illness.
func ParseIllness(s string) (Illness, bool) {
	switch Illness(s) {
	case IllnessDiabetes, IllnessHypertension, IllnessHeartDisease,
		IllnessStroke, IllnessKidney, IllnessOther:
		return Illness(s), true
	}
	return "", false
}

// Clock is a time of day with minute precision. It marshals to the
// zero-padded "HH:MM" form used in the medication files.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock accepts "H:MM" or "HH:MM". Hour must be 0-23 and minute 0-59.
func ParseClock(s string) (Clock, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("invalid time %q", s)
	}
	h, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Clock{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Clock{}, fmt.Errorf("invalid minute in %q", s)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("time %q out of range", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// ParseClockList splits a comma-separated list of times, dropping tokens that
// fail to parse and duplicates. Entry order of the first occurrence is kept.
// The result may be empty; callers decide whether that is an error.
func ParseClockList(s string) []Clock {
	var out []Clock
	seen := make(map[Clock]bool)
	for _, tok := range strings.Split(s, ",") {
		c, err := ParseClock(tok)
		if err != nil {
			continue
		}
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

func (c *Clock) UnmarshalJSON(b []byte) error {
	s, err := strconv.Unquote(string(b))
	if err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// FormatClocks renders a time list the way it appears in chat messages.
func FormatClocks(times []Clock) string {
	parts := make([]string, 0, len(times))
	for _, t := range times {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ", ")
}

// MedicationRecord is one user's entry for a single medication.
type MedicationRecord struct {
	Name    string  `json:"name"`
	Dosage  string  `json:"dosage,omitempty"`
	Times   []Clock `json:"times"`
	Illness Illness `json:"illness_tag,omitempty"`
	Remind  bool    `json:"remind"`
}

// MedicationKey normalizes a medication name into its store key, so that
// re-adding the same name overwrites instead of duplicating.
func MedicationKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}

// FamilyContact is a relative who receives notifications. The address is a
// Telegram chat ID.
type FamilyContact struct {
	Name   string `json:"name"`
	ChatID int64  `json:"id"`
}

// CareContact is a professional caregiver included in emergency fan-out.
type CareContact struct {
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
	Phone  string `json:"phone,omitempty"`
	ChatID int64  `json:"id,omitempty"`
}

// EventKind classifies an outbound family notification.
type EventKind string

const (
	EventAdded     EventKind = "added"
	EventUpdated   EventKind = "updated"
	EventRemoved   EventKind = "removed"
	EventMissed    EventKind = "missed"
	EventInactive  EventKind = "inactive"
	EventEmergency EventKind = "emergency"
	EventFall      EventKind = "fall"
)

// DoseAction records whether a scheduled dose was acknowledged or missed.
type DoseAction string

const (
	DoseTaken  DoseAction = "taken"
	DoseMissed DoseAction = "missed"
)

// DoseEvent is one entry in the adherence log.
type DoseEvent struct {
	ID      string     `json:"id"`
	UserID  string     `json:"user_id"`
	MedKey  string     `json:"med_key"`
	MedName string     `json:"med_name"`
	Action  DoseAction `json:"action"`
	At      time.Time  `json:"at"`
}

// Location is one shared position in a user's emergency location history.
type Location struct {
	Lat float64   `json:"lat"`
	Lng float64   `json:"lon"`
	At  time.Time `json:"at"`
}

// MapURL renders the Google Maps link sent to contacts.
func (l Location) MapURL() string {
	return fmt.Sprintf("https://maps.google.com/maps?q=%f,%f&ll=%f,%f&z=16", l.Lat, l.Lng, l.Lat, l.Lng)
}
