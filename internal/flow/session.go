// Package flow implements the bot's conversational forms as explicit state
// machines over per-(user, chat) sessions. The package is transport-agnostic:
// inputs arrive as open/select/text/cancel events and replies come back as
// text plus option rows, leaving the Telegram specifics to the caller.
package flow

import (
	"sync"

	"seniorcare-bot/pkg"
)

// SessionKey identifies one conversation.
type SessionKey struct {
	UserID string
	ChatID int64
}

// Step is the closed set of conversation states. Saved and cancelled are
// events, not resting states: a session never persists in a terminal state.
type Step int

const (
	StepIdle Step = iota
	StepAwaitIllness
	StepAwaitName
	StepAwaitDosage
	StepAwaitTimes
	StepAwaitReview
	StepAwaitFinalConfirm
	StepAwaitAddMore
	StepAwaitContact // family contact form
)

// Session is the ephemeral state of one in-flight form. It is never
// persisted; a restart simply loses in-flight conversations.
type Session struct {
	Step Step

	// medication form fields
	Illness  pkg.Illness
	Name     string
	Dosage   string
	Times    []pkg.Clock
	IsUpdate bool

	// family contact form: name being edited, "" while adding
	EditingContact string

	// set by the emergency command; the next shared location is fanned out
	AwaitingLocation bool
}

// SessionStore maps conversation keys to sessions. The map is mutex-guarded;
// individual sessions are only ever touched by their own conversation, which
// the hosting runtime serializes per chat.
type SessionStore struct {
	mu sync.Mutex
	m  map[SessionKey]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{m: make(map[SessionKey]*Session)}
}

// Get returns the session for key, or nil if none exists.
func (s *SessionStore) Get(key SessionKey) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key]
}

// GetOrCreate returns the existing session or a fresh idle one.
func (s *SessionStore) GetOrCreate(key SessionKey) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.m[key]; ok {
		return sess
	}
	sess := &Session{}
	s.m[key] = sess
	return sess
}

// Reset destroys the session for key.
func (s *SessionStore) Reset(key SessionKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, key)
}
