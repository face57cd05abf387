package flow

import (
	"context"

	"github.com/rs/zerolog"

	"seniorcare-bot/pkg"
)

// MedicationStore is the slice of the store layer the flows depend on.
type MedicationStore interface {
	Load(userID string) map[string]pkg.MedicationRecord
	Save(userID, key string, rec pkg.MedicationRecord) error
	Delete(userID, key string) error
}

// ContactStore is the family contact store surface used by the contact form.
type ContactStore interface {
	Load(userID string) map[string]pkg.FamilyContact
	Save(userID, oldName string, contact pkg.FamilyContact) error
	Delete(userID, name string) error
}

// Notifier receives the one observable side effect of a finished form. A
// notification failure never reaches the user's own conversation.
type Notifier interface {
	MedicationEvent(ctx context.Context, userID string, kind pkg.EventKind, rec pkg.MedicationRecord)
}

// Engine drives the conversational forms. It owns the session store and is
// the only component that mutates sessions.
type Engine struct {
	sessions  *SessionStore
	meds      MedicationStore
	contacts  ContactStore
	notifier  Notifier
	onChanged func(userID string)
	log       zerolog.Logger
}

func NewEngine(meds MedicationStore, contacts ContactStore, notifier Notifier, log zerolog.Logger) *Engine {
	return &Engine{
		sessions: NewSessionStore(),
		meds:     meds,
		contacts: contacts,
		notifier: notifier,
		log:      log.With().Str("component", "flow").Logger(),
	}
}

// OnMedicationChange registers a hook run after any successful save, delete
// or reminder toggle, so the scheduler can rebuild the user's reminders.
func (e *Engine) OnMedicationChange(fn func(userID string)) { e.onChanged = fn }

// Active reports whether key has a form in progress.
func (e *Engine) Active(key SessionKey) bool {
	s := e.sessions.Get(key)
	return s != nil && s.Step != StepIdle
}

// stepFn handles one (state, input) combination. Every step is present in
// the table below; an input a step does not recognize re-prompts instead of
// falling through.
type stepFn func(e *Engine, ctx context.Context, key SessionKey, s *Session, in Input) []Reply

var steps = map[Step]stepFn{
	StepIdle:              (*Engine).stepIdle,
	StepAwaitIllness:      (*Engine).stepIllness,
	StepAwaitName:         (*Engine).stepName,
	StepAwaitDosage:       (*Engine).stepDosage,
	StepAwaitTimes:        (*Engine).stepTimes,
	StepAwaitReview:       (*Engine).stepReview,
	StepAwaitFinalConfirm: (*Engine).stepFinalConfirm,
	StepAwaitAddMore:      (*Engine).stepAddMore,
	StepAwaitContact:      (*Engine).stepContact,
}

// Handle routes one inbound event to the current step. Cancel works from any
// state and discards the pending fields.
func (e *Engine) Handle(ctx context.Context, key SessionKey, in Input) []Reply {
	if in.Kind == InputCancel {
		e.sessions.Reset(key)
		return []Reply{text(msgCancelled)}
	}
	s := e.sessions.GetOrCreate(key)
	fn, ok := steps[s.Step]
	if !ok {
		// Unknown step means corrupted session state; start over.
		e.log.Error().Int("step", int(s.Step)).Msg("unknown session step")
		e.sessions.Reset(key)
		return []Reply{text(msgFallback)}
	}
	return fn(e, ctx, key, s, in)
}

func (e *Engine) stepIdle(_ context.Context, _ SessionKey, _ *Session, _ Input) []Reply {
	return []Reply{text(msgFallback)}
}
