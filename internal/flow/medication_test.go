package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"seniorcare-bot/pkg"
)

type memMeds struct {
	data    map[string]map[string]pkg.MedicationRecord
	saveErr error
}

func newMemMeds() *memMeds {
	return &memMeds{data: map[string]map[string]pkg.MedicationRecord{}}
}

func (m *memMeds) Load(userID string) map[string]pkg.MedicationRecord {
	out := map[string]pkg.MedicationRecord{}
	for k, v := range m.data[userID] {
		out[k] = v
	}
	return out
}

func (m *memMeds) Save(userID, key string, rec pkg.MedicationRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.data[userID] == nil {
		m.data[userID] = map[string]pkg.MedicationRecord{}
	}
	m.data[userID][key] = rec
	return nil
}

func (m *memMeds) Delete(userID, key string) error {
	delete(m.data[userID], key)
	return nil
}

type memContacts struct {
	data map[string]map[string]pkg.FamilyContact
}

func newMemContacts() *memContacts {
	return &memContacts{data: map[string]map[string]pkg.FamilyContact{}}
}

func (m *memContacts) Load(userID string) map[string]pkg.FamilyContact {
	out := map[string]pkg.FamilyContact{}
	for k, v := range m.data[userID] {
		out[k] = v
	}
	return out
}

func (m *memContacts) Save(userID, oldName string, c pkg.FamilyContact) error {
	if m.data[userID] == nil {
		m.data[userID] = map[string]pkg.FamilyContact{}
	}
	if oldName != "" && oldName != c.Name {
		delete(m.data[userID], oldName)
	}
	m.data[userID][c.Name] = c
	return nil
}

func (m *memContacts) Delete(userID, name string) error {
	delete(m.data[userID], name)
	return nil
}

type spyNotifier struct {
	kinds []pkg.EventKind
	names []string
}

func (n *spyNotifier) MedicationEvent(_ context.Context, _ string, kind pkg.EventKind, rec pkg.MedicationRecord) {
	n.kinds = append(n.kinds, kind)
	n.names = append(n.names, rec.Name)
}

func newTestEngine() (*Engine, *memMeds, *spyNotifier) {
	meds := newMemMeds()
	notifier := &spyNotifier{}
	e := NewEngine(meds, newMemContacts(), notifier, zerolog.Nop())
	return e, meds, notifier
}

func testKey() SessionKey { return SessionKey{UserID: "100", ChatID: 100} }

func selectToken(tok string) Input { return Input{Kind: InputSelect, Token: tok} }
func typed(text string) Input      { return Input{Kind: InputText, Text: text} }

// runForm drives the form from the illness prompt to the final confirmation.
func runForm(t *testing.T, e *Engine, key SessionKey, name, dosage, times string) []Reply {
	t.Helper()
	ctx := context.Background()
	e.OpenMedications(ctx, key)
	e.Handle(ctx, key, selectToken(string(pkg.IllnessDiabetes)))
	e.Handle(ctx, key, typed(name))
	e.Handle(ctx, key, typed(dosage))
	e.Handle(ctx, key, typed(times))
	e.Handle(ctx, key, selectToken(TokReviewConfirm))
	return e.Handle(ctx, key, selectToken(TokSaveFinal))
}

func TestMedicationFormAddsRecord(t *testing.T) {
	e, meds, notifier := newTestEngine()
	key := testKey()

	replies := runForm(t, e, key, "Aspirin", "100mg", "08:00, 20:00")

	if len(replies) != 2 {
		t.Fatalf("want confirmation plus add-more prompt, got %d replies", len(replies))
	}
	if !strings.Contains(replies[0].Text, "Added as a new medication") {
		t.Errorf("confirmation = %q, want new-medication wording", replies[0].Text)
	}
	rec, ok := meds.data["100"]["aspirin"]
	if !ok {
		t.Fatal("record not saved under key \"aspirin\"")
	}
	if rec.Name != "Aspirin" || rec.Dosage != "100mg" || !rec.Remind {
		t.Errorf("saved record = %+v", rec)
	}
	if got := pkg.FormatClocks(rec.Times); got != "08:00, 20:00" {
		t.Errorf("times = %q, want \"08:00, 20:00\"", got)
	}
	if rec.Illness != pkg.IllnessDiabetes {
		t.Errorf("illness = %q, want %q", rec.Illness, pkg.IllnessDiabetes)
	}
	if len(notifier.kinds) != 1 || notifier.kinds[0] != pkg.EventAdded {
		t.Errorf("notifier kinds = %v, want one added event", notifier.kinds)
	}
	if !e.Active(key) {
		t.Error("session should still be active on the add-more prompt")
	}

	// Declining the add-more prompt ends the form with the schedule.
	final := e.Handle(context.Background(), key, selectToken(TokMoreNo))
	if len(final) != 1 || !strings.Contains(final[0].Text, "Aspirin") {
		t.Errorf("closing schedule = %v", final)
	}
	if e.Active(key) {
		t.Error("session should be idle after declining")
	}
}

func TestMedicationFormNormalizesTimes(t *testing.T) {
	e, meds, _ := newTestEngine()
	key := testKey()

	runForm(t, e, key, "Metformin", "500mg", "8:0, foo, 23:61, 08:00")

	rec := meds.data["100"]["metformin"]
	if got := pkg.FormatClocks(rec.Times); got != "08:00" {
		t.Errorf("times = %q, want just the one valid deduplicated time", got)
	}
}

func TestMedicationFormRejectsAllInvalidTimes(t *testing.T) {
	e, meds, _ := newTestEngine()
	key := testKey()
	ctx := context.Background()

	e.OpenMedications(ctx, key)
	e.Handle(ctx, key, selectToken(string(pkg.IllnessHypertension)))
	e.Handle(ctx, key, typed("Lisinopril"))
	e.Handle(ctx, key, typed("10mg"))
	replies := e.Handle(ctx, key, typed("foo, 25:00, 12:61"))

	if len(replies) != 1 || replies[0].Text != msgAskTimesAgain {
		t.Errorf("replies = %v, want the times re-prompt", replies)
	}
	if len(meds.data["100"]) != 0 {
		t.Error("nothing should be persisted before confirmation")
	}
	if !e.Active(key) {
		t.Error("form should still be waiting for times")
	}
}

func TestMedicationFormEmptyNameReprompts(t *testing.T) {
	e, _, _ := newTestEngine()
	key := testKey()
	ctx := context.Background()

	e.OpenMedications(ctx, key)
	e.Handle(ctx, key, selectToken(string(pkg.IllnessDiabetes)))
	replies := e.Handle(ctx, key, typed("   "))

	if len(replies) != 1 || replies[0].Text != msgAskNameAgain {
		t.Errorf("replies = %v, want the name re-prompt", replies)
	}
	// A valid name afterwards continues to the dosage question.
	replies = e.Handle(ctx, key, typed("Aspirin"))
	if len(replies) != 1 || !strings.Contains(replies[0].Text, "Aspirin") {
		t.Errorf("replies = %v, want the dosage question", replies)
	}
}

func TestMedicationFormUpdateWording(t *testing.T) {
	e, meds, notifier := newTestEngine()
	key := testKey()
	meds.data["100"] = map[string]pkg.MedicationRecord{
		"aspirin": {Name: "Aspirin", Dosage: "50mg", Remind: true},
	}

	replies := runForm(t, e, key, "Aspirin", "100mg", "09:00")

	if !strings.Contains(replies[0].Text, "Updated your previous entry") {
		t.Errorf("confirmation = %q, want update wording", replies[0].Text)
	}
	if rec := meds.data["100"]["aspirin"]; rec.Dosage != "100mg" {
		t.Errorf("record not overwritten, dosage = %q", rec.Dosage)
	}
	if len(notifier.kinds) != 1 || notifier.kinds[0] != pkg.EventUpdated {
		t.Errorf("notifier kinds = %v, want one updated event", notifier.kinds)
	}
}

func TestMedicationFormCancelDiscards(t *testing.T) {
	e, meds, notifier := newTestEngine()
	key := testKey()
	ctx := context.Background()

	e.OpenMedications(ctx, key)
	e.Handle(ctx, key, selectToken(string(pkg.IllnessDiabetes)))
	e.Handle(ctx, key, typed("Aspirin"))
	replies := e.Handle(ctx, key, Input{Kind: InputCancel})

	if len(replies) != 1 || replies[0].Text != msgCancelled {
		t.Errorf("replies = %v, want the cancel confirmation", replies)
	}
	if e.Active(key) {
		t.Error("session should be idle after cancel")
	}
	if len(meds.data["100"]) != 0 || len(notifier.kinds) != 0 {
		t.Error("cancel must not persist or notify")
	}
}

func TestMedicationFormSaveFailureKeepsSession(t *testing.T) {
	e, meds, notifier := newTestEngine()
	key := testKey()
	meds.saveErr = errors.New("disk full")

	replies := runForm(t, e, key, "Aspirin", "100mg", "08:00")

	if len(replies) != 1 || replies[0].Text != msgSaveFailed {
		t.Errorf("replies = %v, want the save-failed message", replies)
	}
	if len(notifier.kinds) != 0 {
		t.Error("a failed save must not notify family")
	}
	if !e.Active(key) {
		t.Fatal("session should survive a failed save")
	}

	// Retrying once the store recovers completes the form.
	meds.saveErr = nil
	replies = e.Handle(context.Background(), key, selectToken(TokSaveFinal))
	if len(replies) != 2 || !strings.Contains(replies[0].Text, "All set") {
		t.Errorf("replies = %v, want the saved confirmation", replies)
	}
	if _, ok := meds.data["100"]["aspirin"]; !ok {
		t.Error("record missing after retry")
	}
}

func TestMedicationReviewEditsDosage(t *testing.T) {
	e, meds, _ := newTestEngine()
	key := testKey()
	ctx := context.Background()

	e.OpenMedications(ctx, key)
	e.Handle(ctx, key, selectToken(string(pkg.IllnessDiabetes)))
	e.Handle(ctx, key, typed("Aspirin"))
	e.Handle(ctx, key, typed("50mg"))
	e.Handle(ctx, key, typed("08:00"))
	e.Handle(ctx, key, selectToken(TokReviewDosage))
	replies := e.Handle(ctx, key, typed("100mg"))

	// Fixing the dosage loops back through the times question.
	if len(replies) != 1 || !strings.Contains(replies[0].Text, "reminded") {
		t.Errorf("replies = %v, want the times question", replies)
	}
	e.Handle(ctx, key, typed("08:00"))
	e.Handle(ctx, key, selectToken(TokReviewConfirm))
	e.Handle(ctx, key, selectToken(TokSaveFinal))

	if rec := meds.data["100"]["aspirin"]; rec.Dosage != "100mg" {
		t.Errorf("dosage = %q, want the edited value", rec.Dosage)
	}
}

func TestAddMoreAcceptsTypedAnswers(t *testing.T) {
	e, _, _ := newTestEngine()
	key := testKey()
	ctx := context.Background()

	runForm(t, e, key, "Aspirin", "100mg", "08:00")
	replies := e.Handle(ctx, key, typed("gibberish"))
	if len(replies) != 1 || replies[0].Text != msgAskMoreAgain {
		t.Errorf("replies = %v, want the yes/no re-prompt", replies)
	}

	replies = e.Handle(ctx, key, typed("yes"))
	if len(replies) != 2 || replies[1].Text != msgPickIllness {
		t.Errorf("replies = %v, want a restarted form", replies)
	}
	if !e.Active(key) {
		t.Error("restarted form should be active")
	}
}

func TestUnknownTextWhenIdle(t *testing.T) {
	e, _, _ := newTestEngine()
	replies := e.Handle(context.Background(), testKey(), typed("hello"))
	if len(replies) != 1 || replies[0].Text != msgFallback {
		t.Errorf("replies = %v, want the fallback", replies)
	}
}
