package flow

import (
	"context"
	"fmt"
	"sort"

	"seniorcare-bot/internal/security"
	"seniorcare-bot/pkg"
)

// Callback token prefixes for list-level actions. The bot layer matches
// these before handing anything else to the active form.
const (
	TokMedUpdatePrefix = "upd|"
	TokMedDeletePrefix = "del|"
	TokRemindOnPrefix  = "rem1|"
	TokRemindOffPrefix = "rem0|"
)

// Schedule renders the medication list with per-medication update and delete
// buttons.
func (e *Engine) Schedule(userID string) []Reply {
	meds := e.meds.Load(userID)
	reply := Reply{Text: e.renderSchedule(userID)}
	for _, key := range sortedKeys(meds) {
		med := meds[key]
		reply.Options = append(reply.Options, row(
			Option{Label: "Update " + med.Name, Token: TokMedUpdatePrefix + key},
			Option{Label: "Delete " + med.Name, Token: TokMedDeletePrefix + key},
		))
	}
	return []Reply{reply}
}

// DeleteMedication removes one record and notifies family.
func (e *Engine) DeleteMedication(ctx context.Context, userID, medKey string) []Reply {
	rec, ok := e.meds.Load(userID)[medKey]
	if !ok {
		return []Reply{text(msgMedNotFound)}
	}
	if err := e.meds.Delete(userID, medKey); err != nil {
		e.log.Error().Err(err).Str("user", userID).Str("med", medKey).Msg("delete failed")
		return []Reply{text(msgSaveFailed)}
	}
	e.notifier.MedicationEvent(ctx, userID, pkg.EventRemoved, rec)
	if e.onChanged != nil {
		e.onChanged(userID)
	}
	return []Reply{text(msgMedDeleted)}
}

// OpenRemind lists each medication with reminder on/off buttons.
func (e *Engine) OpenRemind(userID string) []Reply {
	meds := e.meds.Load(userID)
	if len(meds) == 0 {
		return []Reply{text(msgRemindEmpty)}
	}
	replies := []Reply{text(msgRemindHeader)}
	for _, key := range sortedKeys(meds) {
		med := meds[key]
		status := labelNo
		if med.Remind {
			status = labelYes
		}
		replies = append(replies, Reply{
			Text: fmt.Sprintf("\U0001F48A %s (%s)\nRemind you for this medication? (Current: %s)",
				security.Sanitize(med.Name), pkg.FormatClocks(med.Times), status),
			Options: [][]Option{row(
				Option{Label: labelYes, Token: TokRemindOnPrefix + key},
				Option{Label: labelNo, Token: TokRemindOffPrefix + key},
			)},
		})
	}
	return replies
}

// SetRemind flips the reminder flag for one medication.
func (e *Engine) SetRemind(_ context.Context, userID, medKey string, on bool) []Reply {
	rec, ok := e.meds.Load(userID)[medKey]
	if !ok {
		return []Reply{text(msgMedNotFound)}
	}
	rec.Remind = on
	if err := e.meds.Save(userID, medKey, rec); err != nil {
		e.log.Error().Err(err).Str("user", userID).Str("med", medKey).Msg("remind toggle failed")
		return []Reply{text(msgSaveFailed)}
	}
	if e.onChanged != nil {
		e.onChanged(userID)
	}
	status := "OFF"
	if on {
		status = "ON"
	}
	return []Reply{text(fmt.Sprintf(msgRemindSet, security.Sanitize(rec.Name), status))}
}

func sortedKeys(m map[string]pkg.MedicationRecord) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
