package flow

import (
	"context"
	"fmt"
	"strings"

	"seniorcare-bot/internal/security"
	"seniorcare-bot/pkg"
)

// Selection tokens for the medication form. Illness selections carry the
// illness name itself; everything else uses the constants below.
const (
	TokReviewName    = "med_update_name"
	TokReviewDosage  = "med_update_dosage"
	TokReviewTimes   = "med_update_times"
	TokReviewConfirm = "med_confirm_all"
	TokSaveFinal     = "med_save_final"
	TokEditAgain     = "med_correct"
	TokMoreYes       = "med_more_yes"
	TokMoreNo        = "med_more_no"
)

// OpenMedications starts (or restarts) the medication form: the current
// schedule followed by the illness selection prompt.
func (e *Engine) OpenMedications(_ context.Context, key SessionKey) []Reply {
	e.sessions.Reset(key)
	s := e.sessions.GetOrCreate(key)
	s.Step = StepAwaitIllness
	return []Reply{
		text(e.renderSchedule(key.UserID)),
		illnessPrompt(msgPickIllness),
	}
}

// OpenUpdate enters the form at the name step, preseeded with the existing
// record's illness tag. Saving under the same name overwrites the record.
func (e *Engine) OpenUpdate(_ context.Context, key SessionKey, medKey string) []Reply {
	rec, ok := e.meds.Load(key.UserID)[medKey]
	if !ok {
		return []Reply{text(msgMedNotFound)}
	}
	e.sessions.Reset(key)
	s := e.sessions.GetOrCreate(key)
	s.Step = StepAwaitName
	s.Illness = rec.Illness
	return []Reply{text(fmt.Sprintf(msgUpdatePrompt, security.Sanitize(rec.Name)))}
}

func illnessPrompt(msg string) Reply {
	rows := make([][]Option, 0, len(pkg.Illnesses)+1)
	for _, ill := range pkg.Illnesses {
		rows = append(rows, row(Option{Label: string(ill), Token: string(ill)}))
	}
	rows = append(rows, row(Option{Label: labelOther, Token: string(pkg.IllnessOther)}))
	return Reply{Text: msg, Options: rows}
}

func (e *Engine) stepIllness(_ context.Context, _ SessionKey, s *Session, in Input) []Reply {
	if in.Kind == InputSelect {
		if ill, ok := pkg.ParseIllness(in.Token); ok {
			s.Illness = ill
			s.Step = StepAwaitName
			return []Reply{text(msgAskName)}
		}
	}
	return []Reply{illnessPrompt(msgPickIllnessAgain)}
}

func (e *Engine) stepName(_ context.Context, _ SessionKey, s *Session, in Input) []Reply {
	if in.Kind != InputText {
		return []Reply{text(msgAskName)}
	}
	name := strings.TrimSpace(in.Text)
	if name == "" {
		return []Reply{text(msgAskNameAgain)}
	}
	s.Name = name
	s.Step = StepAwaitDosage
	return []Reply{text(fmt.Sprintf(msgAskDosage, security.Sanitize(name)))}
}

func (e *Engine) stepDosage(_ context.Context, _ SessionKey, s *Session, in Input) []Reply {
	if in.Kind != InputText {
		return []Reply{text(fmt.Sprintf(msgAskDosage, security.Sanitize(s.Name)))}
	}
	s.Dosage = strings.TrimSpace(in.Text)
	s.Step = StepAwaitTimes
	return []Reply{text(fmt.Sprintf(msgAskTimes, security.Sanitize(s.Name)))}
}

func (e *Engine) stepTimes(_ context.Context, key SessionKey, s *Session, in Input) []Reply {
	if in.Kind != InputText {
		return []Reply{text(fmt.Sprintf(msgAskTimes, security.Sanitize(s.Name)))}
	}
	times := pkg.ParseClockList(in.Text)
	if len(times) == 0 {
		return []Reply{text(msgAskTimesAgain)}
	}
	s.Times = times
	_, exists := e.meds.Load(key.UserID)[pkg.MedicationKey(s.Name)]
	s.IsUpdate = exists
	s.Step = StepAwaitReview
	return []Reply{e.reviewPrompt(s, false)}
}

func (e *Engine) reviewPrompt(s *Session, final bool) Reply {
	format := msgReview
	if final {
		format = msgFinalReview
	}
	msg := fmt.Sprintf(format,
		security.Sanitize(s.Name), security.Sanitize(s.Dosage), pkg.FormatClocks(s.Times))
	if final {
		return Reply{Text: msg, Options: [][]Option{
			row(Option{Label: labelSaveFinish, Token: TokSaveFinal}),
			row(Option{Label: labelEditAgain, Token: TokEditAgain}),
		}}
	}
	return Reply{Text: msg, Options: [][]Option{
		row(Option{Label: labelUpdateName, Token: TokReviewName}),
		row(Option{Label: labelUpdateDose, Token: TokReviewDosage}),
		row(Option{Label: labelUpdateTimes, Token: TokReviewTimes}),
		row(Option{Label: labelConfirmAll, Token: TokReviewConfirm}),
	}}
}

func (e *Engine) stepReview(_ context.Context, _ SessionKey, s *Session, in Input) []Reply {
	if in.Kind == InputSelect {
		switch in.Token {
		case TokReviewName:
			s.Step = StepAwaitName
			return []Reply{text(msgAskName)}
		case TokReviewDosage:
			s.Step = StepAwaitDosage
			return []Reply{text(fmt.Sprintf(msgAskDosage, security.Sanitize(s.Name)))}
		case TokReviewTimes:
			s.Step = StepAwaitTimes
			return []Reply{text(fmt.Sprintf(msgAskTimes, security.Sanitize(s.Name)))}
		case TokReviewConfirm:
			s.Step = StepAwaitFinalConfirm
			return []Reply{e.reviewPrompt(s, true)}
		}
	}
	return []Reply{e.reviewPrompt(s, false)}
}

func (e *Engine) stepFinalConfirm(ctx context.Context, key SessionKey, s *Session, in Input) []Reply {
	if in.Kind == InputSelect {
		switch in.Token {
		case TokSaveFinal:
			return e.save(ctx, key, s)
		case TokEditAgain:
			s.Step = StepAwaitName
			return []Reply{text(msgAskName)}
		}
	}
	return []Reply{e.reviewPrompt(s, true)}
}

// save is the one transition with side effects outside the conversation: the
// durable write, then the family notification and the reminder reschedule.
func (e *Engine) save(ctx context.Context, key SessionKey, s *Session) []Reply {
	medKey := pkg.MedicationKey(s.Name)
	// Recompute against the store so an edited name still yields the right
	// added/updated wording.
	_, exists := e.meds.Load(key.UserID)[medKey]
	rec := pkg.MedicationRecord{
		Name:    s.Name,
		Dosage:  s.Dosage,
		Times:   s.Times,
		Illness: s.Illness,
		Remind:  true,
	}
	if err := e.meds.Save(key.UserID, medKey, rec); err != nil {
		e.log.Error().Err(err).Str("user", key.UserID).Str("med", medKey).Msg("save failed")
		return []Reply{text(msgSaveFailed)}
	}
	kind := pkg.EventAdded
	confirm := msgSavedNew
	if exists {
		kind = pkg.EventUpdated
		confirm = msgSavedUpdate
	}
	e.notifier.MedicationEvent(ctx, key.UserID, kind, rec)
	if e.onChanged != nil {
		e.onChanged(key.UserID)
	}
	s.Step = StepAwaitAddMore
	return []Reply{
		text(fmt.Sprintf(confirm,
			security.Sanitize(rec.Name), security.Sanitize(rec.Dosage), pkg.FormatClocks(rec.Times))),
		{Text: msgAskMore, Options: [][]Option{
			row(Option{Label: labelYes, Token: TokMoreYes}, Option{Label: labelNo, Token: TokMoreNo}),
		}},
	}
}

func (e *Engine) stepAddMore(ctx context.Context, key SessionKey, s *Session, in Input) []Reply {
	yes, no := false, false
	switch in.Kind {
	case InputSelect:
		yes = in.Token == TokMoreYes
		no = in.Token == TokMoreNo
	case InputText:
		switch strings.ToLower(strings.TrimSpace(in.Text)) {
		case "yes", "y":
			yes = true
		case "no", "n":
			no = true
		}
	}
	switch {
	case yes:
		return e.OpenMedications(ctx, key)
	case no:
		e.sessions.Reset(key)
		return []Reply{text(e.renderSchedule(key.UserID))}
	default:
		return []Reply{{Text: msgAskMoreAgain, Options: [][]Option{
			row(Option{Label: labelYes, Token: TokMoreYes}, Option{Label: labelNo, Token: TokMoreNo}),
		}}}
	}
}

// renderSchedule lists the user's medications with their reminder times.
func (e *Engine) renderSchedule(userID string) string {
	meds := e.meds.Load(userID)
	if len(meds) == 0 {
		return msgSchedulePrefix + "\n\n" + msgScheduleEmpty
	}
	var b strings.Builder
	b.WriteString(msgSchedulePrefix)
	for _, key := range sortedKeys(meds) {
		med := meds[key]
		b.WriteString("\n\U0001F48A ")
		b.WriteString(security.Sanitize(med.Name))
		if med.Dosage != "" {
			fmt.Fprintf(&b, " (%s)", security.Sanitize(med.Dosage))
		}
		for _, t := range med.Times {
			fmt.Fprintf(&b, "\n   ⏰ %s", t)
		}
	}
	return b.String()
}
