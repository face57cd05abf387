package flow

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"seniorcare-bot/internal/security"
	"seniorcare-bot/pkg"
)

// Callback tokens for the family contact list.
const (
	TokFamilyAdd        = "fam_add"
	TokFamilyEditPrefix = "fam_edit|"
	TokFamilyDelPrefix  = "fam_del|"
)

// OpenFamily renders the contact list with edit/delete buttons and the add
// button.
func (e *Engine) OpenFamily(_ context.Context, key SessionKey) []Reply {
	contacts := e.contacts.Load(key.UserID)
	reply := Reply{}
	var b strings.Builder
	b.WriteString(msgContactsHeader)
	if len(contacts) == 0 {
		b.WriteString("\n" + msgContactsEmpty)
	} else {
		b.WriteString("\n" + msgContactsList)
		names := make([]string, 0, len(contacts))
		for name := range contacts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			c := contacts[name]
			fmt.Fprintf(&b, "\n\U0001F464 %s (ID: %d)", security.Sanitize(c.Name), c.ChatID)
			reply.Options = append(reply.Options, row(
				Option{Label: "Edit " + c.Name, Token: TokFamilyEditPrefix + name},
				Option{Label: "Delete " + c.Name, Token: TokFamilyDelPrefix + name},
			))
		}
	}
	reply.Text = b.String()
	reply.Options = append(reply.Options, row(Option{Label: "Add Family Member", Token: TokFamilyAdd}))
	return []Reply{reply}
}

// StartAddContact enters the one-step contact form.
func (e *Engine) StartAddContact(key SessionKey) []Reply {
	e.sessions.Reset(key)
	s := e.sessions.GetOrCreate(key)
	s.Step = StepAwaitContact
	return []Reply{text(msgContactAsk)}
}

// StartEditContact enters the contact form for an existing contact.
func (e *Engine) StartEditContact(key SessionKey, name string) []Reply {
	if _, ok := e.contacts.Load(key.UserID)[name]; !ok {
		return []Reply{text(msgContactMissing)}
	}
	e.sessions.Reset(key)
	s := e.sessions.GetOrCreate(key)
	s.Step = StepAwaitContact
	s.EditingContact = name
	return []Reply{text(fmt.Sprintf(msgContactEditing, security.Sanitize(name)))}
}

// DeleteContact removes one contact; absence is reported, not an error.
func (e *Engine) DeleteContact(key SessionKey, name string) []Reply {
	if _, ok := e.contacts.Load(key.UserID)[name]; !ok {
		return []Reply{text(msgContactMissing)}
	}
	if err := e.contacts.Delete(key.UserID, name); err != nil {
		e.log.Error().Err(err).Str("user", key.UserID).Msg("contact delete failed")
		return []Reply{text(msgSaveFailed)}
	}
	return []Reply{text(fmt.Sprintf(msgContactDeleted, security.Sanitize(name)))}
}

// stepContact parses "Name, TelegramUserID". Invalid input re-prompts
// without leaving the step.
func (e *Engine) stepContact(_ context.Context, key SessionKey, s *Session, in Input) []Reply {
	if in.Kind != InputText {
		return []Reply{text(msgContactAsk)}
	}
	contact, err := ParseContact(in.Text)
	if err != nil {
		return []Reply{text(msgContactFormat)}
	}
	editing := s.EditingContact
	if err := e.contacts.Save(key.UserID, editing, contact); err != nil {
		e.log.Error().Err(err).Str("user", key.UserID).Msg("contact save failed")
		return []Reply{text(msgSaveFailed)}
	}
	e.sessions.Reset(key)
	format := msgContactAdded
	if editing != "" {
		format = msgContactUpdated
	}
	return []Reply{text(fmt.Sprintf(format, security.Sanitize(contact.Name), contact.ChatID))}
}

// ParseContact parses the "Name, TelegramUserID" contact form input.
func ParseContact(s string) (pkg.FamilyContact, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return pkg.FamilyContact{}, fmt.Errorf("expected name and ID separated by a comma")
	}
	name := strings.TrimSpace(parts[0])
	if name == "" {
		return pkg.FamilyContact{}, fmt.Errorf("contact name is empty")
	}
	id, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return pkg.FamilyContact{}, fmt.Errorf("invalid Telegram user ID: %w", err)
	}
	return pkg.FamilyContact{Name: name, ChatID: id}, nil
}
