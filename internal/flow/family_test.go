package flow

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"seniorcare-bot/pkg"
)

func TestParseContact(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    pkg.FamilyContact
		wantErr bool
	}{
		{name: "plain", in: "Mom, 12345", want: pkg.FamilyContact{Name: "Mom", ChatID: 12345}},
		{name: "no space", in: "Mom,12345", want: pkg.FamilyContact{Name: "Mom", ChatID: 12345}},
		{name: "multiword name", in: "Aunt May , 987654321", want: pkg.FamilyContact{Name: "Aunt May", ChatID: 987654321}},
		{name: "missing comma", in: "Mom 12345", wantErr: true},
		{name: "empty name", in: " , 12345", wantErr: true},
		{name: "non numeric id", in: "Mom, abc", wantErr: true},
		{name: "empty", in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContact(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseContact(%q) = %+v, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseContact(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseContact(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestContactAddFlow(t *testing.T) {
	contacts := newMemContacts()
	e := NewEngine(newMemMeds(), contacts, &spyNotifier{}, zerolog.Nop())
	key := testKey()
	ctx := context.Background()

	replies := e.StartAddContact(key)
	if len(replies) != 1 || replies[0].Text != msgContactAsk {
		t.Fatalf("replies = %v, want the contact format prompt", replies)
	}

	replies = e.Handle(ctx, key, typed("not a contact"))
	if len(replies) != 1 || replies[0].Text != msgContactFormat {
		t.Errorf("replies = %v, want the format error", replies)
	}

	replies = e.Handle(ctx, key, typed("Mom, 12345"))
	if len(replies) != 1 || !strings.Contains(replies[0].Text, "Added family member") {
		t.Errorf("replies = %v, want the added confirmation", replies)
	}
	if got := contacts.data["100"]["Mom"]; got.ChatID != 12345 {
		t.Errorf("stored contact = %+v", got)
	}
	if e.Active(key) {
		t.Error("session should be idle after the contact is saved")
	}
}

func TestContactEditRenames(t *testing.T) {
	contacts := newMemContacts()
	contacts.data["100"] = map[string]pkg.FamilyContact{"Mom": {Name: "Mom", ChatID: 12345}}
	e := NewEngine(newMemMeds(), contacts, &spyNotifier{}, zerolog.Nop())
	key := testKey()

	e.StartEditContact(key, "Mom")
	replies := e.Handle(context.Background(), key, typed("Mother, 54321"))

	if len(replies) != 1 || !strings.Contains(replies[0].Text, "Updated family member") {
		t.Errorf("replies = %v, want the updated confirmation", replies)
	}
	if _, ok := contacts.data["100"]["Mom"]; ok {
		t.Error("old name should be dropped on rename")
	}
	if got := contacts.data["100"]["Mother"]; got.ChatID != 54321 {
		t.Errorf("renamed contact = %+v", got)
	}
}
