package store

import (
	"github.com/rs/zerolog"

	"seniorcare-bot/pkg"
)

// FamilyStore owns the family contacts document
// (user id -> contact name -> contact).
type FamilyStore struct {
	f *jsonFile
}

func NewFamilyStore(path string, log zerolog.Logger) *FamilyStore {
	return &FamilyStore{f: newJSONFile(path, log)}
}

func (s *FamilyStore) Load(userID string) map[string]pkg.FamilyContact {
	doc := map[string]map[string]pkg.FamilyContact{}
	s.f.withRLock(func() { s.f.read(&doc) })
	contacts := doc[userID]
	if contacts == nil {
		contacts = map[string]pkg.FamilyContact{}
	}
	return contacts
}

// Save upserts one contact. When renaming (oldName != contact.Name) the old
// entry is dropped in the same write.
func (s *FamilyStore) Save(userID, oldName string, contact pkg.FamilyContact) error {
	return s.f.withLock(func() error {
		doc := map[string]map[string]pkg.FamilyContact{}
		s.f.read(&doc)
		if doc[userID] == nil {
			doc[userID] = map[string]pkg.FamilyContact{}
		}
		if oldName != "" && oldName != contact.Name {
			delete(doc[userID], oldName)
		}
		doc[userID][contact.Name] = contact
		return s.f.replace(doc)
	})
}

func (s *FamilyStore) Delete(userID, name string) error {
	return s.f.withLock(func() error {
		doc := map[string]map[string]pkg.FamilyContact{}
		s.f.read(&doc)
		contacts, ok := doc[userID]
		if !ok {
			return nil
		}
		if _, ok := contacts[name]; !ok {
			return nil
		}
		delete(contacts, name)
		return s.f.replace(doc)
	})
}

// CareStore reads the professional care contacts document. The bot never
// writes it; it is provisioned out of band.
type CareStore struct {
	f *jsonFile
}

func NewCareStore(path string, log zerolog.Logger) *CareStore {
	return &CareStore{f: newJSONFile(path, log)}
}

func (s *CareStore) Load(userID string) []pkg.CareContact {
	doc := map[string][]pkg.CareContact{}
	s.f.withRLock(func() { s.f.read(&doc) })
	return doc[userID]
}
