package store

import (
	"github.com/rs/zerolog"

	"seniorcare-bot/pkg"
)

// medsDoc is the on-disk layout: user id -> medication key -> record.
type medsDoc map[string]map[string]pkg.MedicationRecord

// MedicationStore owns the medications document. It is the only writer of
// medication records; the conversation flow calls Save exactly once, at the
// confirmed transition.
type MedicationStore struct {
	f *jsonFile
}

func NewMedicationStore(path string, log zerolog.Logger) *MedicationStore {
	return &MedicationStore{f: newJSONFile(path, log)}
}

// Load returns the user's records. A missing or corrupt file yields an empty
// map, never an error.
func (s *MedicationStore) Load(userID string) map[string]pkg.MedicationRecord {
	doc := medsDoc{}
	s.f.withRLock(func() { s.f.read(&doc) })
	meds := doc[userID]
	if meds == nil {
		meds = map[string]pkg.MedicationRecord{}
	}
	return meds
}

// All returns every user's records, for reminder scheduling at startup.
func (s *MedicationStore) All() map[string]map[string]pkg.MedicationRecord {
	doc := medsDoc{}
	s.f.withRLock(func() { s.f.read(&doc) })
	return doc
}

// Save upserts one record under one user. The whole document is re-read
// under the lock so concurrent saves for different users both land.
func (s *MedicationStore) Save(userID, key string, rec pkg.MedicationRecord) error {
	return s.f.withLock(func() error {
		doc := medsDoc{}
		s.f.read(&doc)
		if doc[userID] == nil {
			doc[userID] = map[string]pkg.MedicationRecord{}
		}
		doc[userID][key] = rec
		return s.f.replace(doc)
	})
}

// Delete removes one record if present. Absence is not an error.
func (s *MedicationStore) Delete(userID, key string) error {
	return s.f.withLock(func() error {
		doc := medsDoc{}
		s.f.read(&doc)
		meds, ok := doc[userID]
		if !ok {
			return nil
		}
		if _, ok := meds[key]; !ok {
			return nil
		}
		delete(meds, key)
		return s.f.replace(doc)
	})
}
