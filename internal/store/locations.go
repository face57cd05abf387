package store

import (
	"github.com/rs/zerolog"

	"seniorcare-bot/pkg"
)

// LocationStore keeps per-user emergency location history.
type LocationStore struct {
	f *jsonFile
}

func NewLocationStore(path string, log zerolog.Logger) *LocationStore {
	return &LocationStore{f: newJSONFile(path, log)}
}

func (s *LocationStore) Append(userID string, loc pkg.Location) error {
	return s.f.withLock(func() error {
		doc := map[string][]pkg.Location{}
		s.f.read(&doc)
		doc[userID] = append(doc[userID], loc)
		return s.f.replace(doc)
	})
}

// Recent returns up to n most recent locations, newest last.
func (s *LocationStore) Recent(userID string, n int) []pkg.Location {
	doc := map[string][]pkg.Location{}
	s.f.withRLock(func() { s.f.read(&doc) })
	history := doc[userID]
	if len(history) > n {
		history = history[len(history)-n:]
	}
	return history
}
