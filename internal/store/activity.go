package store

import (
	"time"

	"github.com/rs/zerolog"
)

// ActivityStore tracks each user's last interaction time, which feeds the
// inactivity check-in.
type ActivityStore struct {
	f *jsonFile
}

func NewActivityStore(path string, log zerolog.Logger) *ActivityStore {
	return &ActivityStore{f: newJSONFile(path, log)}
}

// Touch stamps the user as active now. Failures are logged by the caller's
// middleware; activity stamping never blocks a user's interaction.
func (s *ActivityStore) Touch(userID string) error {
	return s.f.withLock(func() error {
		doc := map[string]time.Time{}
		s.f.read(&doc)
		doc[userID] = time.Now()
		return s.f.replace(doc)
	})
}

func (s *ActivityStore) Last(userID string) (time.Time, bool) {
	doc := map[string]time.Time{}
	s.f.withRLock(func() { s.f.read(&doc) })
	t, ok := doc[userID]
	return t, ok
}

func (s *ActivityStore) All() map[string]time.Time {
	doc := map[string]time.Time{}
	s.f.withRLock(func() { s.f.read(&doc) })
	return doc
}
