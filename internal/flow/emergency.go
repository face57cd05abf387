package flow

// ArmLocation marks the session as waiting for a shared location. The next
// location update from the user triggers the emergency fan-out.
func (e *Engine) ArmLocation(key SessionKey) {
	e.sessions.GetOrCreate(key).AwaitingLocation = true
}

// LocationArmed reports whether the session is waiting for a location.
func (e *Engine) LocationArmed(key SessionKey) bool {
	s := e.sessions.Get(key)
	return s != nil && s.AwaitingLocation
}

// DisarmLocation clears the waiting flag once a location has been handled.
func (e *Engine) DisarmLocation(key SessionKey) {
	if s := e.sessions.Get(key); s != nil {
		s.AwaitingLocation = false
	}
}
