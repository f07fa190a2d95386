package domain

import "time"

// DateLayout is the calendar-date encoding used throughout: a plain
// local date with no time component and no timezone.
const DateLayout = "2006-01-02"

// Event is a single calendar entry. The store assigns ID and
// CreatedAt; events are never mutated in place.
type Event struct {
	ID        string
	Title     string
	Date      string
	CreatedAt time.Time
}

// Scope is the namespace+user path under which events are stored and
// subscribed.
type Scope struct {
	Namespace string
	UserID    string
}

// Path returns the canonical storage path for the scope. The same
// string is used as the change-notification payload.
func (s Scope) Path() string {
	return s.Namespace + "/users/" + s.UserID + "/events"
}
