// Package calendar computes month grids for display. Everything here
// is pure: callers pass the reference month, the event snapshot, and
// the current time; nothing is cached between calls.
package calendar

import (
	"fmt"
	"time"

	"github.com/DaryllDaniel/Simple-Event-Calendar/internal/domain"
)

// Month is a year+month pair, the reference month of the grid.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Next returns the following calendar month, rolling over December
// into January of the next year. Always day 1, so no day-overflow
// clamping can occur.
func (m Month) Next() Month {
	return MonthOf(m.first().AddDate(0, 1, 0))
}

// Previous returns the preceding calendar month, rolling over January
// into December of the prior year.
func (m Month) Previous() Month {
	return MonthOf(m.first().AddDate(0, -1, 0))
}

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

func (m Month) String() string {
	return fmt.Sprintf("%s %d", m.Month, m.Year)
}

// first is day 1 of the month at midnight UTC. Only used for
// arithmetic; the zone never leaks out.
func (m Month) first() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// DayKey composes the zero-padded YYYY-MM-DD string for a day of the
// month. Event dates are matched against this key by exact string
// equality, so a malformed stored date simply never matches.
func DayKey(m Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", m.Year, int(m.Month), day)
}

// Grid is the computed layout of one month: LeadingBlanks empty cells
// (the weekday offset of day 1, 0=Sunday..6=Saturday) followed by
// days 1..DaysInMonth.
type Grid struct {
	Month         Month
	LeadingBlanks int
	DaysInMonth   int
}

// NewGrid computes the grid for a reference month. Month lengths and
// leap years come from time's calendar arithmetic: the day before the
// first of the next month is the last day of this one.
func NewGrid(m Month) Grid {
	first := m.first()
	return Grid{
		Month:         m,
		LeadingBlanks: int(first.Weekday()),
		DaysInMonth:   first.AddDate(0, 1, -1).Day(),
	}
}

// EventsForDay filters the snapshot to events whose date exactly
// equals the day key. Snapshot order is preserved; events are not
// re-sorted.
func EventsForDay(events []domain.Event, m Month, day int) []domain.Event {
	key := DayKey(m, day)
	var out []domain.Event
	for _, event := range events {
		if event.Date == key {
			out = append(out, event)
		}
	}
	return out
}

// IsToday reports whether the given day of the reference month is the
// current calendar day. now must be wall-clock time taken at render
// time; "today" moves if the process stays up across midnight.
func IsToday(m Month, day int, now time.Time) bool {
	return m.Contains(now) && now.Day() == day
}
