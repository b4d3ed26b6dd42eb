package slot

import (
	"slices"
	"time"
)

// Policy fixes the business window and tick size of a booking surface.
type Policy struct {
	Name  string
	Open  int // minutes from midnight
	Close int
	Step  int

	ClosedWeekdays []time.Weekday
	DisablePast    bool
}

var (
	// Public drives the booking widget on the marketing site.
	Public = Policy{
		Name:           "public",
		Open:           8 * 60,
		Close:          21 * 60,
		Step:           60,
		ClosedWeekdays: []time.Weekday{time.Sunday},
		DisablePast:    true,
	}

	// Admin drives the reservation modal of the agenda.
	Admin = Policy{
		Name:  "admin",
		Open:  7 * 60,
		Close: 21 * 60,
		Step:  30,
	}
)

// PolicyByName falls back to Admin for unknown names.
func PolicyByName(name string) Policy {
	if name == Public.Name {
		return Public
	}
	return Admin
}

// ClosedOn reports whether the whole day is closed for bookings.
func (p Policy) ClosedOn(day time.Weekday) bool {
	return slices.Contains(p.ClosedWeekdays, day)
}

// Disabled applies the day-level rules to a single slot. It is
// independent of conflicts with other bookings.
func (p Policy) Disabled(date time.Time, iv Interval, now time.Time) bool {
	if p.ClosedOn(date.Weekday()) {
		return true
	}
	if iv.End > p.Close || iv.Start < p.Open {
		return true
	}
	if !p.DisablePast || now.IsZero() {
		return false
	}

	today := civil(now)
	day := civil(date)
	switch {
	case day.Before(today):
		return true
	case day.After(today):
		return false
	}

	return iv.Start <= now.Hour()*60+now.Minute()
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
