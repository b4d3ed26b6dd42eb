package slot

import (
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Interval is a half-open [Start, End) range in minutes from midnight.
// End may exceed MinutesPerDay for bookings that run past midnight.
type Interval struct {
	Start int
	End   int
}

func (i Interval) Overlaps(o Interval) bool {
	return Overlaps(i.Start, i.End, o.Start, o.End)
}

func (i Interval) Minutes() int {
	return i.End - i.Start
}

// Overlaps is the half-open intersection test.
func Overlaps(startA, endA, startB, endB int) bool {
	return startA < endB && startB < endA
}

// IntervalOf returns the occupied range of a stored appointment.
// An end before the start means the appointment crosses midnight; a
// missing or equal end occupies MinBlockMinutes.
func IntervalOf(ap models.Appointment) Interval {
	start := ParseHMOr(ap.StartTime, FallbackStart)

	end, err := ParseHM(ap.EndTime)
	switch {
	case err != nil || end == start:
		end = start + MinBlockMinutes
	case end < start:
		end += MinutesPerDay
	}

	return Interval{Start: start, End: end}
}

// blocking reports whether ap occupies time on date for professionalID.
// professionalID 0 matches everyone.
func blocking(ap models.Appointment, date string, professionalID uint, excludeID uint) bool {
	if ap.Date != date {
		return false
	}
	if excludeID != 0 && ap.ID == excludeID {
		return false
	}
	if !domain.Status(ap.Status).Occupies() {
		return false
	}
	if professionalID != 0 && ap.ProfessionalID != 0 && ap.ProfessionalID != professionalID {
		return false
	}
	return true
}
