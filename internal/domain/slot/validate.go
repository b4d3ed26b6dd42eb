package slot

import "github.com/BruksfildServices01/clinic-scheduler/internal/models"

// Candidate is a booking about to be created or edited.
type Candidate struct {
	ID             uint
	Date           string
	StartTime      string
	EndTime        string
	Duration       int // minutes; when set it overrides EndTime
	ProfessionalID uint
}

func (c Candidate) Interval() Interval {
	if c.Duration > 0 {
		start := ParseHMOr(c.StartTime, FallbackStart)
		return Interval{Start: start, End: start + c.Duration}
	}
	return IntervalOf(models.Appointment{StartTime: c.StartTime, EndTime: c.EndTime})
}

type Validation struct {
	OK       bool                `json:"ok"`
	Conflict *models.Appointment `json:"conflict,omitempty"`
}

// ValidateBooking checks the candidate against same-day appointments,
// skipping the candidate's own id. It reports the first conflict found.
func ValidateBooking(c Candidate, existing []models.Appointment) Validation {
	iv := c.Interval()

	for i := range existing {
		ap := existing[i]
		if !blocking(ap, c.Date, c.ProfessionalID, c.ID) {
			continue
		}
		if iv.Overlaps(IntervalOf(ap)) {
			return Validation{OK: false, Conflict: &ap}
		}
	}

	return Validation{OK: true}
}
