package slot

import (
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

const DateLayout = "2006-01-02"

type Period string

const (
	Morning   Period = "morning"
	Afternoon Period = "afternoon"
	Evening   Period = "evening"
)

func PeriodOf(minutes int) Period {
	switch {
	case minutes < 12*60:
		return Morning
	case minutes < 18*60:
		return Afternoon
	default:
		return Evening
	}
}

type State string

const (
	StateFree     State = "free"
	StateBusy     State = "busy"
	StateDisabled State = "disabled"
)

type Slot struct {
	Label        string `json:"label"`
	End          string `json:"end"`
	StartMinutes int    `json:"start_minutes"`
	EndMinutes   int    `json:"end_minutes"`
	Busy         bool   `json:"busy"`
	Disabled     bool   `json:"disabled"`
	Period       Period `json:"period"`
}

func (s Slot) Available() bool {
	return !s.Busy && !s.Disabled
}

// State collapses both flags for rendering; the business rule wins.
func (s Slot) State() State {
	switch {
	case s.Disabled:
		return StateDisabled
	case s.Busy:
		return StateBusy
	default:
		return StateFree
	}
}

type Request struct {
	Date            time.Time
	DurationMinutes int
	ProfessionalID  uint
	// ExcludeID is the appointment being edited, if any.
	ExcludeID uint
	// Now is the clinic-local current time. Zero skips the past-time rule.
	Now time.Time
}

// Generate returns one slot per policy tick in [Open, Close). Busy and
// disabled slots are kept so the caller can render them struck through.
func (p Policy) Generate(req Request, existing []models.Appointment) []Slot {
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = p.Step
	}

	date := req.Date.Format(DateLayout)

	taken := make([]Interval, 0, len(existing))
	for _, ap := range existing {
		if blocking(ap, date, req.ProfessionalID, req.ExcludeID) {
			taken = append(taken, IntervalOf(ap))
		}
	}

	slots := make([]Slot, 0, (p.Close-p.Open)/p.Step+1)
	for tick := p.Open; tick < p.Close; tick += p.Step {
		iv := Interval{Start: tick, End: tick + duration}

		busy := false
		for _, t := range taken {
			if iv.Overlaps(t) {
				busy = true
				break
			}
		}

		slots = append(slots, Slot{
			Label:        FormatHM(iv.Start),
			End:          FormatHM(iv.End),
			StartMinutes: iv.Start,
			EndMinutes:   iv.End,
			Busy:         busy,
			Disabled:     p.Disabled(req.Date, iv, req.Now),
			Period:       PeriodOf(iv.Start),
		})
	}

	return slots
}

// GenerateSlots runs the admin policy for a date and duration.
func GenerateSlots(date time.Time, durationMinutes int, existing []models.Appointment) []Slot {
	return Admin.Generate(Request{Date: date, DurationMinutes: durationMinutes}, existing)
}
