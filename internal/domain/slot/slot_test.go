package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var (
	monday = time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
)

func booked(id uint, date, start, end string) models.Appointment {
	return models.Appointment{ID: id, Date: date, StartTime: start, EndTime: end, Status: "scheduled"}
}

func byLabel(slots []Slot) map[string]Slot {
	out := make(map[string]Slot, len(slots))
	for _, s := range slots {
		out[s.Label] = s
	}
	return out
}

func TestGenerate_PublicHourlyWithBusyHours(t *testing.T) {
	existing := []models.Appointment{
		booked(1, "2026-10-12", "09:00", "10:00"),
		booked(2, "2026-10-12", "14:00", "15:00"),
		booked(3, "2026-10-13", "11:00", "12:00"),
	}

	slots := Public.Generate(Request{Date: monday, DurationMinutes: 60}, existing)
	require.Len(t, slots, 13)
	assert.Equal(t, "08:00", slots[0].Label)
	assert.Equal(t, "20:00", slots[len(slots)-1].Label)

	for _, s := range slots {
		wantBusy := s.Label == "09:00" || s.Label == "14:00"
		assert.Equal(t, wantBusy, s.Busy, s.Label)
		assert.False(t, s.Disabled, s.Label)
	}

	assert.Equal(t, StateBusy, byLabel(slots)["09:00"].State())
	assert.Equal(t, StateFree, byLabel(slots)["11:00"].State())
}

func TestGenerate_PartialOverlapMarksWholeHourBusy(t *testing.T) {
	existing := []models.Appointment{
		booked(1, "2026-10-12", "09:00", "10:00"),
		booked(2, "2026-10-12", "14:00", "14:30"),
	}

	slots := byLabel(Public.Generate(Request{Date: monday, DurationMinutes: 60}, existing))

	assert.True(t, slots["09:00"].Busy)
	assert.True(t, slots["14:00"].Busy)
	assert.False(t, slots["13:00"].Busy)
	assert.False(t, slots["15:00"].Busy)
	assert.False(t, slots["10:00"].Busy)
}

func TestGenerate_LongServiceOverlapsAndClosing(t *testing.T) {
	existing := []models.Appointment{
		booked(1, "2026-10-12", "09:00", "10:00"),
		booked(2, "2026-10-12", "14:00", "15:00"),
	}

	slots := byLabel(Public.Generate(Request{Date: monday, DurationMinutes: 90}, existing))

	assert.True(t, slots["08:00"].Busy)
	assert.True(t, slots["13:00"].Busy)
	assert.False(t, slots["10:00"].Busy)
	assert.Equal(t, "21:30", slots["20:00"].End)
	assert.True(t, slots["20:00"].Disabled, "runs past closing")
	assert.False(t, slots["19:00"].Disabled)
}

func TestGenerate_ExcludesEditedAppointment(t *testing.T) {
	existing := []models.Appointment{booked(7, "2026-10-12", "09:00", "10:00")}

	slots := byLabel(Admin.Generate(Request{Date: monday, DurationMinutes: 60, ExcludeID: 7}, existing))
	assert.False(t, slots["09:00"].Busy)

	slots = byLabel(Admin.Generate(Request{Date: monday, DurationMinutes: 60}, existing))
	assert.True(t, slots["09:00"].Busy)
	assert.True(t, slots["08:30"].Busy)
	assert.False(t, slots["10:00"].Busy)
}

func TestGenerate_CancelledDoesNotBlock(t *testing.T) {
	ap := booked(1, "2026-10-12", "09:00", "10:00")
	ap.Status = "cancelled"

	slots := byLabel(Public.Generate(Request{Date: monday, DurationMinutes: 60}, []models.Appointment{ap}))
	assert.True(t, slots["09:00"].Available())
}

func TestGenerate_ProfessionalScope(t *testing.T) {
	ap := booked(1, "2026-10-12", "09:00", "10:00")
	ap.ProfessionalID = 2

	other := byLabel(Public.Generate(Request{Date: monday, DurationMinutes: 60, ProfessionalID: 1}, []models.Appointment{ap}))
	assert.False(t, other["09:00"].Busy)

	all := byLabel(Public.Generate(Request{Date: monday, DurationMinutes: 60}, []models.Appointment{ap}))
	assert.True(t, all["09:00"].Busy)
}

func TestGenerate_SundayClosedOnlyForPublic(t *testing.T) {
	for _, s := range Public.Generate(Request{Date: sunday, DurationMinutes: 60}, nil) {
		assert.True(t, s.Disabled, s.Label)
	}
	for _, s := range Admin.Generate(Request{Date: sunday, DurationMinutes: 60}, nil) {
		if s.EndMinutes > Admin.Close {
			assert.True(t, s.Disabled, "runs past closing "+s.Label)
			continue
		}
		assert.False(t, s.Disabled, s.Label)
	}
}

func TestGenerate_PastTimesDisabled(t *testing.T) {
	now := time.Date(2026, 10, 12, 10, 30, 0, 0, time.UTC)

	slots := byLabel(Public.Generate(Request{Date: monday, DurationMinutes: 60, Now: now}, nil))
	assert.True(t, slots["08:00"].Disabled)
	assert.True(t, slots["10:00"].Disabled)
	assert.False(t, slots["11:00"].Disabled)

	for _, s := range Public.Generate(Request{Date: monday.AddDate(0, 0, -7), DurationMinutes: 60, Now: now}, nil) {
		assert.True(t, s.Disabled, "past day "+s.Label)
	}

	tuesday := byLabel(Public.Generate(Request{Date: monday.AddDate(0, 0, 1), DurationMinutes: 60, Now: now}, nil))
	assert.False(t, tuesday["08:00"].Disabled)

	admin := byLabel(Admin.Generate(Request{Date: monday, DurationMinutes: 60, Now: now}, nil))
	assert.False(t, admin["08:00"].Disabled, "admin can book in the past")
}

func TestGenerate_AdminHalfHourTicks(t *testing.T) {
	slots := GenerateSlots(monday, 0, nil)
	require.Len(t, slots, 28)
	assert.Equal(t, "07:00", slots[0].Label)
	assert.Equal(t, "07:30", slots[0].End, "zero duration falls back to the step")
	assert.Equal(t, "20:30", slots[len(slots)-1].Label)
}

func TestPeriodOf(t *testing.T) {
	assert.Equal(t, Morning, PeriodOf(11*60+30))
	assert.Equal(t, Afternoon, PeriodOf(12*60))
	assert.Equal(t, Afternoon, PeriodOf(17*60+59))
	assert.Equal(t, Evening, PeriodOf(18*60))
}

func TestSlotState_DisabledWins(t *testing.T) {
	assert.Equal(t, StateDisabled, Slot{Busy: true, Disabled: true}.State())
	assert.False(t, Slot{Busy: true}.Available())
}
