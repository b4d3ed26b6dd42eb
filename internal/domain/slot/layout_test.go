package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestComputeLayout(t *testing.T) {
	l := ComputeLayout("08:00", "08:30", 7*60, 0.8)
	assert.InDelta(t, 48, l.Top, 1e-9)
	assert.InDelta(t, 24, l.Height, 1e-9)

	short := ComputeLayout("08:00", "08:10", 7*60, 0.8)
	assert.InDelta(t, 24, short.Height, 1e-9, "clamped to the minimum block")

	long := ComputeLayout("09:00", "10:30", 7*60, 1)
	assert.InDelta(t, 120, long.Top, 1e-9)
	assert.InDelta(t, 90, long.Height, 1e-9)
}

func TestWeekGrid(t *testing.T) {
	cancelled := booked(3, "2026-10-14", "10:00", "11:00")
	cancelled.Status = "cancelled"

	aps := []models.Appointment{
		booked(2, "2026-10-12", "15:00", "16:00"),
		booked(1, "2026-10-12", "09:00", "10:00"),
		cancelled,
		booked(4, "2026-10-25", "09:00", "10:00"),
	}

	days := WeekGrid(monday, aps, Admin, 1)
	require.Len(t, days, 7)

	assert.Equal(t, "2026-10-12", days[0].Date)
	assert.Equal(t, "Monday", days[0].Weekday)
	assert.Equal(t, "2026-10-18", days[6].Date)

	require.Len(t, days[0].Blocks, 2)
	assert.Equal(t, uint(1), days[0].Blocks[0].Appointment.ID)
	assert.InDelta(t, 120, days[0].Blocks[0].Top, 1e-9)
	assert.Equal(t, uint(2), days[0].Blocks[1].Appointment.ID)

	assert.Empty(t, days[2].Blocks)

	hours := days[0].Hours
	require.Len(t, hours, 15)
	assert.Equal(t, "07:00", hours[0].Label)
	assert.Equal(t, "21:00", hours[len(hours)-1].Label)
}
