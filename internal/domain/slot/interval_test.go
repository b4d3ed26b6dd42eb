package slot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

func TestOverlaps_HalfOpen(t *testing.T) {
	assert.False(t, Overlaps(60, 120, 120, 180), "touching ends do not overlap")
	assert.False(t, Overlaps(120, 180, 60, 120))
	assert.True(t, Overlaps(60, 120, 119, 180))
	assert.True(t, Overlaps(60, 180, 90, 100), "containment")
	assert.False(t, Overlaps(60, 60, 60, 120), "empty interval")
}

func TestIntervalOf(t *testing.T) {
	cases := []struct {
		name  string
		start string
		end   string
		want  Interval
	}{
		{"regular", "09:00", "10:00", Interval{540, 600}},
		{"missing end", "09:00", "", Interval{540, 570}},
		{"equal end", "09:00", "09:00", Interval{540, 570}},
		{"past midnight", "23:30", "00:30", Interval{1410, 1470}},
		{"malformed start", "x", "09:00", Interval{480, 540}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := IntervalOf(models.Appointment{StartTime: tc.start, EndTime: tc.end})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestBlocking(t *testing.T) {
	ap := models.Appointment{ID: 7, Date: "2026-10-12", Status: "scheduled", ProfessionalID: 2}

	assert.True(t, blocking(ap, "2026-10-12", 0, 0))
	assert.True(t, blocking(ap, "2026-10-12", 2, 0))
	assert.False(t, blocking(ap, "2026-10-13", 0, 0), "other day")
	assert.False(t, blocking(ap, "2026-10-12", 0, 7), "excluded id")
	assert.False(t, blocking(ap, "2026-10-12", 1, 0), "other professional")

	ap.Status = "cancelled"
	assert.False(t, blocking(ap, "2026-10-12", 0, 0))

	ap.Status = "no_show"
	assert.True(t, blocking(ap, "2026-10-12", 0, 0))
}
