package slot

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Layout struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// ComputeLayout maps an interval onto the agenda grid. Short intervals
// are drawn MinBlockMinutes tall so they stay clickable.
func ComputeLayout(startTime, endTime string, dayStartMinutes int, pixelsPerMinute float64) Layout {
	iv := IntervalOf(models.Appointment{StartTime: startTime, EndTime: endTime})
	return layoutOf(iv, dayStartMinutes, pixelsPerMinute)
}

func layoutOf(iv Interval, dayStart int, px float64) Layout {
	minutes := iv.Minutes()
	if minutes < MinBlockMinutes {
		minutes = MinBlockMinutes
	}
	return Layout{
		Top:    float64(iv.Start-dayStart) * px,
		Height: float64(minutes) * px,
	}
}

type Block struct {
	Appointment models.Appointment `json:"appointment"`
	Layout
}

type DayColumn struct {
	Date    string    `json:"date"`
	Weekday string    `json:"weekday"`
	Blocks  []Block   `json:"blocks"`
	Hours   []HourRow `json:"hours"`
}

type HourRow struct {
	Label string  `json:"label"`
	Top   float64 `json:"top"`
}

// WeekGrid lays out seven columns starting at weekStart. Cancelled
// appointments are left off the grid.
func WeekGrid(weekStart time.Time, appointments []models.Appointment, p Policy, pixelsPerMinute float64) []DayColumn {
	byDate := make(map[string][]models.Appointment)
	for _, ap := range appointments {
		byDate[ap.Date] = append(byDate[ap.Date], ap)
	}

	hours := make([]HourRow, 0, (p.Close-p.Open)/60+1)
	for m := p.Open; m <= p.Close; m += 60 {
		hours = append(hours, HourRow{
			Label: FormatHM(m),
			Top:   float64(m-p.Open) * pixelsPerMinute,
		})
	}

	days := make([]DayColumn, 0, 7)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		date := day.Format(DateLayout)

		aps := byDate[date]
		sort.SliceStable(aps, func(a, b int) bool {
			return IntervalOf(aps[a]).Start < IntervalOf(aps[b]).Start
		})

		blocks := make([]Block, 0, len(aps))
		for _, ap := range aps {
			if !blocking(ap, date, 0, 0) {
				continue
			}
			blocks = append(blocks, Block{
				Appointment: ap,
				Layout:      layoutOf(IntervalOf(ap), p.Open, pixelsPerMinute),
			})
		}

		days = append(days, DayColumn{
			Date:    date,
			Weekday: day.Weekday().String(),
			Blocks:  blocks,
			Hours:   hours,
		})
	}

	return days
}
