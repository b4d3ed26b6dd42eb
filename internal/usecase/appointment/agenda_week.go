package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

const DefaultPixelsPerMinute = 0.8

type GetAgendaWeek struct {
	repo domain.Repository
}

func NewGetAgendaWeek(repo domain.Repository) *GetAgendaWeek {
	return &GetAgendaWeek{repo: repo}
}

// Execute lays out the Monday-to-Sunday week containing day.
func (uc *GetAgendaWeek) Execute(
	ctx context.Context,
	day time.Time,
	professionalID uint,
	pixelsPerMinute float64,
) (*dto.AgendaWeekDTO, error) {

	if pixelsPerMinute == 0 {
		pixelsPerMinute = DefaultPixelsPerMinute
	}
	if pixelsPerMinute < 0 || pixelsPerMinute > 10 {
		return nil, httperr.ErrBusiness("invalid_request")
	}

	weekStart := timezone.StartOfWeek(day)
	from := weekStart.Format(slot.DateLayout)
	to := weekStart.AddDate(0, 0, 6).Format(slot.DateLayout)

	aps, err := uc.repo.ListAppointmentsForPeriod(ctx, from, to)
	if err != nil {
		return nil, upstream(err, "")
	}

	if professionalID != 0 {
		filtered := aps[:0]
		for _, ap := range aps {
			if ap.ProfessionalID == professionalID {
				filtered = append(filtered, ap)
			}
		}
		aps = filtered
	}

	return &dto.AgendaWeekDTO{
		WeekStart:       from,
		DayStart:        slot.FormatHM(slot.Admin.Open),
		DayEnd:          slot.FormatHM(slot.Admin.Close),
		PixelsPerMinute: pixelsPerMinute,
		Days:            slot.WeekGrid(weekStart, aps, slot.Admin, pixelsPerMinute),
	}, nil
}
