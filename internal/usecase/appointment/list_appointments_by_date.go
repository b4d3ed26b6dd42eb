package appointment

import (
	"context"
	"sort"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/clinic-scheduler/internal/dto"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(repo domain.Repository) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo}
}

// Execute lists one day ordered by start time. professionalID 0 lists
// every professional.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	date string,
	professionalID uint,
) ([]dto.AppointmentListDTO, error) {

	aps, err := loadDay(ctx, uc.repo, date)
	if err != nil {
		return nil, err
	}

	services, err := uc.repo.ListServices(ctx)
	if err != nil {
		return nil, upstream(err, "")
	}
	names := make(map[uint]string, len(services))
	for _, s := range services {
		names[s.ID] = s.Name
	}

	out := make([]dto.AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		if professionalID != 0 && ap.ProfessionalID != professionalID {
			continue
		}

		item := dto.AppointmentListDTO{
			Appointment: ap,
			ServiceName: names[ap.ServiceID],
		}
		if b, err := domain.BalanceOf(ap); err == nil {
			item.Balance = &b
		}
		out = append(out, item)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return slot.IntervalOf(out[i].Appointment).Start < slot.IntervalOf(out[j].Appointment).Start
	})

	return out, nil
}
