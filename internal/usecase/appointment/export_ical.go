package appointment

import (
	"context"
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// MaxExportDays bounds a single iCalendar export.
const MaxExportDays = 62

type ExportAgenda struct {
	repo domain.Repository
	loc  *time.Location
	now  func() time.Time
}

func NewExportAgenda(repo domain.Repository, loc *time.Location, now func() time.Time) *ExportAgenda {
	return &ExportAgenda{repo: repo, loc: loc, now: now}
}

// Execute renders non-cancelled appointments between from and to
// (inclusive) as an iCalendar document.
func (uc *ExportAgenda) Execute(ctx context.Context, from, to string, professionalID uint) (string, error) {
	start, err := timezone.ParseDate(from, uc.loc)
	if err != nil {
		return "", httperr.Wrap("invalid_date", err)
	}
	end, err := timezone.ParseDate(to, uc.loc)
	if err != nil {
		return "", httperr.Wrap("invalid_date", err)
	}
	if end.Before(start) || end.Sub(start) > MaxExportDays*24*time.Hour {
		return "", httperr.ErrBusiness("invalid_date")
	}

	aps, err := uc.repo.ListAppointmentsForPeriod(ctx, from, to)
	if err != nil {
		return "", upstream(err, "")
	}

	services, err := uc.repo.ListServices(ctx)
	if err != nil {
		return "", upstream(err, "")
	}
	names := make(map[uint]string, len(services))
	for _, s := range services {
		names[s.ID] = s.Name
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//clinic-scheduler//agenda//ES")

	stamp := uc.now().UTC()
	for _, ap := range aps {
		if !domain.Status(ap.Status).Occupies() {
			continue
		}
		if professionalID != 0 && ap.ProfessionalID != professionalID {
			continue
		}

		day, err := timezone.ParseDate(ap.Date, uc.loc)
		if err != nil {
			continue
		}
		iv := slot.IntervalOf(ap)

		ev := cal.AddEvent(fmt.Sprintf("turno-%d@clinic-scheduler", ap.ID))
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(day.Add(time.Duration(iv.Start) * time.Minute))
		ev.SetEndAt(day.Add(time.Duration(iv.End) * time.Minute))
		ev.SetSummary(summary(names[ap.ServiceID], ap.PatientName))
		if ap.Notes != "" {
			ev.SetDescription(ap.Notes)
		}
	}

	return cal.Serialize(), nil
}

func summary(service, patient string) string {
	if service == "" {
		service = "Turno"
	}
	if patient == "" {
		return service
	}
	return service + " - " + patient
}
