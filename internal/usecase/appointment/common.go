package appointment

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/clinic-scheduler/internal/apiclient"
	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/session"
)

// Auditor receives audit events; *audit.Dispatcher satisfies it.
type Auditor interface {
	Dispatch(ev audit.Event)
}

func auditEvent(ctx context.Context, action string, ap *models.Appointment, meta any) audit.Event {
	ev := audit.Event{
		Action:    action,
		Entity:    "appointment",
		RequestID: apiclient.RequestID(ctx),
		Metadata:  meta,
	}
	if s, ok := session.FromContext(ctx); ok {
		ev.Actor = s.Subject()
	}
	if ap != nil && ap.ID != 0 {
		id := ap.ID
		ev.EntityID = &id
	}
	return ev
}

// upstream classifies a repository failure. notFoundCode is used for
// domain.ErrNotFound; pass "" when a missing record is unexpected.
func upstream(err error, notFoundCode string) error {
	switch {
	case errors.Is(err, session.ErrExpired):
		return httperr.Wrap("session_expired", err)
	case notFoundCode != "" && errors.Is(err, domain.ErrNotFound):
		return httperr.Wrap(notFoundCode, err)
	default:
		return httperr.Wrap("upstream_unavailable", err)
	}
}

func loadDay(ctx context.Context, repo domain.Repository, date string) ([]models.Appointment, error) {
	aps, err := repo.ListAppointmentsForPeriod(ctx, date, date)
	if err != nil {
		return nil, upstream(err, "")
	}
	return aps, nil
}
