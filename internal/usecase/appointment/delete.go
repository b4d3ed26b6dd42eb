package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
)

type DeleteAppointment struct {
	repo  domain.Repository
	audit Auditor
}

func NewDeleteAppointment(repo domain.Repository, audit Auditor) *DeleteAppointment {
	return &DeleteAppointment{repo: repo, audit: audit}
}

func (uc *DeleteAppointment) Execute(ctx context.Context, id uint) error {
	ap, err := uc.repo.GetAppointment(ctx, id)
	if err != nil {
		return upstream(err, "appointment_not_found")
	}

	if err := uc.repo.DeleteAppointment(ctx, id); err != nil {
		return upstream(err, "appointment_not_found")
	}

	uc.audit.Dispatch(auditEvent(ctx, "appointment_deleted", ap, map[string]any{
		"date":  ap.Date,
		"start": ap.StartTime,
	}))
	return nil
}
