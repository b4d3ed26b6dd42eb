package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/session"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// UpdateAppointmentInput carries only the fields being changed.
type UpdateAppointmentInput struct {
	ID uint

	Date           *string
	StartTime      *string
	ServiceID      *uint
	ProfessionalID *uint
	PatientID      *uint
	Status         *string

	Price       *decimal.Decimal
	DiscountPct *decimal.Decimal
	Deposit     *decimal.Decimal

	Notes *string
}

func (in UpdateAppointmentInput) reschedules() bool {
	return in.Date != nil || in.StartTime != nil || in.ServiceID != nil || in.ProfessionalID != nil
}

type UpdateAppointment struct {
	repo  domain.Repository
	audit Auditor
	log   *logrus.Logger
	loc   *time.Location
	now   func() time.Time
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit Auditor,
	log *logrus.Logger,
	loc *time.Location,
	now func() time.Time,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
		log:   log,
		loc:   loc,
		now:   now,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {

	current, err := uc.repo.GetAppointment(ctx, in.ID)
	if err != nil {
		return nil, upstream(err, "appointment_not_found")
	}
	ap := *current

	if in.reschedules() && domain.Status(ap.Status).Terminal() {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	// --------------------------------------------------
	// Status
	// --------------------------------------------------
	if in.Status != nil {
		if err := domain.ChangeStatus(&ap, domain.Status(*in.Status)); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// Schedule
	// --------------------------------------------------
	if in.Date != nil {
		if _, err := timezone.ParseDate(*in.Date, uc.loc); err != nil {
			return nil, httperr.Wrap("invalid_date", err)
		}
		ap.Date = *in.Date
	}
	if in.StartTime != nil {
		m, err := slot.ParseHM(*in.StartTime)
		if err != nil {
			return nil, httperr.Wrap("invalid_date_or_time", err)
		}
		ap.StartTime = slot.FormatHM(m)
	}
	if in.ProfessionalID != nil {
		ap.ProfessionalID = *in.ProfessionalID
	}
	if in.PatientID != nil {
		ap.PatientID = *in.PatientID
	}

	duration := slot.IntervalOf(ap).Minutes()
	if in.ServiceID != nil || in.StartTime != nil {
		serviceID := ap.ServiceID
		if in.ServiceID != nil {
			serviceID = *in.ServiceID
		}
		service, err := uc.repo.GetService(ctx, serviceID)
		if err != nil {
			return nil, upstream(err, "service_not_found")
		}
		if in.ServiceID != nil && serviceID != current.ServiceID && in.Price == nil {
			ap.Price = service.Price
		}
		ap.ServiceID = service.ID
		duration = service.DurationMinutes
		ap.EndTime = slot.ComputeEndTime(ap.StartTime, duration)
	}

	// --------------------------------------------------
	// Money
	// --------------------------------------------------
	if in.Price != nil {
		ap.Price = *in.Price
	}
	if in.DiscountPct != nil {
		ap.DiscountPct = *in.DiscountPct
	}
	if in.Deposit != nil {
		ap.Deposit = *in.Deposit
	}
	if _, err := domain.BalanceOf(ap); err != nil {
		return nil, err
	}

	if in.Notes != nil {
		ap.Notes = *in.Notes
	}

	// --------------------------------------------------
	// Conflict guard, excluding this appointment
	// --------------------------------------------------
	if in.reschedules() && domain.Status(ap.Status).Occupies() {
		if in.Date != nil || in.StartTime != nil || in.ServiceID != nil {
			day, _ := timezone.ParseDate(ap.Date, uc.loc)
			iv := slot.Interval{Start: slot.ParseHMOr(ap.StartTime, slot.FallbackStart)}
			iv.End = iv.Start + duration
			if slot.Admin.Disabled(day, iv, time.Time{}) {
				return nil, httperr.ErrBusiness("slot_unavailable")
			}
		}

		existing, err := loadDay(ctx, uc.repo, ap.Date)
		if err != nil {
			return nil, err
		}

		v := slot.ValidateBooking(slot.Candidate{
			ID:             ap.ID,
			Date:           ap.Date,
			StartTime:      ap.StartTime,
			Duration:       duration,
			ProfessionalID: ap.ProfessionalID,
		}, existing)
		if !v.OK {
			uc.audit.Dispatch(auditEvent(ctx, "appointment_conflict", &ap, map[string]any{
				"date":        ap.Date,
				"start":       ap.StartTime,
				"conflict_id": v.Conflict.ID,
			}))
			return nil, httperr.ErrBusiness("time_conflict")
		}
	}

	if err := uc.repo.UpdateAppointment(ctx, &ap); err != nil {
		if errors.Is(err, session.ErrExpired) {
			return nil, httperr.Wrap("session_expired", err)
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.Wrap("appointment_not_found", err)
		}
		uc.log.WithField("appointment_id", ap.ID).Errorf("clinic api rejected update: %v", err)
		uc.audit.Dispatch(auditEvent(ctx, "appointment_rejected", &ap, nil))
		return nil, httperr.Wrap("booking_rejected", err)
	}

	uc.audit.Dispatch(auditEvent(ctx, "appointment_updated", &ap, map[string]any{
		"from": map[string]string{"date": current.Date, "start": current.StartTime, "status": current.Status},
		"to":   map[string]string{"date": ap.Date, "start": ap.StartTime, "status": ap.Status},
	}))
	return &ap, nil
}
