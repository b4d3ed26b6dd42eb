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

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Policy string

	Date      string
	StartTime string

	ServiceID      uint
	ProfessionalID uint

	// PatientID wins over Patient. Patient is matched by phone or created.
	PatientID uint
	Patient   *models.Patient

	// Price nil means the service's list price.
	Price       *decimal.Decimal
	DiscountPct decimal.Decimal
	Deposit     decimal.Decimal

	Notes string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo  domain.Repository
	audit Auditor
	log   *logrus.Logger
	loc   *time.Location
	now   func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	audit Auditor,
	log *logrus.Logger,
	loc *time.Location,
	now func() time.Time,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
		log:   log,
		loc:   loc,
		now:   now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	// --------------------------------------------------
	// Date / time in the clinic's timezone
	// --------------------------------------------------
	day, err := timezone.ParseDate(in.Date, uc.loc)
	if err != nil {
		return nil, httperr.Wrap("invalid_date", err)
	}
	start, err := slot.ParseHM(in.StartTime)
	if err != nil {
		return nil, httperr.Wrap("invalid_date_or_time", err)
	}

	// --------------------------------------------------
	// Service drives the end time
	// --------------------------------------------------
	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, upstream(err, "service_not_found")
	}

	iv := slot.Interval{Start: start, End: start + service.DurationMinutes}

	policy := slot.PolicyByName(in.Policy)
	if policy.Disabled(day, iv, uc.now()) {
		return nil, httperr.ErrBusiness("slot_unavailable")
	}

	ap := &models.Appointment{
		Date:           in.Date,
		StartTime:      slot.FormatHM(start),
		EndTime:        slot.ComputeEndTime(slot.FormatHM(start), service.DurationMinutes),
		ServiceID:      service.ID,
		ProfessionalID: in.ProfessionalID,
		PatientID:      in.PatientID,
		Status:         string(domain.InitialStatus()),
		Price:          service.Price,
		DiscountPct:    in.DiscountPct,
		Deposit:        in.Deposit,
		Notes:          in.Notes,
	}
	if in.Price != nil {
		ap.Price = *in.Price
	}

	if _, err := domain.BalanceOf(*ap); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Conflict guard on the current snapshot
	// --------------------------------------------------
	existing, err := loadDay(ctx, uc.repo, in.Date)
	if err != nil {
		return nil, err
	}

	v := slot.ValidateBooking(slot.Candidate{
		Date:           ap.Date,
		StartTime:      ap.StartTime,
		Duration:       service.DurationMinutes,
		ProfessionalID: ap.ProfessionalID,
	}, existing)
	if !v.OK {
		uc.audit.Dispatch(auditEvent(ctx, "appointment_conflict", nil, map[string]any{
			"date":        ap.Date,
			"start":       ap.StartTime,
			"end":         ap.EndTime,
			"conflict_id": v.Conflict.ID,
		}))
		return nil, httperr.ErrBusiness("time_conflict")
	}

	// --------------------------------------------------
	// Patient
	// --------------------------------------------------
	if ap.PatientID == 0 {
		if in.Patient == nil {
			return nil, httperr.ErrBusiness("invalid_request")
		}
		patient, err := uc.repo.FindOrCreatePatient(ctx, *in.Patient)
		if err != nil {
			return nil, upstream(err, "")
		}
		ap.PatientID = patient.ID
		ap.PatientName = patient.FullName()
	}

	// --------------------------------------------------
	// Remote write; the server has the final word
	// --------------------------------------------------
	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, uc.rejected(ctx, ap, err)
	}

	uc.audit.Dispatch(auditEvent(ctx, "appointment_created", ap, nil))
	return ap, nil
}

func (uc *CreateAppointment) rejected(ctx context.Context, ap *models.Appointment, err error) error {
	if errors.Is(err, session.ErrExpired) {
		return httperr.Wrap("session_expired", err)
	}

	uc.log.WithFields(logrus.Fields{
		"date":  ap.Date,
		"start": ap.StartTime,
	}).Errorf("clinic api rejected booking: %v", err)

	uc.audit.Dispatch(auditEvent(ctx, "appointment_rejected", ap, map[string]any{
		"date":  ap.Date,
		"start": ap.StartTime,
	}))
	return httperr.Wrap("booking_rejected", err)
}
