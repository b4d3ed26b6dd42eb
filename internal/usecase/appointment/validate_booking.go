package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
)

type ValidateBookingInput struct {
	AppointmentID  uint
	Date           string
	StartTime      string
	ServiceID      uint
	ProfessionalID uint
}

type BookingCheck struct {
	slot.Validation
	EndTime string `json:"end_time"`
}

// ValidateBooking answers whether a booking would conflict, without
// writing anything.
type ValidateBooking struct {
	repo domain.Repository
}

func NewValidateBooking(repo domain.Repository) *ValidateBooking {
	return &ValidateBooking{repo: repo}
}

func (uc *ValidateBooking) Execute(ctx context.Context, in ValidateBookingInput) (*BookingCheck, error) {
	if _, err := time.Parse(slot.DateLayout, in.Date); err != nil {
		return nil, httperr.Wrap("invalid_date", err)
	}
	if _, err := slot.ParseHM(in.StartTime); err != nil {
		return nil, httperr.Wrap("invalid_date_or_time", err)
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		return nil, upstream(err, "service_not_found")
	}

	existing, err := loadDay(ctx, uc.repo, in.Date)
	if err != nil {
		return nil, err
	}

	v := slot.ValidateBooking(slot.Candidate{
		ID:             in.AppointmentID,
		Date:           in.Date,
		StartTime:      in.StartTime,
		Duration:       service.DurationMinutes,
		ProfessionalID: in.ProfessionalID,
	}, existing)

	return &BookingCheck{
		Validation: v,
		EndTime:    slot.ComputeEndTime(in.StartTime, service.DurationMinutes),
	}, nil
}
