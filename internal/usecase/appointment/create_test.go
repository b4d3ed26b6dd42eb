package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/session"
)

var beforeMonday = time.Date(2026, 10, 10, 9, 0, 0, 0, testLoc)

func newCreate(repo *fakeRepo, auditor *fakeAuditor, now time.Time) *CreateAppointment {
	return NewCreateAppointment(repo, auditor, quietLogger(), testLoc, fixedNow(now))
}

func TestCreate_AdjacentToExistingBooking(t *testing.T) {
	repo := newFakeRepo(booked(7, "2026-10-12", "09:00", "10:00"))
	auditor := &fakeAuditor{}

	ap, err := newCreate(repo, auditor, beforeMonday).Execute(context.Background(), CreateAppointmentInput{
		Policy:    slot.Admin.Name,
		Date:      "2026-10-12",
		StartTime: "10:00",
		ServiceID: 1,
		PatientID: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, uint(100), ap.ID)
	assert.Equal(t, "11:00", ap.EndTime)
	assert.Equal(t, "scheduled", ap.Status)
	assert.True(t, ap.Price.Equal(decimal.NewFromInt(15000)), "list price by default")
	require.Len(t, repo.created, 1)
	assert.Equal(t, []string{"appointment_created"}, auditor.actions())
	require.NotNil(t, auditor.events[0].EntityID)
	assert.Equal(t, uint(100), *auditor.events[0].EntityID)
}

func TestCreate_ConflictBlocksRemoteWrite(t *testing.T) {
	repo := newFakeRepo(booked(7, "2026-10-12", "09:00", "10:00"))
	auditor := &fakeAuditor{}

	_, err := newCreate(repo, auditor, beforeMonday).Execute(context.Background(), CreateAppointmentInput{
		Policy:    slot.Admin.Name,
		Date:      "2026-10-12",
		StartTime: "09:30",
		ServiceID: 1,
		PatientID: 3,
	})

	assert.True(t, httperr.IsBusiness(err, "time_conflict"), "%v", err)
	assert.Empty(t, repo.created)
	assert.Equal(t, []string{"appointment_conflict"}, auditor.actions())
}

func TestCreate_CancelledDoesNotConflict(t *testing.T) {
	cancelled := booked(7, "2026-10-12", "09:00", "10:00")
	cancelled.Status = "cancelled"
	repo := newFakeRepo(cancelled)

	_, err := newCreate(repo, &fakeAuditor{}, beforeMonday).Execute(context.Background(), CreateAppointmentInput{
		Date:      "2026-10-12",
		StartTime: "09:00",
		ServiceID: 1,
		PatientID: 3,
	})
	assert.NoError(t, err)
}

func TestCreate_ServerRejection(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = errors.New("POST /turnos: status 400: horario ocupado")
	auditor := &fakeAuditor{}

	_, err := newCreate(repo, auditor, beforeMonday).Execute(context.Background(), CreateAppointmentInput{
		Date:      "2026-10-12",
		StartTime: "10:00",
		ServiceID: 1,
		PatientID: 3,
	})

	assert.True(t, httperr.IsBusiness(err, "booking_rejected"))
	assert.Equal(t, []string{"appointment_rejected"}, auditor.actions())
}

func TestCreate_SessionExpired(t *testing.T) {
	repo := newFakeRepo()
	repo.createErr = session.ErrExpired
	auditor := &fakeAuditor{}

	_, err := newCreate(repo, auditor, beforeMonday).Execute(context.Background(), CreateAppointmentInput{
		Date:      "2026-10-12",
		StartTime: "10:00",
		ServiceID: 1,
		PatientID: 3,
	})

	assert.True(t, httperr.IsBusiness(err, "session_expired"))
	assert.Empty(t, auditor.actions())
}

func TestCreate_PublicPolicyRules(t *testing.T) {
	repo := newFakeRepo()

	cases := []struct {
		name string
		date string
		time string
		now  time.Time
	}{
		{"sunday", "2026-10-18", "10:00", beforeMonday},
		{"before opening", "2026-10-12", "07:00", beforeMonday},
		{"past closing", "2026-10-12", "20:30", beforeMonday},
		{"already past", "2026-10-12", "10:00", time.Date(2026, 10, 12, 12, 0, 0, 0, testLoc)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := newCreate(repo, &fakeAuditor{}, tc.now).Execute(context.Background(), CreateAppointmentInput{
				Policy:    slot.Public.Name,
				Date:      tc.date,
				StartTime: tc.time,
				ServiceID: 1,
				PatientID: 3,
			})
			assert.True(t, httperr.IsBusiness(err, "slot_unavailable"), "%v", err)
		})
	}
	assert.Empty(t, repo.created)
}

func TestCreate_FindsOrCreatesPatient(t *testing.T) {
	repo := newFakeRepo()
	repo.patients = []models.Patient{{ID: 8, FirstName: "Ana", LastName: "Perez", Phone: "1155550000"}}

	uc := newCreate(repo, &fakeAuditor{}, beforeMonday)

	ap, err := uc.Execute(context.Background(), CreateAppointmentInput{
		Policy:    slot.Public.Name,
		Date:      "2026-10-12",
		StartTime: "10:00",
		ServiceID: 2,
		Patient:   &models.Patient{FirstName: "Ana", Phone: "1155550000"},
	})
	require.NoError(t, err)
	assert.Equal(t, uint(8), ap.PatientID)
	assert.Equal(t, "Ana Perez", ap.PatientName)
	assert.Equal(t, "10:30", ap.EndTime)

	_, err = uc.Execute(context.Background(), CreateAppointmentInput{
		Date:      "2026-10-12",
		StartTime: "12:00",
		ServiceID: 2,
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_request"))
}

func TestCreate_InputErrors(t *testing.T) {
	uc := newCreate(newFakeRepo(), &fakeAuditor{}, beforeMonday)
	ctx := context.Background()

	_, err := uc.Execute(ctx, CreateAppointmentInput{Date: "12-10-2026", StartTime: "10:00", ServiceID: 1, PatientID: 1})
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	_, err = uc.Execute(ctx, CreateAppointmentInput{Date: "2026-10-12", StartTime: "10h", ServiceID: 1, PatientID: 1})
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))

	_, err = uc.Execute(ctx, CreateAppointmentInput{Date: "2026-10-12", StartTime: "10:00", ServiceID: 99, PatientID: 1})
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))

	_, err = uc.Execute(ctx, CreateAppointmentInput{
		Date:        "2026-10-12",
		StartTime:   "10:00",
		ServiceID:   1,
		PatientID:   1,
		DiscountPct: decimal.NewFromInt(120),
	})
	assert.True(t, httperr.IsBusiness(err, "invalid_discount"))
}

func TestCreate_AuditActorFromSession(t *testing.T) {
	repo := newFakeRepo()
	auditor := &fakeAuditor{}

	// Opaque tokens have no subject.
	ctx := session.WithSession(context.Background(), session.New("opaque", ""))

	_, err := newCreate(repo, auditor, beforeMonday).Execute(ctx, CreateAppointmentInput{
		Date:      "2026-10-12",
		StartTime: "10:00",
		ServiceID: 1,
		PatientID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "", auditor.events[0].Actor)
	assert.Equal(t, "appointment", auditor.events[0].Entity)
}
