package appointment

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var testLoc = time.FixedZone("ART", -3*3600)

// fakeRepo keeps a snapshot of the remote API in memory.
type fakeRepo struct {
	services     map[uint]models.Service
	appointments []models.Appointment
	patients     []models.Patient

	createErr error
	updateErr error
	listErr   error

	created []models.Appointment
	updated []models.Appointment
	deleted []uint
	nextID  uint
}

func newFakeRepo(aps ...models.Appointment) *fakeRepo {
	return &fakeRepo{
		services: map[uint]models.Service{
			1: {ID: 1, Name: "Kinesiologia", Price: decimal.NewFromInt(15000), DurationMinutes: 60},
			2: {ID: 2, Name: "Evaluacion", Price: decimal.NewFromInt(9000), DurationMinutes: 30},
		},
		appointments: aps,
		nextID:       100,
	}
}

func (r *fakeRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	s, ok := r.services[id]
	if !ok {
		return nil, fmt.Errorf("servicio %d: %w", id, domain.ErrNotFound)
	}
	return &s, nil
}

func (r *fakeRepo) ListServices(context.Context) ([]models.Service, error) {
	out := make([]models.Service, 0, len(r.services))
	for _, s := range r.services {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeRepo) ListProfessionals(context.Context) ([]models.Professional, error) {
	return nil, nil
}

func (r *fakeRepo) ListPatients(context.Context, string) ([]models.Patient, error) {
	return r.patients, nil
}

func (r *fakeRepo) FindOrCreatePatient(_ context.Context, p models.Patient) (*models.Patient, error) {
	for i := range r.patients {
		if r.patients[i].Phone == p.Phone {
			return &r.patients[i], nil
		}
	}
	p.ID = uint(len(r.patients) + 50)
	r.patients = append(r.patients, p)
	return &p, nil
}

func (r *fakeRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	for _, ap := range r.appointments {
		if ap.ID == id {
			cp := ap
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("turno %d: %w", id, domain.ErrNotFound)
}

func (r *fakeRepo) ListAppointmentsForPeriod(_ context.Context, from, to string) ([]models.Appointment, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.Date >= from && ap.Date <= to {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	if r.createErr != nil {
		return r.createErr
	}
	ap.ID = r.nextID
	r.nextID++
	r.created = append(r.created, *ap)
	r.appointments = append(r.appointments, *ap)
	return nil
}

func (r *fakeRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated = append(r.updated, *ap)
	return nil
}

func (r *fakeRepo) DeleteAppointment(_ context.Context, id uint) error {
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeAuditor struct {
	mu     sync.Mutex
	events []audit.Event
}

func (a *fakeAuditor) Dispatch(ev audit.Event) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
}

func (a *fakeAuditor) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, ev.Action)
	}
	return out
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func booked(id uint, date, start, end string) models.Appointment {
	return models.Appointment{
		ID:        id,
		Date:      date,
		StartTime: start,
		EndTime:   end,
		PatientID: 1,
		ServiceID: 1,
		Status:    string(domain.StatusScheduled),
		Price:     decimal.NewFromInt(15000),
	}
}

var _ domain.Repository = (*fakeRepo)(nil)
