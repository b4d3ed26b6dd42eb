package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/clinic-scheduler/internal/apiclient"
	"github.com/BruksfildServices01/clinic-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/middleware"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	testLoc = time.FixedZone("ART", -3*3600)
	testNow = time.Date(2026, 10, 10, 9, 0, 0, 0, testLoc)
)

type memRepo struct {
	mu           sync.Mutex
	services     []models.Service
	pros         []models.Professional
	patients     []models.Patient
	appointments []models.Appointment
	nextID       uint
	invalidated  int
}

func newMemRepo(aps ...models.Appointment) *memRepo {
	return &memRepo{
		services: []models.Service{
			{ID: 1, Name: "Kinesiologia", Price: decimal.NewFromInt(15000), DurationMinutes: 60},
		},
		pros: []models.Professional{
			{ID: 1, FirstName: "Laura", Active: true},
			{ID: 2, FirstName: "Pablo", Active: false},
		},
		appointments: aps,
		nextID:       100,
	}
}

func (r *memRepo) GetService(_ context.Context, id uint) (*models.Service, error) {
	for _, s := range r.services {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("servicio %d: %w", id, domain.ErrNotFound)
}

func (r *memRepo) ListServices(context.Context) ([]models.Service, error) {
	return r.services, nil
}

func (r *memRepo) ListProfessionals(context.Context) ([]models.Professional, error) {
	return r.pros, nil
}

func (r *memRepo) ListPatients(_ context.Context, q string) ([]models.Patient, error) {
	return r.patients, nil
}

func (r *memRepo) FindOrCreatePatient(_ context.Context, p models.Patient) (*models.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uint(len(r.patients) + 1)
	r.patients = append(r.patients, p)
	return &p, nil
}

func (r *memRepo) GetAppointment(_ context.Context, id uint) (*models.Appointment, error) {
	for _, ap := range r.appointments {
		if ap.ID == id {
			cp := ap
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("turno %d: %w", id, domain.ErrNotFound)
}

func (r *memRepo) ListAppointmentsForPeriod(_ context.Context, from, to string) ([]models.Appointment, error) {
	var out []models.Appointment
	for _, ap := range r.appointments {
		if ap.Date >= from && ap.Date <= to {
			out = append(out, ap)
		}
	}
	return out, nil
}

func (r *memRepo) CreateAppointment(_ context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap.ID = r.nextID
	r.nextID++
	r.appointments = append(r.appointments, *ap)
	return nil
}

func (r *memRepo) UpdateAppointment(_ context.Context, ap *models.Appointment) error {
	for i := range r.appointments {
		if r.appointments[i].ID == ap.ID {
			r.appointments[i] = *ap
		}
	}
	return nil
}

func (r *memRepo) DeleteAppointment(_ context.Context, id uint) error {
	out := r.appointments[:0]
	for _, ap := range r.appointments {
		if ap.ID != id {
			out = append(out, ap)
		}
	}
	r.appointments = out
	return nil
}

func (r *memRepo) Invalidate(context.Context) error {
	r.invalidated++
	return nil
}

type nopAuditor struct{}

func (nopAuditor) Dispatch(audit.Event) {}

type fakeAuth struct {
	password string
}

func (f fakeAuth) Login(_ context.Context, email, password string) (apiclient.Tokens, error) {
	if password != f.password {
		return apiclient.Tokens{}, &apiclient.APIError{Method: "POST", Path: "/auth/login", Status: http.StatusUnauthorized}
	}
	return apiclient.Tokens{Access: "a1", Refresh: "r1"}, nil
}

func (f fakeAuth) Refresh(_ context.Context, refresh string) (apiclient.Tokens, error) {
	if refresh != "r1" {
		return apiclient.Tokens{}, &apiclient.APIError{Method: "POST", Path: "/auth/refresh", Status: http.StatusUnauthorized}
	}
	return apiclient.Tokens{Access: "a2"}, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// newRouter wires the handlers the same way the routes package does,
// over an in-memory repository.
func newRouter(repo *memRepo) *gin.Engine {
	log := quietLogger()
	now := func() time.Time { return testNow }

	create := ucAppointment.NewCreateAppointment(repo, nopAuditor{}, log, testLoc, now)
	update := ucAppointment.NewUpdateAppointment(repo, nopAuditor{}, log, testLoc, now)
	availability := ucAppointment.NewGetAvailability(repo, now)

	appointments := NewAppointmentHandler(
		create,
		update,
		ucAppointment.NewDeleteAppointment(repo, nopAuditor{}),
		ucAppointment.NewListAppointmentsByDate(repo),
		ucAppointment.NewValidateBooking(repo),
		availability,
		testLoc,
	)
	agenda := NewAgendaHandler(
		ucAppointment.NewGetAgendaWeek(repo),
		ucAppointment.NewExportAgenda(repo, testLoc, now),
		testLoc,
	)
	catalog := NewCatalogHandler(repo)
	patients := NewPatientHandler(repo)
	auth := NewAuthHandler(fakeAuth{password: "secret"}, log)

	public := NewPublicHandler(repo, availability, create, testLoc)
	public.emailValid = func(email string) bool { return email != "ana@nowhere.invalid" }

	r := gin.New()

	pub := r.Group("/api/public", middleware.ServiceSession("svc"))
	pub.GET("/services", public.ListServices)
	pub.GET("/availability", public.Availability)
	pub.POST("/appointments", public.CreateAppointment)

	r.POST("/api/auth/login", auth.Login)
	r.POST("/api/auth/refresh", auth.Refresh)

	admin := r.Group("/api/admin", middleware.SessionMiddleware())
	admin.GET("/services", catalog.ListServices)
	admin.GET("/professionals", catalog.ListProfessionals)
	admin.POST("/catalog/refresh", catalog.Refresh)
	admin.GET("/patients", patients.List)
	admin.GET("/appointments", appointments.ListByDate)
	admin.POST("/appointments", appointments.Create)
	admin.POST("/appointments/validate", appointments.Validate)
	admin.PATCH("/appointments/:id", appointments.Update)
	admin.PATCH("/appointments/:id/cancel", appointments.Cancel)
	admin.DELETE("/appointments/:id", appointments.Delete)
	admin.GET("/availability", appointments.Availability)
	admin.GET("/agenda/week", agenda.Week)
	admin.GET("/agenda.ics", agenda.ICS)

	return r
}
