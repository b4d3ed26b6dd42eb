package appointment

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ErrNotFound is returned by repositories for missing records.
var ErrNotFound = errors.New("record not found")

type Repository interface {
	// -------- Catalog --------
	GetService(ctx context.Context, id uint) (*models.Service, error)
	ListServices(ctx context.Context) ([]models.Service, error)
	ListProfessionals(ctx context.Context) ([]models.Professional, error)

	// -------- Patient --------
	ListPatients(ctx context.Context, query string) ([]models.Patient, error)
	FindOrCreatePatient(ctx context.Context, p models.Patient) (*models.Patient, error)

	// -------- Appointment --------
	GetAppointment(ctx context.Context, id uint) (*models.Appointment, error)

	// ListAppointmentsForPeriod returns appointments with from <= date <= to.
	ListAppointmentsForPeriod(ctx context.Context, from, to string) ([]models.Appointment, error)

	CreateAppointment(ctx context.Context, ap *models.Appointment) error
	UpdateAppointment(ctx context.Context, ap *models.Appointment) error
	DeleteAppointment(ctx context.Context, id uint) error
}
