package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/BruksfildServices01/clinic-scheduler/internal/apiclient"
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// Remote endpoints of the clinic API.
const (
	pathTurnos        = "/turnos"
	pathServicios     = "/servicios"
	pathPacientes     = "/pacientes"
	pathProfesionales = "/profesionales"
)

// API is the subset of apiclient.Client the repository needs.
type API interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}

type AppointmentRemoteRepository struct {
	api    API
	mapper *Mapper
}

func NewAppointmentRemoteRepository(api API, mapper *Mapper) *AppointmentRemoteRepository {
	return &AppointmentRemoteRepository{api: api, mapper: mapper}
}

func notFound(err error) error {
	if apiclient.StatusOf(err) == http.StatusNotFound {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	return err
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentRemoteRepository) GetService(ctx context.Context, id uint) (*models.Service, error) {
	var p servicioPayload
	if err := r.api.Get(ctx, fmt.Sprintf("%s/%d", pathServicios, id), nil, &p); err != nil {
		return nil, notFound(err)
	}

	s, err := r.mapper.Service(p)
	if err != nil {
		return nil, fmt.Errorf("servicio %d: %w", id, err)
	}
	return &s, nil
}

func (r *AppointmentRemoteRepository) ListServices(ctx context.Context) ([]models.Service, error) {
	var ps []servicioPayload
	if err := r.api.Get(ctx, pathServicios, nil, &ps); err != nil {
		return nil, err
	}
	return r.mapper.Services(ps), nil
}

func (r *AppointmentRemoteRepository) ListProfessionals(ctx context.Context) ([]models.Professional, error) {
	var ps []profesionalPayload
	if err := r.api.Get(ctx, pathProfesionales, nil, &ps); err != nil {
		return nil, err
	}
	return r.mapper.Professionals(ps), nil
}

// --------------------------------------------------
// Patient
// --------------------------------------------------

func (r *AppointmentRemoteRepository) ListPatients(ctx context.Context, query string) ([]models.Patient, error) {
	q := url.Values{}
	if query = strings.TrimSpace(query); query != "" {
		q.Set("buscar", query)
	}

	var ps []pacientePayload
	if err := r.api.Get(ctx, pathPacientes, q, &ps); err != nil {
		return nil, err
	}
	return r.mapper.Patients(ps), nil
}

// FindOrCreatePatient matches on phone number first.
func (r *AppointmentRemoteRepository) FindOrCreatePatient(ctx context.Context, p models.Patient) (*models.Patient, error) {
	if p.Phone != "" {
		var found []pacientePayload
		if err := r.api.Get(ctx, pathPacientes, url.Values{"telefono": {p.Phone}}, &found); err != nil {
			return nil, err
		}
		if pts := r.mapper.Patients(found); len(pts) > 0 {
			return &pts[0], nil
		}
	}

	var created pacientePayload
	if err := r.api.Post(ctx, pathPacientes, r.mapper.Paciente(p), &created); err != nil {
		return nil, err
	}

	pt, err := r.mapper.Patient(created)
	if err != nil {
		return nil, fmt.Errorf("created paciente: %w", err)
	}
	return &pt, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentRemoteRepository) GetAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	var p turnoPayload
	if err := r.api.Get(ctx, fmt.Sprintf("%s/%d", pathTurnos, id), nil, &p); err != nil {
		return nil, notFound(err)
	}

	ap, err := r.mapper.Appointment(p)
	if err != nil {
		return nil, fmt.Errorf("turno %d: %w", id, err)
	}
	return &ap, nil
}

func (r *AppointmentRemoteRepository) ListAppointmentsForPeriod(ctx context.Context, from, to string) ([]models.Appointment, error) {
	q := url.Values{}
	if from == to {
		q.Set("fecha", from)
	} else {
		q.Set("desde", from)
		q.Set("hasta", to)
	}

	var ps []turnoPayload
	if err := r.api.Get(ctx, pathTurnos, q, &ps); err != nil {
		return nil, err
	}
	return r.mapper.Appointments(ps), nil
}

func (r *AppointmentRemoteRepository) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	return r.write(ctx, ap, func(body turnoPayload, out *turnoPayload) error {
		return r.api.Post(ctx, pathTurnos, body, out)
	})
}

func (r *AppointmentRemoteRepository) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	return r.write(ctx, ap, func(body turnoPayload, out *turnoPayload) error {
		return notFound(r.api.Put(ctx, fmt.Sprintf("%s/%d", pathTurnos, ap.ID), body, out))
	})
}

// write sends ap and refreshes it from the stored record. A response
// without a body, or one that fails mapping, keeps ap as sent; the
// record is stored either way.
func (r *AppointmentRemoteRepository) write(
	ctx context.Context,
	ap *models.Appointment,
	send func(body turnoPayload, out *turnoPayload) error,
) error {
	var out turnoPayload
	if err := send(r.mapper.Turno(*ap), &out); err != nil {
		return err
	}
	if out.ID == 0 {
		return nil
	}

	stored, err := r.mapper.Appointment(out)
	if err != nil {
		r.mapper.log.WithField("turno_id", out.ID).Warnf("stored turno does not map, keeping sent values: %v", err)
		ap.ID = out.ID
		return nil
	}
	if stored.PatientName == "" {
		stored.PatientName = ap.PatientName
	}
	*ap = stored
	return nil
}

func (r *AppointmentRemoteRepository) DeleteAppointment(ctx context.Context, id uint) error {
	return notFound(r.api.Delete(ctx, fmt.Sprintf("%s/%d", pathTurnos, id)))
}

// Compile-time check
var _ domain.Repository = (*AppointmentRemoteRepository)(nil)
