package repository

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// --------------------------------------------------
// Remote payloads (clinic API field names)
// --------------------------------------------------

type turnoPayload struct {
	ID             uint            `json:"id,omitempty"`
	Fecha          string          `json:"fecha" validate:"required,datetime=2006-01-02"`
	HoraInicio     string          `json:"hora_inicio"`
	HoraFin        string          `json:"hora_fin"`
	PacienteID     uint            `json:"paciente_id" validate:"required"`
	PacienteNombre string          `json:"paciente_nombre,omitempty"`
	ServicioID     uint            `json:"servicio_id" validate:"required"`
	ProfesionalID  uint            `json:"profesional_id"`
	Estado         string          `json:"estado"`
	Precio         decimal.Decimal `json:"precio"`
	DescuentoPct   decimal.Decimal `json:"descuento_pct"`
	Sena           decimal.Decimal `json:"sena"`
	Observaciones  string          `json:"observaciones,omitempty"`
}

type servicioPayload struct {
	ID              uint            `json:"id" validate:"required"`
	Nombre          string          `json:"nombre" validate:"required"`
	Precio          decimal.Decimal `json:"precio"`
	DuracionMinutos int             `json:"duracion_minutos" validate:"gt=0"`
}

type pacientePayload struct {
	ID       uint   `json:"id,omitempty"`
	Nombre   string `json:"nombre" validate:"required"`
	Apellido string `json:"apellido"`
	Telefono string `json:"telefono"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type profesionalPayload struct {
	ID           uint   `json:"id" validate:"required"`
	Nombre       string `json:"nombre" validate:"required"`
	Apellido     string `json:"apellido"`
	Especialidad string `json:"especialidad"`
	Activo       bool   `json:"activo"`
}

// --------------------------------------------------
// Status vocabulary
// --------------------------------------------------

var estadoToStatus = map[string]domain.Status{
	"reservado":  domain.StatusScheduled,
	"pendiente":  domain.StatusScheduled,
	"confirmado": domain.StatusConfirmed,
	"completado": domain.StatusCompleted,
	"atendido":   domain.StatusCompleted,
	"cancelado":  domain.StatusCancelled,
	"ausente":    domain.StatusNoShow,
}

var statusToEstado = map[domain.Status]string{
	domain.StatusScheduled: "reservado",
	domain.StatusConfirmed: "confirmado",
	domain.StatusCompleted: "completado",
	domain.StatusCancelled: "cancelado",
	domain.StatusNoShow:    "ausente",
}

// --------------------------------------------------
// Mapper
// --------------------------------------------------

// Mapper converts between remote payloads and models. Records that fail
// validation are dropped from lists and logged.
type Mapper struct {
	validate *validator.Validate
	log      *logrus.Logger
}

func NewMapper(log *logrus.Logger) *Mapper {
	return &Mapper{validate: validator.New(), log: log}
}

func (m *Mapper) Appointment(p turnoPayload) (models.Appointment, error) {
	if err := m.validate.Struct(p); err != nil {
		return models.Appointment{}, err
	}

	status, ok := estadoToStatus[strings.ToLower(strings.TrimSpace(p.Estado))]
	if !ok {
		if p.Estado != "" {
			m.log.WithField("turno_id", p.ID).Warnf("unknown estado %q, treating as scheduled", p.Estado)
		}
		status = domain.StatusScheduled
	}

	start := slot.NormalizeHM(p.HoraInicio)
	end := p.HoraFin
	if _, err := slot.ParseHM(end); err != nil {
		end = slot.FormatHM(slot.ParseHMOr(start, slot.FallbackStart) + slot.MinBlockMinutes)
	} else {
		end = slot.NormalizeHM(end)
	}

	return models.Appointment{
		ID:             p.ID,
		Date:           p.Fecha,
		StartTime:      start,
		EndTime:        end,
		PatientID:      p.PacienteID,
		PatientName:    p.PacienteNombre,
		ServiceID:      p.ServicioID,
		ProfessionalID: p.ProfesionalID,
		Status:         string(status),
		Price:          p.Precio,
		DiscountPct:    p.DescuentoPct,
		Deposit:        p.Sena,
		Notes:          p.Observaciones,
	}, nil
}

func (m *Mapper) Appointments(ps []turnoPayload) []models.Appointment {
	out := make([]models.Appointment, 0, len(ps))
	for _, p := range ps {
		ap, err := m.Appointment(p)
		if err != nil {
			m.log.WithField("turno_id", p.ID).Warnf("dropping invalid turno: %v", err)
			continue
		}
		out = append(out, ap)
	}
	return out
}

func (m *Mapper) Turno(ap models.Appointment) turnoPayload {
	estado, ok := statusToEstado[domain.Status(ap.Status)]
	if !ok {
		estado = statusToEstado[domain.StatusScheduled]
	}

	return turnoPayload{
		ID:            ap.ID,
		Fecha:         ap.Date,
		HoraInicio:    ap.StartTime,
		HoraFin:       ap.EndTime,
		PacienteID:    ap.PatientID,
		ServicioID:    ap.ServiceID,
		ProfesionalID: ap.ProfessionalID,
		Estado:        estado,
		Precio:        ap.Price,
		DescuentoPct:  ap.DiscountPct,
		Sena:          ap.Deposit,
		Observaciones: ap.Notes,
	}
}

func (m *Mapper) Service(p servicioPayload) (models.Service, error) {
	if err := m.validate.Struct(p); err != nil {
		return models.Service{}, err
	}
	return models.Service{
		ID:              p.ID,
		Name:            p.Nombre,
		Price:           p.Precio,
		DurationMinutes: p.DuracionMinutos,
	}, nil
}

func (m *Mapper) Services(ps []servicioPayload) []models.Service {
	out := make([]models.Service, 0, len(ps))
	for _, p := range ps {
		s, err := m.Service(p)
		if err != nil {
			m.log.WithField("servicio_id", p.ID).Warnf("dropping invalid servicio: %v", err)
			continue
		}
		out = append(out, s)
	}
	return out
}

func (m *Mapper) Patient(p pacientePayload) (models.Patient, error) {
	if err := m.validate.Struct(p); err != nil {
		return models.Patient{}, err
	}
	return models.Patient{
		ID:        p.ID,
		FirstName: p.Nombre,
		LastName:  p.Apellido,
		Phone:     p.Telefono,
		Email:     p.Email,
	}, nil
}

func (m *Mapper) Patients(ps []pacientePayload) []models.Patient {
	out := make([]models.Patient, 0, len(ps))
	for _, p := range ps {
		pt, err := m.Patient(p)
		if err != nil {
			m.log.WithField("paciente_id", p.ID).Warnf("dropping invalid paciente: %v", err)
			continue
		}
		out = append(out, pt)
	}
	return out
}

func (m *Mapper) Paciente(p models.Patient) pacientePayload {
	return pacientePayload{
		ID:       p.ID,
		Nombre:   p.FirstName,
		Apellido: p.LastName,
		Telefono: p.Phone,
		Email:    p.Email,
	}
}

func (m *Mapper) Professionals(ps []profesionalPayload) []models.Professional {
	out := make([]models.Professional, 0, len(ps))
	for _, p := range ps {
		if err := m.validate.Struct(p); err != nil {
			m.log.WithField("profesional_id", p.ID).Warnf("dropping invalid profesional: %v", err)
			continue
		}
		out = append(out, models.Professional{
			ID:        p.ID,
			FirstName: p.Nombre,
			LastName:  p.Apellido,
			Specialty: p.Especialidad,
			Active:    p.Activo,
		})
	}
	return out
}
