package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type ServiceLister interface {
	ListServices(ctx context.Context) ([]models.Service, error)
}

type PublicHandler struct {
	services     ServiceLister
	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
	loc          *time.Location

	emailValid func(string) bool
}

func NewPublicHandler(
	services ServiceLister,
	availability *ucAppointment.GetAvailability,
	create *ucAppointment.CreateAppointment,
	loc *time.Location,
) *PublicHandler {
	return &PublicHandler{
		services:     services,
		availability: availability,
		create:       create,
		loc:          loc,
		emailValid:   validators.IsEmailDomainValid,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type PublicCreateAppointmentRequest struct {
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
	Phone     string `json:"phone" binding:"required,max=30"`
	Email     string `json:"email" binding:"omitempty,email"`

	ServiceID      uint   `json:"service_id" binding:"required"`
	ProfessionalID uint   `json:"professional_id"`
	Date           string `json:"date" binding:"required,datetime=2006-01-02"`
	Time           string `json:"time" binding:"required"` // HH:mm
	Notes          string `json:"notes" binding:"max=500"`
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	services, err := h.services.ListServices(c.Request.Context())
	if err != nil {
		httperr.Respond(c, catalogError(err))
		return
	}

	httpresp.List(c, services)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	in, ok := availabilityInput(c, h.loc)
	if !ok {
		return
	}
	in.Policy = slot.Public.Name

	res, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

////////////////////////////////////////////////////////
// CREATE APPOINTMENT
////////////////////////////////////////////////////////

func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req PublicCreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != "" && !h.emailValid(email) {
		httperr.Respond(c, httperr.ErrBusiness("invalid_email_domain"))
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		Policy:         slot.Public.Name,
		Date:           req.Date,
		StartTime:      req.Time,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		Patient: &models.Patient{
			FirstName: strings.TrimSpace(req.FirstName),
			LastName:  strings.TrimSpace(req.LastName),
			Phone:     strings.TrimSpace(req.Phone),
			Email:     email,
		},
		Notes: req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}
