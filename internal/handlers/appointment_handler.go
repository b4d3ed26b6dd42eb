package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create       *ucAppointment.CreateAppointment
	update       *ucAppointment.UpdateAppointment
	remove       *ucAppointment.DeleteAppointment
	listByDate   *ucAppointment.ListAppointmentsByDate
	validate     *ucAppointment.ValidateBooking
	availability *ucAppointment.GetAvailability
	loc          *time.Location
}

func NewAppointmentHandler(
	create *ucAppointment.CreateAppointment,
	update *ucAppointment.UpdateAppointment,
	remove *ucAppointment.DeleteAppointment,
	listByDate *ucAppointment.ListAppointmentsByDate,
	validate *ucAppointment.ValidateBooking,
	availability *ucAppointment.GetAvailability,
	loc *time.Location,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:       create,
		update:       update,
		remove:       remove,
		listByDate:   listByDate,
		validate:     validate,
		availability: availability,
		loc:          loc,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	Date           string           `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime      string           `json:"start_time" binding:"required"`
	ServiceID      uint             `json:"service_id" binding:"required"`
	ProfessionalID uint             `json:"professional_id"`
	PatientID      uint             `json:"patient_id" binding:"required"`
	Price          *decimal.Decimal `json:"price"`
	DiscountPct    decimal.Decimal  `json:"discount_pct"`
	Deposit        decimal.Decimal  `json:"deposit"`
	Notes          string           `json:"notes" binding:"max=500"`
}

type UpdateAppointmentRequest struct {
	Date           *string          `json:"date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	StartTime      *string          `json:"start_time,omitempty"`
	ServiceID      *uint            `json:"service_id,omitempty"`
	ProfessionalID *uint            `json:"professional_id,omitempty"`
	PatientID      *uint            `json:"patient_id,omitempty"`
	Status         *string          `json:"status,omitempty"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	DiscountPct    *decimal.Decimal `json:"discount_pct,omitempty"`
	Deposit        *decimal.Decimal `json:"deposit,omitempty"`
	Notes          *string          `json:"notes,omitempty"`
}

type ValidateBookingRequest struct {
	AppointmentID  uint   `json:"appointment_id"`
	Date           string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime      string `json:"start_time" binding:"required"`
	ServiceID      uint   `json:"service_id" binding:"required"`
	ProfessionalID uint   `json:"professional_id"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		Policy:         slot.Admin.Name,
		Date:           req.Date,
		StartTime:      req.StartTime,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		PatientID:      req.PatientID,
		Price:          req.Price,
		DiscountPct:    req.DiscountPct,
		Deposit:        req.Deposit,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// UPDATE
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		ID:             id,
		Date:           req.Date,
		StartTime:      req.StartTime,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
		PatientID:      req.PatientID,
		Status:         req.Status,
		Price:          req.Price,
		DiscountPct:    req.DiscountPct,
		Deposit:        req.Deposit,
		Notes:          req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// Cancel is a shortcut for a status change to cancelled.
func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	status := string(domain.StatusCancelled)
	ap, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		ID:     id,
		Status: &status,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// DELETE
// ======================================================

func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	if err := h.remove.Execute(c.Request.Context(), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date, ok := dateQuery(c, "date", h.loc)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}
	professionalID, ok := uintQuery(c, "professional_id")
	if !ok {
		httperr.BadRequest(c, "invalid_professional_id", "Profesional inválido.")
		return
	}

	items, err := h.listByDate.Execute(c.Request.Context(), date.Format(slot.DateLayout), professionalID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, items)
}

// ======================================================
// VALIDATE / AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Validate(c *gin.Context) {
	var req ValidateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	check, err := h.validate.Execute(c.Request.Context(), ucAppointment.ValidateBookingInput{
		AppointmentID:  req.AppointmentID,
		Date:           req.Date,
		StartTime:      req.StartTime,
		ServiceID:      req.ServiceID,
		ProfessionalID: req.ProfessionalID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, check)
}

func (h *AppointmentHandler) Availability(c *gin.Context) {
	in, ok := availabilityInput(c, h.loc)
	if !ok {
		return
	}
	in.Policy = slot.Admin.Name

	exclude, ok := uintQuery(c, "exclude_id")
	if !ok {
		httperr.BadRequest(c, "invalid_exclude_id", "Turno inválido.")
		return
	}
	in.ExcludeID = exclude

	res, err := h.availability.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, res)
}

func availabilityInput(c *gin.Context, loc *time.Location) (domain.AvailabilityInput, bool) {
	date, ok := dateQuery(c, "date", loc)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return domain.AvailabilityInput{}, false
	}

	serviceID, ok := uintQuery(c, "service_id")
	if !ok || serviceID == 0 {
		httperr.BadRequest(c, "missing_params", "Fecha y servicio obligatorios.")
		return domain.AvailabilityInput{}, false
	}

	professionalID, ok := uintQuery(c, "professional_id")
	if !ok {
		httperr.BadRequest(c, "invalid_professional_id", "Profesional inválido.")
		return domain.AvailabilityInput{}, false
	}

	return domain.AvailabilityInput{
		Date:           date,
		ServiceID:      serviceID,
		ProfessionalID: professionalID,
	}, true
}
