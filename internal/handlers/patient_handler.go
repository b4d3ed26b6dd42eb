package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type PatientSearcher interface {
	ListPatients(ctx context.Context, query string) ([]models.Patient, error)
}

type PatientHandler struct {
	patients PatientSearcher
}

func NewPatientHandler(patients PatientSearcher) *PatientHandler {
	return &PatientHandler{patients: patients}
}

// List searches by name, phone or email through ?q.
func (h *PatientHandler) List(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))

	patients, err := h.patients.ListPatients(c.Request.Context(), q)
	if err != nil {
		httperr.Respond(c, catalogError(err))
		return
	}

	httpresp.List(c, patients)
}
