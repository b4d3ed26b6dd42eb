package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/clinic-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AgendaHandler struct {
	week   *ucAppointment.GetAgendaWeek
	export *ucAppointment.ExportAgenda
	loc    *time.Location
}

func NewAgendaHandler(
	week *ucAppointment.GetAgendaWeek,
	export *ucAppointment.ExportAgenda,
	loc *time.Location,
) *AgendaHandler {
	return &AgendaHandler{week: week, export: export, loc: loc}
}

// Week renders the agenda grid for the week containing ?date, today by
// default.
func (h *AgendaHandler) Week(c *gin.Context) {
	day := timezone.NowIn(h.loc)
	if c.Query("date") != "" {
		d, ok := dateQuery(c, "date", h.loc)
		if !ok {
			httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
			return
		}
		day = d
	}

	professionalID, ok := uintQuery(c, "professional_id")
	if !ok {
		httperr.BadRequest(c, "invalid_professional_id", "Profesional inválido.")
		return
	}

	px := 0.0
	if raw := c.Query("px_per_minute"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_request", "Escala inválida.")
			return
		}
		px = v
	}

	grid, err := h.week.Execute(c.Request.Context(), day, professionalID, px)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, grid)
}

// ICS exports [from, to] as an iCalendar feed.
func (h *AgendaHandler) ICS(c *gin.Context) {
	from, ok := dateQuery(c, "from", h.loc)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}
	to, ok := dateQuery(c, "to", h.loc)
	if !ok {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	professionalID, ok := uintQuery(c, "professional_id")
	if !ok {
		httperr.BadRequest(c, "invalid_professional_id", "Profesional inválido.")
		return
	}

	body, err := h.export.Execute(
		c.Request.Context(),
		from.Format(slot.DateLayout),
		to.Format(slot.DateLayout),
		professionalID,
	)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="agenda-%s.ics"`, from.Format(slot.DateLayout)))
	c.Data(200, "text/calendar; charset=utf-8", []byte(body))
}
