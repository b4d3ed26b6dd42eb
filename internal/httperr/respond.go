package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type rule struct {
	status  int
	message string
}

// Every business code a use case can return, with its HTTP rendering.
var rules = map[string]rule{
	"invalid_request":       {http.StatusBadRequest, "Datos inválidos."},
	"invalid_date":          {http.StatusBadRequest, "Fecha inválida."},
	"invalid_date_or_time":  {http.StatusBadRequest, "Fecha u hora inválida."},
	"invalid_status":        {http.StatusBadRequest, "Estado desconocido."},
	"invalid_state":         {http.StatusConflict, "El turno no admite ese cambio de estado."},
	"invalid_discount":      {http.StatusBadRequest, "El descuento debe estar entre 0 y 100."},
	"invalid_deposit":       {http.StatusBadRequest, "La seña no puede superar el total."},
	"invalid_email_domain":  {http.StatusBadRequest, "El dominio del e-mail no parece válido."},
	"slot_unavailable":      {http.StatusBadRequest, "Horario no disponible."},
	"time_conflict":         {http.StatusConflict, "El horario se superpone con otro turno."},
	"service_not_found":     {http.StatusNotFound, "Servicio no encontrado."},
	"appointment_not_found": {http.StatusNotFound, "Turno no encontrado."},
	"booking_rejected":      {http.StatusBadGateway, "No se pudo guardar el turno. Intente nuevamente."},
	"upstream_unavailable":  {http.StatusBadGateway, "El sistema de la clínica no respondió."},
	"session_expired":       {http.StatusUnauthorized, "La sesión expiró. Ingrese nuevamente."},
	"invalid_credentials":   {http.StatusUnauthorized, "Usuario o contraseña incorrectos."},
}

// Respond renders err. Business errors map through the rules table,
// everything else is a 500.
func Respond(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		if r, ok := rules[be.Code]; ok {
			Write(c, r.status, be.Code, r.message)
			return
		}
		BadRequest(c, be.Code, be.Code)
		return
	}

	Internal(c, "internal_error", "Error interno.")
}
