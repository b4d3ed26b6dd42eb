package dto

import (
	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/slot"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type AppointmentListDTO struct {
	models.Appointment
	ServiceName string          `json:"service_name"`
	Balance     *domain.Balance `json:"balance,omitempty"`
}

type AgendaWeekDTO struct {
	WeekStart       string           `json:"week_start"`
	DayStart        string           `json:"day_start"`
	DayEnd          string           `json:"day_end"`
	PixelsPerMinute float64          `json:"pixels_per_minute"`
	Days            []slot.DayColumn `json:"days"`
}
