package models

import (
	"github.com/shopspring/decimal"
)

// Appointment is the clinic's booking as exposed to the UI. Date is
// YYYY-MM-DD and the times are HH:MM in the clinic's timezone.
type Appointment struct {
	ID uint `json:"id"`

	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	PatientID      uint   `json:"patient_id"`
	PatientName    string `json:"patient_name,omitempty"`
	ServiceID      uint   `json:"service_id"`
	ProfessionalID uint   `json:"professional_id"`

	Status string `json:"status"`

	Price       decimal.Decimal `json:"price"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
	Deposit     decimal.Decimal `json:"deposit"`

	Notes string `json:"notes,omitempty"`
}
