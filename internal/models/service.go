package models

import "github.com/shopspring/decimal"

type Service struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
}
