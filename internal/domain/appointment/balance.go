package appointment

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/clinic-scheduler/internal/httperr"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

var hundred = decimal.NewFromInt(100)

type Balance struct {
	Price    decimal.Decimal `json:"price"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Deposit  decimal.Decimal `json:"deposit"`
	Due      decimal.Decimal `json:"due"`
}

// BalanceOf computes what the patient still owes, rounded to cents.
func BalanceOf(ap models.Appointment) (Balance, error) {
	if ap.DiscountPct.IsNegative() || ap.DiscountPct.GreaterThan(hundred) {
		return Balance{}, httperr.ErrBusiness("invalid_discount")
	}

	discount := ap.Price.Mul(ap.DiscountPct).Div(hundred).Round(2)
	total := ap.Price.Sub(discount)

	if ap.Deposit.IsNegative() || ap.Deposit.GreaterThan(total) {
		return Balance{}, httperr.ErrBusiness("invalid_deposit")
	}

	return Balance{
		Price:    ap.Price,
		Discount: discount,
		Total:    total,
		Deposit:  ap.Deposit,
		Due:      total.Sub(ap.Deposit),
	}, nil
}
