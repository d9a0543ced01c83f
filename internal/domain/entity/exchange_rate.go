package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate tasa vigente entre dos monedas para una empresa.
type ExchangeRate struct {
	ID            string
	CompanyID     string
	FromCurrency  string
	ToCurrency    string
	Rate          decimal.Decimal
	InverseRate   decimal.Decimal // 1/Rate con 8 decimales
	EffectiveDate time.Time
	CreatedAt     time.Time
}
