package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyResponse moneda del catálogo.
type CurrencyResponse struct {
	Code               string `json:"code"`
	Name               string `json:"name"`
	Symbol             string `json:"symbol"`
	DecimalPlaces      int32  `json:"decimal_places"`
	SymbolPosition     string `json:"symbol_position"`
	ThousandsSeparator string `json:"thousands_separator"`
	DecimalSeparator   string `json:"decimal_separator"`
	Flag               string `json:"flag"`
	IsBase             bool   `json:"is_base"`
}

// SetExchangeRateRequest body para PUT /api/currencies/rates.
type SetExchangeRateRequest struct {
	From          string          `json:"from" validate:"required,len=3"`
	To            string          `json:"to" validate:"omitempty,len=3"`
	Rate          decimal.Decimal `json:"rate"`
	EffectiveDate string          `json:"effective_date,omitempty"` // YYYY-MM-DD; vacío = hoy
}

// ExchangeRateResponse tasa registrada.
type ExchangeRateResponse struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	Rate          decimal.Decimal `json:"rate"`
	InverseRate   decimal.Decimal `json:"inverse_rate"`
	EffectiveDate time.Time       `json:"effective_date"`
}

// ConvertRequest body para POST /api/currencies/convert.
// Rate vacío usa la última tasa registrada From→To.
type ConvertRequest struct {
	Amount   decimal.Decimal  `json:"amount"`
	From     string           `json:"from" validate:"required,len=3"`
	To       string           `json:"to" validate:"omitempty,len=3"`
	Rate     *decimal.Decimal `json:"rate,omitempty"`
	Rounding string           `json:"rounding,omitempty" validate:"omitempty,oneof=up down nearest"`
}

// ConvertResponse resultado de la conversión.
type ConvertResponse struct {
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Rate      decimal.Decimal `json:"rate"`
	Rounding  string          `json:"rounding"`
	Formatted string          `json:"formatted"`
}

// FormatRequest body para POST /api/currencies/format.
type FormatRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency" validate:"required,len=3"`
	DecimalPlaces *int32          `json:"decimal_places,omitempty" validate:"omitempty,min=0,max=8"`
	ShowSymbol    *bool           `json:"show_symbol,omitempty"`
	ShowCode      bool            `json:"show_code,omitempty"`
}

// FormatResponse monto formateado.
type FormatResponse struct {
	Formatted string `json:"formatted"`
}

// ParseRequest body para POST /api/currencies/parse.
type ParseRequest struct {
	Value    string `json:"value" validate:"required"`
	Currency string `json:"currency,omitempty" validate:"omitempty,len=3"`
}

// ParseResponse monto interpretado; Valid=false si el texto no es un monto.
type ParseResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Valid  bool            `json:"valid"`
}
