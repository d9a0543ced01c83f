package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// InverseRatePrecision decimales con que se guardan las tasas inversas.
const InverseRatePrecision int32 = 8

// RoundingMode política de redondeo al aplicar una tasa de cambio.
type RoundingMode string

const (
	RoundUp      RoundingMode = "up"      // techo
	RoundDown    RoundingMode = "down"    // piso
	RoundNearest RoundingMode = "nearest" // mitad lejos de cero
)

// ParseRoundingMode acepta "up", "down" o "nearest" (vacío = nearest).
func ParseRoundingMode(s string) (RoundingMode, error) {
	switch RoundingMode(strings.ToLower(strings.TrimSpace(s))) {
	case RoundUp:
		return RoundUp, nil
	case RoundDown:
		return RoundDown, nil
	case RoundNearest, "":
		return RoundNearest, nil
	}
	return "", fmt.Errorf("money: modo de redondeo desconocido %q", s)
}

// ConvertCurrency devuelve round(amount*rate, decimalPlaces), mitad lejos de cero.
func ConvertCurrency(amount, rate decimal.Decimal, decimalPlaces int32) decimal.Decimal {
	return amount.Mul(rate).Round(decimalPlaces)
}

// CalculateInverseRate devuelve 1/rate con 8 decimales; 0 si rate es 0.
func CalculateInverseRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsZero() {
		return decimal.Zero
	}
	return decimal.NewFromInt(1).DivRound(rate, InverseRatePrecision)
}

// ApplyExchangeRate multiplica y redondea con el modo indicado.
func ApplyExchangeRate(amount, rate decimal.Decimal, mode RoundingMode, decimalPlaces int32) decimal.Decimal {
	v := amount.Mul(rate)
	switch mode {
	case RoundUp:
		return v.RoundCeil(decimalPlaces)
	case RoundDown:
		return v.RoundFloor(decimalPlaces)
	default:
		return v.Round(decimalPlaces)
	}
}

// IsValidAmount informa si amount no tiene más decimales significativos que la moneda.
func IsValidAmount(amount decimal.Decimal, c Currency) bool {
	return amount.Equal(amount.Truncate(c.places()))
}

// IsValidAmountString valida un importe en texto: rechaza NaN, infinitos y
// cualquier valor no numérico antes de aplicar IsValidAmount.
func IsValidAmountString(s string, c Currency) bool {
	t := strings.ToLower(strings.TrimSpace(s))
	switch strings.TrimLeft(t, "+-") {
	case "", "nan", "inf", "infinity":
		return false
	}
	d, err := decimal.NewFromString(t)
	if err != nil {
		return false
	}
	return IsValidAmount(d, c)
}
