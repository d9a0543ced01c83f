// Package forecast contiene los cálculos de demanda y reposición (servicios de dominio).
// Todas las cantidades usan decimal; solo la raíz cuadrada pasa por float64.
package forecast

import (
	"math"

	"github.com/shopspring/decimal"
)

// Parámetros de suavizado por defecto.
var (
	DefaultAlpha = decimal.RequireFromString("0.3")
	DefaultBeta  = decimal.RequireFromString("0.1")
)

// precisión interna de los acumuladores para que no crezcan los dígitos en cada iteración
const workPlaces = 8

// Smoothing resultado del suavizado exponencial doble.
type Smoothing struct {
	Forecasts []decimal.Decimal // un valor por período futuro, nunca negativo
	Level     decimal.Decimal
	Trend     decimal.Decimal
	MAE       decimal.Decimal // error absoluto medio del ajuste a un paso
	MSE       decimal.Decimal
}

// Holt aplica suavizado exponencial doble (nivel + tendencia) a la serie y proyecta
// periods valores. Con menos de dos observaciones repite la única (o cero) sin tendencia.
func Holt(data []decimal.Decimal, alpha, beta decimal.Decimal, periods int) Smoothing {
	if periods < 0 {
		periods = 0
	}
	out := Smoothing{Forecasts: make([]decimal.Decimal, periods)}
	if len(data) < 2 {
		if len(data) == 1 {
			out.Level = data[0]
		}
		for i := range out.Forecasts {
			out.Forecasts[i] = nonNegative(out.Level)
		}
		return out
	}

	one := decimal.NewFromInt(1)
	level := data[0]
	trend := data[1].Sub(data[0])
	absErr, sqErr := decimal.Zero, decimal.Zero
	for _, x := range data[1:] {
		e := x.Sub(level.Add(trend))
		absErr = absErr.Add(e.Abs())
		sqErr = sqErr.Add(e.Mul(e))
		next := alpha.Mul(x).Add(one.Sub(alpha).Mul(level.Add(trend))).Round(workPlaces)
		trend = beta.Mul(next.Sub(level)).Add(one.Sub(beta).Mul(trend)).Round(workPlaces)
		level = next
	}
	out.Level, out.Trend = level, trend
	steps := decimal.NewFromInt(int64(len(data) - 1))
	out.MAE = absErr.DivRound(steps, 4)
	out.MSE = sqErr.DivRound(steps, 4)
	for i := range out.Forecasts {
		out.Forecasts[i] = nonNegative(level.Add(trend.Mul(decimal.NewFromInt(int64(i + 1)))))
	}
	return out
}

// Interval límites de confianza de un pronóstico.
type Interval struct {
	Lower decimal.Decimal
	Upper decimal.Decimal
}

// ConfidenceIntervals calcula los límites para cada pronóstico. La incertidumbre crece
// con el horizonte: margen = z * std * sqrt(1 + 0.1*i). Límites redondeados a 2 decimales.
func ConfidenceIntervals(forecasts []decimal.Decimal, std decimal.Decimal, confidence float64) []Interval {
	z := forecastZ(confidence)
	out := make([]Interval, len(forecasts))
	for i, f := range forecasts {
		growth := Sqrt(decimal.NewFromInt(1).Add(decimal.NewFromFloat(0.1).Mul(decimal.NewFromInt(int64(i)))))
		margin := z.Mul(std).Mul(growth)
		out[i] = Interval{
			Lower: nonNegative(f.Sub(margin)).Round(2),
			Upper: f.Add(margin).Round(2),
		}
	}
	return out
}

// forecastZ z-score bilateral para el nivel de confianza del pronóstico (0.95 por defecto).
func forecastZ(confidence float64) decimal.Decimal {
	switch confidence {
	case 0.90:
		return decimal.RequireFromString("1.645")
	case 0.99:
		return decimal.RequireFromString("2.576")
	default:
		return decimal.RequireFromString("1.96")
	}
}

// Stats media y desviación estándar poblacional de la serie.
type Stats struct {
	Count int
	Mean  decimal.Decimal
	Std   decimal.Decimal
	Min   decimal.Decimal
	Max   decimal.Decimal
}

// Describe resume la serie. Una serie vacía devuelve todo en cero.
func Describe(data []decimal.Decimal) Stats {
	s := Stats{Count: len(data)}
	if len(data) == 0 {
		return s
	}
	n := decimal.NewFromInt(int64(len(data)))
	sum := decimal.Zero
	s.Min, s.Max = data[0], data[0]
	for _, x := range data {
		sum = sum.Add(x)
		if x.LessThan(s.Min) {
			s.Min = x
		}
		if x.GreaterThan(s.Max) {
			s.Max = x
		}
	}
	s.Mean = sum.DivRound(n, workPlaces)
	variance := decimal.Zero
	for _, x := range data {
		d := x.Sub(s.Mean)
		variance = variance.Add(d.Mul(d))
	}
	s.Std = Sqrt(variance.DivRound(n, workPlaces))
	return s
}

// Sqrt raíz cuadrada con precisión de float64. Negativos devuelven cero.
func Sqrt(d decimal.Decimal) decimal.Decimal {
	if d.Sign() <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(math.Sqrt(d.InexactFloat64())).Round(workPlaces)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
