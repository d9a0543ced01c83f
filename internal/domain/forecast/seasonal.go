package forecast

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DailyDemand unidades demandadas en un día.
type DailyDemand struct {
	Date     time.Time
	Quantity decimal.Decimal
}

// SeasonIndex índice estacional: demanda media del período / demanda media global.
type SeasonIndex struct {
	Period string
	Index  decimal.Decimal
}

// Dirección de la tendencia anual.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// Seasonality patrones mensuales y semanales de una serie diaria.
type Seasonality struct {
	Monthly         []SeasonIndex // en orden de calendario, solo meses con datos
	Weekly          []SeasonIndex // lunes a domingo, solo días con datos
	Peaks           []SeasonIndex // hasta 3 meses de índice más alto, mayor primero
	Lows            []SeasonIndex // hasta 3 meses de índice más bajo, menor primero
	AnnualGrowthPct decimal.Decimal
	TrendDirection  string
	DaysAnalyzed    int
	MeanDailyDemand decimal.Decimal
}

// AnalyzeSeasonality calcula índices por mes y día de semana y la tendencia lineal
// (pendiente de mínimos cuadrados anualizada sobre la media). Con media cero no hay índices.
func AnalyzeSeasonality(series []DailyDemand) Seasonality {
	out := Seasonality{DaysAnalyzed: len(series), TrendDirection: TrendStable}
	if len(series) == 0 {
		return out
	}
	values := make([]decimal.Decimal, len(series))
	for i, p := range series {
		values[i] = p.Quantity
	}
	mean := Describe(values).Mean
	out.MeanDailyDemand = mean.Round(2)
	if mean.Sign() <= 0 {
		return out
	}

	var monthSum, monthN [13]decimal.Decimal
	var daySum, dayN [7]decimal.Decimal
	one := decimal.NewFromInt(1)
	for _, p := range series {
		m := p.Date.Month()
		monthSum[m] = monthSum[m].Add(p.Quantity)
		monthN[m] = monthN[m].Add(one)
		wd := (int(p.Date.Weekday()) + 6) % 7 // lunes = 0
		daySum[wd] = daySum[wd].Add(p.Quantity)
		dayN[wd] = dayN[wd].Add(one)
	}
	for m := time.January; m <= time.December; m++ {
		if monthN[m].IsZero() {
			continue
		}
		idx := monthSum[m].DivRound(monthN[m], workPlaces).DivRound(mean, 2)
		out.Monthly = append(out.Monthly, SeasonIndex{Period: m.String(), Index: idx})
	}
	for i := 0; i < 7; i++ {
		if dayN[i].IsZero() {
			continue
		}
		idx := daySum[i].DivRound(dayN[i], workPlaces).DivRound(mean, 2)
		out.Weekly = append(out.Weekly, SeasonIndex{Period: time.Weekday((i + 1) % 7).String(), Index: idx})
	}

	ranked := append([]SeasonIndex(nil), out.Monthly...)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Index.GreaterThan(ranked[j].Index) })
	top := min(3, len(ranked))
	out.Peaks = append([]SeasonIndex(nil), ranked[:top]...)
	for i := len(ranked) - 1; i >= len(ranked)-top; i-- {
		out.Lows = append(out.Lows, ranked[i])
	}

	slope := linearSlope(values)
	out.AnnualGrowthPct = slope.Mul(decimal.NewFromInt(365)).DivRound(mean, workPlaces).Mul(decimal.NewFromInt(100)).Round(1)
	switch out.AnnualGrowthPct.Sign() {
	case 1:
		out.TrendDirection = TrendIncreasing
	case -1:
		out.TrendDirection = TrendDecreasing
	}
	return out
}

// linearSlope pendiente de mínimos cuadrados de y contra su índice 0..n-1.
func linearSlope(y []decimal.Decimal) decimal.Decimal {
	n := len(y)
	if n < 2 {
		return decimal.Zero
	}
	xMean := decimal.NewFromInt(int64(n - 1)).Div(decimal.NewFromInt(2))
	yMean := Describe(y).Mean
	num, den := decimal.Zero, decimal.Zero
	for i, v := range y {
		dx := decimal.NewFromInt(int64(i)).Sub(xMean)
		num = num.Add(dx.Mul(v.Sub(yMean)))
		den = den.Add(dx.Mul(dx))
	}
	return num.DivRound(den, workPlaces)
}
