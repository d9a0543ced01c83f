package forecast

import "github.com/shopspring/decimal"

// Estado del stock frente al punto de reorden.
const (
	StatusCritical      = "critical"       // stock <= 50% del punto de reorden
	StatusReorderNeeded = "reorder_needed" // stock <= punto de reorden
	StatusAdequate      = "adequate"       // stock <= 150% del punto de reorden
	StatusOverstocked   = "overstocked"
)

// Nivel de riesgo de quiebre.
const (
	RiskHigh   = "high"
	RiskMedium = "medium"
	RiskLow    = "low"
)

// DefaultServiceLevel nivel de servicio cuando no se indica otro.
const DefaultServiceLevel = 0.95

// NoDemandDays días de cobertura informados cuando la demanda media es cero.
var NoDemandDays = decimal.NewFromInt(999)

// SafetyStock = z * std diaria * sqrt(lead time), redondeado a unidades.
func SafetyStock(dailyStd decimal.Decimal, leadTimeDays int, serviceLevel float64) decimal.Decimal {
	if leadTimeDays <= 0 {
		return decimal.Zero
	}
	lt := Sqrt(decimal.NewFromInt(int64(leadTimeDays)))
	return serviceZ(serviceLevel).Mul(dailyStd).Mul(lt).Round(0)
}

// ReorderPoint = demanda diaria media * lead time + stock de seguridad, redondeado a unidades.
func ReorderPoint(avgDaily decimal.Decimal, leadTimeDays int, safetyStock decimal.Decimal) decimal.Decimal {
	return avgDaily.Mul(decimal.NewFromInt(int64(leadTimeDays))).Add(safetyStock).Round(0)
}

// EOQ cantidad económica de pedido: sqrt(2 * D * S / (C * h)), redondeada a unidades.
// Sin costo de mantener (C*h = 0) o sin demanda devuelve cero.
func EOQ(annualDemand, orderingCost, unitCost, holdingRate decimal.Decimal) decimal.Decimal {
	holding := unitCost.Mul(holdingRate)
	if holding.Sign() <= 0 || annualDemand.Sign() <= 0 {
		return decimal.Zero
	}
	return Sqrt(decimal.NewFromInt(2).Mul(annualDemand).Mul(orderingCost).DivRound(holding, workPlaces)).Round(0)
}

// Classify ubica el stock actual respecto del punto de reorden.
func Classify(current, reorderPoint decimal.Decimal) (status, risk string) {
	half := reorderPoint.Mul(decimal.RequireFromString("0.5"))
	upper := reorderPoint.Mul(decimal.RequireFromString("1.5"))
	switch {
	case current.LessThanOrEqual(half):
		return StatusCritical, RiskHigh
	case current.LessThanOrEqual(reorderPoint):
		return StatusReorderNeeded, RiskMedium
	case current.LessThanOrEqual(upper):
		return StatusAdequate, RiskLow
	default:
		return StatusOverstocked, RiskLow
	}
}

// DaysOfStock cobertura en días a la demanda media (1 decimal).
func DaysOfStock(current, avgDaily decimal.Decimal) decimal.Decimal {
	if avgDaily.Sign() <= 0 {
		return NoDemandDays
	}
	return current.DivRound(avgDaily, 1)
}

// serviceZ z-score unilateral para el nivel de servicio (0.95 por defecto).
func serviceZ(level float64) decimal.Decimal {
	switch level {
	case 0.90:
		return decimal.RequireFromString("1.28")
	case 0.99:
		return decimal.RequireFromString("2.33")
	default:
		return decimal.RequireFromString("1.65")
	}
}

// StockParams entrada del análisis de reposición de un producto.
type StockParams struct {
	CurrentStock decimal.Decimal
	AvgDaily     decimal.Decimal
	DailyStd     decimal.Decimal
	LeadTimeDays int
	ServiceLevel float64
	UnitCost     decimal.Decimal
	OrderingCost decimal.Decimal
	HoldingRate  decimal.Decimal // fracción anual del costo unitario
}

// StockPlan recomendación de reposición.
type StockPlan struct {
	SafetyStock  decimal.Decimal
	ReorderPoint decimal.Decimal
	OrderQty     decimal.Decimal // EOQ
	Status       string
	Risk         string
	DaysOfStock  decimal.Decimal
}

// Optimize calcula stock de seguridad, punto de reorden, EOQ y estado actual.
func Optimize(p StockParams) StockPlan {
	ss := SafetyStock(p.DailyStd, p.LeadTimeDays, p.ServiceLevel)
	rop := ReorderPoint(p.AvgDaily, p.LeadTimeDays, ss)
	status, risk := Classify(p.CurrentStock, rop)
	return StockPlan{
		SafetyStock:  ss,
		ReorderPoint: rop,
		OrderQty:     EOQ(p.AvgDaily.Mul(decimal.NewFromInt(365)), p.OrderingCost, p.UnitCost, p.HoldingRate),
		Status:       status,
		Risk:         risk,
		DaysOfStock:  DaysOfStock(p.CurrentStock, p.AvgDaily),
	}
}
