package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/inventory/products.
// Parámetros de reposición vacíos: lead time 7 días, pedido 50, mantener 25% anual.
type CreateProductRequest struct {
	SKU          string           `json:"sku" validate:"required,max=64"`
	Name         string           `json:"name" validate:"required,max=300"`
	UnitCode     string           `json:"unit_code,omitempty" validate:"omitempty,max=3"`
	Stock        decimal.Decimal  `json:"stock"`
	UnitCost     decimal.Decimal  `json:"unit_cost"`
	Price        decimal.Decimal  `json:"price"`
	LeadTimeDays int              `json:"lead_time_days,omitempty" validate:"omitempty,min=1,max=90"`
	OrderingCost *decimal.Decimal `json:"ordering_cost,omitempty"`
	HoldingRate  *decimal.Decimal `json:"holding_rate,omitempty"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID           string          `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	UnitCode     string          `json:"unit_code"`
	Stock        decimal.Decimal `json:"stock"`
	UnitCost     decimal.Decimal `json:"unit_cost"`
	Price        decimal.Decimal `json:"price"`
	LeadTimeDays int             `json:"lead_time_days"`
	OrderingCost decimal.Decimal `json:"ordering_cost"`
	HoldingRate  decimal.Decimal `json:"holding_rate"`
}

// SetStockRequest body para PUT /api/inventory/products/:id/stock.
type SetStockRequest struct {
	Stock decimal.Decimal `json:"stock"`
}

// RecordDemandRequest body para POST /api/inventory/products/:id/demand.
// Date vacío = hoy. DecrementStock descuenta la cantidad del stock actual.
type RecordDemandRequest struct {
	Date           string          `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Quantity       decimal.Decimal `json:"quantity"`
	DecrementStock bool            `json:"decrement_stock,omitempty"`
}

// DemandForecastQuery parámetros de GET /api/inventory/products/:id/forecast.
type DemandForecastQuery struct {
	Days              int     `query:"days" validate:"omitempty,min=1,max=365"`
	HistoryDays       int     `query:"history_days" validate:"omitempty,min=14,max=730"`
	Confidence        float64 `query:"confidence" validate:"omitempty,gt=0,lt=1"`
	IncludeConfidence *bool   `query:"include_confidence"`
}

// ForecastPointDTO pronóstico de un día.
type ForecastPointDTO struct {
	Date            string           `json:"date"`
	PredictedDemand decimal.Decimal  `json:"predicted_demand"`
	LowerBound      *decimal.Decimal `json:"lower_bound,omitempty"`
	UpperBound      *decimal.Decimal `json:"upper_bound,omitempty"`
}

// ForecastMetricsDTO métricas del ajuste.
type ForecastMetricsDTO struct {
	MAE            decimal.Decimal `json:"mae"`
	MSE            decimal.Decimal `json:"mse"`
	HistoricalMean decimal.Decimal `json:"historical_mean"`
	HistoricalStd  decimal.Decimal `json:"historical_std"`
	Level          decimal.Decimal `json:"level"`
	Trend          decimal.Decimal `json:"trend"`
}

// HistorySummaryDTO resumen de la serie usada.
type HistorySummaryDTO struct {
	DaysAnalyzed int             `json:"days_analyzed"`
	TotalDemand  decimal.Decimal `json:"total_demand"`
	MeanDemand   decimal.Decimal `json:"mean_demand"`
	MaxDemand    decimal.Decimal `json:"max_demand"`
	MinDemand    decimal.Decimal `json:"min_demand"`
}

// DemandForecastResponse respuesta del pronóstico de demanda.
type DemandForecastResponse struct {
	ProductID    string             `json:"product_id"`
	SKU          string             `json:"sku"`
	ForecastDays int                `json:"forecast_days"`
	Predictions  []ForecastPointDTO `json:"predictions"`
	Metrics      ForecastMetricsDTO `json:"model_metrics"`
	History      HistorySummaryDTO  `json:"history_summary"`
}

// StockOptimizationQuery parámetros de GET /api/inventory/products/:id/stock-optimization.
// LeadTimeDays vacío = el del producto; ServiceLevel vacío = 0.95.
type StockOptimizationQuery struct {
	LeadTimeDays int     `query:"lead_time_days" validate:"omitempty,min=1,max=90"`
	ServiceLevel float64 `query:"service_level" validate:"omitempty,gt=0,lt=1"`
	HistoryDays  int     `query:"history_days" validate:"omitempty,min=14,max=730"`
}

// StockOptimizationResponse recomendación de reposición de un producto.
type StockOptimizationResponse struct {
	ProductID         string          `json:"product_id"`
	SKU               string          `json:"sku"`
	CurrentStock      decimal.Decimal `json:"current_stock"`
	ReorderPoint      decimal.Decimal `json:"recommended_reorder_point"`
	OrderQuantity     decimal.Decimal `json:"recommended_order_quantity"`
	SafetyStock       decimal.Decimal `json:"safety_stock"`
	Status            string          `json:"current_status"`
	RiskLevel         string          `json:"risk_level"`
	DaysOfStock       decimal.Decimal `json:"days_of_stock"`
	Suggestions       []string        `json:"suggestions"`
	AvgDailyDemand    decimal.Decimal `json:"avg_daily_demand"`
	DemandVariability decimal.Decimal `json:"demand_variability"`
	ServiceLevel      float64         `json:"service_level"`
	LeadTimeDays      int             `json:"lead_time_days"`
}

// SeasonalityQuery parámetros de GET /api/inventory/products/:id/seasonality.
type SeasonalityQuery struct {
	Years int `query:"years" validate:"omitempty,min=1,max=5"`
}

// SeasonIndexDTO índice estacional de un mes o día de la semana.
type SeasonIndexDTO struct {
	Period string          `json:"period"`
	Index  decimal.Decimal `json:"index"`
}

// SeasonalityResponse patrones estacionales de la demanda.
type SeasonalityResponse struct {
	ProductID           string           `json:"product_id"`
	AnalysisPeriodYears int              `json:"analysis_period_years"`
	DaysAnalyzed        int              `json:"days_analyzed"`
	MeanDailyDemand     decimal.Decimal  `json:"mean_daily_demand"`
	Monthly             []SeasonIndexDTO `json:"monthly_indices"`
	Weekly              []SeasonIndexDTO `json:"weekly_indices"`
	PeakSeasons         []SeasonIndexDTO `json:"peak_seasons"`
	LowSeasons          []SeasonIndexDTO `json:"low_seasons"`
	AnnualGrowthPct     decimal.Decimal  `json:"annual_growth_rate"`
	TrendDirection      string           `json:"trend_direction"`
	Recommendations     []string         `json:"recommendations"`
}

// BulkForecastRequest body para POST /api/inventory/forecasts/bulk.
type BulkForecastRequest struct {
	ProductIDs   []string `json:"product_ids" validate:"required,min=1,max=100,dive,required"`
	ForecastDays int      `json:"forecast_days,omitempty" validate:"omitempty,min=1,max=90"`
}

// BulkForecastItem resumen del pronóstico de un producto. Status: success | error.
type BulkForecastItem struct {
	ProductID     string          `json:"product_id"`
	Status        string          `json:"status"`
	TotalForecast decimal.Decimal `json:"total_forecasted_demand"`
	AvgDaily      decimal.Decimal `json:"avg_daily_demand"`
	Trend         decimal.Decimal `json:"trend"`
	Error         string          `json:"error,omitempty"`
}

// BulkForecastResponse respuesta del pronóstico masivo.
type BulkForecastResponse struct {
	ForecastDays int                `json:"forecast_days"`
	Total        int                `json:"total_products"`
	Successful   int                `json:"successful"`
	Failed       int                `json:"failed"`
	Results      []BulkForecastItem `json:"results"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un producto en o bajo su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	Status             string          `json:"status"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	ReorderPoint       decimal.Decimal `json:"reorder_point"`
	SafetyStock        decimal.Decimal `json:"safety_stock"`
	IdealStock         decimal.Decimal `json:"ideal_stock"`         // ReorderPoint * 1.5
	SuggestedOrderQty  decimal.Decimal `json:"suggested_order_qty"` // max(EOQ, IdealStock - CurrentStock)
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	GrossMarginPct     decimal.Decimal `json:"gross_margin_pct"`
	UnitsSoldLast90    decimal.Decimal `json:"units_sold_last_90d"`
	Priority           int             `json:"priority"` // 1 = más urgente
}
