package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/myinvois-erp/internal/application/dto"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/forecast"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
	"github.com/jhoicas/myinvois-erp/pkg/logger"
)

// Ventanas por defecto.
const (
	DefaultForecastDays = 30
	DefaultHistoryDays  = 90
	bulkHistoryDays     = 60
	defaultYears        = 2
)

// ForecastUseCase pronóstico de demanda, optimización de stock y estacionalidad
// a partir del historial de demanda registrado.
type ForecastUseCase struct {
	repo repository.ProductRepository
	clk  clock.Clock
	log  *logger.Logger
}

// NewForecastUseCase construye el caso de uso.
func NewForecastUseCase(repo repository.ProductRepository, clk clock.Clock, log *logger.Logger) *ForecastUseCase {
	return &ForecastUseCase{repo: repo, clk: clk, log: log.Component("forecast")}
}

// history serie diaria de los últimos days días (hasta ayer). Días sin ventas cuentan como cero.
func (uc *ForecastUseCase) history(ctx context.Context, productID string, days int) ([]forecast.DailyDemand, error) {
	to := dayOf(uc.clk.Now())
	from := to.AddDate(0, 0, -days)
	rows, err := uc.repo.DemandBetween(ctx, productID, from, to)
	if err != nil {
		return nil, err
	}
	byDay := make(map[time.Time]decimal.Decimal, len(rows))
	for _, r := range rows {
		byDay[dayOf(r.Day)] = r.Quantity
	}
	out := make([]forecast.DailyDemand, 0, days)
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		out = append(out, forecast.DailyDemand{Date: day, Quantity: byDay[day]})
	}
	return out, nil
}

func quantities(series []forecast.DailyDemand) []decimal.Decimal {
	out := make([]decimal.Decimal, len(series))
	for i, p := range series {
		out[i] = p.Quantity
	}
	return out
}

// Demand pronostica la demanda diaria con suavizado exponencial doble.
func (uc *ForecastUseCase) Demand(ctx context.Context, companyID, productID string, q dto.DemandForecastQuery) (*dto.DemandForecastResponse, error) {
	p, err := ownedProduct(ctx, uc.repo, companyID, productID)
	if err != nil {
		return nil, err
	}
	days, historyDays := q.Days, q.HistoryDays
	if days == 0 {
		days = DefaultForecastDays
	}
	if historyDays == 0 {
		historyDays = DefaultHistoryDays
	}
	series, err := uc.history(ctx, p.ID, historyDays)
	if err != nil {
		return nil, err
	}
	values := quantities(series)
	stats := forecast.Describe(values)
	smooth := forecast.Holt(values, forecast.DefaultAlpha, forecast.DefaultBeta, days)

	var intervals []forecast.Interval
	if q.IncludeConfidence == nil || *q.IncludeConfidence {
		confidence := q.Confidence
		if confidence == 0 {
			confidence = 0.95
		}
		intervals = forecast.ConfidenceIntervals(smooth.Forecasts, stats.Std, confidence)
	}

	start := dayOf(uc.clk.Now())
	preds := make([]dto.ForecastPointDTO, len(smooth.Forecasts))
	for i, f := range smooth.Forecasts {
		preds[i] = dto.ForecastPointDTO{
			Date:            start.AddDate(0, 0, i+1).Format(time.DateOnly),
			PredictedDemand: f.Round(2),
		}
		if intervals != nil {
			lo, hi := intervals[i].Lower, intervals[i].Upper
			preds[i].LowerBound, preds[i].UpperBound = &lo, &hi
		}
	}
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	uc.log.Debug().Str("product_id", p.ID).Int("days", days).Int("history_days", historyDays).Msg("pronóstico de demanda")
	return &dto.DemandForecastResponse{
		ProductID:    p.ID,
		SKU:          p.SKU,
		ForecastDays: days,
		Predictions:  preds,
		Metrics: dto.ForecastMetricsDTO{
			MAE:            smooth.MAE.Round(2),
			MSE:            smooth.MSE.Round(2),
			HistoricalMean: stats.Mean.Round(2),
			HistoricalStd:  stats.Std.Round(2),
			Level:          smooth.Level.Round(4),
			Trend:          smooth.Trend.Round(4),
		},
		History: dto.HistorySummaryDTO{
			DaysAnalyzed: historyDays,
			TotalDemand:  total,
			MeanDemand:   stats.Mean.Round(2),
			MaxDemand:    stats.Max,
			MinDemand:    stats.Min,
		},
	}, nil
}

// plan calcula la recomendación de reposición del producto con su historial.
func (uc *ForecastUseCase) plan(ctx context.Context, p *entity.Product, leadTime int, serviceLevel float64, historyDays int) (forecast.StockPlan, forecast.Stats, error) {
	series, err := uc.history(ctx, p.ID, historyDays)
	if err != nil {
		return forecast.StockPlan{}, forecast.Stats{}, err
	}
	stats := forecast.Describe(quantities(series))
	plan := forecast.Optimize(forecast.StockParams{
		CurrentStock: p.Stock,
		AvgDaily:     stats.Mean,
		DailyStd:     stats.Std,
		LeadTimeDays: leadTime,
		ServiceLevel: serviceLevel,
		UnitCost:     p.UnitCost,
		OrderingCost: p.OrderingCost,
		HoldingRate:  p.HoldingRate,
	})
	return plan, stats, nil
}

// Optimize recomienda punto de reorden, stock de seguridad y cantidad de pedido (EOQ).
func (uc *ForecastUseCase) Optimize(ctx context.Context, companyID, productID string, q dto.StockOptimizationQuery) (*dto.StockOptimizationResponse, error) {
	p, err := ownedProduct(ctx, uc.repo, companyID, productID)
	if err != nil {
		return nil, err
	}
	leadTime := q.LeadTimeDays
	if leadTime == 0 {
		leadTime = p.LeadTimeDays
	}
	level := q.ServiceLevel
	if level == 0 {
		level = forecast.DefaultServiceLevel
	}
	historyDays := q.HistoryDays
	if historyDays == 0 {
		historyDays = DefaultHistoryDays
	}
	plan, stats, err := uc.plan(ctx, p, leadTime, level, historyDays)
	if err != nil {
		return nil, err
	}
	return &dto.StockOptimizationResponse{
		ProductID:         p.ID,
		SKU:               p.SKU,
		CurrentStock:      p.Stock,
		ReorderPoint:      plan.ReorderPoint,
		OrderQuantity:     plan.OrderQty,
		SafetyStock:       plan.SafetyStock,
		Status:            plan.Status,
		RiskLevel:         plan.Risk,
		DaysOfStock:       plan.DaysOfStock,
		Suggestions:       stockSuggestions(plan),
		AvgDailyDemand:    stats.Mean.Round(2),
		DemandVariability: stats.Std.Round(2),
		ServiceLevel:      level,
		LeadTimeDays:      leadTime,
	}, nil
}

func stockSuggestions(plan forecast.StockPlan) []string {
	var out []string
	switch plan.Status {
	case forecast.StatusCritical:
		out = append(out, "URGENTE: stock críticamente bajo, pedir de inmediato.",
			fmt.Sprintf("Cantidad de pedido recomendada: %s unidades.", plan.OrderQty))
	case forecast.StatusReorderNeeded:
		out = append(out, "El stock alcanzó el punto de reorden; conviene pedir pronto.",
			fmt.Sprintf("Cantidad de pedido recomendada: %s unidades.", plan.OrderQty))
	case forecast.StatusOverstocked:
		out = append(out, "Stock alto: reducir el próximo pedido.",
			"Revisar el pronóstico de demanda antes de reponer.")
	default:
		out = append(out, "Nivel de stock adecuado.",
			fmt.Sprintf("Planificar el próximo pedido al llegar a %s unidades.", plan.ReorderPoint))
	}
	return append(out, fmt.Sprintf("Cobertura actual: %s días.", plan.DaysOfStock))
}

// Seasonality analiza patrones mensuales y semanales de los últimos years años.
func (uc *ForecastUseCase) Seasonality(ctx context.Context, companyID, productID string, q dto.SeasonalityQuery) (*dto.SeasonalityResponse, error) {
	p, err := ownedProduct(ctx, uc.repo, companyID, productID)
	if err != nil {
		return nil, err
	}
	years := q.Years
	if years == 0 {
		years = defaultYears
	}
	to := dayOf(uc.clk.Now())
	series, err := uc.history(ctx, p.ID, int(to.Sub(to.AddDate(-years, 0, 0)).Hours()/24))
	if err != nil {
		return nil, err
	}
	s := forecast.AnalyzeSeasonality(series)
	return &dto.SeasonalityResponse{
		ProductID:           p.ID,
		AnalysisPeriodYears: years,
		DaysAnalyzed:        s.DaysAnalyzed,
		MeanDailyDemand:     s.MeanDailyDemand,
		Monthly:             toSeasonDTOs(s.Monthly),
		Weekly:              toSeasonDTOs(s.Weekly),
		PeakSeasons:         toSeasonDTOs(s.Peaks),
		LowSeasons:          toSeasonDTOs(s.Lows),
		AnnualGrowthPct:     s.AnnualGrowthPct,
		TrendDirection:      s.TrendDirection,
		Recommendations:     seasonRecommendations(s),
	}, nil
}

func toSeasonDTOs(in []forecast.SeasonIndex) []dto.SeasonIndexDTO {
	out := make([]dto.SeasonIndexDTO, len(in))
	for i, s := range in {
		out[i] = dto.SeasonIndexDTO{Period: s.Period, Index: s.Index}
	}
	return out
}

func seasonRecommendations(s forecast.Seasonality) []string {
	if len(s.Peaks) == 0 {
		return []string{"Sin demanda registrada en el período; no hay patrones que analizar."}
	}
	peak, low := s.Peaks[0], s.Lows[0]
	return []string{
		fmt.Sprintf("Pico de demanda esperado en %s (índice %s).", peak.Period, peak.Index),
		fmt.Sprintf("Aumentar inventario antes de %s.", peak.Period),
		fmt.Sprintf("Menor demanda en %s: planificar promociones.", low.Period),
		fmt.Sprintf("Tendencia anual: %s%%.", s.AnnualGrowthPct),
	}
}

// Bulk pronostica varios productos; un fallo en uno no interrumpe el resto.
func (uc *ForecastUseCase) Bulk(ctx context.Context, companyID string, in dto.BulkForecastRequest) (*dto.BulkForecastResponse, error) {
	days := in.ForecastDays
	if days == 0 {
		days = DefaultForecastDays
	}
	out := &dto.BulkForecastResponse{ForecastDays: days, Total: len(in.ProductIDs), Results: make([]dto.BulkForecastItem, 0, len(in.ProductIDs))}
	for _, id := range in.ProductIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		item := dto.BulkForecastItem{ProductID: id, Status: "success"}
		p, err := ownedProduct(ctx, uc.repo, companyID, id)
		var series []forecast.DailyDemand
		if err == nil {
			series, err = uc.history(ctx, p.ID, bulkHistoryDays)
		}
		if err != nil {
			item.Status, item.Error = "error", err.Error()
			out.Failed++
			out.Results = append(out.Results, item)
			continue
		}
		smooth := forecast.Holt(quantities(series), forecast.DefaultAlpha, forecast.DefaultBeta, days)
		total := decimal.Zero
		for _, f := range smooth.Forecasts {
			total = total.Add(f)
		}
		item.TotalForecast = total.Round(0)
		item.AvgDaily = total.DivRound(decimal.NewFromInt(int64(days)), 2)
		item.Trend = smooth.Trend.Round(4)
		out.Successful++
		out.Results = append(out.Results, item)
	}
	return out, nil
}
