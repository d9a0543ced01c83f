package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/myinvois-erp/internal/application/dto"
	"github.com/jhoicas/myinvois-erp/internal/domain/forecast"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
)

// tamaño de página al recorrer el catálogo de la empresa
const replenishmentPage = 200

// ReplenishmentUseCase genera la lista de reposición de la empresa.
// Combina el plan de stock de cada producto con su margen y volumen de ventas para priorizar.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
	forecast *ForecastUseCase
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(products repository.ProductRepository, fc *ForecastUseCase) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products, forecast: fc}
}

// GenerateReplenishmentList devuelve los productos en o bajo su punto de reorden con la
// cantidad sugerida de pedido, ordenados por urgencia.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, companyID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	hundred := decimal.NewFromInt(100)
	idealFactor := decimal.RequireFromString("1.5")
	suggestions := []dto.ReplenishmentSuggestionDTO{}

	for offset := 0; ; offset += replenishmentPage {
		page, err := uc.products.ListByCompany(ctx, companyID, replenishmentPage, offset)
		if err != nil {
			return nil, err
		}
		for _, p := range page {
			plan, stats, err := uc.forecast.plan(ctx, p, p.LeadTimeDays, forecast.DefaultServiceLevel, DefaultHistoryDays)
			if err != nil {
				return nil, err
			}
			if plan.Status != forecast.StatusCritical && plan.Status != forecast.StatusReorderNeeded {
				continue
			}
			// Sin demanda registrada el punto de reorden es cero y no hay nada que reponer.
			if plan.ReorderPoint.IsZero() {
				continue
			}
			ideal := plan.ReorderPoint.Mul(idealFactor).Round(0)
			qty := ideal.Sub(p.Stock)
			if plan.OrderQty.GreaterThan(qty) {
				qty = plan.OrderQty
			}
			var margin decimal.Decimal
			if p.Price.GreaterThan(decimal.Zero) {
				margin = p.Price.Sub(p.UnitCost).Div(p.Price).Mul(hundred).Round(2)
			}
			suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
				ProductID:          p.ID,
				SKU:                p.SKU,
				ProductName:        p.Name,
				Status:             plan.Status,
				CurrentStock:       p.Stock,
				ReorderPoint:       plan.ReorderPoint,
				SafetyStock:        plan.SafetyStock,
				IdealStock:         ideal,
				SuggestedOrderQty:  qty,
				UnitCost:           p.UnitCost,
				EstimatedOrderCost: qty.Mul(p.UnitCost).Round(2),
				GrossMarginPct:     margin,
				UnitsSoldLast90:    stats.Mean.Mul(decimal.NewFromInt(int64(stats.Count))).Round(0),
			})
		}
		if len(page) < replenishmentPage {
			break
		}
	}

	// Orden: críticos primero, luego mayor margen, mayor volumen y mayor déficit.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.Status != b.Status {
			return a.Status == forecast.StatusCritical
		}
		if !a.GrossMarginPct.Equal(b.GrossMarginPct) {
			return a.GrossMarginPct.GreaterThan(b.GrossMarginPct)
		}
		if !a.UnitsSoldLast90.Equal(b.UnitsSoldLast90) {
			return a.UnitsSoldLast90.GreaterThan(b.UnitsSoldLast90)
		}
		return a.ReorderPoint.Sub(a.CurrentStock).GreaterThan(b.ReorderPoint.Sub(b.CurrentStock))
	})

	// 1 = más urgente
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
