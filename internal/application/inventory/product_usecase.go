package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/myinvois-erp/internal/application/dto"
	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
)

// Valores por defecto de los parámetros de reposición.
var (
	defaultOrderingCost = decimal.NewFromInt(50)
	defaultHoldingRate  = decimal.RequireFromString("0.25")
)

const (
	defaultLeadTimeDays = 7
	defaultUnitCode     = "C62" // unidad (UN/ECE Rec 20)
)

// ProductUseCase alta de productos, stock y registro de demanda.
type ProductUseCase struct {
	repo repository.ProductRepository
	clk  clock.Clock
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, clk clock.Clock) *ProductUseCase {
	return &ProductUseCase{repo: repo, clk: clk}
}

// Create registra un producto de la empresa. Cantidades y costos no pueden ser negativos.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	sku := strings.ToUpper(strings.TrimSpace(in.SKU))
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, fmt.Errorf("%w: sku y name son obligatorios", domain.ErrInvalidInput)
	}
	for field, v := range map[string]decimal.Decimal{"stock": in.Stock, "unit_cost": in.UnitCost, "price": in.Price} {
		if v.IsNegative() {
			return nil, fmt.Errorf("%w: %s negativo", domain.ErrInvalidInput, field)
		}
	}
	p := &entity.Product{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		SKU:          sku,
		Name:         name,
		UnitCode:     in.UnitCode,
		Stock:        in.Stock,
		UnitCost:     in.UnitCost,
		Price:        in.Price,
		LeadTimeDays: in.LeadTimeDays,
		OrderingCost: defaultOrderingCost,
		HoldingRate:  defaultHoldingRate,
	}
	if p.UnitCode == "" {
		p.UnitCode = defaultUnitCode
	}
	if p.LeadTimeDays == 0 {
		p.LeadTimeDays = defaultLeadTimeDays
	}
	if in.OrderingCost != nil {
		if in.OrderingCost.IsNegative() {
			return nil, fmt.Errorf("%w: ordering_cost negativo", domain.ErrInvalidInput)
		}
		p.OrderingCost = *in.OrderingCost
	}
	if in.HoldingRate != nil {
		if in.HoldingRate.IsNegative() || in.HoldingRate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("%w: holding_rate fuera de [0,1]", domain.ErrInvalidInput)
		}
		p.HoldingRate = *in.HoldingRate
	}
	now := uc.clk.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// List productos de la empresa.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]*dto.ProductResponse, error) {
	list, err := uc.repo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toProductResponse(p))
	}
	return out, nil
}

// Get producto de la empresa.
func (uc *ProductUseCase) Get(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	p, err := ownedProduct(ctx, uc.repo, companyID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// SetStock fija el stock contado (inventario físico).
func (uc *ProductUseCase) SetStock(ctx context.Context, companyID, id string, in dto.SetStockRequest) (*dto.ProductResponse, error) {
	if in.Stock.IsNegative() {
		return nil, fmt.Errorf("%w: stock negativo", domain.ErrInvalidInput)
	}
	p, err := ownedProduct(ctx, uc.repo, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.UpdateStock(ctx, id, in.Stock); err != nil {
		return nil, err
	}
	p.Stock = in.Stock
	return toProductResponse(p), nil
}

// RecordDemand acumula unidades vendidas en el día indicado (hoy por defecto).
// Con DecrementStock descuenta del stock; el stock no queda negativo.
func (uc *ProductUseCase) RecordDemand(ctx context.Context, companyID, id string, in dto.RecordDemandRequest) (*dto.ProductResponse, error) {
	if in.Quantity.Sign() <= 0 {
		return nil, fmt.Errorf("%w: quantity debe ser positiva", domain.ErrInvalidInput)
	}
	today := dayOf(uc.clk.Now())
	day := today
	if in.Date != "" {
		parsed, err := time.Parse(time.DateOnly, in.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date %q", domain.ErrInvalidInput, in.Date)
		}
		if parsed.After(today) {
			return nil, fmt.Errorf("%w: date en el futuro", domain.ErrInvalidInput)
		}
		day = parsed
	}
	p, err := ownedProduct(ctx, uc.repo, companyID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.AddDemand(ctx, id, day, in.Quantity); err != nil {
		return nil, err
	}
	if in.DecrementStock {
		stock := p.Stock.Sub(in.Quantity)
		if stock.IsNegative() {
			stock = decimal.Zero
		}
		if err := uc.repo.UpdateStock(ctx, id, stock); err != nil {
			return nil, err
		}
		p.Stock = stock
	}
	return toProductResponse(p), nil
}

// ownedProduct carga el producto y verifica que pertenezca a la empresa.
func ownedProduct(ctx context.Context, repo repository.ProductRepository, companyID, id string) (*entity.Product, error) {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

// dayOf fecha UTC sin hora.
func dayOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		UnitCode:     p.UnitCode,
		Stock:        p.Stock,
		UnitCost:     p.UnitCost,
		Price:        p.Price,
		LeadTimeDays: p.LeadTimeDays,
		OrderingCost: p.OrderingCost,
		HoldingRate:  p.HoldingRate,
	}
}
