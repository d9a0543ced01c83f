package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia de productos y su historial de demanda.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
	UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error

	// AddDemand suma qty a la demanda del día (crea la fila si no existe).
	AddDemand(ctx context.Context, productID string, day time.Time, qty decimal.Decimal) error
	// DemandBetween devuelve la demanda registrada en [from, to), ordenada por día.
	// Los días sin ventas no aparecen.
	DemandBetween(ctx context.Context, productID string, from, to time.Time) ([]entity.ProductDemand, error)
}
