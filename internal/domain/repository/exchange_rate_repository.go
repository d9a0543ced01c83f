package repository

import (
	"context"

	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
)

// ExchangeRateRepository tasas de cambio por empresa.
type ExchangeRateRepository interface {
	// Upsert reemplaza la tasa del mismo par y fecha efectiva.
	Upsert(ctx context.Context, rate *entity.ExchangeRate) error
	// GetLatest devuelve la tasa más reciente del par; (nil, nil) si no existe.
	GetLatest(ctx context.Context, companyID, from, to string) (*entity.ExchangeRate, error)
	List(ctx context.Context, companyID string) ([]*entity.ExchangeRate, error)
}
