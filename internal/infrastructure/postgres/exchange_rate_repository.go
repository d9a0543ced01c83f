package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
)

var _ repository.ExchangeRateRepository = (*ExchangeRateRepo)(nil)

// ExchangeRateRepo tasas de cambio sobre PostgreSQL (NUMERIC vía pgx-shopspring-decimal).
type ExchangeRateRepo struct {
	q Querier
}

// NewExchangeRateRepository construye el adaptador.
func NewExchangeRateRepository(q Querier) *ExchangeRateRepo {
	return &ExchangeRateRepo{q: q}
}

const rateColumns = `id, company_id, from_currency, to_currency, rate, inverse_rate, effective_date, created_at`

// Upsert inserta o reemplaza la tasa del par para la fecha efectiva.
func (r *ExchangeRateRepo) Upsert(ctx context.Context, x *entity.ExchangeRate) error {
	if x.ID == "" {
		x.ID = uuid.New().String()
	}
	query := `
		INSERT INTO exchange_rates (` + rateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id, from_currency, to_currency, effective_date)
		DO UPDATE SET rate = EXCLUDED.rate, inverse_rate = EXCLUDED.inverse_rate
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		x.ID, x.CompanyID, x.FromCurrency, x.ToCurrency, x.Rate, x.InverseRate, x.EffectiveDate, x.CreatedAt,
	).Scan(&x.ID)
	if err != nil {
		return fmt.Errorf("upsert exchange rate: %w", err)
	}
	return nil
}

// GetLatest tasa más reciente del par.
func (r *ExchangeRateRepo) GetLatest(ctx context.Context, companyID, from, to string) (*entity.ExchangeRate, error) {
	query := `SELECT ` + rateColumns + ` FROM exchange_rates
		WHERE company_id = $1 AND from_currency = $2 AND to_currency = $3
		ORDER BY effective_date DESC LIMIT 1`
	var x entity.ExchangeRate
	err := r.q.QueryRow(ctx, query, companyID, from, to).Scan(
		&x.ID, &x.CompanyID, &x.FromCurrency, &x.ToCurrency, &x.Rate, &x.InverseRate, &x.EffectiveDate, &x.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get exchange rate: %w", err)
	}
	return &x, nil
}

// List todas las tasas de la empresa, más recientes primero.
func (r *ExchangeRateRepo) List(ctx context.Context, companyID string) ([]*entity.ExchangeRate, error) {
	rows, err := r.q.Query(ctx, `SELECT `+rateColumns+` FROM exchange_rates
		WHERE company_id = $1 ORDER BY effective_date DESC, from_currency, to_currency`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list exchange rates: %w", err)
	}
	defer rows.Close()

	var list []*entity.ExchangeRate
	for rows.Next() {
		var x entity.ExchangeRate
		if err := rows.Scan(&x.ID, &x.CompanyID, &x.FromCurrency, &x.ToCurrency, &x.Rate, &x.InverseRate,
			&x.EffectiveDate, &x.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan exchange rate: %w", err)
		}
		list = append(list, &x)
	}
	return list, rows.Err()
}
