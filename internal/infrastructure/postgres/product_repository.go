package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación de ProductRepository sobre PostgreSQL.
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Acepta pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, company_id, sku, name, unit_code, stock, unit_cost, price,
	lead_time_days, ordering_cost, holding_rate, created_at, updated_at`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.UnitCode, &p.Stock, &p.UnitCost, &p.Price,
		&p.LeadTimeDays, &p.OrderingCost, &p.HoldingRate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create persiste un producto. SKU duplicado en la empresa → domain.ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, company_id, sku, name, unit_code, stock, unit_cost, price,
		                      lead_time_days, ordering_cost, holding_rate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.CompanyID, p.SKU, p.Name, p.UnitCode, p.Stock, p.UnitCost, p.Price,
		p.LeadTimeDays, p.OrderingCost, p.HoldingRate, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sku %s", domain.ErrDuplicate, p.SKU)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto; nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListByCompany lista productos por SKU.
func (r *ProductRepo) ListByCompany(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE company_id = $1 ORDER BY sku LIMIT $2 OFFSET $3`,
		companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateStock fija el stock actual del producto.
func (r *ProductRepo) UpdateStock(ctx context.Context, id string, stock decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET stock = $2, updated_at = now() WHERE id = $1`, id, stock)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// AddDemand acumula la demanda del día.
func (r *ProductRepo) AddDemand(ctx context.Context, productID string, day time.Time, qty decimal.Decimal) error {
	query := `
		INSERT INTO product_demand (product_id, day, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (product_id, day)
		DO UPDATE SET quantity = product_demand.quantity + EXCLUDED.quantity`
	if _, err := r.q.Exec(ctx, query, productID, day, qty); err != nil {
		return fmt.Errorf("add product demand: %w", err)
	}
	return nil
}

// DemandBetween demanda diaria registrada en [from, to).
func (r *ProductRepo) DemandBetween(ctx context.Context, productID string, from, to time.Time) ([]entity.ProductDemand, error) {
	rows, err := r.q.Query(ctx, `
		SELECT product_id, day, quantity
		  FROM product_demand
		 WHERE product_id = $1 AND day >= $2 AND day < $3
		 ORDER BY day`, productID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list product demand: %w", err)
	}
	defer rows.Close()

	var out []entity.ProductDemand
	for rows.Next() {
		var d entity.ProductDemand
		if err := rows.Scan(&d.ProductID, &d.Day, &d.Quantity); err != nil {
			return nil, fmt.Errorf("scan product demand: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
