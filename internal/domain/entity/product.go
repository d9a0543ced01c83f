package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product artículo con stock propio y parámetros de reposición.
type Product struct {
	ID           string
	CompanyID    string
	SKU          string
	Name         string
	UnitCode     string // código de unidad UN/ECE, ej. "C62"
	Stock        decimal.Decimal
	UnitCost     decimal.Decimal
	Price        decimal.Decimal
	LeadTimeDays int
	OrderingCost decimal.Decimal // costo fijo por pedido
	HoldingRate  decimal.Decimal // costo anual de mantener, fracción del costo unitario
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductDemand unidades vendidas de un producto en un día.
type ProductDemand struct {
	ProductID string
	Day       time.Time // fecha sin hora (UTC)
	Quantity  decimal.Decimal
}
