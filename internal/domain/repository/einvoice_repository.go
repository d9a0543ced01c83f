package repository

import (
	"context"
	"time"

	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
)

// EInvoiceFilter criterios de listado. Campos vacíos no filtran.
type EInvoiceFilter struct {
	CompanyID string
	Status    entity.EInvoiceStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// EInvoiceRepository define el puerto de persistencia del e-Invoice.
type EInvoiceRepository interface {
	Create(ctx context.Context, e *entity.EInvoice) error
	// Update persiste estado, identificadores LHDN, errores y marcas de tiempo.
	Update(ctx context.Context, e *entity.EInvoice) error
	GetByID(ctx context.Context, id string) (*entity.EInvoice, error)
	// GetActiveByInvoice devuelve el e-Invoice no cancelado ni rechazado de la factura.
	GetActiveByInvoice(ctx context.Context, invoiceID string) (*entity.EInvoice, error)
	List(ctx context.Context, f EInvoiceFilter) ([]*entity.EInvoice, error)
	CountByStatus(ctx context.Context, companyID string) (map[entity.EInvoiceStatus]int, error)
}
