package billing

import (
	"context"

	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
	"github.com/jhoicas/myinvois-erp/pkg/money"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los repos de facturación.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(
		customerRepo repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
		rateRepo repository.ExchangeRateRepository,
	) error) error
}

// InvoicePDFData todo lo necesario para la representación visual de un e-Invoice validado.
type InvoicePDFData struct {
	Invoice       *entity.Invoice
	Lines         []*entity.InvoiceLine
	Company       *entity.Company
	Customer      *entity.Customer
	EInvoice      *entity.EInvoice
	Currency      money.Currency
	ValidationURL string // contenido del QR
}

// InvoicePDFGenerator genera el PDF de la factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, data *InvoicePDFData) ([]byte, error)
}
