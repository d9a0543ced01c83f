package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice representa la cabecera de una factura comercial.
// El e-Invoice que la representa ante LHDN vive en EInvoice.
type Invoice struct {
	ID            string
	CompanyID     string
	CustomerID    string
	Number        string
	Date          time.Time
	DocumentType  string // ver lhdn.DocType*
	CurrencyCode  string
	ExchangeRate  decimal.Decimal // 1 unidad de CurrencyCode en MYR
	NetTotal      decimal.Decimal
	TaxTotal      decimal.Decimal
	GrandTotal    decimal.Decimal
	GrandTotalMYR decimal.Decimal
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InvoiceLine representa una línea de la factura.
type InvoiceLine struct {
	ID                 string
	InvoiceID          string
	LineNo             int
	Description        string
	ClassificationCode string
	Quantity           decimal.Decimal
	UnitCode           string
	UnitPrice          decimal.Decimal
	TaxType            string
	TaxRate            decimal.Decimal // porcentaje, ej. 8 = 8%
	Subtotal           decimal.Decimal
	TaxAmount          decimal.Decimal
	Total              decimal.Decimal
}
