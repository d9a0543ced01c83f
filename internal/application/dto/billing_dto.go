package dto

import "github.com/shopspring/decimal"

// CreateCustomerRequest body para POST /api/customers.
// TIN es obligatorio; para consumidores finales se usa el TIN genérico de LHDN.
type CreateCustomerRequest struct {
	Name      string `json:"name" validate:"required,max=300"`
	TIN       string `json:"tin" validate:"required"`
	IDScheme  string `json:"id_scheme" validate:"required,oneof=NRIC PASSPORT BRN ARMY"`
	IDValue   string `json:"id_value" validate:"required,max=30"`
	SSTNumber string `json:"sst_number,omitempty"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country,omitempty" validate:"omitempty,len=3"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Name      string `json:"name"`
	TIN       string `json:"tin"`
	IDScheme  string `json:"id_scheme"`
	IDValue   string `json:"id_value"`
	SSTNumber string `json:"sst_number,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Postcode  string `json:"postcode,omitempty"`
	Country   string `json:"country"`
}

// CreateInvoiceRequest body para POST /api/invoices.
// CurrencyCode vacío = MYR. Si la moneda no es MYR y ExchangeRate es cero se usa la
// última tasa registrada para la empresa.
type CreateInvoiceRequest struct {
	CustomerID   string               `json:"customer_id" validate:"required,uuid"`
	Number       string               `json:"number,omitempty" validate:"omitempty,max=50"`
	DocumentType string               `json:"document_type,omitempty"`
	CurrencyCode string               `json:"currency_code,omitempty" validate:"omitempty,len=3"`
	ExchangeRate decimal.Decimal      `json:"exchange_rate,omitempty"`
	Notes        string               `json:"notes,omitempty" validate:"omitempty,max=500"`
	Items        []InvoiceItemRequest `json:"items" validate:"required,min=1,dive"`
}

// InvoiceItemRequest línea de factura.
type InvoiceItemRequest struct {
	Description        string          `json:"description" validate:"required,max=300"`
	ClassificationCode string          `json:"classification_code,omitempty" validate:"omitempty,len=3,numeric"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitCode           string          `json:"unit_code,omitempty"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	TaxType            string          `json:"tax_type,omitempty"`
	TaxRate            decimal.Decimal `json:"tax_rate"` // porcentaje: 8 = 8%
}

// InvoiceResponse factura con detalle para GET /api/invoices/:id.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	CompanyID     string                `json:"company_id"`
	CustomerID    string                `json:"customer_id"`
	CustomerName  string                `json:"customer_name,omitempty"`
	Number        string                `json:"number"`
	Date          string                `json:"date"`
	DocumentType  string                `json:"document_type"`
	CurrencyCode  string                `json:"currency_code"`
	ExchangeRate  decimal.Decimal       `json:"exchange_rate"`
	NetTotal      decimal.Decimal       `json:"net_total"`
	TaxTotal      decimal.Decimal       `json:"tax_total"`
	GrandTotal    decimal.Decimal       `json:"grand_total"`
	GrandTotalMYR decimal.Decimal       `json:"grand_total_myr"`
	Formatted     string                `json:"formatted_total"`
	Notes         string                `json:"notes,omitempty"`
	Lines         []InvoiceLineResponse `json:"lines"`
}

// InvoiceLineResponse línea en la respuesta.
type InvoiceLineResponse struct {
	LineNo             int             `json:"line_no"`
	Description        string          `json:"description"`
	ClassificationCode string          `json:"classification_code"`
	Quantity           decimal.Decimal `json:"quantity"`
	UnitCode           string          `json:"unit_code"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	TaxType            string          `json:"tax_type"`
	TaxRate            decimal.Decimal `json:"tax_rate"`
	Subtotal           decimal.Decimal `json:"subtotal"`
	TaxAmount          decimal.Decimal `json:"tax_amount"`
	Total              decimal.Decimal `json:"total"`
}
