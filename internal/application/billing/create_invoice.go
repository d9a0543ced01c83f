package billing

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
	"github.com/jhoicas/myinvois-erp/pkg/lhdn"
	"github.com/jhoicas/myinvois-erp/pkg/money"
)

// CreateInvoiceUseCase crea facturas comerciales con sus líneas en una sola transacción.
// El e-Invoice se genera después, a pedido del usuario.
type CreateInvoiceUseCase struct {
	txRunner     TxRunner
	customerRepo repository.CustomerRepository
	invoiceRepo  repository.InvoiceRepository
	rateRepo     repository.ExchangeRateRepository
	catalogue    *money.Catalogue
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner TxRunner,
	customerRepo repository.CustomerRepository,
	invoiceRepo repository.InvoiceRepository,
	rateRepo repository.ExchangeRateRepository,
	catalogue *money.Catalogue,
) *CreateInvoiceUseCase {
	if catalogue == nil {
		catalogue = money.DefaultCatalogue()
	}
	return &CreateInvoiceUseCase{
		txRunner:     txRunner,
		customerRepo: customerRepo,
		invoiceRepo:  invoiceRepo,
		rateRepo:     rateRepo,
		catalogue:    catalogue,
	}
}

var hundred = decimal.NewFromInt(100)

// CreateInvoice valida cliente, moneda y líneas, calcula impuestos y totales
// (incluido el total en MYR) y guarda cabecera y líneas.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if in.CustomerID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Cliente de la empresa
	customer, err := uc.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if customer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	// Tipo de documento y moneda
	docType := in.DocumentType
	if docType == "" {
		docType = lhdn.DocTypeInvoice
	}
	if !lhdn.IsValidDocumentType(docType) {
		return nil, fmt.Errorf("%w: document_type %q", domain.ErrInvalidInput, docType)
	}
	code := strings.ToUpper(strings.TrimSpace(in.CurrencyCode))
	if code == "" {
		code = money.BaseCurrencyCode
	}
	cur, err := uc.catalogue.Lookup(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	rate, err := uc.resolveRate(ctx, companyID, code, in.ExchangeRate)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		CustomerID:   customer.ID,
		Number:       in.Number,
		Date:         now,
		DocumentType: docType,
		CurrencyCode: code,
		ExchangeRate: rate,
		Notes:        in.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if inv.Number == "" {
		inv.Number = "INV-" + now.Format("20060102150405")
	}

	// Líneas: subtotal e impuesto redondeados a la precisión de la moneda
	lines := make([]*entity.InvoiceLine, 0, len(in.Items))
	for i, item := range in.Items {
		line, err := buildLine(inv.ID, i+1, item, cur)
		if err != nil {
			return nil, err
		}
		inv.NetTotal = inv.NetTotal.Add(line.Subtotal)
		inv.TaxTotal = inv.TaxTotal.Add(line.TaxAmount)
		lines = append(lines, line)
	}
	inv.GrandTotal = inv.NetTotal.Add(inv.TaxTotal)
	inv.GrandTotalMYR = money.ConvertCurrency(inv.GrandTotal, rate, uc.catalogue.Base().DecimalPlaces)

	err = uc.txRunner.RunBilling(ctx, func(
		_ repository.CustomerRepository,
		invoiceRepo repository.InvoiceRepository,
		_ repository.ExchangeRateRepository,
	) error {
		if err := invoiceRepo.Create(ctx, inv); err != nil {
			return err
		}
		for _, l := range lines {
			if err := invoiceRepo.CreateLine(ctx, l); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(inv, customer.Name, lines), nil
}

// resolveRate: MYR = 1; tasa explícita si es positiva; si no, la última registrada.
func (uc *CreateInvoiceUseCase) resolveRate(ctx context.Context, companyID, code string, explicit decimal.Decimal) (decimal.Decimal, error) {
	base := uc.catalogue.Base().Code
	if code == base {
		return decimal.NewFromInt(1), nil
	}
	if explicit.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: exchange_rate negativa", domain.ErrInvalidInput)
	}
	if explicit.IsPositive() {
		return explicit, nil
	}
	r, err := uc.rateRepo.GetLatest(ctx, companyID, code, base)
	if err != nil {
		return decimal.Zero, err
	}
	if r == nil {
		return decimal.Zero, fmt.Errorf("%w: no hay tasa de cambio %s→%s", domain.ErrInvalidInput, code, base)
	}
	return r.Rate, nil
}

func buildLine(invoiceID string, n int, item dto.InvoiceItemRequest, cur money.Currency) (*entity.InvoiceLine, error) {
	if strings.TrimSpace(item.Description) == "" || !item.Quantity.IsPositive() ||
		item.UnitPrice.IsNegative() || item.TaxRate.IsNegative() || item.TaxRate.GreaterThan(hundred) {
		return nil, fmt.Errorf("%w: línea %d", domain.ErrInvalidInput, n)
	}
	taxType := item.TaxType
	if taxType == "" {
		taxType = lhdn.TaxTypeSales
		if item.TaxRate.IsZero() {
			taxType = lhdn.TaxTypeNotApplicable
		}
	}
	if !lhdn.ValidTaxTypes[taxType] {
		return nil, fmt.Errorf("%w: línea %d tax_type %q", domain.ErrInvalidInput, n, taxType)
	}
	unit := item.UnitCode
	if unit == "" {
		unit = lhdn.UnitPiece
	}
	class := item.ClassificationCode
	if class == "" {
		class = lhdn.ClassificationOthers
	}
	subtotal := item.Quantity.Mul(item.UnitPrice).Round(cur.DecimalPlaces)
	tax := subtotal.Mul(item.TaxRate).Div(hundred).Round(cur.DecimalPlaces)
	return &entity.InvoiceLine{
		ID:                 uuid.New().String(),
		InvoiceID:          invoiceID,
		LineNo:             n,
		Description:        strings.TrimSpace(item.Description),
		ClassificationCode: class,
		Quantity:           item.Quantity,
		UnitCode:           unit,
		UnitPrice:          item.UnitPrice,
		TaxType:            taxType,
		TaxRate:            item.TaxRate,
		Subtotal:           subtotal,
		TaxAmount:          tax,
		Total:              subtotal.Add(tax),
	}, nil
}

func (uc *CreateInvoiceUseCase) toResponse(inv *entity.Invoice, customerName string, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	cur, ok := uc.catalogue.Get(inv.CurrencyCode)
	if !ok {
		cur = uc.catalogue.Base()
	}
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		CompanyID:     inv.CompanyID,
		CustomerID:    inv.CustomerID,
		CustomerName:  customerName,
		Number:        inv.Number,
		Date:          inv.Date.Format("2006-01-02"),
		DocumentType:  inv.DocumentType,
		CurrencyCode:  inv.CurrencyCode,
		ExchangeRate:  inv.ExchangeRate,
		NetTotal:      inv.NetTotal,
		TaxTotal:      inv.TaxTotal,
		GrandTotal:    inv.GrandTotal,
		GrandTotalMYR: inv.GrandTotalMYR,
		Formatted:     money.FormatMoney(inv.GrandTotal, cur),
		Notes:         inv.Notes,
		Lines:         make([]dto.InvoiceLineResponse, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			LineNo:             l.LineNo,
			Description:        l.Description,
			ClassificationCode: l.ClassificationCode,
			Quantity:           l.Quantity,
			UnitCode:           l.UnitCode,
			UnitPrice:          l.UnitPrice,
			TaxType:            l.TaxType,
			TaxRate:            l.TaxRate,
			Subtotal:           l.Subtotal,
			TaxAmount:          l.TaxAmount,
			Total:              l.Total,
		})
	}
	return resp
}

// GetInvoice obtiene una factura por ID con sus líneas.
func (uc *CreateInvoiceUseCase) GetInvoice(ctx context.Context, companyID, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	lines, err := uc.invoiceRepo.GetLines(ctx, id)
	if err != nil {
		return nil, err
	}
	customerName := ""
	if customer, _ := uc.customerRepo.GetByID(ctx, inv.CustomerID); customer != nil {
		customerName = customer.Name
	}
	return uc.toResponse(inv, customerName, lines), nil
}

// ListInvoices lista las facturas de la empresa (sin líneas).
func (uc *CreateInvoiceUseCase) ListInvoices(ctx context.Context, companyID string, limit, offset int) ([]*dto.InvoiceResponse, error) {
	list, err := uc.invoiceRepo.ListByCompany(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, uc.toResponse(inv, "", nil))
	}
	return out, nil
}
