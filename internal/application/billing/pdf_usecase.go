package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
	"github.com/jhoicas/myinvois-erp/pkg/lhdn"
	"github.com/jhoicas/myinvois-erp/pkg/money"
)

// PDFUseCase genera la representación visual (PDF) de un e-Invoice.
// Solo se permite cuando LHDN ya validó el documento: el QR apunta a la URL pública.
type PDFUseCase struct {
	invoiceRepo  repository.InvoiceRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	einvoiceRepo repository.EInvoiceRepository
	generator    InvoicePDFGenerator
	catalogue    *money.Catalogue
	portalURL    string
}

// NewPDFUseCase construye el caso de uso inyectando todas sus dependencias.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	einvoiceRepo repository.EInvoiceRepository,
	generator InvoicePDFGenerator,
	catalogue *money.Catalogue,
	portalURL string,
) *PDFUseCase {
	if catalogue == nil {
		catalogue = money.DefaultCatalogue()
	}
	return &PDFUseCase{
		invoiceRepo:  invoiceRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		einvoiceRepo: einvoiceRepo,
		generator:    generator,
		catalogue:    catalogue,
		portalURL:    portalURL,
	}
}

// DownloadInvoicePDF recupera todos los datos de la factura, verifica que su
// e-Invoice esté VALID y genera el PDF con el QR de validación.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
//   - domain.ErrForbidden        si la factura no pertenece a la empresa del token.
//   - domain.ErrInvalidInput     si no hay e-Invoice validado.
func (uc *PDFUseCase) DownloadInvoicePDF(
	ctx context.Context,
	companyID, invoiceID string,
) (pdfBytes []byte, filename string, err error) {
	// ── 1. Factura ────────────────────────────────────────────────────────────
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, "", domain.ErrForbidden
	}

	// ── 2. e-Invoice validado ─────────────────────────────────────────────────
	e, err := uc.einvoiceRepo.GetActiveByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener e-Invoice: %w", err)
	}
	if e == nil || e.Status != entity.EInvoiceValid {
		status := "sin e-Invoice"
		if e != nil {
			status = string(e.Status)
		}
		return nil, "", fmt.Errorf("%w: el e-Invoice está en estado %s, espere a que LHDN lo valide antes de descargar el PDF",
			domain.ErrInvalidInput, status)
	}
	qr, err := lhdn.ValidationURL(uc.portalURL, e.UUID, e.LongID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: %w", err)
	}

	// ── 3. Empresa, cliente y líneas ──────────────────────────────────────────
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil || company == nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	customer, err := uc.customerRepo.GetByID(ctx, inv.CustomerID)
	if err != nil || customer == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	lines, err := uc.invoiceRepo.GetLines(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}
	cur, ok := uc.catalogue.Get(inv.CurrencyCode)
	if !ok {
		cur = uc.catalogue.Base()
	}

	// ── 4. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, &InvoicePDFData{
		Invoice:       inv,
		Lines:         lines,
		Company:       company,
		Customer:      customer,
		EInvoice:      e,
		Currency:      cur,
		ValidationURL: qr,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("einvoice_%s.pdf", inv.Number)
	return pdfBytes, filename, nil
}
