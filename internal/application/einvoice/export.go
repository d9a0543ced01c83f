package einvoice

import (
	"context"
	"fmt"

	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
	"github.com/jhoicas/myinvois-erp/pkg/money"
)

const exportPageSize = 500

// ExportRegister genera el registro de e-Invoices de la empresa (XLSX) con los
// filtros de f. Limit/Offset de f se ignoran: se exporta todo lo que coincide.
func (s *Service) ExportRegister(ctx context.Context, f repository.EInvoiceFilter) ([]byte, string, error) {
	if s.exporter == nil {
		return nil, "", fmt.Errorf("%w: exportador no configurado", domain.ErrConflict)
	}
	if f.Status != "" && !f.Status.IsValid() {
		return nil, "", fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, f.Status)
	}

	var rows []RegisterRow
	f.Limit, f.Offset = exportPageSize, 0
	for {
		page, err := s.einvoiceRepo.List(ctx, f)
		if err != nil {
			return nil, "", err
		}
		for _, e := range page {
			row := RegisterRow{EInvoice: e, ValidationURL: s.validationURL(e)}
			inv, err := s.invoiceRepo.GetByID(ctx, e.InvoiceID)
			if err != nil {
				return nil, "", err
			}
			if inv != nil {
				cur, ok := s.catalogue.Get(inv.CurrencyCode)
				if !ok {
					cur = s.catalogue.Base()
				}
				row.InvoiceNumber = inv.Number
				row.InvoiceDate = inv.Date
				row.CurrencyCode = cur.Code
				row.GrandTotal = money.FormatMoney(inv.GrandTotal, cur)
				row.GrandTotalMYR = money.FormatMoney(inv.GrandTotalMYR, s.catalogue.Base())
				if c, err := s.customerRepo.GetByID(ctx, inv.CustomerID); err == nil && c != nil {
					row.CustomerName = c.Name
					row.CustomerTIN = c.TIN
				}
			}
			rows = append(rows, row)
		}
		if len(page) < exportPageSize {
			break
		}
		f.Offset += exportPageSize
	}

	content, err := s.exporter.Export(rows)
	if err != nil {
		return nil, "", fmt.Errorf("exportar registro: %w", err)
	}
	filename := fmt.Sprintf("einvoices_%s.xlsx", s.clk.Now().UTC().Format("20060102"))
	return content, filename, nil
}
