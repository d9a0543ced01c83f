// Package pdf genera la representación visual del e-Invoice validado por LHDN.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Proveedor + TIN/BRN │  Tipo, N° Factura, Fecha      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PROVEEDOR: Dirección / SST / MSIC / contacto               │
//	│  COMPRADOR: Nombre + TIN + ID + contacto                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | Imp. | Subtotal        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / Total (+ total en MYR)      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER LHDN: UUID + Long ID + fecha de validación + QR      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appbilling "github.com/jhoicas/myinvois-erp/internal/application/billing"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/pkg/lhdn"
	"github.com/jhoicas/myinvois-erp/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa billing.InvoicePDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

var _ appbilling.InvoicePDFGenerator = (*MarotoPDFGenerator)(nil)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateInvoicePDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateInvoicePDF(_ context.Context, data *appbilling.InvoicePDFData) ([]byte, error) {
	if data == nil || data.Invoice == nil || data.Company == nil || data.Customer == nil || data.EInvoice == nil {
		return nil, fmt.Errorf("pdf: datos incompletos")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("e-Invoice "+data.Invoice.Number, true).
		WithAuthor(data.Company.Name, true).
		Build()

	m := maroto.New(cfg)

	// Header principal
	m.AddRows(headerRow(data.Invoice, data.Company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(data.Company))
	m.AddRows(buyerRow(data.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de líneas
	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(data.Lines, data.Currency)...)

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data.Invoice, data.Currency))

	// Footer LHDN
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(lhdnFooterRows(data.EInvoice, data.ValidationURL)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: proveedor + TIN/BRN (izq) y tipo, número y fecha (der).
func headerRow(invoice *entity.Invoice, company *entity.Company) core.Row {
	docName := lhdn.DocumentTypeName(invoice.DocumentType)
	if docName == "" {
		docName = "Invoice"
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("TIN: %s   |   BRN: %s", company.TIN, company.BRN), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("E-INVOICE · "+docName, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Date: "+invoice.Date.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// supplierRow: datos del proveedor (empresa emisora).
func supplierRow(company *entity.Company) core.Row {
	return row.New(16).Add(
		col.New(12).Add(
			text.New("SUPPLIER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s %s %s",
				nonEmpty(company.Address, "—"), company.Postcode, company.City,
			), props.Text{Size: 8, Top: 6, Color: colorGray}),
			text.New(fmt.Sprintf("SST: %s   |   MSIC: %s %s   |   Tel: %s   |   Email: %s",
				nonEmpty(company.SSTNumber, "NA"),
				nonEmpty(company.MSICCode, "—"),
				company.BusinessActivity,
				nonEmpty(company.Phone, "—"),
				nonEmpty(company.Email, "—"),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

// buyerRow: datos del comprador.
func buyerRow(customer *entity.Customer) core.Row {
	id := "—"
	if customer.IDScheme != "" {
		id = customer.IDScheme + " " + customer.IDValue
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("BUYER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("TIN: %s   |   ID: %s   |   Email: %s   |   Tel: %s",
				customer.TIN,
				id,
				nonEmpty(customer.Email, "—"),
				nonEmpty(customer.Phone, "—"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qty", 1, align.Center),
		h("Description", 5, align.Left),
		h("Unit Price", 2, align.Right),
		h("Tax", 1, align.Center),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableLineRows: una fila por línea de la factura.
func tableLineRows(lines []*entity.InvoiceLine, cur money.Currency) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				l.Quantity.String()+" "+l.UnitCode,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(5).Add(text.New(
				l.Description,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				money.FormatMoney(l.UnitPrice, cur),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				l.TaxRate.String()+"%",
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(3).Add(text.New(
				money.FormatMoney(l.Subtotal, cur),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: bloque de totales alineado a la derecha; agrega el equivalente
// en MYR cuando la factura está en otra moneda.
func totalsRow(invoice *entity.Invoice, cur money.Currency) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1, Top: top,
		})
	}

	labels := col.New(3).Add(
		label("Subtotal:", 0),
		label("Tax:", 6),
		label("TOTAL PAYABLE:", 12),
	)
	values := col.New(3).Add(
		value(money.FormatMoney(invoice.NetTotal, cur), 0),
		value(money.FormatMoney(invoice.TaxTotal, cur), 6),
		grand(money.FormatMoney(invoice.GrandTotal, cur, money.WithCode()), 12),
	)
	if invoice.CurrencyCode != "" && invoice.CurrencyCode != money.BaseCurrencyCode {
		base := money.DefaultCatalogue().Base()
		labels.Add(label(fmt.Sprintf("Rate %s/MYR %s:", invoice.CurrencyCode, invoice.ExchangeRate.String()), 18))
		values.Add(value(money.FormatMoney(invoice.GrandTotalMYR, base, money.WithCode()), 18))
	}

	return row.New(26).Add(
		col.New(3), // espacio izquierdo
		labels,
		values,
		col.New(3), // espacio derecho
	)
}

// lhdnFooterRows: identificadores LHDN + QR de validación.
func lhdnFooterRows(e *entity.EInvoice, validationURL string) []core.Row {
	validated := "—"
	if e.ValidatedAt != nil {
		validated = e.ValidatedAt.UTC().Format("2006-01-02 15:04:05 UTC")
	}
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("LHDN MyInvois", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New("UUID: "+e.UUID, props.Text{Size: 7, Top: 1}),
		)),
		row.New(5).Add(col.New(12).Add(
			text.New("Validated: "+validated, props.Text{Size: 7, Top: 1}),
		)),
	}
	if e.LongID != "" {
		for i, chunk := range splitEvery("Long ID: "+e.LongID, 90) {
			top := 0.5
			if i == 0 {
				top = 1
			}
			rows = append(rows, row.New(4).Add(col.New(12).Add(
				text.New(chunk, props.Text{Size: 6.5, Color: colorGray, Top: top}),
			)))
		}
	}

	rows = append(rows, row.New(3))

	if validationURL != "" {
		rows = append(rows, row.New(50).Add(
			col.New(4).Add(code.NewQr(validationURL, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New("Scan the QR code to verify this e-Invoice\non the MyInvois portal.", props.Text{
					Size: 8, Top: 4, Left: 3, Color: colorGray,
				}),
				text.New("This document is a visual representation\nof an e-Invoice validated by LHDN", props.Text{
					Style: fontstyle.Bold, Size: 10, Top: 22,
					Left: 3, Color: colorPrimary,
				}),
			),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}
