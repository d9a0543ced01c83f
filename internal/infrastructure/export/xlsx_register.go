// Package export serializa el registro de e-Invoices a XLSX.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
)

// SheetName hoja única del libro.
const SheetName = "e-Invoices"

var registerHeader = []interface{}{
	"Invoice No.", "Invoice Date", "Customer", "Customer TIN", "Status", "Type",
	"UUID", "Long ID", "Submitted At", "Validated At", "Cancelled At", "Cancel Reason",
	"Currency", "Total", "Total (MYR)", "Validation URL",
}

var colWidths = map[string]float64{
	"A": 16, "B": 12, "C": 32, "D": 16, "E": 12, "F": 6,
	"G": 30, "H": 34, "I": 20, "J": 20, "K": 20, "L": 40,
	"M": 9, "N": 16, "O": 16, "P": 60,
}

// XLSXRegister implementa appeinvoice.RegisterExporter con excelize.
type XLSXRegister struct{}

var _ appeinvoice.RegisterExporter = (*XLSXRegister)(nil)

// NewXLSXRegister crea el exportador.
func NewXLSXRegister() *XLSXRegister {
	return &XLSXRegister{}
}

// Export escribe una fila por e-Invoice bajo una cabecera fija con filtro.
func (x *XLSXRegister) Export(rows []appeinvoice.RegisterRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &registerHeader); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(registerHeader), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("xlsx: estilo cabecera: %w", err)
	}
	for col, w := range colWidths {
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("xlsx: ancho %s: %w", col, err)
		}
	}

	for i, r := range rows {
		e := r.EInvoice
		row := []interface{}{
			r.InvoiceNumber,
			r.InvoiceDate.Format("2006-01-02"),
			r.CustomerName,
			r.CustomerTIN,
			string(e.Status),
			e.Type,
			e.UUID,
			e.LongID,
			timeCell(e.SubmittedAt),
			timeCell(e.ValidatedAt),
			timeCell(e.CancelledAt),
			e.CancelReason,
			r.CurrencyCode,
			r.GrandTotal,
			r.GrandTotalMYR,
			r.ValidationURL,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+2, err)
		}
	}

	lastCell, _ := excelize.CoordinatesToCellName(len(registerHeader), len(rows)+1)
	if err := f.AutoFilter(SheetName, "A1:"+lastCell, nil); err != nil {
		return nil, fmt.Errorf("xlsx: filtro: %w", err)
	}
	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("xlsx: fijar cabecera: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

// timeCell fecha-hora en UTC; vacío si nil.
func timeCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}
