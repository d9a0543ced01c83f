package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appbilling "github.com/jhoicas/myinvois-erp/internal/application/billing"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/infrastructure/pdf"
	"github.com/jhoicas/myinvois-erp/pkg/money"
)

func TestGenerateInvoicePDF(t *testing.T) {
	cat := money.DefaultCatalogue()
	usd, _ := cat.Get("USD")
	validated := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	data := &appbilling.InvoicePDFData{
		Invoice: &entity.Invoice{
			Number: "INV-001", Date: validated, DocumentType: "01", CurrencyCode: "USD",
			ExchangeRate: decimal.RequireFromString("4.7"),
			NetTotal:     decimal.RequireFromString("1000"), TaxTotal: decimal.RequireFromString("80"),
			GrandTotal: decimal.RequireFromString("1080"), GrandTotalMYR: decimal.RequireFromString("5076"),
		},
		Lines: []*entity.InvoiceLine{{
			LineNo: 1, Description: "Consulting", Quantity: decimal.NewFromInt(1), UnitCode: "C62",
			UnitPrice: decimal.NewFromInt(1000), TaxRate: decimal.NewFromInt(8),
			Subtotal: decimal.NewFromInt(1000), TaxAmount: decimal.NewFromInt(80),
		}},
		Company:       &entity.Company{Name: "Acme Sdn Bhd", TIN: "C2584563200", BRN: "201901234567"},
		Customer:      &entity.Customer{Name: "Buyer", TIN: "C1234567890"},
		EInvoice:      &entity.EInvoice{UUID: "UUID1", LongID: "LONG1", ValidatedAt: &validated, Status: entity.EInvoiceValid},
		Currency:      usd,
		ValidationURL: "https://preprod.myinvois.hasil.gov.my/UUID1/share/LONG1",
	}

	out, err := pdf.NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateInvoicePDF_DatosIncompletos(t *testing.T) {
	_, err := pdf.NewMarotoPDFGenerator().GenerateInvoicePDF(context.Background(), &appbilling.InvoicePDFData{})
	require.Error(t, err)
}
