package billing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myinvois-erp/internal/application/billing"
	"github.com/jhoicas/myinvois-erp/internal/application/dto"
	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
)

const (
	companyID  = "c-1"
	customerID = "11111111-1111-1111-1111-111111111111"
)

type memCustomers struct {
	byID map[string]*entity.Customer
}

func (m *memCustomers) Create(_ context.Context, c *entity.Customer) error {
	m.byID[c.ID] = c
	return nil
}
func (m *memCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return m.byID[id], nil
}
func (m *memCustomers) GetByCompanyAndTIN(_ context.Context, companyID, tin string) (*entity.Customer, error) {
	for _, c := range m.byID {
		if c.CompanyID == companyID && c.TIN == tin {
			return c, nil
		}
	}
	return nil, nil
}
func (m *memCustomers) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Customer, error) {
	var out []*entity.Customer
	for _, c := range m.byID {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memInvoices struct {
	invoices map[string]*entity.Invoice
	lines    map[string][]*entity.InvoiceLine
	failLine bool
}

func (m *memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	m.invoices[inv.ID] = inv
	return nil
}
func (m *memInvoices) CreateLine(_ context.Context, l *entity.InvoiceLine) error {
	if m.failLine {
		return errors.New("fallo de escritura")
	}
	m.lines[l.InvoiceID] = append(m.lines[l.InvoiceID], l)
	return nil
}
func (m *memInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	return m.invoices[id], nil
}
func (m *memInvoices) GetLines(_ context.Context, id string) ([]*entity.InvoiceLine, error) {
	return m.lines[id], nil
}
func (m *memInvoices) ListByCompany(context.Context, string, int, int) ([]*entity.Invoice, error) {
	return nil, nil
}

type memRates struct {
	repository.ExchangeRateRepository
	latest *entity.ExchangeRate
}

func (m *memRates) GetLatest(context.Context, string, string, string) (*entity.ExchangeRate, error) {
	return m.latest, nil
}

// txRunner ejecuta fn sin transacción real; descarta las escrituras si fn falla.
type txRunner struct {
	customers *memCustomers
	invoices  *memInvoices
	rates     *memRates
}

func (r txRunner) RunBilling(_ context.Context, fn func(repository.CustomerRepository, repository.InvoiceRepository, repository.ExchangeRateRepository) error) error {
	staged := &memInvoices{invoices: map[string]*entity.Invoice{}, lines: map[string][]*entity.InvoiceLine{}, failLine: r.invoices.failLine}
	if err := fn(r.customers, staged, r.rates); err != nil {
		return err
	}
	for k, v := range staged.invoices {
		r.invoices.invoices[k] = v
	}
	for k, v := range staged.lines {
		r.invoices.lines[k] = v
	}
	return nil
}

func newInvoiceUC() (*billing.CreateInvoiceUseCase, *memInvoices, *memRates) {
	customers := &memCustomers{byID: map[string]*entity.Customer{
		customerID: {ID: customerID, CompanyID: companyID, Name: "Buyer Bhd", TIN: "C1234567890"},
	}}
	invoices := &memInvoices{invoices: map[string]*entity.Invoice{}, lines: map[string][]*entity.InvoiceLine{}}
	rates := &memRates{}
	uc := billing.NewCreateInvoiceUseCase(txRunner{customers, invoices, rates}, customers, invoices, rates, nil)
	return uc, invoices, rates
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCreateInvoice_MYRTotals(t *testing.T) {
	uc, invoices, _ := newInvoiceUC()
	resp, err := uc.CreateInvoice(context.Background(), companyID, dto.CreateInvoiceRequest{
		CustomerID: customerID,
		Items: []dto.InvoiceItemRequest{
			{Description: "Consulting", Quantity: d("3"), UnitPrice: d("333.335"), TaxRate: d("8")},
			{Description: "Exempt book", Quantity: d("1"), UnitPrice: d("50")},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "MYR", resp.CurrencyCode)
	assert.True(t, resp.ExchangeRate.Equal(d("1")))
	// 3 × 333.335 = 1000.005 → 1000.01; 8% = 80.0008 → 80.00
	assert.Equal(t, "1050.01", resp.NetTotal.StringFixed(2))
	assert.Equal(t, "80.00", resp.TaxTotal.StringFixed(2))
	assert.Equal(t, "1130.01", resp.GrandTotal.StringFixed(2))
	assert.True(t, resp.GrandTotal.Equal(resp.GrandTotalMYR))
	assert.Equal(t, "RM1,130.01", resp.Formatted)
	require.Len(t, resp.Lines, 2)
	assert.Equal(t, "01", resp.Lines[0].TaxType)
	assert.Equal(t, "06", resp.Lines[1].TaxType)
	assert.Equal(t, "C62", resp.Lines[0].UnitCode)
	assert.Equal(t, "022", resp.Lines[0].ClassificationCode)
	assert.Equal(t, "01", resp.DocumentType)

	assert.Len(t, invoices.lines[resp.ID], 2)
}

func TestCreateInvoice_ForeignCurrencyUsesLatestRate(t *testing.T) {
	uc, _, rates := newInvoiceUC()
	req := dto.CreateInvoiceRequest{
		CustomerID: customerID, CurrencyCode: "usd",
		Items: []dto.InvoiceItemRequest{{Description: "License", Quantity: d("1"), UnitPrice: d("1000"), TaxRate: d("8")}},
	}

	_, err := uc.CreateInvoice(context.Background(), companyID, req)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin tasa registrada")

	rates.latest = &entity.ExchangeRate{FromCurrency: "USD", ToCurrency: "MYR", Rate: d("4.7215")}
	resp, err := uc.CreateInvoice(context.Background(), companyID, req)
	require.NoError(t, err)
	assert.Equal(t, "USD", resp.CurrencyCode)
	assert.Equal(t, "$1,080.00", resp.Formatted)
	// 1080 × 4.7215 = 5099.22
	assert.Equal(t, "5099.22", resp.GrandTotalMYR.StringFixed(2))

	req.ExchangeRate = d("4.5")
	resp, err = uc.CreateInvoice(context.Background(), companyID, req)
	require.NoError(t, err)
	assert.Equal(t, "4860.00", resp.GrandTotalMYR.StringFixed(2))
}

func TestCreateInvoice_Validation(t *testing.T) {
	uc, invoices, _ := newInvoiceUC()
	ctx := context.Background()
	item := dto.InvoiceItemRequest{Description: "x", Quantity: d("1"), UnitPrice: d("1")}

	cases := []dto.CreateInvoiceRequest{
		{CustomerID: customerID},
		{CustomerID: customerID, CurrencyCode: "XXX", Items: []dto.InvoiceItemRequest{item}},
		{CustomerID: customerID, DocumentType: "99", Items: []dto.InvoiceItemRequest{item}},
		{CustomerID: customerID, Items: []dto.InvoiceItemRequest{{Description: "x", Quantity: d("0"), UnitPrice: d("1")}}},
		{CustomerID: customerID, Items: []dto.InvoiceItemRequest{{Description: "x", Quantity: d("1"), UnitPrice: d("-1")}}},
		{CustomerID: customerID, Items: []dto.InvoiceItemRequest{{Description: "x", Quantity: d("1"), UnitPrice: d("1"), TaxType: "ZZ"}}},
	}
	for i, req := range cases {
		_, err := uc.CreateInvoice(ctx, companyID, req)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "caso %d", i)
	}

	_, err := uc.CreateInvoice(ctx, "otra", dto.CreateInvoiceRequest{CustomerID: customerID, Items: []dto.InvoiceItemRequest{item}})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	invoices.failLine = true
	_, err = uc.CreateInvoice(ctx, companyID, dto.CreateInvoiceRequest{CustomerID: customerID, Items: []dto.InvoiceItemRequest{item}})
	require.Error(t, err)
	assert.Empty(t, invoices.invoices, "rollback: no queda cabecera sin líneas")
}

func TestGetInvoice(t *testing.T) {
	uc, _, _ := newInvoiceUC()
	ctx := context.Background()
	created, err := uc.CreateInvoice(ctx, companyID, dto.CreateInvoiceRequest{
		CustomerID: customerID, Number: "INV-9",
		Items: []dto.InvoiceItemRequest{{Description: "x", Quantity: d("2"), UnitPrice: d("10"), TaxRate: d("6")}},
	})
	require.NoError(t, err)

	got, err := uc.GetInvoice(ctx, companyID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "INV-9", got.Number)
	assert.Equal(t, "Buyer Bhd", got.CustomerName)
	assert.Len(t, got.Lines, 1)

	_, err = uc.GetInvoice(ctx, "otra", created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.GetInvoice(ctx, companyID, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerCreate(t *testing.T) {
	repo := &memCustomers{byID: map[string]*entity.Customer{}}
	uc := billing.NewCustomerUseCase(repo)
	ctx := context.Background()

	in := dto.CreateCustomerRequest{Name: " Buyer Bhd ", TIN: "c 1234-567890", IDScheme: "BRN", IDValue: "201901234567"}
	got, err := uc.Create(ctx, companyID, in)
	require.NoError(t, err)
	assert.Equal(t, "C1234567890", got.TIN)
	assert.Equal(t, "Buyer Bhd", got.Name)
	assert.Equal(t, "MYS", got.Country)

	_, err = uc.Create(ctx, companyID, in)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	generic := dto.CreateCustomerRequest{Name: "Walk-in", TIN: "EI00000000010", IDScheme: "NRIC", IDValue: "000000000000"}
	_, err = uc.Create(ctx, companyID, generic)
	require.NoError(t, err)
	_, err = uc.Create(ctx, companyID, generic)
	require.NoError(t, err, "los TIN genéricos no se deduplican")

	_, err = uc.Create(ctx, companyID, dto.CreateCustomerRequest{Name: "x", TIN: "123", IDScheme: "BRN", IDValue: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, companyID, dto.CreateCustomerRequest{Name: "x", TIN: "C9999999999", IDScheme: "SSN", IDValue: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := uc.List(ctx, companyID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
