package einvoice_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
	"github.com/jhoicas/myinvois-erp/pkg/logger"
)

const (
	companyID  = "c-1"
	otherCo    = "c-2"
	invoiceID  = "inv-1"
	customerID = "cus-1"
	portal     = "https://preprod.myinvois.hasil.gov.my"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *appeinvoice.Service
	einvoices *memEInvoices
	submitter *fakeSubmitter
	archive   *memArchive
	exporter  *captureExporter
	clk       *clock.Fake
}

func newFixture(t *testing.T, builderErr error) *fixture {
	t.Helper()
	return newFixtureWithConfig(t, builderErr, appeinvoice.Config{PortalURL: portal})
}

func newFixtureWithConfig(t *testing.T, builderErr error, cfg appeinvoice.Config) *fixture {
	t.Helper()
	invoices := &memInvoices{
		invoices: map[string]*entity.Invoice{invoiceID: {
			ID: invoiceID, CompanyID: companyID, CustomerID: customerID, Number: "INV-001", Date: t0,
			DocumentType: "01", CurrencyCode: "USD", ExchangeRate: decimal.RequireFromString("4.7"),
			NetTotal: decimal.NewFromInt(1000), TaxTotal: decimal.NewFromInt(80),
			GrandTotal: decimal.NewFromInt(1080), GrandTotalMYR: decimal.RequireFromString("5076"),
		}},
		lines: map[string][]*entity.InvoiceLine{invoiceID: {{
			ID: "l-1", InvoiceID: invoiceID, LineNo: 1, Description: "Consulting", Quantity: decimal.NewFromInt(1),
			UnitPrice: decimal.NewFromInt(1000), TaxType: "02", TaxRate: decimal.NewFromInt(8),
		}}},
	}
	f := &fixture{
		einvoices: newMemEInvoices(),
		submitter: &fakeSubmitter{},
		archive:   &memArchive{objects: map[string][]byte{}},
		exporter:  &captureExporter{},
		clk:       clock.NewFake(t0),
	}
	f.svc = appeinvoice.NewService(
		f.einvoices, invoices,
		&memCompanies{byID: map[string]*entity.Company{companyID: {ID: companyID, Name: "Acme Sdn Bhd", TIN: "C2584563200"}}},
		&memCustomers{byID: map[string]*entity.Customer{customerID: {ID: customerID, CompanyID: companyID, Name: "Buyer Bhd", TIN: "C1234567890"}}},
		stubBuilder{err: builderErr}, f.submitter, f.archive, f.exporter, nil,
		appeinvoice.NewDispatcher(), f.clk, logger.Nop(),
		cfg,
	)
	return f
}

func (f *fixture) created(t *testing.T) entity.EInvoice {
	t.Helper()
	e, err := f.einvoices.GetActiveByInvoice(context.Background(), invoiceID)
	require.NoError(t, err)
	require.NotNil(t, e)
	return *e
}

func TestCreateAndSubmit_Accepted(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	e, err := f.svc.CreateAndSubmit(ctx, companyID, invoiceID)
	require.NoError(t, err)

	got := f.einvoices.get(e.ID)
	assert.Equal(t, entity.EInvoiceSubmitted, got.Status)
	assert.Equal(t, "UUID-INV-001", got.UUID)
	assert.Equal(t, "SUB-1", got.SubmissionUID)
	assert.Equal(t, "hash-INV-001", got.DocumentHash)
	assert.Equal(t, "01", got.Type)
	require.NotNil(t, got.SubmittedAt)
	assert.Nil(t, got.ValidatedAt)
	assert.Equal(t, "c-1/2024/01/"+e.ID+".xml", got.ArchiveKey)
	assert.Contains(t, f.archive.objects, got.ArchiveKey)

	_, err = f.svc.CreateAndSubmit(ctx, companyID, invoiceID)
	assert.ErrorIs(t, err, domain.ErrEInvoiceExists)
}

func TestCreateAndSubmit_RejectedIsNotAnError(t *testing.T) {
	f := newFixture(t, nil)
	f.submitter.reject = true

	e, err := f.svc.CreateAndSubmit(context.Background(), companyID, invoiceID)
	require.NoError(t, err)
	got := f.einvoices.get(e.ID)
	assert.Equal(t, entity.EInvoiceRejected, got.Status)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, "CF321", got.Errors[0].Code)

	// Un rechazado no bloquea un nuevo e-Invoice para la factura.
	f.submitter.reject = false
	_, err = f.svc.CreateAndSubmit(context.Background(), companyID, invoiceID)
	require.NoError(t, err)
}

func TestSubmit_TransportErrorThenRetry(t *testing.T) {
	f := newFixture(t, nil)
	f.submitter.submitErr = errors.New("connection reset")

	e, err := f.svc.CreateAndSubmit(context.Background(), companyID, invoiceID)
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.True(t, appeinvoice.IsUpstream(err))
	got := f.einvoices.get(e.ID)
	assert.Equal(t, entity.EInvoiceError, got.Status)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, "submit", got.Errors[0].Code)

	f.submitter.submitErr = nil
	require.NoError(t, f.svc.Retry(context.Background(), companyID, e.ID))
	got = f.einvoices.get(e.ID)
	assert.Equal(t, entity.EInvoiceSubmitted, got.Status)
	assert.Equal(t, 1, got.RetryCount)
	assert.Empty(t, got.Errors)

	err = f.svc.Retry(context.Background(), companyID, e.ID)
	assert.ErrorIs(t, err, domain.ErrActionNotAllowed)
}

func TestSubmit_DeadlineStillPersistsError(t *testing.T) {
	f := newFixtureWithConfig(t, nil, appeinvoice.Config{PortalURL: portal, PipelineTimeout: 50 * time.Millisecond})
	f.submitter.block = true

	e, err := f.svc.CreateAndSubmit(context.Background(), companyID, invoiceID)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.ErrorIs(t, err, domain.ErrUpstream)

	got := f.einvoices.get(e.ID)
	assert.Equal(t, entity.EInvoiceError, got.Status, "el plazo vencido no debe dejar el e-Invoice en PENDING")
	assert.Empty(t, got.UUID)
	assert.Equal(t, []einvoice.Action{einvoice.ActionRetry}, einvoice.AllowedActions(got.Status))

	f.submitter.block = false
	require.NoError(t, f.svc.Retry(context.Background(), companyID, e.ID))
	got = f.einvoices.get(e.ID)
	assert.Equal(t, entity.EInvoiceSubmitted, got.Status)
	assert.Equal(t, "UUID-INV-001", got.UUID)
}

func TestSync_StalePendingWithoutUUIDBecomesError(t *testing.T) {
	f := newFixture(t, nil)
	f.einvoices.byID["e-stale"] = entity.EInvoice{
		ID: "e-stale", CompanyID: companyID, InvoiceID: invoiceID, Status: entity.EInvoicePending,
		Type: "01", CreatedAt: t0, UpdatedAt: t0,
	}

	// Dentro del plazo del pipeline el envío puede seguir en curso.
	f.clk.Advance(10 * time.Second)
	assert.ErrorIs(t, f.svc.Sync(context.Background(), companyID, "e-stale"), domain.ErrConflict)
	assert.Equal(t, entity.EInvoicePending, f.einvoices.get("e-stale").Status)

	f.clk.Advance(time.Minute)
	require.NoError(t, f.svc.Sync(context.Background(), companyID, "e-stale"))
	got := f.einvoices.get("e-stale")
	assert.Equal(t, entity.EInvoiceError, got.Status)
	require.Len(t, got.Errors, 1)
	assert.Equal(t, "submit", got.Errors[0].Code)

	require.NoError(t, f.svc.Retry(context.Background(), companyID, "e-stale"))
	assert.Equal(t, entity.EInvoiceSubmitted, f.einvoices.get("e-stale").Status)
}

func TestRetry_RejectedClearsPreviousIdentifiers(t *testing.T) {
	f := newFixture(t, nil)
	e, err := f.svc.CreateAndSubmit(context.Background(), companyID, invoiceID)
	require.NoError(t, err)
	f.submitter.details = &appeinvoice.DocumentDetails{
		Status: appeinvoice.RemoteInvalid,
		Errors: []entity.ValidationError{{Code: "DS302", Message: "Total no cuadra"}},
	}
	require.NoError(t, f.svc.Sync(context.Background(), companyID, e.ID))
	require.Equal(t, "UUID-INV-001", f.einvoices.get(e.ID).UUID)

	f.submitter.reject = true
	require.NoError(t, f.svc.Retry(context.Background(), companyID, e.ID))
	got := f.einvoices.get(e.ID)
	assert.Equal(t, entity.EInvoiceRejected, got.Status)
	assert.Empty(t, got.UUID, "el UUID del envío anterior no corresponde al rechazado")
	assert.Empty(t, got.LongID)
	assert.Nil(t, got.SubmittedAt)
	assert.Equal(t, "SUB-2", got.SubmissionUID)
}

func TestSubmit_BuildFailureMarksError(t *testing.T) {
	f := newFixture(t, errors.New("falta MSIC"))
	e, err := f.svc.CreateAndSubmit(context.Background(), companyID, invoiceID)
	require.Error(t, err)
	got := f.einvoices.get(e.ID)
	assert.Equal(t, entity.EInvoiceError, got.Status)
	assert.Equal(t, "build", got.Errors[0].Code)
	assert.Empty(t, f.submitter.submitted, "no se envía un documento que no se pudo construir")
}

func TestSubmit_RequiresDraft(t *testing.T) {
	f := newFixture(t, nil)
	e, err := f.svc.CreateAndSubmit(context.Background(), companyID, invoiceID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.svc.Submit(context.Background(), companyID, e.ID), domain.ErrActionNotAllowed)
}

func submitAndValidate(t *testing.T, f *fixture) entity.EInvoice {
	t.Helper()
	e, err := f.svc.CreateAndSubmit(context.Background(), companyID, invoiceID)
	require.NoError(t, err)
	validated := t0.Add(10 * time.Minute)
	f.submitter.details = &appeinvoice.DocumentDetails{Status: appeinvoice.RemoteValid, LongID: "LONG123", ValidatedAt: &validated}
	f.clk.Advance(15 * time.Minute)
	require.NoError(t, f.svc.Sync(context.Background(), companyID, e.ID))
	return f.einvoices.get(e.ID)
}

func TestSync_ValidSetsValidatedAtOnce(t *testing.T) {
	f := newFixture(t, nil)
	got := submitAndValidate(t, f)

	assert.Equal(t, entity.EInvoiceValid, got.Status)
	require.NotNil(t, got.ValidatedAt)
	assert.True(t, got.ValidatedAt.Equal(t0.Add(10*time.Minute)))
	assert.Equal(t, "LONG123", got.LongID)

	// Sync ya no aplica en VALID.
	assert.ErrorIs(t, f.svc.Sync(context.Background(), companyID, got.ID), domain.ErrActionNotAllowed)
}

func TestSync_TransportErrorLeavesStatus(t *testing.T) {
	f := newFixture(t, nil)
	e, err := f.svc.CreateAndSubmit(context.Background(), companyID, invoiceID)
	require.NoError(t, err)
	f.submitter.detailsErr = errors.New("timeout")

	err = f.svc.Sync(context.Background(), companyID, e.ID)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Equal(t, entity.EInvoiceSubmitted, f.einvoices.get(e.ID).Status)
}

func TestSync_Invalid(t *testing.T) {
	f := newFixture(t, nil)
	e, err := f.svc.CreateAndSubmit(context.Background(), companyID, invoiceID)
	require.NoError(t, err)
	f.submitter.details = &appeinvoice.DocumentDetails{
		Status: appeinvoice.RemoteInvalid,
		Errors: []entity.ValidationError{{Code: "DS302", Message: "Total no cuadra"}},
	}
	require.NoError(t, f.svc.Sync(context.Background(), companyID, e.ID))
	got := f.einvoices.get(e.ID)
	assert.Equal(t, entity.EInvoiceInvalid, got.Status)
	assert.Equal(t, "DS302", got.Errors[0].Code)
}

func TestCancel_WithinWindow(t *testing.T) {
	f := newFixture(t, nil)
	e := submitAndValidate(t, f)
	f.clk.Advance(24 * time.Hour)

	require.NoError(t, f.svc.Cancel(context.Background(), companyID, e.ID, "  Customer requested "))
	got := f.einvoices.get(e.ID)
	assert.Equal(t, entity.EInvoiceCancelled, got.Status)
	assert.Equal(t, "Customer requested", got.CancelReason)
	require.NotNil(t, got.CancelledAt)
	assert.Equal(t, []string{"UUID-INV-001|Customer requested"}, f.submitter.cancelled)
	assert.True(t, got.ValidatedAt.Equal(*e.ValidatedAt), "validatedAt no cambia tras la validación")
}

func TestCancel_WindowClosed(t *testing.T) {
	f := newFixture(t, nil)
	e := submitAndValidate(t, f)
	f.clk.Advance(72 * time.Hour)

	err := f.svc.Cancel(context.Background(), companyID, e.ID, "tarde")
	assert.ErrorIs(t, err, domain.ErrCancellationWindowClosed)
	assert.Empty(t, f.submitter.cancelled)
	assert.Equal(t, entity.EInvoiceValid, f.einvoices.get(e.ID).Status)
}

func TestCancel_Validation(t *testing.T) {
	f := newFixture(t, nil)
	e := submitAndValidate(t, f)

	assert.ErrorIs(t, f.svc.Cancel(context.Background(), companyID, e.ID, "   "), domain.ErrInvalidCancelReason)
	long := make([]rune, einvoice.MaxCancelReasonLength+1)
	for i := range long {
		long[i] = 'á'
	}
	assert.ErrorIs(t, f.svc.Cancel(context.Background(), companyID, e.ID, string(long)), domain.ErrInvalidCancelReason)
	assert.ErrorIs(t, f.svc.Cancel(context.Background(), otherCo, e.ID, "ok"), domain.ErrForbidden)
	assert.Empty(t, f.submitter.cancelled)
}

func TestAct_ResolvesStatusAndDispatches(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	require.NoError(t, f.svc.Act(ctx, companyID, einvoice.ActionSubmit, invoiceID, "", ""))
	e := f.created(t)
	assert.Equal(t, entity.EInvoiceSubmitted, e.Status)

	// SUBMITTED no admite submit ni retry.
	assert.ErrorIs(t, f.svc.Act(ctx, companyID, einvoice.ActionSubmit, invoiceID, "", ""), domain.ErrActionNotAllowed)
	assert.ErrorIs(t, f.svc.Act(ctx, companyID, einvoice.ActionRetry, "", e.ID, ""), domain.ErrActionNotAllowed)

	f.submitter.details = &appeinvoice.DocumentDetails{Status: appeinvoice.RemoteValid, LongID: "L1"}
	require.NoError(t, f.svc.Act(ctx, companyID, einvoice.ActionSync, "", e.ID, ""))
	assert.Equal(t, entity.EInvoiceValid, f.einvoices.get(e.ID).Status)

	assert.ErrorIs(t, f.svc.Act(ctx, companyID, einvoice.ActionCancel, "", e.ID, ""), domain.ErrInvalidCancelReason)
	assert.ErrorIs(t, f.svc.Act(ctx, otherCo, einvoice.ActionSync, "", e.ID, ""), domain.ErrForbidden)
	assert.ErrorIs(t, f.svc.Act(ctx, companyID, einvoice.ActionSync, "", "", ""), domain.ErrInvalidInput)
}

func TestView(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	v, err := f.svc.ViewInvoice(ctx, companyID, invoiceID)
	require.NoError(t, err)
	assert.Nil(t, v.EInvoice)
	assert.Equal(t, []einvoice.Action{einvoice.ActionSubmit}, v.AllowedActions)
	assert.Nil(t, v.Countdown)
	assert.False(t, v.InFlight[einvoice.ActionSubmit])

	e := submitAndValidate(t, f)
	v, err = f.svc.View(ctx, companyID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EInvoiceValid, v.StatusInfo.Status)
	assert.Equal(t, []einvoice.Action{einvoice.ActionCancel}, v.AllowedActions)
	assert.Equal(t, []einvoice.Indicator{einvoice.IndicatorValidated}, v.Indicators)
	require.NotNil(t, v.Countdown)
	// validado a t0+10m, ahora t0+15m → quedan 71h55m
	assert.Equal(t, "2d 23h", v.Countdown.Display)
	assert.Equal(t, einvoice.TierNormal, v.Countdown.Tier)
	assert.Equal(t, portal+"/UUID-INV-001/share/LONG123", v.ValidationURL)

	_, err = f.svc.ViewInvoice(ctx, otherCo, invoiceID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSummaryAndExport(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	_ = submitAndValidate(t, f)

	sum, err := f.svc.Summary(ctx, companyID)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Total)
	assert.Equal(t, 1, sum.ByStatus[entity.EInvoiceValid])
	assert.Equal(t, 0, sum.ByStatus[entity.EInvoiceDraft])
	assert.Len(t, sum.ByStatus, len(entity.EInvoiceStatuses))

	content, name, err := f.svc.ExportRegister(ctx, repository.EInvoiceFilter{CompanyID: companyID})
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), content)
	assert.Equal(t, "einvoices_20240101.xlsx", name)
	require.Len(t, f.exporter.rows, 1)
	row := f.exporter.rows[0]
	assert.Equal(t, "INV-001", row.InvoiceNumber)
	assert.Equal(t, "Buyer Bhd", row.CustomerName)
	assert.Equal(t, "$1,080.00", row.GrandTotal)
	assert.Equal(t, "RM5,076.00", row.GrandTotalMYR)

	_, err = f.svc.List(ctx, repository.EInvoiceFilter{CompanyID: companyID, Status: "BOGUS"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
