package einvoice_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
)

// recordingHandlers registra cada llamada. hook se ejecuta dentro del handler.
type recordingHandlers struct {
	mu    sync.Mutex
	calls []string
	args  [][]string
	err   error
	hook  func()
}

func (h *recordingHandlers) record(name string, args ...string) error {
	h.mu.Lock()
	h.calls = append(h.calls, name)
	h.args = append(h.args, args)
	hook := h.hook
	h.mu.Unlock()
	if hook != nil {
		hook()
	}
	return h.err
}

func (h *recordingHandlers) CreateAndSubmit(_ context.Context, invoiceID string) error {
	return h.record("create", invoiceID)
}
func (h *recordingHandlers) Submit(_ context.Context, id string) error { return h.record("submit", id) }
func (h *recordingHandlers) Sync(_ context.Context, id string) error   { return h.record("sync", id) }
func (h *recordingHandlers) Retry(_ context.Context, id string) error  { return h.record("retry", id) }
func (h *recordingHandlers) Cancel(_ context.Context, id, reason string) error {
	return h.record("cancel", id, reason)
}

const (
	invID = "inv-1"
	eID   = "ein-1"
)

func TestDispatch_RoutesExactlyOneHandler(t *testing.T) {
	tests := []struct {
		name     string
		req      appeinvoice.ActionRequest
		wantCall string
		wantArgs []string
	}{
		{"sin e-Invoice → create", appeinvoice.ActionRequest{Action: einvoice.ActionSubmit, Status: einvoice.NoEInvoice, InvoiceID: invID}, "create", []string{invID}},
		{"draft → submit", appeinvoice.ActionRequest{Action: einvoice.ActionSubmit, Status: entity.EInvoiceDraft, EInvoiceID: eID}, "submit", []string{eID}},
		{"pending → sync", appeinvoice.ActionRequest{Action: einvoice.ActionSync, Status: entity.EInvoicePending, EInvoiceID: eID}, "sync", []string{eID}},
		{"submitted → sync", appeinvoice.ActionRequest{Action: einvoice.ActionSync, Status: entity.EInvoiceSubmitted, EInvoiceID: eID}, "sync", []string{eID}},
		{"error → retry", appeinvoice.ActionRequest{Action: einvoice.ActionRetry, Status: entity.EInvoiceError, EInvoiceID: eID}, "retry", []string{eID}},
		{"invalid → retry", appeinvoice.ActionRequest{Action: einvoice.ActionRetry, Status: entity.EInvoiceInvalid, EInvoiceID: eID}, "retry", []string{eID}},
		{"valid → cancel", appeinvoice.ActionRequest{Action: einvoice.ActionCancel, Status: entity.EInvoiceValid, EInvoiceID: eID, Reason: "Customer requested"}, "cancel", []string{eID, "Customer requested"}},
		{"submitted → cancel", appeinvoice.ActionRequest{Action: einvoice.ActionCancel, Status: entity.EInvoiceSubmitted, EInvoiceID: eID, Reason: "  Wrong amount  "}, "cancel", []string{eID, "Wrong amount"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &recordingHandlers{}
			d := appeinvoice.NewDispatcher()
			require.NoError(t, d.Dispatch(context.Background(), h, tt.req))
			require.Equal(t, []string{tt.wantCall}, h.calls)
			assert.Equal(t, tt.wantArgs, h.args[0])
		})
	}
}

func TestDispatch_ActionNotAllowed(t *testing.T) {
	h := &recordingHandlers{}
	d := appeinvoice.NewDispatcher()
	cases := []appeinvoice.ActionRequest{
		{Action: einvoice.ActionCancel, Status: entity.EInvoiceDraft, EInvoiceID: eID, Reason: "x"},
		{Action: einvoice.ActionSync, Status: entity.EInvoiceValid, EInvoiceID: eID},
		{Action: einvoice.ActionRetry, Status: entity.EInvoiceCancelled, EInvoiceID: eID},
		{Action: einvoice.ActionSubmit, Status: entity.EInvoiceRejected, EInvoiceID: eID},
		{Action: einvoice.ActionSync, Status: einvoice.NoEInvoice, InvoiceID: invID},
	}
	for _, req := range cases {
		err := d.Dispatch(context.Background(), h, req)
		assert.ErrorIs(t, err, domain.ErrActionNotAllowed, "%s en %q", req.Action, req.Status)
	}
	assert.Empty(t, h.calls)
}

func TestDispatch_MissingLinkageIsNoop(t *testing.T) {
	h := &recordingHandlers{}
	d := appeinvoice.NewDispatcher()
	for _, req := range []appeinvoice.ActionRequest{
		{Action: einvoice.ActionSubmit, Status: entity.EInvoiceDraft},
		{Action: einvoice.ActionSync, Status: entity.EInvoiceSubmitted},
		{Action: einvoice.ActionCancel, Status: entity.EInvoiceValid, Reason: "ok"},
		{Action: einvoice.ActionRetry, Status: entity.EInvoiceError},
	} {
		assert.NoError(t, d.Dispatch(context.Background(), h, req))
	}
	assert.Empty(t, h.calls)

	err := d.Dispatch(context.Background(), h, appeinvoice.ActionRequest{Action: einvoice.ActionSubmit, Status: einvoice.NoEInvoice})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, h.calls)
}

func TestDispatch_CancelRequiresReason(t *testing.T) {
	h := &recordingHandlers{}
	d := appeinvoice.NewDispatcher()
	for _, reason := range []string{"", "   ", "\t\n"} {
		err := d.Dispatch(context.Background(), h, appeinvoice.ActionRequest{
			Action: einvoice.ActionCancel, Status: entity.EInvoiceValid, EInvoiceID: eID, Reason: reason,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidCancelReason)
	}
	assert.Empty(t, h.calls, "onCancel no debe llamarse con motivo vacío")

	err := d.Dispatch(context.Background(), h, appeinvoice.ActionRequest{
		Action: einvoice.ActionCancel, Status: entity.EInvoiceValid, EInvoiceID: eID, Reason: "Customer requested",
	})
	require.NoError(t, err)
	require.Len(t, h.calls, 1)
	assert.Equal(t, []string{eID, "Customer requested"}, h.args[0])
}

func TestDispatch_InFlightClearsOnError(t *testing.T) {
	boom := errors.New("network down")
	d := appeinvoice.NewDispatcher()
	var during bool
	h := &recordingHandlers{err: boom}
	h.hook = func() { during = d.InFlight(eID, einvoice.ActionSync) }

	err := d.Dispatch(context.Background(), h, appeinvoice.ActionRequest{
		Action: einvoice.ActionSync, Status: entity.EInvoiceSubmitted, EInvoiceID: eID,
	})
	assert.Same(t, boom, err, "el error del handler se propaga sin transformar")
	assert.True(t, during, "el flag está activo durante la llamada")
	assert.False(t, d.InFlight(eID, einvoice.ActionSync), "el flag se limpia tras el rechazo")
}

func TestDispatch_InFlightClearsOnPanic(t *testing.T) {
	d := appeinvoice.NewDispatcher()
	h := &recordingHandlers{hook: func() { panic("handler roto") }}

	assert.Panics(t, func() {
		_ = d.Dispatch(context.Background(), h, appeinvoice.ActionRequest{
			Action: einvoice.ActionRetry, Status: entity.EInvoiceError, EInvoiceID: eID,
		})
	})
	assert.False(t, d.InFlight(eID, einvoice.ActionRetry))
}

func TestDispatch_RejectsConcurrentSameAction(t *testing.T) {
	d := appeinvoice.NewDispatcher()
	entered := make(chan struct{})
	release := make(chan struct{})
	h := &recordingHandlers{hook: func() {
		close(entered)
		<-release
	}}
	req := appeinvoice.ActionRequest{Action: einvoice.ActionSync, Status: entity.EInvoicePending, EInvoiceID: eID}

	done := make(chan error, 1)
	go func() { done <- d.Dispatch(context.Background(), h, req) }()
	<-entered

	err := d.Dispatch(context.Background(), &recordingHandlers{}, req)
	assert.ErrorIs(t, err, domain.ErrActionInFlight)
	flags := d.InFlightActions(eID)
	assert.True(t, flags[einvoice.ActionSync])
	assert.False(t, flags[einvoice.ActionCancel])

	// Otra acción sobre la misma entidad no queda bloqueada.
	other := &recordingHandlers{}
	require.NoError(t, d.Dispatch(context.Background(), other, appeinvoice.ActionRequest{
		Action: einvoice.ActionCancel, Status: entity.EInvoiceSubmitted, EInvoiceID: eID, Reason: "duplicado",
	}))
	assert.Equal(t, []string{"cancel"}, other.calls)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, d.InFlight(eID, einvoice.ActionSync))
}

func TestActionRequestKey(t *testing.T) {
	assert.Equal(t, eID, appeinvoice.ActionRequest{InvoiceID: invID, EInvoiceID: eID}.Key())
	assert.Equal(t, appeinvoice.InvoiceKey(invID), appeinvoice.ActionRequest{InvoiceID: invID}.Key())
}
