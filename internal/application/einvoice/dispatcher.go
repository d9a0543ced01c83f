package einvoice

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
)

// Handlers operaciones del ciclo de vida que el Dispatcher enruta.
// Service las implementa por tenant (ver Service.HandlersFor).
type Handlers interface {
	CreateAndSubmit(ctx context.Context, invoiceID string) error
	Submit(ctx context.Context, eInvoiceID string) error
	Sync(ctx context.Context, eInvoiceID string) error
	Retry(ctx context.Context, eInvoiceID string) error
	Cancel(ctx context.Context, eInvoiceID, reason string) error
}

// ActionRequest acción pedida por el usuario. Status es el estado actual del
// e-Invoice o einvoice.NoEInvoice si la factura aún no tiene uno.
type ActionRequest struct {
	Action     einvoice.Action
	Status     entity.EInvoiceStatus
	InvoiceID  string
	EInvoiceID string
	Reason     string
}

// Key identifica la entidad sobre la que se marca la acción en curso.
func (r ActionRequest) Key() string {
	if r.EInvoiceID != "" {
		return r.EInvoiceID
	}
	return InvoiceKey(r.InvoiceID)
}

// InvoiceKey clave de en-curso para una factura sin e-Invoice.
func InvoiceKey(invoiceID string) string {
	return "invoice:" + invoiceID
}

type flagKey struct {
	entity string
	action einvoice.Action
}

// Dispatcher enruta cada acción a un único handler y mantiene un flag en curso
// por (entidad, acción). El flag se libera con defer en cualquier salida,
// incluido un panic del handler. No reintenta ni agrega timeouts.
type Dispatcher struct {
	mu       sync.Mutex
	inFlight map[flagKey]struct{}
}

// NewDispatcher crea un dispatcher sin acciones en curso.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{inFlight: make(map[flagKey]struct{})}
}

// Dispatch valida la acción contra la política y llama al handler correspondiente.
//
//   - acción no habilitada para el estado: domain.ErrActionNotAllowed
//   - submit sin e-Invoice y sin InvoiceID: domain.ErrInvalidInput
//   - resto de acciones sin EInvoiceID: no-op (nil)
//   - cancel con motivo inválido: domain.ErrInvalidCancelReason, sin llamar al handler
//   - misma acción ya en curso para la entidad: domain.ErrActionInFlight
//
// Los errores del handler se devuelven sin transformar.
func (d *Dispatcher) Dispatch(ctx context.Context, h Handlers, req ActionRequest) error {
	if !einvoice.IsAllowed(req.Status, req.Action) {
		return fmt.Errorf("%w: %s en estado %q", domain.ErrActionNotAllowed, req.Action, req.Status)
	}

	create := req.Status == einvoice.NoEInvoice
	if create {
		if req.InvoiceID == "" {
			return fmt.Errorf("%w: invoice_id es obligatorio para crear el e-Invoice", domain.ErrInvalidInput)
		}
	} else if req.EInvoiceID == "" {
		return nil
	}

	reason := req.Reason
	if req.Action == einvoice.ActionCancel {
		r, err := einvoice.ValidateCancelReason(req.Reason)
		if err != nil {
			return err
		}
		reason = r
	}

	release, err := d.acquire(req.Key(), req.Action)
	if err != nil {
		return err
	}
	defer release()

	switch {
	case create:
		return h.CreateAndSubmit(ctx, req.InvoiceID)
	case req.Action == einvoice.ActionSubmit:
		return h.Submit(ctx, req.EInvoiceID)
	case req.Action == einvoice.ActionSync:
		return h.Sync(ctx, req.EInvoiceID)
	case req.Action == einvoice.ActionRetry:
		return h.Retry(ctx, req.EInvoiceID)
	case req.Action == einvoice.ActionCancel:
		return h.Cancel(ctx, req.EInvoiceID, reason)
	}
	return fmt.Errorf("%w: acción desconocida %q", domain.ErrInvalidInput, req.Action)
}

func (d *Dispatcher) acquire(key string, a einvoice.Action) (func(), error) {
	k := flagKey{entity: key, action: a}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, busy := d.inFlight[k]; busy {
		return nil, fmt.Errorf("%w: %s", domain.ErrActionInFlight, a)
	}
	d.inFlight[k] = struct{}{}
	return func() {
		d.mu.Lock()
		delete(d.inFlight, k)
		d.mu.Unlock()
	}, nil
}

// InFlight informa si la acción está en curso para la entidad.
func (d *Dispatcher) InFlight(key string, a einvoice.Action) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.inFlight[flagKey{entity: key, action: a}]
	return ok
}

// InFlightActions flags de todas las acciones para la entidad (false incluidas).
func (d *Dispatcher) InFlightActions(key string) map[einvoice.Action]bool {
	out := map[einvoice.Action]bool{
		einvoice.ActionSubmit: false,
		einvoice.ActionSync:   false,
		einvoice.ActionCancel: false,
		einvoice.ActionRetry:  false,
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for a := range out {
		if _, ok := d.inFlight[flagKey{entity: key, action: a}]; ok {
			out[a] = true
		}
	}
	return out
}
