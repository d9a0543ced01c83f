package einvoice

import "github.com/jhoicas/myinvois-erp/internal/domain/entity"

// Action acción iniciada por el usuario sobre un e-Invoice.
type Action string

const (
	ActionSubmit Action = "submit"
	ActionSync   Action = "sync"
	ActionCancel Action = "cancel"
	ActionRetry  Action = "retry"
)

// ParseAction valida el nombre de la acción.
func ParseAction(s string) (Action, bool) {
	switch a := Action(s); a {
	case ActionSubmit, ActionSync, ActionCancel, ActionRetry:
		return a, true
	}
	return "", false
}

// Indicator marca solo informativa (sin acción asociada).
type Indicator string

const (
	IndicatorValidated Indicator = "validated"
	IndicatorCancelled Indicator = "cancelled"
)

// NoEInvoice representa la ausencia de e-Invoice para la factura comercial.
const NoEInvoice entity.EInvoiceStatus = ""

var allowedActions = map[entity.EInvoiceStatus][]Action{
	NoEInvoice:               {ActionSubmit},
	entity.EInvoiceDraft:     {ActionSubmit},
	entity.EInvoicePending:   {ActionSync},
	entity.EInvoiceSubmitted: {ActionSync, ActionCancel},
	entity.EInvoiceValid:     {ActionCancel},
	entity.EInvoiceInvalid:   {ActionRetry},
	entity.EInvoiceError:     {ActionRetry},
	entity.EInvoiceCancelled: nil,
	entity.EInvoiceRejected:  nil,
}

// AllowedActions acciones habilitadas para el estado (NoEInvoice = sin e-Invoice).
func AllowedActions(s entity.EInvoiceStatus) []Action {
	out := make([]Action, len(allowedActions[s]))
	copy(out, allowedActions[s])
	return out
}

// IsAllowed informa si a está habilitada para s.
func IsAllowed(s entity.EInvoiceStatus, a Action) bool {
	for _, x := range allowedActions[s] {
		if x == a {
			return true
		}
	}
	return false
}

// Indicators marcas informativas para el estado.
func Indicators(s entity.EInvoiceStatus) []Indicator {
	switch s {
	case entity.EInvoiceValid:
		return []Indicator{IndicatorValidated}
	case entity.EInvoiceCancelled:
		return []Indicator{IndicatorCancelled}
	}
	return nil
}
