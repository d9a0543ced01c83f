// Package einvoice contiene las reglas del ciclo de vida del e-Invoice LHDN:
// transiciones de estado, acciones permitidas y ventana de cancelación.
// No tiene dependencias de infraestructura.
package einvoice

import (
	"fmt"
	"time"

	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
)

// StatusInfo metadatos de presentación de un estado.
type StatusInfo struct {
	Status      entity.EInvoiceStatus `json:"status"`
	Label       string                `json:"label"`
	Color       string                `json:"color"`
	Description string                `json:"description"`
	Terminal    bool                  `json:"terminal"`
}

var statusInfo = map[entity.EInvoiceStatus]StatusInfo{
	entity.EInvoiceDraft:     {Label: "Draft", Color: "gray", Description: "Creado localmente, aún no enviado a LHDN"},
	entity.EInvoicePending:   {Label: "Pending", Color: "yellow", Description: "Envío en proceso"},
	entity.EInvoiceSubmitted: {Label: "Submitted", Color: "blue", Description: "Aceptado por MyInvois, validación pendiente"},
	entity.EInvoiceValid:     {Label: "Valid", Color: "green", Description: "Validado por LHDN"},
	entity.EInvoiceInvalid:   {Label: "Invalid", Color: "red", Description: "LHDN encontró errores de validación"},
	entity.EInvoiceCancelled: {Label: "Cancelled", Color: "gray", Description: "Cancelado dentro de la ventana de 72 horas", Terminal: true},
	entity.EInvoiceRejected:  {Label: "Rejected", Color: "red", Description: "Documento rechazado en el envío", Terminal: true},
	entity.EInvoiceError:     {Label: "Error", Color: "orange", Description: "Fallo de comunicación o de generación; puede reintentarse"},
}

// Info devuelve los metadatos del estado. Para estados desconocidos Label = string(s).
func Info(s entity.EInvoiceStatus) StatusInfo {
	info, ok := statusInfo[s]
	if !ok {
		return StatusInfo{Status: s, Label: string(s), Color: "gray"}
	}
	info.Status = s
	return info
}

// IsTerminal indica si el estado no admite más transiciones.
func IsTerminal(s entity.EInvoiceStatus) bool {
	return len(transitions[s]) == 0
}

// retryTargets destinos válidos desde INVALID y ERROR.
var retryTargets = []entity.EInvoiceStatus{
	entity.EInvoicePending, entity.EInvoiceSubmitted, entity.EInvoiceRejected, entity.EInvoiceError,
}

var transitions = map[entity.EInvoiceStatus][]entity.EInvoiceStatus{
	entity.EInvoiceDraft:     {entity.EInvoicePending, entity.EInvoiceSubmitted, entity.EInvoiceRejected, entity.EInvoiceError},
	entity.EInvoicePending:   {entity.EInvoiceSubmitted, entity.EInvoiceValid, entity.EInvoiceInvalid, entity.EInvoiceRejected, entity.EInvoiceError},
	entity.EInvoiceSubmitted: {entity.EInvoiceValid, entity.EInvoiceInvalid, entity.EInvoiceCancelled},
	entity.EInvoiceValid:     {entity.EInvoiceCancelled},
	entity.EInvoiceInvalid:   retryTargets,
	entity.EInvoiceError:     retryTargets,
	entity.EInvoiceCancelled: nil,
	entity.EInvoiceRejected:  nil,
}

// CanTransition informa si from → to es una arista del ciclo de vida.
func CanTransition(from, to entity.EInvoiceStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// NextStatuses destinos posibles desde s.
func NextStatuses(s entity.EInvoiceStatus) []entity.EInvoiceStatus {
	out := make([]entity.EInvoiceStatus, len(transitions[s]))
	copy(out, transitions[s])
	return out
}

// Transition aplica to sobre e si la arista existe. Al entrar en VALID fija
// ValidatedAt con at solo si aún no tenía valor.
func Transition(e *entity.EInvoice, to entity.EInvoiceStatus, at time.Time) error {
	if !CanTransition(e.Status, to) {
		return fmt.Errorf("%w: %s → %s", domain.ErrInvalidTransition, e.Status, to)
	}
	e.Status = to
	if to == entity.EInvoiceValid && e.ValidatedAt == nil {
		v := at.UTC()
		e.ValidatedAt = &v
	}
	return nil
}
