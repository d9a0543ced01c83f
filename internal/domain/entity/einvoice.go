package entity

import "time"

// EInvoiceStatus estado del documento ante LHDN.
type EInvoiceStatus string

const (
	EInvoiceDraft     EInvoiceStatus = "DRAFT"
	EInvoicePending   EInvoiceStatus = "PENDING"
	EInvoiceSubmitted EInvoiceStatus = "SUBMITTED"
	EInvoiceValid     EInvoiceStatus = "VALID"
	EInvoiceInvalid   EInvoiceStatus = "INVALID"
	EInvoiceCancelled EInvoiceStatus = "CANCELLED"
	EInvoiceRejected  EInvoiceStatus = "REJECTED"
	EInvoiceError     EInvoiceStatus = "ERROR"
)

// EInvoiceStatuses todos los estados en orden de ciclo de vida.
var EInvoiceStatuses = []EInvoiceStatus{
	EInvoiceDraft, EInvoicePending, EInvoiceSubmitted, EInvoiceValid,
	EInvoiceInvalid, EInvoiceCancelled, EInvoiceRejected, EInvoiceError,
}

// IsValid indica si s es un estado conocido.
func (s EInvoiceStatus) IsValid() bool {
	for _, st := range EInvoiceStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// ValidationError error devuelto por MyInvois o por la validación local.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Target  string `json:"target,omitempty"`
}

// EInvoice representación electrónica de una factura comercial ante LHDN.
type EInvoice struct {
	ID            string
	CompanyID     string
	InvoiceID     string
	Status        EInvoiceStatus
	Type          string     // ver lhdn.DocType*
	UUID          string     // asignado por MyInvois al aceptar el documento
	LongID        string     // asignado al validar; forma parte de la URL pública
	SubmissionUID string
	DocumentHash  string     // SHA-256 del documento canonicalizado
	ArchiveKey    string     // objeto en el archivo S3/MinIO
	ValidatedAt   *time.Time // se fija una sola vez al pasar a VALID
	CancelReason  string
	CancelledAt   *time.Time
	Errors        []ValidationError
	RetryCount    int
	SubmittedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsActive indica si el e-Invoice bloquea la creación de otro para la misma factura.
func (e *EInvoice) IsActive() bool {
	return e.Status != EInvoiceCancelled && e.Status != EInvoiceRejected
}
