package einvoice

import (
	"context"
	"time"

	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
)

// DocumentInput datos frescos de la factura para construir el documento LHDN.
type DocumentInput struct {
	EInvoice *entity.EInvoice
	Invoice  *entity.Invoice
	Lines    []*entity.InvoiceLine
	Company  *entity.Company
	Customer *entity.Customer
	IssuedAt time.Time
}

// BuiltDocument documento listo para enviar: contenido canonicalizado y su SHA-256 (hex).
type BuiltDocument struct {
	Content     []byte
	Hash        string
	Format      string // "XML"
	ContentType string
}

// DocumentBuilder genera el documento UBL 2.1 de la factura.
type DocumentBuilder interface {
	Build(in *DocumentInput) (*BuiltDocument, error)
}

// SubmissionDocument documento enviado en un lote de MyInvois.
type SubmissionDocument struct {
	CodeNumber string // número interno de la factura
	Format     string
	Content    []byte
	Hash       string
}

// AcceptedDocument documento aceptado por MyInvois.
type AcceptedDocument struct {
	UUID       string
	CodeNumber string
}

// RejectedDocument documento rechazado en el envío.
type RejectedDocument struct {
	CodeNumber string
	Errors     []entity.ValidationError
}

// SubmissionResult respuesta de POST documentsubmissions.
type SubmissionResult struct {
	SubmissionUID string
	Accepted      []AcceptedDocument
	Rejected      []RejectedDocument
}

// Estados remotos de un documento en MyInvois.
const (
	RemoteSubmitted = "Submitted"
	RemoteValid     = "Valid"
	RemoteInvalid   = "Invalid"
	RemoteCancelled = "Cancelled"
)

// DocumentDetails estado remoto de un documento.
type DocumentDetails struct {
	UUID        string
	LongID      string
	Status      string // ver Remote*
	ValidatedAt *time.Time
	Errors      []entity.ValidationError
}

// Submitter puerto hacia la plataforma MyInvois (REST real o simulador de desarrollo).
type Submitter interface {
	Submit(ctx context.Context, doc SubmissionDocument) (*SubmissionResult, error)
	GetDocument(ctx context.Context, uuid string) (*DocumentDetails, error)
	Cancel(ctx context.Context, uuid, reason string) error
}

// Archive almacenamiento de los documentos enviados. Opcional.
type Archive interface {
	Put(ctx context.Context, key string, content []byte, contentType string) error
	URL(ctx context.Context, key string) (string, error)
}

// RegisterRow fila del registro de e-Invoices exportable.
type RegisterRow struct {
	EInvoice      *entity.EInvoice
	InvoiceNumber string
	InvoiceDate   time.Time
	CustomerName  string
	CustomerTIN   string
	CurrencyCode  string
	GrandTotal    string // ya formateado en la moneda de la factura
	GrandTotalMYR string
	ValidationURL string
}

// RegisterExporter serializa el registro (XLSX).
type RegisterExporter interface {
	Export(rows []RegisterRow) ([]byte, error)
}
