package dto

import (
	"time"

	"github.com/jhoicas/myinvois-erp/internal/domain/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
)

// EInvoiceResponse e-Invoice en respuestas.
type EInvoiceResponse struct {
	ID            string                   `json:"id"`
	InvoiceID     string                   `json:"invoice_id"`
	Status        entity.EInvoiceStatus    `json:"status"`
	Type          string                   `json:"type"`
	UUID          string                   `json:"uuid,omitempty"`
	LongID        string                   `json:"long_id,omitempty"`
	SubmissionUID string                   `json:"submission_uid,omitempty"`
	DocumentHash  string                   `json:"document_hash,omitempty"`
	ValidatedAt   *time.Time               `json:"validated_at"`
	SubmittedAt   *time.Time               `json:"submitted_at,omitempty"`
	CancelReason  string                   `json:"cancel_reason,omitempty"`
	CancelledAt   *time.Time               `json:"cancelled_at,omitempty"`
	RetryCount    int                      `json:"retry_count"`
	Errors        []entity.ValidationError `json:"errors,omitempty"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// EInvoiceView estado completo para la pantalla de una factura: metadatos del
// estado, acciones habilitadas, cuenta regresiva y flags en curso.
// EInvoice es nil cuando la factura aún no tiene e-Invoice.
type EInvoiceView struct {
	InvoiceID      string                   `json:"invoice_id"`
	EInvoice       *EInvoiceResponse        `json:"einvoice"`
	StatusInfo     einvoice.StatusInfo      `json:"status_info"`
	AllowedActions []einvoice.Action        `json:"allowed_actions"`
	Indicators     []einvoice.Indicator     `json:"indicators,omitempty"`
	Countdown      *einvoice.Countdown      `json:"countdown,omitempty"`
	InFlight       map[einvoice.Action]bool `json:"in_flight"`
	ValidationURL  string                   `json:"validation_url,omitempty"`
}

// EInvoiceActionRequest body para POST /api/einvoices/actions.
// EInvoiceID vacío con action=submit crea el e-Invoice para InvoiceID.
type EInvoiceActionRequest struct {
	Action     string `json:"action" validate:"required,oneof=submit sync cancel retry"`
	InvoiceID  string `json:"invoice_id" validate:"omitempty,uuid"`
	EInvoiceID string `json:"einvoice_id" validate:"omitempty,uuid"`
	Reason     string `json:"reason,omitempty"`
}

// CancelEInvoiceRequest body para POST /api/einvoices/:id/cancel.
type CancelEInvoiceRequest struct {
	Reason string `json:"reason"`
}

// EInvoiceListRequest filtros de GET /api/einvoices.
type EInvoiceListRequest struct {
	PageRequest
	Status string `query:"status"`
	From   string `query:"from"` // YYYY-MM-DD
	To     string `query:"to"`
}

// EInvoiceListResponse lista paginada.
type EInvoiceListResponse struct {
	Items []EInvoiceResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// EInvoiceSummaryResponse conteo por estado para el tablero.
type EInvoiceSummaryResponse struct {
	Total    int                           `json:"total"`
	ByStatus map[entity.EInvoiceStatus]int `json:"by_status"`
}
