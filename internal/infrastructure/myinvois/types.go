package myinvois

import (
	"fmt"
	"time"
)

// ── Identity ─────────────────────────────────────────────────────────────────

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // segundos
	TokenType   string `json:"token_type"`
}

// ── Submit documents ─────────────────────────────────────────────────────────

type submitRequest struct {
	Documents []submitDocument `json:"documents"`
}

type submitDocument struct {
	Format       string `json:"format"`
	Document     string `json:"document"` // Base64
	DocumentHash string `json:"documentHash"`
	CodeNumber   string `json:"codeNumber"`
}

type submitResponse struct {
	SubmissionUID     string             `json:"submissionUid"`
	AcceptedDocuments []acceptedDocument `json:"acceptedDocuments"`
	RejectedDocuments []rejectedDocument `json:"rejectedDocuments"`
}

type acceptedDocument struct {
	UUID              string `json:"uuid"`
	InvoiceCodeNumber string `json:"invoiceCodeNumber"`
}

type rejectedDocument struct {
	InvoiceCodeNumber string   `json:"invoiceCodeNumber"`
	Error             apiError `json:"error"`
}

// apiError estructura estándar de error de MyInvois.
type apiError struct {
	Code    string     `json:"code"`
	Message string     `json:"message"`
	Target  string     `json:"target"`
	Details []apiError `json:"details"`
}

// ── Document details ─────────────────────────────────────────────────────────

type documentDetails struct {
	UUID              string             `json:"uuid"`
	SubmissionUID     string             `json:"submissionUid"`
	LongID            string             `json:"longId"`
	InternalID        string             `json:"internalId"`
	Status            string             `json:"status"`
	DateTimeValidated *time.Time         `json:"dateTimeValidated"`
	ValidationResults *validationResults `json:"validationResults"`
}

type validationResults struct {
	Status          string           `json:"status"`
	ValidationSteps []validationStep `json:"validationSteps"`
}

type validationStep struct {
	Status string     `json:"status"`
	Name   string     `json:"name"`
	Error  *stepError `json:"error"`
}

type stepError struct {
	PropertyName string      `json:"propertyName"`
	PropertyPath string      `json:"propertyPath"`
	ErrorCode    string      `json:"errorCode"`
	Error        string      `json:"error"`
	InnerError   []stepError `json:"innerError"`
}

// ── Cancel ───────────────────────────────────────────────────────────────────

type stateRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// APIError respuesta HTTP no exitosa del API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("myinvois: HTTP %d [%s]: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("myinvois: HTTP %d: %s", e.StatusCode, e.Message)
}
