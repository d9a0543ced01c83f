package einvoice

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
)

// CancellationWindow plazo de LHDN para cancelar un documento validado.
const CancellationWindow = 72 * time.Hour

// MaxCancelReasonLength longitud máxima del motivo (en caracteres).
const MaxCancelReasonLength = 500

const (
	criticalThreshold = 4 * time.Hour
	warningThreshold  = 24 * time.Hour
)

// Tier urgencia del tiempo restante para cancelar.
type Tier string

const (
	TierNormal   Tier = "normal"
	TierWarning  Tier = "warning"
	TierCritical Tier = "critical"
	TierExpired  Tier = "expired"
)

const (
	ExpiredDisplay = "Expired"
	ExpiredLabel   = "Cancellation window closed"
	RemainingLabel = "left to cancel"
)

// Countdown estado derivado de la ventana de cancelación; no se persiste.
type Countdown struct {
	Deadline  time.Time     `json:"deadline"`
	Remaining time.Duration `json:"-"`
	Tier      Tier          `json:"tier"`
	Display   string        `json:"display"`
	Label     string        `json:"label"`
}

// Deadline = validatedAt + 72h.
func Deadline(validatedAt time.Time) time.Time {
	return validatedAt.Add(CancellationWindow)
}

// TierFor clasifica remaining en intervalos semiabiertos: ≤0, ≤4h, ≤24h, resto.
func TierFor(remaining time.Duration) Tier {
	switch {
	case remaining <= 0:
		return TierExpired
	case remaining <= criticalThreshold:
		return TierCritical
	case remaining <= warningThreshold:
		return TierWarning
	default:
		return TierNormal
	}
}

// FormatRemaining: "{d}d {h}h", "{h}h {m}m" o "{m}m", siempre truncando.
func FormatRemaining(remaining time.Duration) string {
	if remaining <= 0 {
		return ExpiredDisplay
	}
	hours := int64(remaining / time.Hour)
	minutes := int64((remaining % time.Hour) / time.Minute)
	switch {
	case hours >= 24:
		return fmt.Sprintf("%dd %dh", hours/24, hours%24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// HasCountdown indica si la cuenta regresiva aplica.
func HasCountdown(validatedAt *time.Time, status entity.EInvoiceStatus) bool {
	return validatedAt != nil && (status == entity.EInvoiceValid || status == entity.EInvoiceSubmitted)
}

// ComputeCountdown calcula la cuenta regresiva en now. ok=false cuando no aplica
// (estado distinto de VALID/SUBMITTED o sin validatedAt).
func ComputeCountdown(validatedAt *time.Time, status entity.EInvoiceStatus, now time.Time) (Countdown, bool) {
	if !HasCountdown(validatedAt, status) {
		return Countdown{}, false
	}
	deadline := Deadline(*validatedAt)
	remaining := deadline.Sub(now)
	tier := TierFor(remaining)
	c := Countdown{
		Deadline:  deadline,
		Remaining: remaining,
		Tier:      tier,
		Display:   FormatRemaining(remaining),
		Label:     RemainingLabel,
	}
	if tier == TierExpired {
		c.Remaining = 0
		c.Label = ExpiredLabel
	}
	return c, true
}

// WithinWindow indica si aún se puede cancelar en now.
func WithinWindow(validatedAt time.Time, now time.Time) bool {
	return now.Before(Deadline(validatedAt))
}

// ValidateCancelReason exige texto no vacío tras recortar y como máximo 500 caracteres.
// Devuelve el motivo recortado.
func ValidateCancelReason(reason string) (string, error) {
	r := strings.TrimSpace(reason)
	if r == "" {
		return "", fmt.Errorf("%w: el motivo es obligatorio", domain.ErrInvalidCancelReason)
	}
	if utf8.RuneCountInString(r) > MaxCancelReasonLength {
		return "", fmt.Errorf("%w: máximo %d caracteres", domain.ErrInvalidCancelReason, MaxCancelReasonLength)
	}
	return r, nil
}
