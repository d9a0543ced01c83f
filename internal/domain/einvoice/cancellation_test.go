package einvoice_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return v
}

func TestDeadline_72Horas(t *testing.T) {
	validatedAt := mustTime(t, "2024-01-01T00:00:00Z")
	now := mustTime(t, "2024-01-03T12:00:00Z")

	assert.True(t, einvoice.Deadline(validatedAt).Equal(mustTime(t, "2024-01-04T00:00:00Z")))

	c, ok := einvoice.ComputeCountdown(&validatedAt, entity.EInvoiceValid, now)
	require.True(t, ok)
	assert.Equal(t, 12*time.Hour, c.Remaining)
	assert.Equal(t, "12h 0m", c.Display)
	assert.Equal(t, einvoice.TierWarning, c.Tier)
}

func TestTierFor_Limites(t *testing.T) {
	cases := []struct {
		remaining time.Duration
		want      einvoice.Tier
	}{
		{-time.Hour, einvoice.TierExpired},
		{0, einvoice.TierExpired},
		{time.Millisecond, einvoice.TierCritical},
		{4 * time.Hour, einvoice.TierCritical},
		{4*time.Hour + time.Millisecond, einvoice.TierWarning},
		{24 * time.Hour, einvoice.TierWarning},
		{24*time.Hour + time.Millisecond, einvoice.TierNormal},
		{72 * time.Hour, einvoice.TierNormal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, einvoice.TierFor(tc.remaining), tc.remaining.String())
	}
}

func TestComputeCountdown_68HorasEsCritico(t *testing.T) {
	now := mustTime(t, "2024-02-10T10:00:00Z")
	validatedAt := now.Add(-68 * time.Hour)

	c, ok := einvoice.ComputeCountdown(&validatedAt, entity.EInvoiceSubmitted, now)
	require.True(t, ok)
	assert.Equal(t, 4*time.Hour, c.Remaining)
	assert.Equal(t, einvoice.TierCritical, c.Tier)
	assert.Equal(t, "4h 0m", c.Display)
}

func TestComputeCountdown_Suprimido(t *testing.T) {
	now := mustTime(t, "2024-01-02T00:00:00Z")
	validatedAt := mustTime(t, "2024-01-01T00:00:00Z")

	for _, s := range entity.EInvoiceStatuses {
		if s == entity.EInvoiceValid || s == entity.EInvoiceSubmitted {
			continue
		}
		for _, at := range []time.Time{validatedAt, now, now.Add(100 * time.Hour)} {
			at := at
			_, ok := einvoice.ComputeCountdown(&at, s, now)
			assert.False(t, ok, "estado %s no debe mostrar cuenta regresiva", s)
		}
	}
	_, ok := einvoice.ComputeCountdown(nil, entity.EInvoiceValid, now)
	assert.False(t, ok, "sin validatedAt no hay cuenta regresiva")
}

func TestComputeCountdown_Expirado(t *testing.T) {
	validatedAt := mustTime(t, "2024-01-01T00:00:00Z")
	c, ok := einvoice.ComputeCountdown(&validatedAt, entity.EInvoiceValid, mustTime(t, "2024-01-05T00:00:00Z"))
	require.True(t, ok)
	assert.Equal(t, einvoice.TierExpired, c.Tier)
	assert.Equal(t, "Expired", c.Display)
	assert.Equal(t, "Cancellation window closed", c.Label)
	assert.Zero(t, c.Remaining)
}

func TestFormatRemaining(t *testing.T) {
	cases := []struct {
		d    time.Duration
		want string
	}{
		{71*time.Hour + 59*time.Minute, "2d 23h"},
		{24 * time.Hour, "1d 0h"},
		{23*time.Hour + 59*time.Minute + 59*time.Second, "23h 59m"},
		{time.Hour, "1h 0m"},
		{59*time.Minute + 59*time.Second, "59m"},
		{30 * time.Second, "0m"},
		{0, "Expired"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, einvoice.FormatRemaining(tc.d), tc.d.String())
	}
}

func TestWithinWindow(t *testing.T) {
	validatedAt := mustTime(t, "2024-01-01T00:00:00Z")
	assert.True(t, einvoice.WithinWindow(validatedAt, validatedAt.Add(72*time.Hour-time.Second)))
	assert.False(t, einvoice.WithinWindow(validatedAt, validatedAt.Add(72*time.Hour)))
}

func TestValidateCancelReason(t *testing.T) {
	for _, r := range []string{"", "   ", "\t\n"} {
		_, err := einvoice.ValidateCancelReason(r)
		assert.ErrorIs(t, err, domain.ErrInvalidCancelReason, "%q", r)
	}

	r, err := einvoice.ValidateCancelReason("  Customer requested ")
	require.NoError(t, err)
	assert.Equal(t, "Customer requested", r)

	_, err = einvoice.ValidateCancelReason(strings.Repeat("á", 500))
	assert.NoError(t, err, "500 caracteres multibyte son válidos")

	_, err = einvoice.ValidateCancelReason(strings.Repeat("a", 501))
	assert.ErrorIs(t, err, domain.ErrInvalidCancelReason)
}
