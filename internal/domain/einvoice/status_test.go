package einvoice_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
)

func TestCanTransition_Tabla(t *testing.T) {
	allowed := map[entity.EInvoiceStatus][]entity.EInvoiceStatus{
		entity.EInvoiceDraft:     {entity.EInvoicePending, entity.EInvoiceSubmitted, entity.EInvoiceRejected, entity.EInvoiceError},
		entity.EInvoicePending:   {entity.EInvoiceSubmitted, entity.EInvoiceValid, entity.EInvoiceInvalid, entity.EInvoiceRejected, entity.EInvoiceError},
		entity.EInvoiceSubmitted: {entity.EInvoiceValid, entity.EInvoiceInvalid, entity.EInvoiceCancelled},
		entity.EInvoiceValid:     {entity.EInvoiceCancelled},
		entity.EInvoiceInvalid:   {entity.EInvoicePending, entity.EInvoiceSubmitted, entity.EInvoiceRejected, entity.EInvoiceError},
		entity.EInvoiceError:     {entity.EInvoicePending, entity.EInvoiceSubmitted, entity.EInvoiceRejected, entity.EInvoiceError},
	}
	for _, from := range entity.EInvoiceStatuses {
		for _, to := range entity.EInvoiceStatuses {
			want := false
			for _, x := range allowed[from] {
				if x == to {
					want = true
				}
			}
			assert.Equal(t, want, einvoice.CanTransition(from, to), "%s → %s", from, to)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, s := range entity.EInvoiceStatuses {
		want := s == entity.EInvoiceCancelled || s == entity.EInvoiceRejected
		assert.Equal(t, want, einvoice.IsTerminal(s), s)
		assert.Equal(t, want, einvoice.Info(s).Terminal, s)
	}
}

func TestInfo_TodosLosEstadosTienenMetadatos(t *testing.T) {
	for _, s := range entity.EInvoiceStatuses {
		info := einvoice.Info(s)
		assert.Equal(t, s, info.Status)
		assert.NotEmpty(t, info.Label)
		assert.NotEmpty(t, info.Color)
		assert.NotEmpty(t, info.Description)
	}
	assert.Equal(t, "FOO", einvoice.Info("FOO").Label)
}

func TestTransition_ValidatedAtSeFijaUnaVez(t *testing.T) {
	first := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	e := &entity.EInvoice{Status: entity.EInvoicePending}

	require.NoError(t, einvoice.Transition(e, entity.EInvoiceValid, first))
	require.NotNil(t, e.ValidatedAt)
	assert.True(t, e.ValidatedAt.Equal(first))

	require.NoError(t, einvoice.Transition(e, entity.EInvoiceCancelled, first.Add(time.Hour)))
	assert.True(t, e.ValidatedAt.Equal(first), "validatedAt no cambia después de VALID")
}

func TestTransition_AristaInvalida(t *testing.T) {
	e := &entity.EInvoice{Status: entity.EInvoiceCancelled}
	err := einvoice.Transition(e, entity.EInvoiceValid, time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, entity.EInvoiceCancelled, e.Status)
}
