package einvoice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
)

type countdownUpdate struct {
	c  einvoice.Countdown
	ok bool
}

func collector() (chan countdownUpdate, appeinvoice.CountdownFunc) {
	ch := make(chan countdownUpdate, 16)
	return ch, func(c einvoice.Countdown, ok bool) { ch <- countdownUpdate{c, ok} }
}

func next(t *testing.T, ch chan countdownUpdate) countdownUpdate {
	t.Helper()
	select {
	case u := <-ch:
		return u
	case <-time.After(2 * time.Second):
		t.Fatal("sin recálculo de la cuenta regresiva")
		return countdownUpdate{}
	}
}

func TestCountdownWatcher_TicksAndStops(t *testing.T) {
	validatedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewFake(time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC))
	ch, fn := collector()

	w := appeinvoice.StartCountdownWatcher(context.Background(), clk, time.Minute, &validatedAt, entity.EInvoiceValid, fn)

	first := next(t, ch)
	require.True(t, first.ok)
	assert.Equal(t, "12h 0m", first.c.Display)
	assert.Equal(t, einvoice.TierWarning, first.c.Tier)
	assert.Equal(t, 1, clk.ActiveTickers())

	clk.Advance(time.Minute)
	u := next(t, ch)
	assert.Equal(t, "11h 59m", u.c.Display)

	cur, ok := w.Current()
	require.True(t, ok)
	assert.Equal(t, "11h 59m", cur.Display)

	w.Stop()
	w.Stop()
	assert.Equal(t, 0, clk.ActiveTickers(), "Stop libera el ticker")
}

func TestCountdownWatcher_UpdateRecomputesImmediately(t *testing.T) {
	validatedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewFake(validatedAt.Add(68 * time.Hour))
	ch, fn := collector()

	w := appeinvoice.StartCountdownWatcher(context.Background(), clk, time.Minute, &validatedAt, entity.EInvoiceValid, fn)
	defer w.Stop()

	first := next(t, ch)
	require.True(t, first.ok)
	assert.Equal(t, einvoice.TierCritical, first.c.Tier)

	// Mismas entradas: no hay recálculo extra.
	same := validatedAt
	w.Update(&same, entity.EInvoiceValid)

	// VALID → CANCELLED suprime la cuenta regresiva sin esperar el tick.
	w.Update(&validatedAt, entity.EInvoiceCancelled)
	u := next(t, ch)
	assert.False(t, u.ok)
	assert.Len(t, ch, 0)

	_, ok := w.Current()
	assert.False(t, ok)
}

func TestCountdownWatcher_NoOutputWithoutValidatedAt(t *testing.T) {
	clk := clock.NewFake(time.Now())
	ch, fn := collector()
	w := appeinvoice.StartCountdownWatcher(context.Background(), clk, 0, nil, entity.EInvoiceSubmitted, fn)
	defer w.Stop()

	assert.False(t, next(t, ch).ok)

	v := clk.Now().Add(-time.Hour)
	w.Update(&v, entity.EInvoiceSubmitted)
	u := next(t, ch)
	require.True(t, u.ok)
	assert.Equal(t, "2d 23h", u.c.Display)
}

func TestCountdownWatcher_ContextCancelReleasesTicker(t *testing.T) {
	clk := clock.NewFake(time.Now())
	ctx, cancel := context.WithCancel(context.Background())
	w := appeinvoice.StartCountdownWatcher(ctx, clk, time.Minute, nil, entity.EInvoiceDraft, nil)

	cancel()
	require.Eventually(t, func() bool { return clk.ActiveTickers() == 0 }, 2*time.Second, 5*time.Millisecond)
	w.Stop()
}

func TestCountdownWatcher_Expires(t *testing.T) {
	validatedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewFake(validatedAt.Add(72*time.Hour - time.Minute))
	ch, fn := collector()
	w := appeinvoice.StartCountdownWatcher(context.Background(), clk, time.Minute, &validatedAt, entity.EInvoiceValid, fn)
	defer w.Stop()

	assert.Equal(t, "1m", next(t, ch).c.Display)
	clk.Advance(time.Minute)
	u := next(t, ch)
	require.True(t, u.ok)
	assert.Equal(t, einvoice.TierExpired, u.c.Tier)
	assert.Equal(t, einvoice.ExpiredDisplay, u.c.Display)
	assert.Equal(t, einvoice.ExpiredLabel, u.c.Label)
}
