package einvoice

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/myinvois-erp/internal/domain/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
)

// DefaultCountdownTick cadencia de recálculo de la cuenta regresiva.
const DefaultCountdownTick = time.Minute

// CountdownFunc recibe cada recálculo. ok=false significa que no hay cuenta
// regresiva que mostrar. No debe llamar a Stop.
type CountdownFunc func(c einvoice.Countdown, ok bool)

// CountdownWatcher recalcula la cuenta regresiva de cancelación en cada tick y
// de inmediato cuando cambian validatedAt o status. Es dueño de su ticker:
// Stop o la cancelación del contexto lo liberan.
type CountdownWatcher struct {
	clk      clock.Clock
	ticker   *clock.Ticker
	onUpdate CountdownFunc

	mu          sync.Mutex
	validatedAt *time.Time
	status      entity.EInvoiceStatus
	current     einvoice.Countdown
	ok          bool

	changed  chan struct{}
	done     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
}

// StartCountdownWatcher emite el primer valor de forma síncrona y arranca el
// ciclo de ticks. tick <= 0 usa DefaultCountdownTick. onUpdate puede ser nil.
func StartCountdownWatcher(ctx context.Context, clk clock.Clock, tick time.Duration, validatedAt *time.Time, status entity.EInvoiceStatus, onUpdate CountdownFunc) *CountdownWatcher {
	if tick <= 0 {
		tick = DefaultCountdownTick
	}
	w := &CountdownWatcher{
		clk:         clk,
		onUpdate:    onUpdate,
		validatedAt: copyTime(validatedAt),
		status:      status,
		changed:     make(chan struct{}, 1),
		done:        make(chan struct{}),
		exited:      make(chan struct{}),
	}
	w.ticker = clk.NewTicker(tick)
	w.recompute()
	go w.run(ctx)
	return w
}

func (w *CountdownWatcher) run(ctx context.Context) {
	defer close(w.exited)
	defer w.ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case <-w.ticker.C:
			w.recompute()
		case <-w.changed:
			w.recompute()
		}
	}
}

func (w *CountdownWatcher) recompute() {
	w.mu.Lock()
	c, ok := einvoice.ComputeCountdown(w.validatedAt, w.status, w.clk.Now())
	w.current, w.ok = c, ok
	w.mu.Unlock()
	if w.onUpdate != nil {
		w.onUpdate(c, ok)
	}
}

// Update cambia las entradas. Solo provoca un recálculo inmediato si difieren
// de las actuales.
func (w *CountdownWatcher) Update(validatedAt *time.Time, status entity.EInvoiceStatus) {
	w.mu.Lock()
	same := status == w.status && sameTime(validatedAt, w.validatedAt)
	if !same {
		w.validatedAt = copyTime(validatedAt)
		w.status = status
	}
	w.mu.Unlock()
	if same {
		return
	}
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

// Current último valor calculado.
func (w *CountdownWatcher) Current() (einvoice.Countdown, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current, w.ok
}

// Stop detiene el ciclo y libera el ticker. Idempotente; espera a que la
// goroutine termine.
func (w *CountdownWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
	<-w.exited
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
