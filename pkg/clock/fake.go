package clock

import (
	"sort"
	"sync"
	"time"
)

// Fake es un reloj manual: el tiempo solo avanza con Advance.
// Los ticks se entregan de forma no bloqueante (buffer 1, igual que time.Ticker).
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*fakeTicker
}

type fakeTicker struct {
	c        chan time.Time
	interval time.Duration
	next     time.Time
	stopped  bool
}

// NewFake crea un reloj detenido en start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

// Now devuelve la hora simulada.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// NewTicker registra un ticker simulado.
func (f *Fake) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: intervalo no positivo para NewTicker")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ft := &fakeTicker{c: make(chan time.Time, 1), interval: d, next: f.now.Add(d)}
	f.tickers = append(f.tickers, ft)
	return &Ticker{C: ft.c, stopFunc: func() {
		f.mu.Lock()
		ft.stopped = true
		f.mu.Unlock()
	}}
}

// Advance mueve el reloj d hacia adelante y dispara los ticks vencidos en orden.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	type due struct {
		at time.Time
		t  *fakeTicker
	}
	var fired []due
	for _, t := range f.tickers {
		for !t.stopped && !t.next.After(target) {
			fired = append(fired, due{at: t.next, t: t})
			t.next = t.next.Add(t.interval)
		}
	}
	sort.SliceStable(fired, func(i, j int) bool { return fired[i].at.Before(fired[j].at) })
	f.now = target
	f.mu.Unlock()

	for _, d := range fired {
		select {
		case d.t.c <- d.at:
		default: // el consumidor va atrasado: se descarta el tick
		}
	}
}

// ActiveTickers cuenta los tickers no detenidos.
func (f *Fake) ActiveTickers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickers {
		if !t.stopped {
			n++
		}
	}
	return n
}
