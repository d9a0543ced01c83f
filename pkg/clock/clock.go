// Package clock abstrae el reloj del sistema para que los temporizadores
// (cuenta regresiva de cancelación, caché de tokens) sean deterministas en tests.
package clock

import "time"

// Clock entrega la hora actual y tickers periódicos.
// En producción se inyecta Real(); en tests, NewFake().
type Clock interface {
	Now() time.Time
	// NewTicker crea un ticker con el intervalo d. Entra en pánico si d <= 0.
	NewTicker(d time.Duration) *Ticker
}

// Ticker envía la hora en C cada intervalo. Stop libera los recursos;
// no cierra C.
type Ticker struct {
	C <-chan time.Time

	stopFunc func()
}

// Stop detiene el ticker. Es seguro llamarlo más de una vez.
func (t *Ticker) Stop() {
	if t != nil && t.stopFunc != nil {
		t.stopFunc()
	}
}

type realClock struct{}

// Real devuelve el reloj de pared respaldado por el paquete time.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) NewTicker(d time.Duration) *Ticker {
	t := time.NewTicker(d)
	return &Ticker{C: t.C, stopFunc: t.Stop}
}
