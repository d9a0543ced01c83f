package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myinvois-erp/pkg/clock"
)

func TestFake_AdvanceMueveNowYDisparaTicker(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := clock.NewFake(start)
	tk := f.NewTicker(time.Minute)
	defer tk.Stop()

	f.Advance(30 * time.Second)
	select {
	case <-tk.C:
		t.Fatal("no debe haber tick antes del intervalo")
	default:
	}

	f.Advance(30 * time.Second)
	select {
	case at := <-tk.C:
		assert.Equal(t, start.Add(time.Minute), at)
	default:
		t.Fatal("se esperaba un tick al cumplirse el intervalo")
	}
	assert.Equal(t, start.Add(time.Minute), f.Now())
}

func TestFake_StopDetieneTicks(t *testing.T) {
	f := clock.NewFake(time.Unix(0, 0))
	tk := f.NewTicker(time.Second)
	require.Equal(t, 1, f.ActiveTickers())

	tk.Stop()
	tk.Stop()
	assert.Equal(t, 0, f.ActiveTickers())

	f.Advance(5 * time.Second)
	select {
	case <-tk.C:
		t.Fatal("un ticker detenido no debe entregar ticks")
	default:
	}
}

func TestFake_TicksAtrasadosSeDescartan(t *testing.T) {
	f := clock.NewFake(time.Unix(0, 0))
	tk := f.NewTicker(time.Second)
	defer tk.Stop()

	f.Advance(10 * time.Second)
	<-tk.C
	select {
	case <-tk.C:
		t.Fatal("el canal tiene buffer 1; los demás ticks se descartan")
	default:
	}
}
