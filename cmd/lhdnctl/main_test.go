package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myinvois-erp/internal/application/dto"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
)

func TestRun_ComandoDesconocido(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run(context.Background(), nil, &out))
	assert.Contains(t, out.String(), "countdown")
	assert.Error(t, run(context.Background(), []string{"sign"}, &out))
}

func TestMoney_Format(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"money", "format", "--currency", "usd", "--amount", "1234.5"}, &out))
	assert.Equal(t, "$1,234.50\n", out.String())

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"money", "format", "-c", "USD", "-a", "-1234.5", "--no-symbol", "--code"}, &out))
	assert.Equal(t, "-1,234.50 USD\n", out.String())
}

func TestMoney_Parse(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"money", "parse", "--currency", "USD", "--value", "$1,234.50"}, &out))
	assert.Equal(t, "1234.5\n", out.String())

	assert.Error(t, run(context.Background(), []string{"money", "parse", "--currency", "USD", "--value", "abc"}, &out))
}

func TestMoney_Convert(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"money", "convert", "--amount", "10", "--rate", "4.7256", "--to", "MYR", "--rounding", "up"}, &out))
	assert.Contains(t, out.String(), "47.26\t")

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"money", "convert", "--amount", "10", "--rate", "4.7256", "--to", "MYR", "--rounding", "down"}, &out))
	assert.Contains(t, out.String(), "47.25\t")

	assert.Error(t, run(context.Background(), []string{"money", "convert", "--amount", "10", "--rate", "0"}, &out))
	assert.Error(t, run(context.Background(), []string{"money", "convert", "--amount", "10", "--rate", "2", "--rounding", "half"}, &out))
	assert.Error(t, run(context.Background(), []string{"money", "round"}, &out))
}

func TestCountdown_ValorInicial(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	var out bytes.Buffer
	err := countdown(context.Background(), clk, http.DefaultClient, countdownOptions{
		validatedAt: "2024-03-01T02:00:00Z", status: "valid", tick: time.Minute, count: 1,
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "VALID")
	assert.Contains(t, out.String(), "2d 14h")
	assert.Contains(t, out.String(), "[normal]")
	assert.Equal(t, 0, clk.ActiveTickers(), "el watcher debe liberar su ticker")
}

func TestCountdown_VencidoTermina(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	var out bytes.Buffer
	err := countdown(context.Background(), clk, http.DefaultClient, countdownOptions{
		validatedAt: "2024-03-01T02:00:00Z", status: "VALID", tick: time.Minute,
	}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Expired")
}

func TestCountdown_SinValidar(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	var out bytes.Buffer
	require.NoError(t, countdown(context.Background(), clk, http.DefaultClient, countdownOptions{
		status: "PENDING", tick: time.Minute, count: 1,
	}, &out))
	assert.Contains(t, out.String(), "sin cuenta regresiva")

	assert.Error(t, countdown(context.Background(), clk, http.DefaultClient, countdownOptions{status: "APPROVED", count: 1}, &out))
	assert.Error(t, countdown(context.Background(), clk, http.DefaultClient, countdownOptions{status: "VALID", validatedAt: "ayer", count: 1}, &out))
}

func TestCountdown_DesdeAPI(t *testing.T) {
	validated := time.Date(2024, 3, 1, 2, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/einvoices/e-1" || r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
			return
		}
		_ = json.NewEncoder(w).Encode(dto.EInvoiceView{
			InvoiceID: "inv-1",
			EInvoice:  &dto.EInvoiceResponse{ID: "e-1", Status: entity.EInvoiceValid, ValidatedAt: &validated},
		})
	}))
	defer srv.Close()

	clk := clock.NewFake(validated.Add(70 * time.Hour))
	var out bytes.Buffer
	require.NoError(t, countdown(context.Background(), clk, srv.Client(), countdownOptions{
		api: srv.URL, token: "tok", id: "e-1", tick: time.Minute, refresh: time.Minute, count: 1,
	}, &out))
	assert.Contains(t, out.String(), "2h 0m")
	assert.Contains(t, out.String(), "[critical]")

	err := countdown(context.Background(), clk, srv.Client(), countdownOptions{
		api: srv.URL, token: "otro", id: "e-1", refresh: time.Minute, count: 1,
	}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401 UNAUTHORIZED")

	assert.Error(t, countdown(context.Background(), clk, srv.Client(), countdownOptions{api: srv.URL, count: 1}, &out))
}
