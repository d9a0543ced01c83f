package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/jhoicas/myinvois-erp/internal/application/dto"
	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
)

type countdownOptions struct {
	validatedAt string
	status      string
	tick        time.Duration
	api         string
	token       string
	id          string
	refresh     time.Duration
	count       int
}

func runCountdown(ctx context.Context, args []string, out io.Writer) error {
	var o countdownOptions
	fs := flag.NewFlagSet("countdown", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.StringVar(&o.validatedAt, "validated-at", "", "fecha de validación RFC3339")
	fs.StringVar(&o.status, "status", string(entity.EInvoiceValid), "estado del e-Invoice")
	fs.DurationVar(&o.tick, "tick", appeinvoice.DefaultCountdownTick, "cadencia de recálculo")
	fs.StringVar(&o.api, "api", "", "URL base del API (refresca estado y validatedAt)")
	fs.StringVar(&o.token, "token", "", "Bearer token para --api")
	fs.StringVar(&o.id, "id", "", "ID del e-Invoice para --api")
	fs.DurationVar(&o.refresh, "refresh", 30*time.Second, "cadencia de consulta a --api")
	fs.IntVarP(&o.count, "count", "n", 0, "terminar tras n actualizaciones (0 = hasta Ctrl+C)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return countdown(ctx, clock.Real(), http.DefaultClient, o, out)
}

func countdown(ctx context.Context, clk clock.Clock, hc *http.Client, o countdownOptions, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var fetch func(context.Context) (*time.Time, entity.EInvoiceStatus, error)
	if o.api != "" {
		if o.id == "" {
			return fmt.Errorf("countdown: --id es obligatorio con --api")
		}
		fetch = func(ctx context.Context) (*time.Time, entity.EInvoiceStatus, error) {
			return fetchEInvoice(ctx, hc, o.api, o.token, o.id)
		}
	}

	validatedAt, status, err := initialState(ctx, o, fetch)
	if err != nil {
		return err
	}

	type update struct {
		c  einvoice.Countdown
		ok bool
	}
	updates := make(chan update, 1)
	w := appeinvoice.StartCountdownWatcher(ctx, clk, o.tick, validatedAt, status, func(c einvoice.Countdown, ok bool) {
		// el último valor reemplaza al pendiente
		select {
		case <-updates:
		default:
		}
		updates <- update{c: c, ok: ok}
	})
	defer w.Stop()

	var refresh <-chan time.Time
	if fetch != nil {
		t := clk.NewTicker(o.refresh)
		defer t.Stop()
		refresh = t.C
	}

	printed := 0
	current := status
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-refresh:
			at, st, err := fetch(ctx)
			if err != nil {
				fmt.Fprintf(out, "refresh: %v\n", err)
				continue
			}
			current = st
			w.Update(at, st)
		case u := <-updates:
			printCountdown(out, current, u.c, u.ok)
			printed++
			if o.count > 0 && printed >= o.count {
				return nil
			}
			if u.ok && u.c.Tier == einvoice.TierExpired && fetch == nil {
				return nil
			}
		}
	}
}

func initialState(ctx context.Context, o countdownOptions, fetch func(context.Context) (*time.Time, entity.EInvoiceStatus, error)) (*time.Time, entity.EInvoiceStatus, error) {
	if fetch != nil {
		return fetch(ctx)
	}
	status := entity.EInvoiceStatus(strings.ToUpper(o.status))
	if !status.IsValid() {
		return nil, "", fmt.Errorf("countdown: estado desconocido %q", o.status)
	}
	if o.validatedAt == "" {
		return nil, status, nil
	}
	t, err := time.Parse(time.RFC3339, o.validatedAt)
	if err != nil {
		return nil, "", fmt.Errorf("countdown: --validated-at: %w", err)
	}
	return &t, status, nil
}

func printCountdown(out io.Writer, status entity.EInvoiceStatus, c einvoice.Countdown, ok bool) {
	if !ok {
		fmt.Fprintf(out, "%-10s sin cuenta regresiva\n", status)
		return
	}
	if c.Tier == einvoice.TierExpired {
		fmt.Fprintf(out, "%-10s %s (%s)\n", status, c.Display, c.Label)
		return
	}
	fmt.Fprintf(out, "%-10s %-8s %s [%s] deadline %s\n", status, c.Display, c.Label, c.Tier, c.Deadline.UTC().Format(time.RFC3339))
}

// fetchEInvoice consulta GET /api/einvoices/:id y devuelve validatedAt y estado.
func fetchEInvoice(ctx context.Context, hc *http.Client, api, token, id string) (*time.Time, entity.EInvoiceStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(api, "/")+"/api/einvoices/"+id, nil)
	if err != nil {
		return nil, "", err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		var e dto.ErrorResponse
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&e)
		return nil, "", fmt.Errorf("api: %d %s %s", resp.StatusCode, e.Code, e.Message)
	}
	var v dto.EInvoiceView
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, "", fmt.Errorf("api: respuesta inválida: %w", err)
	}
	if v.EInvoice == nil {
		return nil, einvoice.NoEInvoice, nil
	}
	return v.EInvoice.ValidatedAt, v.EInvoice.Status, nil
}
