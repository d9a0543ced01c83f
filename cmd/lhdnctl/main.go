// lhdnctl herramientas de línea de comandos para operar e-Invoices LHDN.
//
// Uso:
//
//	lhdnctl countdown --validated-at 2024-03-01T02:00:00Z --status VALID [--tick 60s]
//	lhdnctl countdown --api http://localhost:8080 --token <jwt> --id <einvoice-id> [--refresh 30s]
//	lhdnctl money format  --currency USD --amount 1234.5 [--code] [--no-symbol] [--dp 3]
//	lhdnctl money parse   --currency USD --value "$1,234.50"
//	lhdnctl money convert --amount 10 --rate 4.7256 --to MYR [--rounding up]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const usage = `uso: lhdnctl <comando> [flags]

comandos:
  countdown   muestra la cuenta regresiva de cancelación (72 h) de un e-Invoice
  money       format | parse | convert de importes
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "lhdnctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return fmt.Errorf("falta el comando")
	}
	switch args[0] {
	case "countdown":
		return runCountdown(ctx, args[1:], out)
	case "money":
		return runMoney(args[1:], out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usage)
		return nil
	}
	return fmt.Errorf("comando desconocido %q", args[0])
}
