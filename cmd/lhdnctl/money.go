package main

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	flag "github.com/spf13/pflag"

	"github.com/jhoicas/myinvois-erp/pkg/money"
)

func runMoney(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("money: falta el subcomando (format | parse | convert)")
	}
	sub, args := args[0], args[1:]

	fs := flag.NewFlagSet("money "+sub, flag.ContinueOnError)
	fs.SetOutput(out)
	cataloguePath := fs.String("catalogue", "", "catálogo YAML de monedas (vacío = incorporado)")
	code := fs.StringP("currency", "c", money.BaseCurrencyCode, "código ISO 4217")
	amount := fs.StringP("amount", "a", "", "importe")
	value := fs.String("value", "", "texto a interpretar (parse)")
	showCode := fs.Bool("code", false, "añadir el código de moneda (format)")
	noSymbol := fs.Bool("no-symbol", false, "omitir el símbolo (format)")
	dp := fs.Int32("dp", -1, "decimales (format); -1 = los de la moneda")
	rate := fs.String("rate", "", "tasa de cambio (convert)")
	to := fs.String("to", money.BaseCurrencyCode, "moneda destino (convert)")
	rounding := fs.String("rounding", "nearest", "up | down | nearest (convert)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	catalogue, err := money.LoadCatalogueFile(*cataloguePath)
	if err != nil {
		return err
	}
	cur, err := catalogue.Lookup(*code)
	if err != nil {
		return err
	}

	switch sub {
	case "format":
		a, err := decimal.NewFromString(*amount)
		if err != nil {
			return fmt.Errorf("money format: --amount inválido: %w", err)
		}
		var opts []money.FormatOption
		if *dp >= 0 {
			opts = append(opts, money.WithDecimalPlaces(*dp))
		}
		if *noSymbol {
			opts = append(opts, money.WithoutSymbol())
		}
		if *showCode {
			opts = append(opts, money.WithCode())
		}
		fmt.Fprintln(out, money.FormatMoney(a, cur, opts...))
		return nil

	case "parse":
		a, ok := money.ParseCurrencyString(*value, &cur)
		if !ok {
			return fmt.Errorf("money parse: %q no es un importe válido", *value)
		}
		fmt.Fprintln(out, a.String())
		return nil

	case "convert":
		a, err := decimal.NewFromString(*amount)
		if err != nil {
			return fmt.Errorf("money convert: --amount inválido: %w", err)
		}
		r, err := decimal.NewFromString(*rate)
		if err != nil || !r.IsPositive() {
			return fmt.Errorf("money convert: --rate debe ser un número positivo")
		}
		mode, err := money.ParseRoundingMode(*rounding)
		if err != nil {
			return err
		}
		target, err := catalogue.Lookup(*to)
		if err != nil {
			return err
		}
		converted := money.ApplyExchangeRate(a, r, mode, target.DecimalPlaces)
		fmt.Fprintf(out, "%s\t%s\n", converted.StringFixed(target.DecimalPlaces), money.FormatMoney(converted, target))
		return nil
	}
	return fmt.Errorf("money: subcomando desconocido %q", sub)
}
