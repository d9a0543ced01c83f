package money

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

type formatOptions struct {
	decimalPlaces *int32
	hideSymbol    bool
	showCode      bool
}

// FormatOption ajusta FormatMoney.
type FormatOption func(*formatOptions)

// WithDecimalPlaces reemplaza los decimales de la moneda.
func WithDecimalPlaces(dp int32) FormatOption {
	return func(o *formatOptions) { o.decimalPlaces = &dp }
}

// WithoutSymbol omite el símbolo.
func WithoutSymbol() FormatOption {
	return func(o *formatOptions) { o.hideSymbol = true }
}

// WithCode agrega el código ISO al final ("RM1,234.50 MYR").
func WithCode() FormatOption {
	return func(o *formatOptions) { o.showCode = true }
}

// FormatMoney formatea amount con exactamente los decimales de la moneda.
// El signo negativo siempre queda en el extremo izquierdo: "-$1,234.56", "-1.234,56€".
func FormatMoney(amount decimal.Decimal, c Currency, opts ...FormatOption) string {
	o := formatOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	dp := c.places()
	if o.decimalPlaces != nil && *o.decimalPlaces >= 0 {
		dp = *o.decimalPlaces
	}

	rounded := amount.Round(dp)
	negative := rounded.IsNegative()
	fixed := rounded.Abs().StringFixed(dp)

	intPart, fracPart := fixed, ""
	if i := strings.IndexByte(fixed, '.'); i >= 0 {
		intPart, fracPart = fixed[:i], fixed[i+1:]
	}
	out := groupThousands(intPart, c.ThousandsSeparator)
	if fracPart != "" {
		out += c.decimalSeparator() + fracPart
	}

	if !o.hideSymbol && c.Symbol != "" {
		if c.SymbolPosition == SymbolAfter {
			out += c.Symbol
		} else {
			out = c.Symbol + out
		}
	}
	if o.showCode && c.Code != "" {
		out += " " + c.Code
	}
	if negative {
		out = "-" + out
	}
	return out
}

// groupThousands inserta sep cada tres dígitos contando desde la derecha.
func groupThousands(digits, sep string) string {
	n := len(digits)
	if sep == "" || n <= 3 {
		return digits
	}
	var b strings.Builder
	b.Grow(n + (n/3)*len(sep))
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// ParseCurrencyString interpreta un importe formateado. Sin moneda solo conserva
// dígitos, '.' y '-'. Devuelve ok=false si el resultado no es un número.
func ParseCurrencyString(value string, c *Currency) (decimal.Decimal, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return decimal.Zero, false
	}
	if c == nil {
		s = strings.Map(func(r rune) rune {
			if (r >= '0' && r <= '9') || r == '.' || r == '-' {
				return r
			}
			return -1
		}, s)
	} else {
		if c.Code != "" {
			s = strings.ReplaceAll(s, c.Code, "")
		}
		if c.Symbol != "" {
			s = strings.ReplaceAll(s, c.Symbol, "")
		}
		if c.ThousandsSeparator != "" {
			s = strings.ReplaceAll(s, c.ThousandsSeparator, "")
		}
		if sep := c.decimalSeparator(); sep != "." {
			s = strings.ReplaceAll(s, sep, ".")
		}
		s = strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, s)
	}
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
