// Package money formatea, interpreta y convierte importes monetarios.
//
// Todos los importes son decimal.Decimal (punto fijo). No se usa float64 en
// ningún cálculo: la validación de decimales se hace sobre el valor exacto y
// no sobre su representación en texto.
package money

import "strings"

// SymbolPosition indica si el símbolo va antes o después del importe.
type SymbolPosition string

const (
	SymbolBefore SymbolPosition = "BEFORE"
	SymbolAfter  SymbolPosition = "AFTER"
)

// Currency describe cómo se presenta una moneda.
type Currency struct {
	Code               string         `yaml:"code" json:"code"`
	Name               string         `yaml:"name" json:"name"`
	Symbol             string         `yaml:"symbol" json:"symbol"`
	DecimalPlaces      int32          `yaml:"decimal_places" json:"decimal_places"`
	SymbolPosition     SymbolPosition `yaml:"symbol_position" json:"symbol_position"`
	ThousandsSeparator string         `yaml:"thousands_separator" json:"thousands_separator"`
	DecimalSeparator   string         `yaml:"decimal_separator" json:"decimal_separator"`
}

func (c Currency) decimalSeparator() string {
	if c.DecimalSeparator == "" {
		return "."
	}
	return c.DecimalSeparator
}

func (c Currency) places() int32 {
	if c.DecimalPlaces < 0 {
		return 0
	}
	return c.DecimalPlaces
}

// DefaultFlag se devuelve para códigos sin bandera registrada.
const DefaultFlag = "🏳️"

var flagsByCode = map[string]string{
	"MYR": "🇲🇾",
	"USD": "🇺🇸",
	"EUR": "🇪🇺",
	"GBP": "🇬🇧",
	"SGD": "🇸🇬",
	"JPY": "🇯🇵",
	"CNY": "🇨🇳",
	"IDR": "🇮🇩",
	"THB": "🇹🇭",
	"AUD": "🇦🇺",
	"BND": "🇧🇳",
	"HKD": "🇭🇰",
	"INR": "🇮🇳",
	"PHP": "🇵🇭",
}

// FlagEmoji devuelve la bandera asociada al código ISO 4217.
func FlagEmoji(code string) string {
	if f, ok := flagsByCode[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return f
	}
	return DefaultFlag
}
