package money

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

// BaseCurrencyCode moneda funcional del ERP (LHDN exige totales en MYR).
const BaseCurrencyCode = "MYR"

var defaultCurrencies = []Currency{
	{Code: "MYR", Name: "Malaysian Ringgit", Symbol: "RM", DecimalPlaces: 2, SymbolPosition: SymbolBefore, ThousandsSeparator: ",", DecimalSeparator: "."},
	{Code: "USD", Name: "US Dollar", Symbol: "$", DecimalPlaces: 2, SymbolPosition: SymbolBefore, ThousandsSeparator: ",", DecimalSeparator: "."},
	{Code: "EUR", Name: "Euro", Symbol: "€", DecimalPlaces: 2, SymbolPosition: SymbolAfter, ThousandsSeparator: ".", DecimalSeparator: ","},
	{Code: "GBP", Name: "British Pound", Symbol: "£", DecimalPlaces: 2, SymbolPosition: SymbolBefore, ThousandsSeparator: ",", DecimalSeparator: "."},
	{Code: "SGD", Name: "Singapore Dollar", Symbol: "S$", DecimalPlaces: 2, SymbolPosition: SymbolBefore, ThousandsSeparator: ",", DecimalSeparator: "."},
	{Code: "JPY", Name: "Japanese Yen", Symbol: "¥", DecimalPlaces: 0, SymbolPosition: SymbolBefore, ThousandsSeparator: ",", DecimalSeparator: "."},
	{Code: "CNY", Name: "Chinese Yuan", Symbol: "CN¥", DecimalPlaces: 2, SymbolPosition: SymbolBefore, ThousandsSeparator: ",", DecimalSeparator: "."},
	{Code: "IDR", Name: "Indonesian Rupiah", Symbol: "Rp", DecimalPlaces: 0, SymbolPosition: SymbolBefore, ThousandsSeparator: ".", DecimalSeparator: ","},
	{Code: "THB", Name: "Thai Baht", Symbol: "฿", DecimalPlaces: 2, SymbolPosition: SymbolBefore, ThousandsSeparator: ",", DecimalSeparator: "."},
	{Code: "AUD", Name: "Australian Dollar", Symbol: "A$", DecimalPlaces: 2, SymbolPosition: SymbolBefore, ThousandsSeparator: ",", DecimalSeparator: "."},
}

// ErrUnknownCurrency la moneda no está en el catálogo.
var ErrUnknownCurrency = errors.New("money: moneda desconocida")

// Catalogue conjunto de monedas soportadas, indexado por código ISO.
type Catalogue struct {
	byCode map[string]Currency
	base   string
}

type catalogueFile struct {
	Base       string     `yaml:"base"`
	Currencies []Currency `yaml:"currencies"`
}

// DefaultCatalogue devuelve el catálogo incorporado.
func DefaultCatalogue() *Catalogue {
	c := &Catalogue{byCode: make(map[string]Currency, len(defaultCurrencies)), base: BaseCurrencyCode}
	for _, cur := range defaultCurrencies {
		c.byCode[cur.Code] = cur
	}
	return c
}

// LoadCatalogue lee un YAML y lo superpone al catálogo por defecto.
//
//	base: MYR
//	currencies:
//	  - code: BND
//	    symbol: B$
//	    decimal_places: 2
func LoadCatalogue(r io.Reader) (*Catalogue, error) {
	var f catalogueFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("money: leer catálogo: %w", err)
	}
	c := DefaultCatalogue()
	for _, cur := range f.Currencies {
		cur.Code = strings.ToUpper(strings.TrimSpace(cur.Code))
		if cur.SymbolPosition == "" {
			cur.SymbolPosition = SymbolBefore
		}
		if cur.DecimalSeparator == "" {
			cur.DecimalSeparator = "."
		}
		if err := Validate(cur); err != nil {
			return nil, err
		}
		c.byCode[cur.Code] = cur
	}
	if f.Base != "" {
		base := strings.ToUpper(strings.TrimSpace(f.Base))
		if _, ok := c.byCode[base]; !ok {
			return nil, fmt.Errorf("%w: base %s", ErrUnknownCurrency, base)
		}
		c.base = base
	}
	return c, nil
}

// LoadCatalogueFile igual que LoadCatalogue; con path vacío devuelve el catálogo por defecto.
func LoadCatalogueFile(path string) (*Catalogue, error) {
	if path == "" {
		return DefaultCatalogue(), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("money: abrir catálogo: %w", err)
	}
	defer fh.Close()
	return LoadCatalogue(fh)
}

// Validate comprueba código ISO 4217, decimales y posición del símbolo.
func Validate(c Currency) error {
	if _, err := currency.ParseISO(c.Code); err != nil {
		return fmt.Errorf("money: código ISO 4217 inválido %q", c.Code)
	}
	if c.DecimalPlaces < 0 || c.DecimalPlaces > InverseRatePrecision {
		return fmt.Errorf("money: %s: decimales fuera de rango (%d)", c.Code, c.DecimalPlaces)
	}
	if c.SymbolPosition != SymbolBefore && c.SymbolPosition != SymbolAfter {
		return fmt.Errorf("money: %s: posición de símbolo inválida %q", c.Code, c.SymbolPosition)
	}
	if c.ThousandsSeparator != "" && c.ThousandsSeparator == c.DecimalSeparator {
		return fmt.Errorf("money: %s: separadores iguales", c.Code)
	}
	return nil
}

// Get busca por código (sin distinguir mayúsculas).
func (c *Catalogue) Get(code string) (Currency, bool) {
	cur, ok := c.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return cur, ok
}

// Lookup como Get pero devuelve ErrUnknownCurrency.
func (c *Catalogue) Lookup(code string) (Currency, error) {
	cur, ok := c.Get(code)
	if !ok {
		return Currency{}, fmt.Errorf("%w: %s", ErrUnknownCurrency, code)
	}
	return cur, nil
}

// Base moneda funcional.
func (c *Catalogue) Base() Currency {
	return c.byCode[c.base]
}

// List devuelve las monedas ordenadas por código.
func (c *Catalogue) List() []Currency {
	out := make([]Currency, 0, len(c.byCode))
	for _, cur := range c.byCode {
		out = append(out, cur)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
