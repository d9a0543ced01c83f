// Package currency expone el catálogo de monedas, las tasas de cambio por
// empresa y las utilidades de formato y conversión de pkg/money.
package currency

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/myinvois-erp/internal/application/dto"
	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
	"github.com/jhoicas/myinvois-erp/pkg/money"
)

// UseCase casos de uso de monedas.
type UseCase struct {
	catalogue *money.Catalogue
	rateRepo  repository.ExchangeRateRepository
	clk       clock.Clock
}

// NewUseCase construye el caso de uso. catalogue nil = catálogo por defecto.
func NewUseCase(catalogue *money.Catalogue, rateRepo repository.ExchangeRateRepository, clk clock.Clock) *UseCase {
	if catalogue == nil {
		catalogue = money.DefaultCatalogue()
	}
	if clk == nil {
		clk = clock.Real()
	}
	return &UseCase{catalogue: catalogue, rateRepo: rateRepo, clk: clk}
}

// List monedas del catálogo ordenadas por código.
func (uc *UseCase) List() []dto.CurrencyResponse {
	base := uc.catalogue.Base().Code
	list := uc.catalogue.List()
	out := make([]dto.CurrencyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CurrencyResponse{
			Code:               c.Code,
			Name:               c.Name,
			Symbol:             c.Symbol,
			DecimalPlaces:      c.DecimalPlaces,
			SymbolPosition:     string(c.SymbolPosition),
			ThousandsSeparator: c.ThousandsSeparator,
			DecimalSeparator:   c.DecimalSeparator,
			Flag:               money.FlagEmoji(c.Code),
			IsBase:             c.Code == base,
		})
	}
	return out
}

func (uc *UseCase) lookup(code string) (money.Currency, error) {
	c, err := uc.catalogue.Lookup(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return money.Currency{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return c, nil
}

// SetRate registra la tasa From→To (To vacío = moneda base) y guarda su inversa con 8 decimales.
func (uc *UseCase) SetRate(ctx context.Context, companyID string, in dto.SetExchangeRateRequest) (*dto.ExchangeRateResponse, error) {
	if in.To == "" {
		in.To = uc.catalogue.Base().Code
	}
	from, err := uc.lookup(in.From)
	if err != nil {
		return nil, err
	}
	to, err := uc.lookup(in.To)
	if err != nil {
		return nil, err
	}
	if from.Code == to.Code {
		return nil, fmt.Errorf("%w: monedas iguales", domain.ErrInvalidInput)
	}
	if !in.Rate.IsPositive() {
		return nil, fmt.Errorf("%w: la tasa debe ser positiva", domain.ErrInvalidInput)
	}
	now := uc.clk.Now().UTC()
	effective := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if in.EffectiveDate != "" {
		effective, err = time.Parse("2006-01-02", in.EffectiveDate)
		if err != nil {
			return nil, fmt.Errorf("%w: effective_date debe ser YYYY-MM-DD", domain.ErrInvalidInput)
		}
	}
	rate := &entity.ExchangeRate{
		ID:            uuid.New().String(),
		CompanyID:     companyID,
		FromCurrency:  from.Code,
		ToCurrency:    to.Code,
		Rate:          in.Rate,
		InverseRate:   money.CalculateInverseRate(in.Rate),
		EffectiveDate: effective,
		CreatedAt:     now,
	}
	if err := uc.rateRepo.Upsert(ctx, rate); err != nil {
		return nil, err
	}
	return toRateResponse(rate), nil
}

// ListRates tasas registradas por la empresa.
func (uc *UseCase) ListRates(ctx context.Context, companyID string) ([]dto.ExchangeRateResponse, error) {
	list, err := uc.rateRepo.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ExchangeRateResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRateResponse(r))
	}
	return out, nil
}

// Convert convierte Amount de From a To con la tasa explícita o la última
// registrada (directa, o la inversa del par opuesto). El resultado se redondea
// a los decimales de la moneda destino con el modo pedido.
func (uc *UseCase) Convert(ctx context.Context, companyID string, in dto.ConvertRequest) (*dto.ConvertResponse, error) {
	if in.To == "" {
		in.To = uc.catalogue.Base().Code
	}
	from, err := uc.lookup(in.From)
	if err != nil {
		return nil, err
	}
	to, err := uc.lookup(in.To)
	if err != nil {
		return nil, err
	}
	mode, err := money.ParseRoundingMode(in.Rounding)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if !money.IsValidAmount(in.Amount, from) {
		return nil, fmt.Errorf("%w: %s admite %d decimales", domain.ErrInvalidInput, from.Code, from.DecimalPlaces)
	}

	var rate decimal.Decimal
	switch {
	case in.Rate != nil:
		if !in.Rate.IsPositive() {
			return nil, fmt.Errorf("%w: la tasa debe ser positiva", domain.ErrInvalidInput)
		}
		rate = *in.Rate
	case from.Code == to.Code:
		rate = decimal.NewFromInt(1)
	default:
		rate, err = uc.storedRate(ctx, companyID, from.Code, to.Code)
		if err != nil {
			return nil, err
		}
	}

	amount := money.ApplyExchangeRate(in.Amount, rate, mode, to.DecimalPlaces)
	return &dto.ConvertResponse{
		Amount:    amount,
		Currency:  to.Code,
		Rate:      rate,
		Rounding:  string(mode),
		Formatted: money.FormatMoney(amount, to),
	}, nil
}

func (uc *UseCase) storedRate(ctx context.Context, companyID, from, to string) (decimal.Decimal, error) {
	r, err := uc.rateRepo.GetLatest(ctx, companyID, from, to)
	if err != nil {
		return decimal.Zero, err
	}
	if r != nil {
		return r.Rate, nil
	}
	r, err = uc.rateRepo.GetLatest(ctx, companyID, to, from)
	if err != nil {
		return decimal.Zero, err
	}
	if r != nil && !r.InverseRate.IsZero() {
		return r.InverseRate, nil
	}
	return decimal.Zero, fmt.Errorf("%w: no hay tasa %s→%s", domain.ErrNotFound, from, to)
}

// Format formatea un monto según la moneda.
func (uc *UseCase) Format(in dto.FormatRequest) (*dto.FormatResponse, error) {
	c, err := uc.lookup(in.Currency)
	if err != nil {
		return nil, err
	}
	var opts []money.FormatOption
	if in.DecimalPlaces != nil {
		opts = append(opts, money.WithDecimalPlaces(*in.DecimalPlaces))
	}
	if in.ShowSymbol != nil && !*in.ShowSymbol {
		opts = append(opts, money.WithoutSymbol())
	}
	if in.ShowCode {
		opts = append(opts, money.WithCode())
	}
	return &dto.FormatResponse{Formatted: money.FormatMoney(in.Amount, c, opts...)}, nil
}

// Parse interpreta un texto de monto; Currency vacío solo conserva dígitos, punto y signo.
func (uc *UseCase) Parse(in dto.ParseRequest) (*dto.ParseResponse, error) {
	var cur *money.Currency
	if in.Currency != "" {
		c, err := uc.lookup(in.Currency)
		if err != nil {
			return nil, err
		}
		cur = &c
	}
	v, ok := money.ParseCurrencyString(in.Value, cur)
	return &dto.ParseResponse{Amount: v, Valid: ok}, nil
}

func toRateResponse(r *entity.ExchangeRate) *dto.ExchangeRateResponse {
	return &dto.ExchangeRateResponse{
		From:          r.FromCurrency,
		To:            r.ToCurrency,
		Rate:          r.Rate,
		InverseRate:   r.InverseRate,
		EffectiveDate: r.EffectiveDate,
	}
}
