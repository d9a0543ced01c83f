package currency_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/myinvois-erp/internal/application/currency"
	"github.com/jhoicas/myinvois-erp/internal/application/dto"
	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
)

type memRates struct {
	rates []*entity.ExchangeRate
}

func (m *memRates) Upsert(_ context.Context, r *entity.ExchangeRate) error {
	for i, x := range m.rates {
		if x.CompanyID == r.CompanyID && x.FromCurrency == r.FromCurrency && x.ToCurrency == r.ToCurrency &&
			x.EffectiveDate.Equal(r.EffectiveDate) {
			m.rates[i] = r
			return nil
		}
	}
	m.rates = append(m.rates, r)
	return nil
}

func (m *memRates) GetLatest(_ context.Context, companyID, from, to string) (*entity.ExchangeRate, error) {
	var latest *entity.ExchangeRate
	for _, r := range m.rates {
		if r.CompanyID == companyID && r.FromCurrency == from && r.ToCurrency == to &&
			(latest == nil || r.EffectiveDate.After(latest.EffectiveDate)) {
			latest = r
		}
	}
	return latest, nil
}

func (m *memRates) List(_ context.Context, companyID string) ([]*entity.ExchangeRate, error) {
	return m.rates, nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newUC() (*currency.UseCase, *memRates) {
	repo := &memRates{}
	return currency.NewUseCase(nil, repo, clock.NewFake(time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC))), repo
}

func TestList(t *testing.T) {
	uc, _ := newUC()
	list := uc.List()
	require.NotEmpty(t, list)
	var myr *dto.CurrencyResponse
	for i := range list {
		if list[i].Code == "MYR" {
			myr = &list[i]
		}
	}
	require.NotNil(t, myr)
	assert.True(t, myr.IsBase)
	assert.Equal(t, "🇲🇾", myr.Flag)
}

func TestSetRateStoresInverse(t *testing.T) {
	uc, repo := newUC()
	got, err := uc.SetRate(context.Background(), "c-1", dto.SetExchangeRateRequest{From: "usd", Rate: d("4.7")})
	require.NoError(t, err)
	assert.Equal(t, "USD", got.From)
	assert.Equal(t, "MYR", got.To)
	assert.Equal(t, "0.21276596", got.InverseRate.String())
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), got.EffectiveDate)
	require.Len(t, repo.rates, 1)

	_, err = uc.SetRate(context.Background(), "c-1", dto.SetExchangeRateRequest{From: "USD", Rate: d("4.71")})
	require.NoError(t, err)
	assert.Len(t, repo.rates, 1, "mismo par y fecha reemplaza la tasa")

	for _, in := range []dto.SetExchangeRateRequest{
		{From: "USD", Rate: d("0")},
		{From: "MYR", Rate: d("1")},
		{From: "ZZZ", Rate: d("1")},
		{From: "USD", Rate: d("1"), EffectiveDate: "15/03/2024"},
	} {
		_, err := uc.SetRate(context.Background(), "c-1", in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestConvert(t *testing.T) {
	uc, _ := newUC()
	ctx := context.Background()
	_, err := uc.SetRate(ctx, "c-1", dto.SetExchangeRateRequest{From: "USD", To: "MYR", Rate: d("4.7215")})
	require.NoError(t, err)

	got, err := uc.Convert(ctx, "c-1", dto.ConvertRequest{Amount: d("10.01"), From: "USD", To: "MYR"})
	require.NoError(t, err)
	// 10.01 × 4.7215 = 47.262215
	assert.Equal(t, "47.26", got.Amount.StringFixed(2))
	assert.Equal(t, "RM47.26", got.Formatted)
	assert.Equal(t, "nearest", got.Rounding)

	up, err := uc.Convert(ctx, "c-1", dto.ConvertRequest{Amount: d("10.01"), From: "USD", Rounding: "up"})
	require.NoError(t, err)
	assert.Equal(t, "47.27", up.Amount.StringFixed(2))

	// MYR → USD usa la inversa guardada.
	back, err := uc.Convert(ctx, "c-1", dto.ConvertRequest{Amount: d("100"), From: "MYR", To: "USD", Rounding: "down"})
	require.NoError(t, err)
	assert.Equal(t, "0.2117971", back.Rate.String())
	assert.Equal(t, "21.17", back.Amount.StringFixed(2))

	_, err = uc.Convert(ctx, "c-1", dto.ConvertRequest{Amount: d("1"), From: "EUR", To: "MYR"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.Convert(ctx, "c-1", dto.ConvertRequest{Amount: d("1.5"), From: "JPY", To: "MYR", Rate: ptr(d("0.031"))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "JPY no admite decimales")
	_, err = uc.Convert(ctx, "c-1", dto.ConvertRequest{Amount: d("1"), From: "USD", Rounding: "banker"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func ptr(v decimal.Decimal) *decimal.Decimal { return &v }

func TestFormatAndParse(t *testing.T) {
	uc, _ := newUC()
	f, err := uc.Format(dto.FormatRequest{Amount: d("1234.5"), Currency: "USD"})
	require.NoError(t, err)
	assert.Equal(t, "$1,234.50", f.Formatted)

	hide := false
	f, err = uc.Format(dto.FormatRequest{Amount: d("-1234.5"), Currency: "MYR", ShowSymbol: &hide, ShowCode: true})
	require.NoError(t, err)
	assert.Equal(t, "-1,234.50 MYR", f.Formatted)

	p, err := uc.Parse(dto.ParseRequest{Value: "$1,234.50", Currency: "USD"})
	require.NoError(t, err)
	assert.True(t, p.Valid)
	assert.True(t, p.Amount.Equal(d("1234.5")))

	p, err = uc.Parse(dto.ParseRequest{Value: "abc"})
	require.NoError(t, err)
	assert.False(t, p.Valid)
}
