package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myinvois-erp/internal/application/currency"
	"github.com/jhoicas/myinvois-erp/internal/application/dto"
)

// CurrencyHandler catálogo de monedas, tasas de cambio y utilidades de formato.
type CurrencyHandler struct {
	uc *currency.UseCase
}

// NewCurrencyHandler construye el handler.
func NewCurrencyHandler(uc *currency.UseCase) *CurrencyHandler {
	return &CurrencyHandler{uc: uc}
}

// List godoc
// @Summary      Catálogo de monedas soportadas
// @Tags         currencies
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}  dto.CurrencyResponse
// @Router       /api/currencies [get]
func (h *CurrencyHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.List())
}

// SetRate godoc
// @Summary      Registrar tasa de cambio
// @Description  Guarda la tasa y su inversa para la fecha efectiva (hoy si se omite). Reemplaza la tasa del mismo día.
// @Tags         currencies
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetExchangeRateRequest  true  "from, to, rate"
// @Success      200   {object}  dto.ExchangeRateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/currencies/rates [put]
func (h *CurrencyHandler) SetRate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.SetExchangeRateRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.SetRate(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListRates GET /api/currencies/rates
func (h *CurrencyHandler) ListRates(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.ListRates(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Convert godoc
// @Summary      Convertir un monto entre monedas
// @Tags         currencies
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConvertRequest  true  "amount, from, to, rate, rounding"
// @Success      200   {object}  dto.ConvertResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/currencies/convert [post]
func (h *CurrencyHandler) Convert(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.ConvertRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Convert(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Format POST /api/currencies/format
func (h *CurrencyHandler) Format(c *fiber.Ctx) error {
	var in dto.FormatRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Format(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Parse POST /api/currencies/parse
func (h *CurrencyHandler) Parse(c *fiber.Ctx) error {
	var in dto.ParseRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.uc.Parse(in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
