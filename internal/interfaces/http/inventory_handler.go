package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myinvois-erp/internal/application/dto"
	"github.com/jhoicas/myinvois-erp/internal/application/inventory"
)

// InventoryHandler productos, pronóstico de demanda y reposición (protegido, módulo inventory).
type InventoryHandler struct {
	products      *inventory.ProductUseCase
	forecast      *inventory.ForecastUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(products *inventory.ProductUseCase, forecast *inventory.ForecastUseCase, replenishment *inventory.ReplenishmentUseCase) *InventoryHandler {
	return &InventoryHandler{products: products, forecast: forecast, replenishment: replenishment}
}

// CreateProduct godoc
// @Summary      Crear producto
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "SKU, nombre, stock y parámetros de reposición"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/products [post]
func (h *InventoryHandler) CreateProduct(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateProductRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.products.Create(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListProducts GET /api/inventory/products?limit=20&offset=0
func (h *InventoryHandler) ListProducts(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if ok, err := bindQuery(c, &page); !ok {
		return err
	}
	page.DefaultPage()
	list, err := h.products.List(c.UserContext(), companyID, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// GetProduct GET /api/inventory/products/:id
func (h *InventoryHandler) GetProduct(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.products.Get(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// SetStock PUT /api/inventory/products/:id/stock
func (h *InventoryHandler) SetStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.SetStockRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.products.SetStock(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RecordDemand godoc
// @Summary      Registrar demanda (unidades vendidas)
// @Tags         inventory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del producto"
// @Param        body  body  dto.RecordDemandRequest  true  "Fecha (YYYY-MM-DD, vacío = hoy) y cantidad"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/demand [post]
func (h *InventoryHandler) RecordDemand(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.RecordDemandRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.products.RecordDemand(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Forecast godoc
// @Summary      Pronóstico de demanda
// @Description  Suavizado exponencial doble sobre el historial diario, con intervalos de confianza.
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Param        id                  path   string   true   "ID del producto"
// @Param        days                query  int      false  "Días a pronosticar (1-365, por defecto 30)"
// @Param        history_days        query  int      false  "Días de historial (14-730, por defecto 90)"
// @Param        confidence          query  number   false  "0.90, 0.95 o 0.99"
// @Param        include_confidence  query  boolean  false  "Incluir intervalos (por defecto true)"
// @Success      200  {object}  dto.DemandForecastResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/forecast [get]
func (h *InventoryHandler) Forecast(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var q dto.DemandForecastQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.forecast.Demand(c.UserContext(), companyID, c.Params("id"), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// StockOptimization GET /api/inventory/products/:id/stock-optimization
func (h *InventoryHandler) StockOptimization(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var q dto.StockOptimizationQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.forecast.Optimize(c.UserContext(), companyID, c.Params("id"), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Seasonality GET /api/inventory/products/:id/seasonality?years=2
func (h *InventoryHandler) Seasonality(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var q dto.SeasonalityQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.forecast.Seasonality(c.UserContext(), companyID, c.Params("id"), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// BulkForecast POST /api/inventory/forecasts/bulk
func (h *InventoryHandler) BulkForecast(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.BulkForecastRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.forecast.Bulk(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetReplenishmentList godoc
// @Summary      Lista de reposición
// @Description  Productos en o bajo su punto de reorden con la cantidad sugerida de pedido,
// @Description  ordenados por urgencia, margen y volumen de ventas.
// @Tags         inventory
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   dto.ReplenishmentSuggestionDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/replenishment-list [get]
func (h *InventoryHandler) GetReplenishmentList(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	list, err := h.replenishment.GenerateReplenishmentList(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}
