package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/myinvois-erp/internal/application/dto"
	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// EInvoiceHandler expone el ciclo de vida del e-Invoice: vista con acciones
// habilitadas, despacho de acciones, listados y registro XLSX.
type EInvoiceHandler struct {
	svc *appeinvoice.Service
}

// NewEInvoiceHandler construye el handler.
func NewEInvoiceHandler(svc *appeinvoice.Service) *EInvoiceHandler {
	return &EInvoiceHandler{svc: svc}
}

// ViewByInvoice godoc
// @Summary      Estado del e-Invoice de una factura
// @Description  Devuelve el e-Invoice activo (o ninguno), las acciones habilitadas, la cuenta regresiva de cancelación y las acciones en curso.
// @Tags         einvoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  dto.EInvoiceView
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/einvoice [get]
func (h *EInvoiceHandler) ViewByInvoice(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	v, err := h.svc.ViewInvoice(c.UserContext(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(v)
}

// View godoc
// @Summary      Estado de un e-Invoice
// @Tags         einvoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID del e-Invoice"
// @Success      200  {object}  dto.EInvoiceView
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/einvoices/{id} [get]
func (h *EInvoiceHandler) View(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	v, err := h.svc.View(c.UserContext(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(v)
}

// List godoc
// @Summary      Listar e-Invoices
// @Tags         einvoices
// @Security     BearerAuth
// @Produce      json
// @Param        status  query  string  false  "DRAFT, PENDING, SUBMITTED, VALID, INVALID, CANCELLED, REJECTED, ERROR"
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD (inclusive)"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.EInvoiceListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/einvoices [get]
func (h *EInvoiceHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	f, ok, err := h.filter(c, companyID)
	if !ok {
		return err
	}
	out, err := h.svc.List(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Conteo de e-Invoices por estado
// @Tags         einvoices
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  dto.EInvoiceSummaryResponse
// @Router       /api/einvoices/summary [get]
func (h *EInvoiceHandler) Summary(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.svc.Summary(c.UserContext(), companyID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Registro de e-Invoices en XLSX
// @Tags         einvoices
// @Security     BearerAuth
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        status  query  string  false  "Estado"
// @Param        from    query  string  false  "YYYY-MM-DD"
// @Param        to      query  string  false  "YYYY-MM-DD (inclusive)"
// @Success      200     {file}    binary
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/einvoices/export [get]
func (h *EInvoiceHandler) Export(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	f, ok, err := h.filter(c, companyID)
	if !ok {
		return err
	}
	content, filename, err := h.svc.ExportRegister(c.UserContext(), f)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(content)
}

// Act godoc
// @Summary      Ejecutar acción sobre un e-Invoice
// @Description  submit | sync | cancel | retry. La acción se valida contra el estado actual; si ya está en curso responde 409 ACTION_IN_FLIGHT.
// @Description  Sin einvoice_id, la acción se aplica al e-Invoice activo de invoice_id (submit crea uno nuevo si no existe).
// @Tags         einvoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EInvoiceActionRequest  true  "Acción"
// @Success      200   {object}  dto.EInvoiceView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/einvoices/actions [post]
func (h *EInvoiceHandler) Act(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.EInvoiceActionRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	action, ok := einvoice.ParseAction(in.Action)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "acción desconocida"})
	}
	if in.InvoiceID == "" && in.EInvoiceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invoice_id o einvoice_id es requerido"})
	}
	if err := h.svc.Act(c.UserContext(), companyID, action, in.InvoiceID, in.EInvoiceID, in.Reason); err != nil {
		return writeError(c, err)
	}
	return h.respondView(c, companyID, in.InvoiceID, in.EInvoiceID)
}

// Cancel godoc
// @Summary      Cancelar un e-Invoice
// @Description  Solo dentro de las 72 horas posteriores a la validación y con un motivo no vacío de hasta 500 caracteres.
// @Tags         einvoices
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del e-Invoice"
// @Param        body  body  dto.CancelEInvoiceRequest  true  "Motivo"
// @Success      200   {object}  dto.EInvoiceView
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/einvoices/{id}/cancel [post]
func (h *EInvoiceHandler) Cancel(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	var in dto.CancelEInvoiceRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	if err := h.svc.Act(c.UserContext(), companyID, einvoice.ActionCancel, "", id, in.Reason); err != nil {
		return writeError(c, err)
	}
	return h.respondView(c, companyID, "", id)
}

// ValidationURL godoc
// @Summary      URL pública de validación de la factura
// @Tags         einvoices
// @Security     BearerAuth
// @Produce      json
// @Param        id   path  string  true  "ID de la factura"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/validation-url [get]
func (h *EInvoiceHandler) ValidationURL(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	id := c.Params("id")
	if id == "" {
		return missingID(c)
	}
	// ViewInvoice verifica que la factura pertenezca a la empresa.
	v, err := h.svc.ViewInvoice(c.UserContext(), companyID, id)
	if err != nil {
		return writeError(c, err)
	}
	if v.EInvoice == nil || v.EInvoice.Status != entity.EInvoiceValid || v.ValidationURL == "" {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_VALIDATED", Message: "la factura no tiene un e-Invoice validado"})
	}
	return c.JSON(fiber.Map{"url": v.ValidationURL})
}

// respondView devuelve la vista actualizada tras una acción. Para una acción
// por factura se muestra su e-Invoice activo (el recién creado en submit).
func (h *EInvoiceHandler) respondView(c *fiber.Ctx, companyID, invoiceID, eInvoiceID string) error {
	var (
		v   *dto.EInvoiceView
		err error
	)
	if eInvoiceID != "" {
		v, err = h.svc.View(c.UserContext(), companyID, eInvoiceID)
	} else {
		v, err = h.svc.ViewInvoice(c.UserContext(), companyID, invoiceID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(v)
}

// filter arma repository.EInvoiceFilter desde la query. "to" es inclusivo (fin del día UTC).
func (h *EInvoiceHandler) filter(c *fiber.Ctx, companyID string) (repository.EInvoiceFilter, bool, error) {
	var in dto.EInvoiceListRequest
	if ok, err := bindQuery(c, &in); !ok {
		return repository.EInvoiceFilter{}, false, err
	}
	in.DefaultPage()
	f := repository.EInvoiceFilter{
		CompanyID: companyID,
		Status:    entity.EInvoiceStatus(in.Status),
		Limit:     in.Limit,
		Offset:    in.Offset,
	}
	if in.From != "" {
		t, err := time.Parse("2006-01-02", in.From)
		if err != nil {
			return f, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from debe tener formato YYYY-MM-DD"})
		}
		f.From = &t
	}
	if in.To != "" {
		t, err := time.Parse("2006-01-02", in.To)
		if err != nil {
			return f, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to debe tener formato YYYY-MM-DD"})
		}
		end := t.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return f, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to no puede ser anterior a from"})
	}
	return f, true, nil
}
