package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-comercial-api/internal/application/billing"
	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

// SaleHandler ventas, facturación AFIP y PDF.
type SaleHandler struct {
	uc    *billing.SaleUseCase
	pdf   *billing.PDFUseCase
	async bool // modo de facturación cuando no se indica ?async
	log   *logger.Logger
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *billing.SaleUseCase, pdf *billing.PDFUseCase, async bool, log *logger.Logger) *SaleHandler {
	return &SaleHandler{uc: uc, pdf: pdf, async: async, log: log}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Valida cliente y stock, convierte precios en USD, calcula IVA, descuenta stock y,
// @Description  en cuenta corriente, controla el límite de crédito y debita el total.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Cliente, condición de pago e ítems"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "pending, invoiced, cancelled"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        from         query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to           query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var in dto.SaleListRequest
	if err := bindQuery(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener venta con ítems
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Invoice godoc
// @Summary      Facturar venta (AFIP)
// @Description  Solicita el CAE. Con async=true encola la autorización y responde 202.
// @Description  Sin el parámetro se usa el modo configurado (AFIP_ASYNC).
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id     path   string  true   "ID de la venta"
// @Param        async  query  bool    false  "Autorización asíncrona"
// @Success      200  {object}  dto.SaleResponse
// @Success      202  {object}  dto.AFIPStatusResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/invoice [post]
func (h *SaleHandler) Invoice(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	if c.QueryBool("async", h.async) {
		out, err := h.uc.InvoiceAsync(c.UserContext(), id)
		if err != nil {
			return respondError(c, h.log, err)
		}
		return c.Status(fiber.StatusAccepted).JSON(out)
	}
	out, err := h.uc.Invoice(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Anular venta
// @Description  Si está facturada se autoriza una nota de crédito. Repone stock y revierte la cuenta corriente.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Cancel(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// PDF godoc
// @Summary      PDF de la factura
// @Description  Solo ventas facturadas. Incluye CAE y QR de AFIP.
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/pdf [get]
func (h *SaleHandler) PDF(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	body, filename, err := h.pdf.DownloadInvoicePDF(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendFile(c, body, filename, "application/pdf")
}
