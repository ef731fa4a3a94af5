package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/application/finance"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

// ChequeHandler cartera de cheques.
type ChequeHandler struct {
	uc  *finance.ChequeUseCase
	log *logger.Logger
}

// NewChequeHandler construye el handler.
func NewChequeHandler(uc *finance.ChequeUseCase, log *logger.Logger) *ChequeHandler {
	return &ChequeHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar cheques
// @Tags         cheques
// @Security     Bearer
// @Produce      json
// @Param        status       query  string  false  "pending, deposited, endorsed, rejected"
// @Param        customer_id  query  string  false  "Cliente"
// @Param        due_before   query  string  false  "Vencimiento hasta (YYYY-MM-DD, inclusivo)"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ChequeListResponse
// @Router       /api/cheques [get]
func (h *ChequeHandler) List(c *fiber.Ctx) error {
	var in dto.ChequeListRequest
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
// @Summary      Obtener cheque
// @Tags         cheques
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cheque"
// @Success      200  {object}  dto.ChequeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cheques/{id} [get]
func (h *ChequeHandler) GetByID(c *fiber.Ctx) error {
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

// UpdateStatus godoc
// @Summary      Cambiar estado del cheque
// @Description  pending → deposited | endorsed | rejected; deposited → rejected.
// @Description  Rechazar un cheque de un pago revierte el pago y debita la cuenta corriente.
// @Tags         cheques
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cheque"
// @Param        body  body  dto.UpdateChequeStatusRequest  true  "status, endorsed_to, reason"
// @Success      200   {object}  dto.ChequeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cheques/{id}/status [patch]
func (h *ChequeHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := uuidParam(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.UpdateChequeStatusRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.UpdateStatus(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}
