package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/application/finance"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

// CurrentAccountHandler cuentas corrientes de clientes.
type CurrentAccountHandler struct {
	uc  *finance.CurrentAccountUseCase
	log *logger.Logger
}

// NewCurrentAccountHandler construye el handler.
func NewCurrentAccountHandler(uc *finance.CurrentAccountUseCase, log *logger.Logger) *CurrentAccountHandler {
	return &CurrentAccountHandler{uc: uc, log: log}
}

// Statement godoc
// @Summary      Estado de cuenta del cliente
// @Tags         current-accounts
// @Security     Bearer
// @Produce      json
// @Param        customerId  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CurrentAccountResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/current-accounts/{customerId} [get]
func (h *CurrentAccountHandler) Statement(c *fiber.Ctx) error {
	id, err := uuidParam(c, "customerId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Statement(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Balances godoc
// @Summary      Saldos de clientes
// @Description  Clientes con saldo distinto de cero.
// @Tags         current-accounts
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CustomerBalanceResponse
// @Router       /api/current-accounts/balances [get]
func (h *CurrentAccountHandler) Balances(c *fiber.Ctx) error {
	out, err := h.uc.Balances(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Adjust godoc
// @Summary      Ajuste manual de cuenta corriente
// @Tags         current-accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        customerId  path  string  true  "ID del cliente"
// @Param        body        body  dto.AdjustmentRequest  true  "type, amount, description"
// @Success      201  {object}  dto.CurrentAccountItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/current-accounts/{customerId}/adjustments [post]
func (h *CurrentAccountHandler) Adjust(c *fiber.Ctx) error {
	id, err := uuidParam(c, "customerId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	var in dto.AdjustmentRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Adjust(c.UserContext(), id, in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Export godoc
// @Summary      Exportar estado de cuenta (XLSX)
// @Tags         current-accounts
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        customerId  path  string  true  "ID del cliente"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/current-accounts/{customerId}/export [get]
func (h *CurrentAccountHandler) Export(c *fiber.Ctx) error {
	id, err := uuidParam(c, "customerId")
	if err != nil {
		return respondError(c, h.log, err)
	}
	body, filename, err := h.uc.Export(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendFile(c, body, filename, contentTypeXLSX)
}

