package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/application/rates"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

// ExchangeRateHandler cotizaciones de moneda extranjera.
type ExchangeRateHandler struct {
	uc  *rates.RatesUseCase
	log *logger.Logger
}

// NewExchangeRateHandler construye el handler.
func NewExchangeRateHandler(uc *rates.RatesUseCase, log *logger.Logger) *ExchangeRateHandler {
	return &ExchangeRateHandler{uc: uc, log: log}
}

// Latest godoc
// @Summary      Última cotización
// @Description  Caché Redis → última registrada → proveedor externo.
// @Tags         exchange-rates
// @Security     Bearer
// @Produce      json
// @Param        currency  query  string  false  "USD o EUR"  default(USD)
// @Success      200  {object}  dto.ExchangeRateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/exchange-rates/latest [get]
func (h *ExchangeRateHandler) Latest(c *fiber.Ctx) error {
	out, err := h.uc.Latest(c.UserContext(), c.Query("currency", "USD"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de cotizaciones
// @Tags         exchange-rates
// @Security     Bearer
// @Produce      json
// @Param        currency  query  string  false  "USD o EUR"  default(USD)
// @Param        limit     query  int     false  "Límite"     default(30)
// @Success      200  {array}  dto.ExchangeRateResponse
// @Router       /api/exchange-rates [get]
func (h *ExchangeRateHandler) History(c *fiber.Ctx) error {
	out, err := h.uc.History(c.UserContext(), c.Query("currency", "USD"), c.QueryInt("limit", 30))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Cargar cotización manual
// @Tags         exchange-rates
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateExchangeRateRequest  true  "currency, buy, sell, date"
// @Success      201   {object}  dto.ExchangeRateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/exchange-rates [post]
func (h *ExchangeRateHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateExchangeRateRequest
	if err := bindBody(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Refresh godoc
// @Summary      Actualizar cotización desde el proveedor
// @Tags         exchange-rates
// @Security     Bearer
// @Produce      json
// @Param        currency  query  string  false  "USD o EUR"  default(USD)
// @Success      201  {object}  dto.ExchangeRateResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/exchange-rates/refresh [post]
func (h *ExchangeRateHandler) Refresh(c *fiber.Ctx) error {
	out, err := h.uc.Refresh(c.UserContext(), c.Query("currency", "USD"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
