package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/gestion-comercial-api/internal/application/dto"
	"github.com/jhoicas/gestion-comercial-api/internal/application/reports"
	"github.com/jhoicas/gestion-comercial-api/pkg/logger"
)

// ReportHandler reportes de ventas.
type ReportHandler struct {
	uc  *reports.ReportUseCase
	log *logger.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase, log *logger.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// SalesSummary godoc
// @Summary      Resumen de ventas
// @Description  Cantidades y totales por estado, tipo de comprobante y condición de pago. Sin rango: mes en curso.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {object}  dto.SalesSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales/summary [get]
func (h *ReportHandler) SalesSummary(c *fiber.Ctx) error {
	var in dto.DateRangeRequest
	if err := bindQuery(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	out, err := h.uc.SalesSummary(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// ExportSales godoc
// @Summary      Exportar ventas (XLSX)
// @Tags         reports
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from  query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to    query  string  false  "Hasta inclusive (YYYY-MM-DD)"
// @Success      200  {file}    binary
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales/export [get]
func (h *ReportHandler) ExportSales(c *fiber.Ctx) error {
	var in dto.DateRangeRequest
	if err := bindQuery(c, &in); err != nil {
		return respondError(c, h.log, err)
	}
	body, filename, err := h.uc.ExportSales(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return sendFile(c, body, filename, contentTypeXLSX)
}
