package http

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// ReportHandler reportes de periodo en JSON o exportados (pdf, xlsx).
type ReportHandler struct {
	svc       *inventory.Service
	exporters map[string]ports.ReportExporter
}

// NewReportHandler registra los exportadores por su extensión.
func NewReportHandler(svc *inventory.Service, exporters ...ports.ReportExporter) *ReportHandler {
	m := make(map[string]ports.ReportExporter, len(exporters))
	for _, e := range exporters {
		m[e.Extension()] = e
	}
	return &ReportHandler{svc: svc, exporters: m}
}

// GetPeriodReport godoc
// @Summary      Reporte de stock del periodo
// @Description  Apertura, entradas, salidas, ajuste y cierre por producto. format=json|pdf|xlsx.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Produce      application/pdf
// @Param        period  path   string  true   "YYYY-MM"
// @Param        format  query  string  false  "json (defecto), pdf, xlsx"
// @Success      200     {object}  dto.PeriodReportResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/inventory/reports/{period} [get]
func (h *ReportHandler) GetPeriodReport(c *fiber.Ctx) error {
	period, err := domaininv.ParsePeriod(c.Params("period"))
	if err != nil {
		return respondError(c, err)
	}
	format := strings.ToLower(c.Query("format", "json"))
	var exporter ports.ReportExporter
	if format != "json" {
		var ok bool
		if exporter, ok = h.exporters[format]; !ok {
			return badRequest(c, "VALIDATION", "formato no soportado: "+format)
		}
	}

	report, err := h.svc.GetPeriodReport(c.UserContext(), period)
	if err != nil {
		return respondError(c, err)
	}
	if exporter == nil {
		return c.JSON(dto.ToPeriodReportResponse(report))
	}

	data, err := exporter.Export(c.UserContext(), report)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, exporter.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="reporte-stock-%s.%s"`, period, exporter.Extension()))
	return c.Send(data)
}

// GetProductReport GET /api/inventory/reports/:period/products/:id
func (h *ReportHandler) GetProductReport(c *fiber.Ctx) error {
	period, err := domaininv.ParsePeriod(c.Params("period"))
	if err != nil {
		return respondError(c, err)
	}
	report, err := h.svc.GetProductReport(c.UserContext(), c.Params("id"), period)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToProductReportDTO(report))
}
