package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/reports"
)

// ReportHandler reportes de ventas, inventario y dashboard (solo admin).
type ReportHandler struct {
	uc *reports.ReportsUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportsUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Sales godoc
// @Summary      Reporte de ventas
// @Description  Lista todas las ventas del filtro; el resumen cuenta solo las confirmadas.
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        start_date      query  string  false  "YYYY-MM-DD"
// @Param        end_date        query  string  false  "YYYY-MM-DD (inclusivo)"
// @Param        cashier_id      query  int     false  "Cajero"
// @Param        payment_method  query  string  false  "Medio de pago"
// @Param        status          query  string  false  "committed | voided"
// @Success      200  {object}  dto.SalesReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	in, err := saleListFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetSalesReport(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Inventory godoc
// @Summary      Reporte de inventario
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        category_id  query  int   false  "Categoría"
// @Param        low_stock    query  bool  false  "Solo stock bajo"
// @Success      200  {object}  dto.InventoryReportResponse
// @Router       /api/reports/inventory [get]
func (h *ReportHandler) Inventory(c *fiber.Ctx) error {
	categoryID, err := queryInt64(c, "category_id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetInventoryReport(c.UserContext(), dto.InventoryReportFilter{
		CategoryID: categoryID,
		LowStock:   c.QueryBool("low_stock", false),
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Dashboard godoc
// @Summary      KPIs del día y del mes
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.GetDashboard(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}
