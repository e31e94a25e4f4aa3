package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain"
)

// SaleHandler ventas: registro, anulación, eliminación y resúmenes.
type SaleHandler struct {
	uc  *sales.SalesUseCase
	now func() time.Time
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SalesUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, now: time.Now}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Todas las líneas se confirman juntas o ninguna. El cajero sale del token.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Líneas y medio de pago"
// @Success      201   {object}  dto.CreateSaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "INSUFFICIENT_STOCK"
// @Failure      500   {object}  dto.ErrorResponse  "STORAGE"
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.CreateSale(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// List godoc
// @Summary      Listar ventas
// @Description  Un cajero solo ve sus propias ventas.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start_date      query  string  false  "YYYY-MM-DD"
// @Param        end_date        query  string  false  "YYYY-MM-DD (inclusivo)"
// @Param        cashier_id      query  int     false  "Cajero (solo admin)"
// @Param        payment_method  query  string  false  "cash | card | mobile_money | other"
// @Param        status          query  string  false  "committed | voided"
// @Param        limit           query  int     false  "Límite"  default(50)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.SaleResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	in, err := saleListFilter(c)
	if err != nil {
		return writeError(c, err)
	}
	if !IsAdmin(c) {
		own := GetUserID(c)
		in.CashierID = &own
	}
	out, err := h.uc.ListSales(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// GetByID godoc
// @Summary      Obtener venta con sus líneas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetSale(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !IsAdmin(c) && out.CashierID != GetUserID(c) {
		return writeError(c, domain.NotFound("sale", id))
	}
	return ok(c, fiber.StatusOK, out)
}

// Receipt godoc
// @Summary      Datos para imprimir el recibo
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.ReceiptData
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetReceiptData(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	if !IsAdmin(c) && out.Sale.CashierID != GetUserID(c) {
		return writeError(c, domain.NotFound("sale", id))
	}
	return ok(c, fiber.StatusOK, out)
}

// Void godoc
// @Summary      Anular venta
// @Description  Devuelve el stock con movimientos "return"; la venta queda registrada como anulada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID de la venta"
// @Param        body  body  dto.VoidSaleRequest  true  "Motivo"
// @Success      200   {object}  dto.VoidSaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/void [post]
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.VoidSaleRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.VoidSale(c.UserContext(), id, in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Delete godoc
// @Summary      Eliminar venta
// @Description  Borra la venta y sus movimientos de venta; la existencia vuelve al valor previo.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID de la venta"
// @Success      200  {object}  dto.DeleteSaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.DeleteSale(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// DailySummary godoc
// @Summary      Resumen diario
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD (hoy por defecto)"
// @Success      200   {object}  dto.DailySummaryResponse
// @Router       /api/sales/summary/daily [get]
func (h *SaleHandler) DailySummary(c *fiber.Ctx) error {
	date, err := queryDate(c, "date")
	if err != nil {
		return writeError(c, err)
	}
	day := h.now()
	if date != nil {
		day = *date
	}
	out, err := h.uc.GetDailySummary(c.UserContext(), day)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// WeeklySummary godoc
// @Summary      Resumen de siete días
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        start_date  query  string  false  "YYYY-MM-DD (por defecto, hace seis días)"
// @Success      200  {object}  dto.PeriodSummaryResponse
// @Router       /api/sales/summary/weekly [get]
func (h *SaleHandler) WeeklySummary(c *fiber.Ctx) error {
	start, err := queryDate(c, "start_date")
	if err != nil {
		return writeError(c, err)
	}
	from := h.now().AddDate(0, 0, -6)
	if start != nil {
		from = *start
	}
	out, err := h.uc.GetWeeklySummary(c.UserContext(), from)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// MonthlySummary godoc
// @Summary      Resumen mensual
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        year   query  int  false  "Año (actual por defecto)"
// @Param        month  query  int  false  "Mes 1-12 (actual por defecto)"
// @Success      200  {object}  dto.PeriodSummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/summary/monthly [get]
func (h *SaleHandler) MonthlySummary(c *fiber.Ctx) error {
	now := h.now()
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	out, err := h.uc.GetMonthlySummary(c.UserContext(), year, time.Month(month))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// TopProducts godoc
// @Summary      Productos más vendidos
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        period  query  string  false  "today | week | month | all"  default(month)
// @Success      200  {object}  dto.TopProductsResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/sales/top-products [get]
func (h *SaleHandler) TopProducts(c *fiber.Ctx) error {
	out, err := h.uc.GetTopSellingProducts(c.UserContext(), c.Query("period"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// ByCashier godoc
// @Summary      Ventas de un cajero
// @Description  Un cajero solo puede consultar sus propias ventas.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        cashierId   path   int     true   "ID del cajero"
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD (inclusivo)"
// @Success      200  {object}  dto.CashierSalesResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/sales/cashier/{cashierId} [get]
func (h *SaleHandler) ByCashier(c *fiber.Ctx) error {
	cashierID, err := parseID(c, "cashierId")
	if err != nil {
		return writeError(c, err)
	}
	if !IsAdmin(c) && cashierID != GetUserID(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Code: "FORBIDDEN", Message: "solo puede consultar sus propias ventas",
		})
	}
	start, err := queryDate(c, "start_date")
	if err != nil {
		return writeError(c, err)
	}
	end, err := queryDate(c, "end_date")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetSalesByUser(c.UserContext(), cashierID, start, end)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// saleListFilter lee los filtros comunes de listados y reportes de ventas.
func saleListFilter(c *fiber.Ctx) (dto.SaleListFilter, error) {
	var (
		in  dto.SaleListFilter
		err error
	)
	if in.PageRequest, err = pageQuery(c); err != nil {
		return in, err
	}
	if in.StartDate, err = queryDate(c, "start_date"); err != nil {
		return in, err
	}
	if in.EndDate, err = queryDate(c, "end_date"); err != nil {
		return in, err
	}
	if in.CashierID, err = queryInt64(c, "cashier_id"); err != nil {
		return in, err
	}
	in.PaymentMethod = c.Query("payment_method")
	in.Status = c.Query("status")
	if err := validateStruct(&in); err != nil {
		return in, err
	}
	return in, nil
}
