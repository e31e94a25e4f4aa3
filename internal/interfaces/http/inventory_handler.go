package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
)

// InventoryHandler consultas del libro de inventario.
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{ledger: ledger}
}

// ListMovements godoc
// @Summary      Historial de movimientos de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  int     false  "Producto"
// @Param        kind        query  string  false  "initial | sale | adjustment | return"
// @Param        sale_id     query  int     false  "Venta de referencia"
// @Param        start_date  query  string  false  "YYYY-MM-DD"
// @Param        end_date    query  string  false  "YYYY-MM-DD (inclusivo)"
// @Param        limit       query  int     false  "Límite"  default(200)
// @Success      200  {array}  dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	in := dto.MovementFilter{Kind: c.Query("kind"), Limit: c.QueryInt("limit", 0)}
	var err error
	if in.ProductID, err = queryInt64(c, "product_id"); err != nil {
		return writeError(c, err)
	}
	if in.SaleID, err = queryInt64(c, "sale_id"); err != nil {
		return writeError(c, err)
	}
	if in.StartDate, err = queryDate(c, "start_date"); err != nil {
		return writeError(c, err)
	}
	if in.EndDate, err = queryDate(c, "end_date"); err != nil {
		return writeError(c, err)
	}
	if err := validateStruct(&in); err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.ListMovements(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Description  Existencia menor o igual al mínimo, los más urgentes primero.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.ledger.ListLowStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}
