package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/inventory"
)

// ProductHandler catálogo de productos y ajustes de existencia (protegido).
type ProductHandler struct {
	ledger   *inventory.LedgerUseCase
	importer *inventory.ImportUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(ledger *inventory.LedgerUseCase, importer *inventory.ImportUseCase) *ProductHandler {
	return &ProductHandler{ledger: ledger, importer: importer}
}

// Create godoc
// @Summary      Crear producto
// @Description  La existencia inicial queda registrada como movimiento "initial".
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.AddProduct(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusCreated, out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.GetProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// GetByBarcode godoc
// @Summary      Buscar producto por código de barras
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        barcode  path  string  true  "Código de barras"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/barcode/{barcode} [get]
func (h *ProductHandler) GetByBarcode(c *fiber.Ctx) error {
	out, err := h.ledger.GetProductByBarcode(c.UserContext(), c.Params("barcode"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search       query  string  false  "Nombre o código de barras"
// @Param        category_id  query  int     false  "Categoría"
// @Param        low_stock    query  bool    false  "Solo stock bajo"
// @Param        limit        query  int     false  "Límite"  default(50)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, err := pageQuery(c)
	if err != nil {
		return writeError(c, err)
	}
	categoryID, err := queryInt64(c, "category_id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.ListProducts(c.UserContext(), dto.ProductFilter{
		Search:      c.Query("search"),
		CategoryID:  categoryID,
		LowStock:    c.QueryBool("low_stock", false),
		PageRequest: page,
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  No modifica la existencia; para eso existe /adjust.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.UpdateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.UpdateProduct(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Falla con 409 si alguna venta lo referencia.
// @Tags         products
// @Security     Bearer
// @Param        id   path  int  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.ledger.DeleteProduct(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Adjust godoc
// @Summary      Ajustar existencia
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  int  true  "ID del producto"
// @Param        body  body  dto.AdjustStockRequest  true  "Delta y motivo"
// @Success      200   {object}  dto.StockChangeResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/adjust [post]
func (h *ProductHandler) Adjust(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.AdjustStockRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.AdjustStock(c.UserContext(), id, in.Delta, in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// VerifyLedger godoc
// @Summary      Verificar existencia contra el libro de movimientos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.LedgerCheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/ledger [get]
func (h *ProductHandler) VerifyLedger(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.ledger.VerifyLedger(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}

// Import godoc
// @Summary      Carga masiva de productos
// @Description  Cada fila se procesa por separado; las categorías desconocidas se crean.
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImportProductsRequest  true  "Filas a importar"
// @Success      200   {object}  dto.ImportResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/products/import [post]
func (h *ProductHandler) Import(c *fiber.Ctx) error {
	var in dto.ImportProductsRequest
	if err := bindJSON(c, &in); err != nil {
		return writeError(c, err)
	}
	out, err := h.importer.ImportProducts(c.UserContext(), in.Products)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, fiber.StatusOK, out)
}
