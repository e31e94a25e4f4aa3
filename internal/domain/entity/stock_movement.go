package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	MovementKindInitial    = "initial"    // existencia al crear el producto
	MovementKindSale       = "sale"       // salida por venta (delta negativo)
	MovementKindAdjustment = "adjustment" // ajuste manual
	MovementKindReturn     = "return"     // devolución por anulación de venta
)

// StockMovement entrada del libro de inventario. Para cada producto,
// la suma de QuantityDelta es igual a Product.StockQuantity.
type StockMovement struct {
	ID            int64
	ProductID     int64
	ProductName   string // solo lectura (join)
	Kind          string // initial, sale, adjustment, return
	QuantityDelta int
	ReferenceID   *int64 // id de la venta para sale/return
	Notes         string
	CreatedAt     time.Time
}

// IsValidMovementKind valida el tipo de movimiento.
func IsValidMovementKind(kind string) bool {
	switch kind {
	case MovementKindInitial, MovementKindSale, MovementKindAdjustment, MovementKindReturn:
		return true
	}
	return false
}
