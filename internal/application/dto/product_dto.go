package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// StockQuantity es la existencia inicial; se registra como movimiento "initial".
type CreateProductRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Barcode       string          `json:"barcode" validate:"omitempty,max=64"`
	CategoryID    *int64          `json:"category_id" validate:"omitempty,gt=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	MinimumStock  *int            `json:"minimum_stock" validate:"omitempty,min=0"`
}

// UpdateProductRequest entrada para actualizar un producto (nunca la existencia).
type UpdateProductRequest struct {
	Name          *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Barcode       *string          `json:"barcode" validate:"omitempty,max=64"`
	CategoryID    *int64           `json:"category_id" validate:"omitempty,gte=0"` // 0 = quitar categoría
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	MinimumStock  *int             `json:"minimum_stock" validate:"omitempty,min=0"`
}

// ProductFilter query params de GET /api/products.
type ProductFilter struct {
	Search     string `query:"search"`
	CategoryID *int64 `query:"category_id"`
	LowStock   bool   `query:"low_stock"`
	PageRequest
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID            int64           `json:"id"`
	CategoryID    *int64          `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	Name          string          `json:"name"`
	Barcode       string          `json:"barcode,omitempty"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinimumStock  int             `json:"minimum_stock"`
	LowStock      bool            `json:"low_stock"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
