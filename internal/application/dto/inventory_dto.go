package dto

import "time"

// AdjustStockRequest body para POST /api/products/:id/adjust.
type AdjustStockRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// StockChangeResponse resultado de un cambio de existencia.
type StockChangeResponse struct {
	ProductID     int64 `json:"product_id"`
	PreviousStock int   `json:"previous_stock"`
	NewStock      int   `json:"new_stock"`
	Delta         int   `json:"delta"`
	MovementID    int64 `json:"movement_id"`
}

// MovementFilter query params de GET /api/inventory/movements.
type MovementFilter struct {
	ProductID *int64     `query:"product_id"`
	Kind      string     `query:"kind" validate:"omitempty,oneof=initial sale adjustment return"`
	SaleID    *int64     `query:"sale_id"`
	StartDate *time.Time `query:"-"`
	EndDate   *time.Time `query:"-"` // inclusivo (día completo)
	Limit     int        `query:"limit" validate:"omitempty,min=1,max=1000"`
}

// MovementResponse salida de un movimiento del libro.
type MovementResponse struct {
	ID            int64     `json:"id"`
	ProductID     int64     `json:"product_id"`
	ProductName   string    `json:"product_name,omitempty"`
	Kind          string    `json:"kind"`
	QuantityDelta int       `json:"quantity_delta"`
	ReferenceID   *int64    `json:"reference_id,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// LedgerCheckResponse resultado de verificar existencia contra el libro.
type LedgerCheckResponse struct {
	ProductID     int64 `json:"product_id"`
	StockQuantity int   `json:"stock_quantity"`
	LedgerSum     int   `json:"ledger_sum"`
	Consistent    bool  `json:"consistent"`
}

// ImportProductRow fila de carga masiva.
type ImportProductRow struct {
	Name          string `json:"name"`
	Barcode       string `json:"barcode"`
	Category      string `json:"category"`
	PurchasePrice string `json:"purchase_price"`
	SellingPrice  string `json:"selling_price"`
	StockQuantity int    `json:"stock_quantity"`
	MinimumStock  *int   `json:"minimum_stock"`
}

// ImportProductsRequest body para POST /api/products/import.
type ImportProductsRequest struct {
	Products []ImportProductRow `json:"products" validate:"required,min=1"`
}

// ImportRowError error de una fila (Row es 1-based).
type ImportRowError struct {
	Row   int    `json:"row"`
	Name  string `json:"name,omitempty"`
	Error string `json:"error"`
}

// ImportResult resumen de la carga masiva.
type ImportResult struct {
	Successful        int              `json:"successful"`
	Failed            int              `json:"failed"`
	CreatedCategories []string         `json:"created_categories,omitempty"`
	Errors            []ImportRowError `json:"errors"`
}
