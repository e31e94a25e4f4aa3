package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea solicitada. UnitPrice es el precio capturado por el cajero.
type SaleItemRequest struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"omitempty,oneof=cash card mobile_money other"`
	Notes         string            `json:"notes" validate:"omitempty,max=500"`
}

// CreateSaleResponse resultado de una venta confirmada.
type CreateSaleResponse struct {
	SaleID        int64           `json:"sale_id"`
	ReceiptNumber string          `json:"receipt_number"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

// VoidSaleRequest body para POST /api/sales/:id/void.
type VoidSaleRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// VoidSaleResponse resultado de la anulación.
type VoidSaleResponse struct {
	SaleID       int64           `json:"sale_id"`
	VoidedAmount decimal.Decimal `json:"voided_amount"`
}

// DeleteSaleResponse resultado de la eliminación.
type DeleteSaleResponse struct {
	DeletedSaleID  int64           `json:"deleted_sale_id"`
	RestoredAmount decimal.Decimal `json:"restored_amount"`
}

// SaleLineResponse línea de venta.
type SaleLineResponse struct {
	ID          int64           `json:"id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Barcode     string          `json:"barcode,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// SaleResponse venta con sus líneas (Items vacío en listados).
type SaleResponse struct {
	ID            int64              `json:"id"`
	CashierID     int64              `json:"cashier_id"`
	TotalAmount   decimal.Decimal    `json:"total_amount"`
	PaymentMethod string             `json:"payment_method"`
	ReceiptNumber string             `json:"receipt_number"`
	Notes         string             `json:"notes,omitempty"`
	Status        string             `json:"status"`
	ItemCount     int                `json:"item_count"`
	CreatedAt     time.Time          `json:"created_at"`
	Items         []SaleLineResponse `json:"items,omitempty"`
}

// SaleListFilter query params de GET /api/sales.
// Las fechas se interpretan como días completos en hora local.
type SaleListFilter struct {
	StartDate     *time.Time `query:"-"`
	EndDate       *time.Time `query:"-"`
	CashierID     *int64     `query:"cashier_id"`
	PaymentMethod string     `query:"payment_method" validate:"omitempty,oneof=cash card mobile_money other"`
	Status        string     `query:"status" validate:"omitempty,oneof=committed voided"`
	PageRequest
}

// BusinessInfo datos del negocio para el recibo.
type BusinessInfo struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	Currency      string `json:"currency"`
	ReceiptFooter string `json:"receipt_footer"`
}

// ReceiptData todo lo necesario para imprimir el recibo de una venta.
type ReceiptData struct {
	Sale     SaleResponse `json:"sale"`
	Business BusinessInfo `json:"business"`
}
