package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago aceptados.
const (
	PaymentCash        = "cash"
	PaymentCard        = "card"
	PaymentMobileMoney = "mobile_money"
	PaymentOther       = "other"
)

// Estados de una venta persistida. Una venta eliminada deja de existir.
const (
	SaleStatusCommitted = "committed"
	SaleStatusVoided    = "voided"
)

// VoidNotePrefix prefijo que se escribe en Notes al anular.
const VoidNotePrefix = "VOIDED: "

// Sale cabecera de una venta. TotalAmount = Σ SaleLine.TotalPrice.
type Sale struct {
	ID            int64
	CashierID     int64
	TotalAmount   decimal.Decimal
	PaymentMethod string
	ReceiptNumber string
	Notes         string
	Status        string
	CreatedAt     time.Time
}

// IsVoided indica si la venta ya fue anulada.
func (s *Sale) IsVoided() bool { return s.Status == SaleStatusVoided }

// SaleLine línea de venta con el precio capturado al momento de vender.
type SaleLine struct {
	ID          int64
	SaleID      int64
	ProductID   int64
	ProductName string // solo lectura (join)
	Barcode     string // solo lectura (join)
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// IsValidPaymentMethod valida el medio de pago.
func IsValidPaymentMethod(method string) bool {
	switch method {
	case PaymentCash, PaymentCard, PaymentMobileMoney, PaymentOther:
		return true
	}
	return false
}

// PaymentMethods lista de medios válidos (orden estable para reportes).
func PaymentMethods() []string {
	return []string{PaymentCash, PaymentCard, PaymentMobileMoney, PaymentOther}
}
