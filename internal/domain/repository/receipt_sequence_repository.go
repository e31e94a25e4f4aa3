package repository

import (
	"context"
	"time"
)

// ReceiptSequenceRepository contador durable de recibos por día calendario.
type ReceiptSequenceRepository interface {
	// Next incrementa y devuelve el contador del día (el primero es 1).
	Next(ctx context.Context, day time.Time) (int64, error)
}
