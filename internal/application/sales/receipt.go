package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

const (
	// DefaultReceiptPrefix prefijo de recibo si la configuración no define otro.
	DefaultReceiptPrefix = "POS"
	maxReceiptAttempts   = 5
)

// ReceiptNumberer genera números de recibo <prefijo><AAAAMMDD>-<NNNN> a partir de un
// contador durable por día. Si el candidato ya existe (p. ej. datos importados)
// avanza el contador hasta maxReceiptAttempts veces.
type ReceiptNumberer struct {
	prefix string
}

// NewReceiptNumberer crea el generador.
func NewReceiptNumberer(prefix string) *ReceiptNumberer {
	if prefix == "" {
		prefix = DefaultReceiptPrefix
	}
	return &ReceiptNumberer{prefix: prefix}
}

// Next reserva el siguiente número del día de now dentro de la transacción de la venta.
func (n *ReceiptNumberer) Next(
	ctx context.Context,
	sales repository.SaleRepository,
	sequences repository.ReceiptSequenceRepository,
	now time.Time,
) (string, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for i := 0; i < maxReceiptAttempts; i++ {
		seq, err := sequences.Next(ctx, day)
		if err != nil {
			return "", err
		}
		candidate := n.Format(day, seq)
		exists, err := sales.ExistsReceiptNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", domain.Conflict("receipt", "no se pudo reservar un número de recibo único")
}

// Format arma el número de recibo. Desde 10000 el contador usa más de 4 dígitos.
func (n *ReceiptNumberer) Format(day time.Time, seq int64) string {
	return fmt.Sprintf("%s%s-%04d", n.prefix, day.Format("20060102"), seq)
}
