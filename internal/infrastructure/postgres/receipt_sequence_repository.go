package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.ReceiptSequenceRepository = (*ReceiptSequenceRepo)(nil)

// ReceiptSequenceRepo contador de recibos por día. Dentro de la transacción de la venta
// el upsert bloquea la fila del día, así que dos ventas nunca obtienen el mismo número;
// si la venta hace rollback el número se libera.
type ReceiptSequenceRepo struct {
	st Statements
}

// NewReceiptSequenceRepository construye el adaptador.
func NewReceiptSequenceRepository(q Querier) *ReceiptSequenceRepo {
	return &ReceiptSequenceRepo{st: statementsFor(q)}
}

// Next incrementa y devuelve el contador del día.
func (r *ReceiptSequenceRepo) Next(ctx context.Context, day time.Time) (int64, error) {
	query := `
		INSERT INTO receipt_sequences (day, last_number)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last_number = receipt_sequences.last_number + 1
		RETURNING last_number`
	// DATE no tiene zona: se envía la fecha local del día como medianoche UTC.
	date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	var n int64
	found, err := r.st.QueryOne(ctx, query, func(row pgx.Row) error { return row.Scan(&n) }, date)
	if err != nil {
		return 0, domain.Storage("next receipt sequence", err)
	}
	if !found {
		return 0, domain.Storage("next receipt sequence", pgx.ErrNoRows)
	}
	return n, nil
}
