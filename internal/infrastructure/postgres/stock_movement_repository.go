package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de inventario. Construido sobre el Store escribe dentro de la
// transacción abierta; sobre el pool solo se usa para lecturas.
type StockMovementRepo struct {
	st Statements
}

// NewStockMovementRepository construye el adaptador sobre el pool o el Store.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{st: statementsFor(q)}
}

func scanMovement(row pgx.Row, m *entity.StockMovement) error {
	return row.Scan(&m.ID, &m.ProductID, &m.Kind, &m.QuantityDelta, &m.ReferenceID, &m.Notes, &m.CreatedAt)
}

// Create persiste un movimiento y asigna su ID.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (product_id, kind, quantity_delta, reference_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	res, err := r.st.Execute(ctx, query, m.ProductID, m.Kind, m.QuantityDelta, m.ReferenceID, m.Notes, m.CreatedAt)
	if err != nil {
		return err
	}
	m.ID = res.InsertedID
	return nil
}

// FindSaleMovement movimiento "sale" más antiguo de la venta para el producto y la cantidad dados.
func (r *StockMovementRepo) FindSaleMovement(ctx context.Context, saleID, productID int64, quantity int) (*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, kind, quantity_delta, reference_id, notes, created_at
		FROM stock_movements
		WHERE kind = 'sale' AND reference_id = $1 AND product_id = $2 AND quantity_delta = $3
		ORDER BY id
		LIMIT 1`
	var m entity.StockMovement
	found, err := r.st.QueryOne(ctx, query, func(row pgx.Row) error { return scanMovement(row, &m) }, saleID, productID, -quantity)
	if err != nil {
		return nil, domain.Storage("find sale movement", err)
	}
	if !found {
		return nil, nil
	}
	return &m, nil
}

// Delete elimina un movimiento por ID.
func (r *StockMovementRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.st.Execute(ctx, `DELETE FROM stock_movements WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("stock movement", id)
	}
	return nil
}

// DeleteByProduct elimina el historial de un producto (solo al eliminar el producto).
func (r *StockMovementRepo) DeleteByProduct(ctx context.Context, productID int64) error {
	_, err := r.st.Execute(ctx, `DELETE FROM stock_movements WHERE product_id = $1`, productID)
	return err
}

// List historial filtrado, más recientes primero.
func (r *StockMovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	var (
		where []string
		args  []any
	)
	if f.ProductID != nil {
		args = append(args, *f.ProductID)
		where = append(where, fmt.Sprintf("m.product_id = $%d", len(args)))
	}
	if f.Kind != "" {
		args = append(args, f.Kind)
		where = append(where, fmt.Sprintf("m.kind = $%d", len(args)))
	}
	if f.ReferenceID != nil {
		args = append(args, *f.ReferenceID)
		where = append(where, fmt.Sprintf("m.reference_id = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("m.created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("m.created_at < $%d", len(args)))
	}
	query := `
		SELECT m.id, m.product_id, p.name, m.kind, m.quantity_delta, m.reference_id, m.notes, m.created_at
		FROM stock_movements m
		JOIN products p ON p.id = m.product_id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY m.created_at DESC, m.id DESC"
	query, args = withPage(query, args, f.Limit, 0)

	out := make([]*entity.StockMovement, 0)
	err := r.st.QueryAll(ctx, query, func(row pgx.Rows) error {
		var m entity.StockMovement
		if err := row.Scan(&m.ID, &m.ProductID, &m.ProductName, &m.Kind, &m.QuantityDelta, &m.ReferenceID, &m.Notes, &m.CreatedAt); err != nil {
			return err
		}
		out = append(out, &m)
		return nil
	}, args...)
	if err != nil {
		return nil, domain.Storage("list stock movements", err)
	}
	return out, nil
}

// SumByProduct suma de deltas del producto.
func (r *StockMovementRepo) SumByProduct(ctx context.Context, productID int64) (int, error) {
	var sum int
	query := `SELECT COALESCE(SUM(quantity_delta), 0) FROM stock_movements WHERE product_id = $1`
	if _, err := r.st.QueryOne(ctx, query, func(row pgx.Row) error { return row.Scan(&sum) }, productID); err != nil {
		return 0, domain.Storage("sum stock movements", err)
	}
	return sum, nil
}
