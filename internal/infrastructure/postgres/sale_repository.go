package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y líneas sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool, tx o Store (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `s.id, s.cashier_id, s.total_amount, s.payment_method, s.receipt_number, s.notes, s.status, s.created_at`

func scanSale(row pgx.Row, extra ...any) (*entity.Sale, error) {
	var s entity.Sale
	dest := append([]any{
		&s.ID, &s.CashierID, &s.TotalAmount, &s.PaymentMethod, &s.ReceiptNumber, &s.Notes, &s.Status, &s.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create persiste la cabecera de la venta y asigna su ID.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (cashier_id, total_amount, payment_method, receipt_number, notes, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		s.CashierID, s.TotalAmount, s.PaymentMethod, s.ReceiptNumber, s.Notes, s.Status, s.CreatedAt,
	).Scan(&s.ID)
	if err != nil {
		return mapError("insert sale", "sale", err)
	}
	return nil
}

// CreateLine persiste una línea de venta y asigna su ID.
func (r *SaleRepo) CreateLine(ctx context.Context, l *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (sale_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, l.SaleID, l.ProductID, l.Quantity, l.UnitPrice, l.TotalPrice).Scan(&l.ID)
	if err != nil {
		return mapError("insert sale line", "sale line", err)
	}
	return nil
}

// GetByID obtiene una venta por ID.
func (r *SaleRepo) GetByID(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales s WHERE s.id = $1`, id)
}

// GetByIDForUpdate obtiene la venta bloqueando su fila.
func (r *SaleRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales s WHERE s.id = $1 FOR UPDATE`, id)
}

func (r *SaleRepo) getOne(ctx context.Context, query string, id int64) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage("get sale", err)
	}
	return s, nil
}

// GetLines líneas de la venta con nombre y código del producto.
func (r *SaleRepo) GetLines(ctx context.Context, saleID int64) ([]*entity.SaleLine, error) {
	query := `
		SELECT l.id, l.sale_id, l.product_id, p.name, COALESCE(p.barcode, ''), l.quantity, l.unit_price, l.total_price
		FROM sale_lines l
		JOIN products p ON p.id = l.product_id
		WHERE l.sale_id = $1
		ORDER BY l.id`
	rows, err := r.q.Query(ctx, query, saleID)
	if err != nil {
		return nil, domain.Storage("get sale lines", err)
	}
	defer rows.Close()
	out := make([]*entity.SaleLine, 0)
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.ProductName, &l.Barcode, &l.Quantity, &l.UnitPrice, &l.TotalPrice); err != nil {
			return nil, domain.Storage("scan sale line", err)
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("get sale lines", err)
	}
	return out, nil
}

// ExistsReceiptNumber indica si el número de recibo ya fue usado.
func (r *SaleRepo) ExistsReceiptNumber(ctx context.Context, receiptNumber string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE receipt_number = $1)`, receiptNumber).Scan(&exists); err != nil {
		return false, domain.Storage("exists receipt number", err)
	}
	return exists, nil
}

// MarkVoided marca la venta como anulada y reemplaza sus notas.
func (r *SaleRepo) MarkVoided(ctx context.Context, id int64, notes string) error {
	tag, err := r.q.Exec(ctx, `UPDATE sales SET status = 'voided', notes = $1 WHERE id = $2`, notes, id)
	if err != nil {
		return mapError("void sale", "sale", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("sale", id)
	}
	return nil
}

// DeleteLines elimina las líneas de la venta.
func (r *SaleRepo) DeleteLines(ctx context.Context, saleID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM sale_lines WHERE sale_id = $1`, saleID); err != nil {
		return mapError("delete sale lines", "sale", err)
	}
	return nil
}

// Delete elimina la cabecera (las líneas deben haberse eliminado antes).
func (r *SaleRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return mapError("delete sale", "sale", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("sale", id)
	}
	return nil
}

// List ventas filtradas con su número de líneas, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, f repository.SaleFilter) ([]repository.SaleRow, error) {
	where, args := saleWhere(f, "s")
	query := `
		SELECT ` + saleColumns + `, (SELECT COUNT(*) FROM sale_lines l WHERE l.sale_id = s.id)
		FROM sales s` + where + `
		ORDER BY s.created_at DESC, s.id DESC`
	query, args = withPage(query, args, f.Limit, f.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Storage("list sales", err)
	}
	defer rows.Close()
	out := make([]repository.SaleRow, 0)
	for rows.Next() {
		var count int
		s, err := scanSale(rows, &count)
		if err != nil {
			return nil, domain.Storage("scan sale", err)
		}
		out = append(out, repository.SaleRow{Sale: *s, ItemCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("list sales", err)
	}
	return out, nil
}

// saleWhere arma el WHERE de SaleFilter para la tabla con alias a.
func saleWhere(f repository.SaleFilter, a string) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, a, len(args)))
	}
	if f.From != nil {
		add("%s.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("%s.created_at < $%d", *f.To)
	}
	if f.CashierID != nil {
		add("%s.cashier_id = $%d", *f.CashierID)
	}
	if f.PaymentMethod != "" {
		add("%s.payment_method = $%d", f.PaymentMethod)
	}
	if f.Status != "" {
		add("%s.status = $%d", f.Status)
	}
	if len(where) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(where, " AND "), args
}
