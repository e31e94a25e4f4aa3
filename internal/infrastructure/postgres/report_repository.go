package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para resúmenes y reportes.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// SalesTotals cuenta e ingresa las ventas confirmadas; usa COALESCE para devolver cero
// si no hay ventas en el período.
func (r *ReportRepo) SalesTotals(ctx context.Context, f repository.SaleFilter) (*repository.SalesTotals, error) {
	f.Status = entity.SaleStatusCommitted
	where, args := saleWhere(f, "s")
	query := `
		SELECT s.payment_method, COUNT(*), COALESCE(SUM(s.total_amount), 0)
		FROM sales s` + where + `
		GROUP BY s.payment_method`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Storage("reports.SalesTotals", err)
	}
	defer rows.Close()

	out := &repository.SalesTotals{Revenue: decimal.Zero, ByPaymentMethod: make(map[string]int)}
	for rows.Next() {
		var (
			method  string
			count   int
			revenue decimal.Decimal
		)
		if err := rows.Scan(&method, &count, &revenue); err != nil {
			return nil, domain.Storage("reports.SalesTotals scan", err)
		}
		out.Count += count
		out.Revenue = out.Revenue.Add(revenue)
		out.ByPaymentMethod[method] = count
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("reports.SalesTotals", err)
	}
	return out, nil
}

// TopProducts agrupa las líneas de ventas confirmadas por producto.
func (r *ReportRepo) TopProducts(ctx context.Context, from, to *time.Time, limit int) ([]repository.TopProductResult, error) {
	conds := []string{"s.status = 'committed'"}
	var args []any
	if from != nil {
		args = append(args, *from)
		conds = append(conds, fmt.Sprintf("s.created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conds = append(conds, fmt.Sprintf("s.created_at < $%d", len(args)))
	}
	query := `
	SELECT
	    p.id,
	    p.name,
	    COALESCE(p.barcode, ''),
	    COALESCE(c.name, ''),
	    SUM(l.quantity)            AS units_sold,
	    SUM(l.total_price)         AS revenue,
	    COUNT(DISTINCT s.id)       AS sales_count
	FROM sale_lines l
	JOIN sales      s ON s.id = l.sale_id
	JOIN products   p ON p.id = l.product_id
	LEFT JOIN categories c ON c.id = p.category_id
	WHERE ` + strings.Join(conds, " AND ") + `
	GROUP BY p.id, p.name, p.barcode, c.name
	ORDER BY units_sold DESC, p.id`
	query, args = withPage(query, args, limit, 0)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Storage("reports.TopProducts", err)
	}
	defer rows.Close()

	out := make([]repository.TopProductResult, 0)
	for rows.Next() {
		var row repository.TopProductResult
		if err := rows.Scan(
			&row.ProductID,
			&row.Name,
			&row.Barcode,
			&row.Category,
			&row.UnitsSold,
			&row.Revenue,
			&row.SalesCount,
		); err != nil {
			return nil, domain.Storage("reports.TopProducts scan", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("reports.TopProducts", err)
	}
	return out, nil
}

// InventoryTotals valorización del inventario a precio de venta y de compra.
func (r *ReportRepo) InventoryTotals(ctx context.Context, f repository.InventoryFilter) (*repository.InventoryTotals, error) {
	var (
		conds []string
		args  []any
	)
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		conds = append(conds, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.LowStock {
		conds = append(conds, "p.stock_quantity <= p.minimum_stock")
	}
	query := `
	SELECT
	    COUNT(*),
	    COALESCE(SUM(p.stock_quantity), 0),
	    COALESCE(SUM(p.stock_quantity * p.selling_price), 0),
	    COALESCE(SUM(p.stock_quantity * p.purchase_price), 0),
	    COUNT(*) FILTER (WHERE p.stock_quantity <= p.minimum_stock)
	FROM products p`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	out := &repository.InventoryTotals{}
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&out.ProductCount, &out.TotalUnits, &out.RetailValue, &out.CostValue, &out.LowStockCount,
	)
	if err != nil {
		return nil, domain.Storage("reports.InventoryTotals", err)
	}
	return out, nil
}

// CategoryBreakdown resumen por categoría, incluidas las que no tienen productos.
func (r *ReportRepo) CategoryBreakdown(ctx context.Context) ([]repository.CategoryStockResult, error) {
	const query = `
	SELECT
	    c.id,
	    c.name,
	    COUNT(p.id),
	    COALESCE(SUM(p.stock_quantity), 0),
	    COALESCE(SUM(p.stock_quantity * p.selling_price), 0) AS retail_value,
	    COUNT(p.id) FILTER (WHERE p.stock_quantity <= p.minimum_stock)
	FROM categories c
	LEFT JOIN products p ON p.category_id = c.id
	GROUP BY c.id, c.name
	ORDER BY retail_value DESC, c.name`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, domain.Storage("reports.CategoryBreakdown", err)
	}
	defer rows.Close()

	out := make([]repository.CategoryStockResult, 0)
	for rows.Next() {
		var row repository.CategoryStockResult
		if err := rows.Scan(&row.CategoryID, &row.Name, &row.ProductCount, &row.TotalUnits, &row.RetailValue, &row.LowStockCount); err != nil {
			return nil, domain.Storage("reports.CategoryBreakdown scan", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage("reports.CategoryBreakdown", err)
	}
	return out, nil
}
