package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool, tx o Store (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `
	p.id, p.category_id, COALESCE(c.name, ''), p.name, p.barcode,
	p.purchase_price, p.selling_price, p.stock_quantity, p.minimum_stock, p.created_at, p.updated_at`

const productFrom = `
	FROM products p
	LEFT JOIN categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	var barcode *string
	if err := row.Scan(
		&p.ID, &p.CategoryID, &p.CategoryName, &p.Name, &barcode,
		&p.PurchasePrice, &p.SellingPrice, &p.StockQuantity, &p.MinimumStock, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.Barcode = derefString(barcode)
	return &p, nil
}

// Create persiste un nuevo producto y asigna su ID.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (category_id, name, barcode, purchase_price, selling_price, stock_quantity, minimum_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.CategoryID, p.Name, nullString(p.Barcode), p.PurchasePrice, p.SellingPrice,
		p.StockQuantity, p.MinimumStock, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return mapError("insert product", "product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	return r.getOne(ctx, "get product", `SELECT`+productColumns+productFrom+` WHERE p.id = $1`, id)
}

// GetByIDForUpdate obtiene el producto bloqueando su fila (SELECT FOR UPDATE).
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.getOne(ctx, "get product for update", `SELECT`+productColumns+productFrom+` WHERE p.id = $1 FOR UPDATE OF p`, id)
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	return r.getOne(ctx, "get product by barcode", `SELECT`+productColumns+productFrom+` WHERE p.barcode = $1`, barcode)
}

func (r *ProductRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, domain.Storage(op, err)
	}
	return p, nil
}

// Update actualiza los campos descriptivos. No toca stock_quantity.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	query := `
		UPDATE products
		SET category_id = $1, name = $2, barcode = $3, purchase_price = $4, selling_price = $5,
		    minimum_stock = $6, updated_at = $7
		WHERE id = $8`
	tag, err := r.q.Exec(ctx, query,
		p.CategoryID, p.Name, nullString(p.Barcode), p.PurchasePrice, p.SellingPrice,
		p.MinimumStock, p.UpdatedAt, p.ID,
	)
	if err != nil {
		return mapError("update product", "product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("product", p.ID)
	}
	return nil
}

// UpdateStock fija la existencia. El CHECK de la tabla rechaza valores negativos.
func (r *ProductRepo) UpdateStock(ctx context.Context, id int64, quantity int, at time.Time) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET stock_quantity = $1, updated_at = $2 WHERE id = $3`, quantity, at, id)
	if err != nil {
		return mapError("update stock", "product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("product", id)
	}
	return nil
}

// List lista productos ordenados por nombre con filtros opcionales.
func (r *ProductRepo) List(ctx context.Context, f repository.ProductFilter) ([]*entity.Product, error) {
	var (
		where []string
		args  []any
	)
	if f.Search != "" {
		args = append(args, containsPattern(f.Search))
		where = append(where, fmt.Sprintf(`(p.name ILIKE $%d ESCAPE '\' OR p.barcode ILIKE $%d ESCAPE '\')`, len(args), len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, fmt.Sprintf("p.category_id = $%d", len(args)))
	}
	if f.LowStock {
		where = append(where, "p.stock_quantity <= p.minimum_stock")
	}
	query := `SELECT` + productColumns + productFrom
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.name, p.id"
	query, args = withPage(query, args, f.Limit, f.Offset)
	return r.list(ctx, "list products", query, args...)
}

// ListLowStock productos con existencia <= mínimo, el de menor holgura primero.
func (r *ProductRepo) ListLowStock(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT` + productColumns + productFrom + `
		WHERE p.stock_quantity <= p.minimum_stock
		ORDER BY (p.stock_quantity - p.minimum_stock) ASC, p.id ASC`
	return r.list(ctx, "list low stock", query)
}

func (r *ProductRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, domain.Storage(op, err)
	}
	defer rows.Close()
	out := make([]*entity.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, domain.Storage(op, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Storage(op, err)
	}
	return out, nil
}

// CountByCategory cuenta los productos de una categoría.
func (r *ProductRepo) CountByCategory(ctx context.Context, categoryID int64) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id = $1`, categoryID).Scan(&n); err != nil {
		return 0, domain.Storage("count products by category", err)
	}
	return n, nil
}

// HasSaleLines indica si alguna línea de venta referencia el producto.
func (r *ProductRepo) HasSaleLines(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sale_lines WHERE product_id = $1)`, id).Scan(&exists); err != nil {
		return false, domain.Storage("product has sale lines", err)
	}
	return exists, nil
}

// Delete elimina un producto por ID.
func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapError("delete product", "product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("product", id)
	}
	return nil
}
