package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// DefaultMinimumStock umbral de stock bajo cuando el producto no indica uno.
const DefaultMinimumStock = 5

// RestoreMode indica cómo se devuelve stock de una venta.
type RestoreMode int

const (
	// RestoreAsReturn agrega un movimiento "return" (+cantidad). Se usa al anular.
	RestoreAsReturn RestoreMode = iota
	// RestoreByRemoval borra el movimiento "sale" original. Se usa al eliminar la venta.
	RestoreByRemoval
)

// LedgerUseCase es el dueño del libro de inventario: toda variación de
// Product.StockQuantity pasa por applyMovement, que escribe el movimiento y la
// nueva existencia en la misma transacción.
type LedgerUseCase struct {
	txRunner     TxRunner
	products     repository.ProductRepository
	categories   repository.CategoryRepository
	movements    repository.StockMovementRepository
	log          zerolog.Logger
	defaultMinim int
}

// NewLedgerUseCase construye el caso de uso. Los repositorios recibidos se usan
// solo para lecturas fuera de transacción.
func NewLedgerUseCase(
	txRunner TxRunner,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	movements repository.StockMovementRepository,
	log zerolog.Logger,
	defaultMinimumStock int,
) *LedgerUseCase {
	if defaultMinimumStock < 0 {
		defaultMinimumStock = DefaultMinimumStock
	}
	return &LedgerUseCase{
		txRunner:     txRunner,
		products:     products,
		categories:   categories,
		movements:    movements,
		log:          log.With().Str("component", "inventory").Logger(),
		defaultMinim: defaultMinimumStock,
	}
}

// AddProduct crea el producto con existencia 0 y, si hay existencia inicial,
// la registra como movimiento "initial".
func (uc *LedgerUseCase) AddProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	checked, err := checkNewProduct(in, uc.defaultMinim)
	if err != nil {
		return nil, err
	}
	name, barcode, minimum := checked.name, checked.barcode, checked.minimum

	var product *entity.Product
	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		if barcode != "" {
			existing, err := r.Products.GetByBarcode(ctx, barcode)
			if err != nil {
				return err
			}
			if existing != nil {
				return domain.Conflict("product", fmt.Sprintf("el código de barras %s ya existe", barcode))
			}
		}
		if in.CategoryID != nil {
			cat, err := r.Categories.GetByID(ctx, *in.CategoryID)
			if err != nil {
				return err
			}
			if cat == nil {
				return domain.NotFound("category", *in.CategoryID)
			}
		}
		now := time.Now()
		product = &entity.Product{
			CategoryID:    in.CategoryID,
			Name:          name,
			Barcode:       barcode,
			PurchasePrice: in.PurchasePrice,
			SellingPrice:  in.SellingPrice,
			StockQuantity: 0,
			MinimumStock:  minimum,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		if in.StockQuantity > 0 {
			if _, err := uc.applyMovement(ctx, r, product, entity.MovementKindInitial, in.StockQuantity, nil, "Stock inicial", now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("product_id", product.ID).Int("stock", product.StockQuantity).Msg("producto creado")
	return dto.ProductFromEntity(product), nil
}

// UpdateProduct modifica los campos descriptivos. La existencia nunca se toca aquí.
func (uc *LedgerUseCase) UpdateProduct(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		var err error
		product, err = r.Products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.NotFound("product", id)
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.Invalid("name", "es obligatorio")
			}
			product.Name = name
		}
		if in.Barcode != nil {
			barcode := strings.TrimSpace(*in.Barcode)
			if barcode != "" && barcode != product.Barcode {
				existing, err := r.Products.GetByBarcode(ctx, barcode)
				if err != nil {
					return err
				}
				if existing != nil && existing.ID != id {
					return domain.Conflict("product", fmt.Sprintf("el código de barras %s ya existe", barcode))
				}
			}
			product.Barcode = barcode
		}
		if in.CategoryID != nil {
			if *in.CategoryID == 0 {
				product.CategoryID = nil
				product.CategoryName = ""
			} else {
				cat, err := r.Categories.GetByID(ctx, *in.CategoryID)
				if err != nil {
					return err
				}
				if cat == nil {
					return domain.NotFound("category", *in.CategoryID)
				}
				catID := cat.ID
				product.CategoryID = &catID
				product.CategoryName = cat.Name
			}
		}
		if in.PurchasePrice != nil {
			if err := validateMoney("purchase_price", *in.PurchasePrice); err != nil {
				return err
			}
			product.PurchasePrice = *in.PurchasePrice
		}
		if in.SellingPrice != nil {
			if err := validatePrice(*in.SellingPrice); err != nil {
				return err
			}
			product.SellingPrice = *in.SellingPrice
		}
		if in.MinimumStock != nil {
			if *in.MinimumStock < 0 {
				return domain.Invalid("minimum_stock", "no puede ser negativo")
			}
			product.MinimumStock = *in.MinimumStock
		}
		product.UpdatedAt = time.Now()
		return r.Products.Update(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return dto.ProductFromEntity(product), nil
}

// GetProduct obtiene un producto por ID.
func (uc *LedgerUseCase) GetProduct(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Storage("get product", err)
	}
	if p == nil {
		return nil, domain.NotFound("product", id)
	}
	return dto.ProductFromEntity(p), nil
}

// GetProductByBarcode búsqueda exacta por código de barras (lector del POS).
func (uc *LedgerUseCase) GetProductByBarcode(ctx context.Context, barcode string) (*dto.ProductResponse, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.Invalid("barcode", "es obligatorio")
	}
	p, err := uc.products.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, domain.Storage("get product by barcode", err)
	}
	if p == nil {
		return nil, domain.NotFound("product", barcode)
	}
	return dto.ProductFromEntity(p), nil
}

// ListProducts lista productos por nombre con filtros y paginación.
func (uc *LedgerUseCase) ListProducts(ctx context.Context, in dto.ProductFilter) (*dto.ProductListResponse, error) {
	in.DefaultPage()
	list, err := uc.products.List(ctx, repository.ProductFilter{
		Search:     strings.TrimSpace(in.Search),
		CategoryID: in.CategoryID,
		LowStock:   in.LowStock,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, domain.Storage("list products", err)
	}
	return &dto.ProductListResponse{
		Items: dto.ProductsFromEntities(list),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// ListLowStock productos con existencia <= mínimo, los más urgentes primero.
func (uc *LedgerUseCase) ListLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.products.ListLowStock(ctx)
	if err != nil {
		return nil, domain.Storage("list low stock", err)
	}
	return dto.ProductsFromEntities(list), nil
}

// DeleteProduct elimina el producto y su historial. Falla si alguna venta lo referencia.
func (uc *LedgerUseCase) DeleteProduct(ctx context.Context, id int64) error {
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		p, err := r.Products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("product", id)
		}
		referenced, err := r.Products.HasSaleLines(ctx, id)
		if err != nil {
			return err
		}
		if referenced {
			return domain.Conflict("product", "tiene ventas registradas; no se puede eliminar")
		}
		if err := r.Movements.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		return r.Products.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Int64("product_id", id).Msg("producto eliminado")
	return nil
}

// AdjustStock aplica un ajuste manual (delta != 0). Nunca deja la existencia en negativo.
func (uc *LedgerUseCase) AdjustStock(ctx context.Context, productID int64, delta int, reason string) (*dto.StockChangeResponse, error) {
	if delta == 0 {
		return nil, domain.Invalid("delta", "debe ser distinto de cero")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Ajuste manual"
	}
	var out *dto.StockChangeResponse
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		p, err := r.Products.GetByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NotFound("product", productID)
		}
		if p.StockQuantity+delta < 0 {
			return domain.Conflict("product", fmt.Sprintf("la existencia no puede quedar negativa (actual %d, ajuste %d)", p.StockQuantity, delta))
		}
		previous := p.StockQuantity
		mov, err := uc.applyMovement(ctx, r, p, entity.MovementKindAdjustment, delta, nil, reason, time.Now())
		if err != nil {
			return err
		}
		out = &dto.StockChangeResponse{
			ProductID:     productID,
			PreviousStock: previous,
			NewStock:      p.StockQuantity,
			Delta:         delta,
			MovementID:    mov.ID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Int64("product_id", productID).Int("delta", delta).Int("stock", out.NewStock).Msg("ajuste de inventario")
	return out, nil
}

// ReduceStock descuenta stock por venta en su propia transacción.
func (uc *LedgerUseCase) ReduceStock(ctx context.Context, productID int64, quantity int, saleID int64) error {
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		return uc.ReduceStockInTx(ctx, r, productID, quantity, saleID)
	})
}

// ReduceStockInTx descuenta quantity unidades usando los repositorios de la transacción del caller.
// Bloquea la fila del producto; si no alcanza devuelve *domain.InsufficientStockError sin escribir nada.
func (uc *LedgerUseCase) ReduceStockInTx(ctx context.Context, r TxRepos, productID int64, quantity int, saleID int64) error {
	if quantity <= 0 {
		return domain.Invalid("quantity", "debe ser mayor que cero")
	}
	p, err := r.Products.GetByIDForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NotFound("product", productID)
	}
	if p.StockQuantity < quantity {
		return &domain.InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Requested:   quantity,
			Available:   p.StockQuantity,
		}
	}
	ref := saleID
	_, err = uc.applyMovement(ctx, r, p, entity.MovementKindSale, -quantity, &ref, "", time.Now())
	return err
}

// RestoreStock devuelve stock de una venta como devolución en su propia transacción.
func (uc *LedgerUseCase) RestoreStock(ctx context.Context, productID int64, quantity int, saleID int64) error {
	return uc.txRunner.Run(ctx, func(r TxRepos) error {
		return uc.RestoreStockInTx(ctx, r, productID, quantity, saleID, RestoreAsReturn)
	})
}

// RestoreStockInTx devuelve quantity unidades de la venta saleID.
// RestoreAsReturn agrega un movimiento "return"; RestoreByRemoval borra el movimiento
// "sale" original, de modo que la venta no deja rastro en el libro.
func (uc *LedgerUseCase) RestoreStockInTx(ctx context.Context, r TxRepos, productID int64, quantity int, saleID int64, mode RestoreMode) error {
	if quantity <= 0 {
		return domain.Invalid("quantity", "debe ser mayor que cero")
	}
	p, err := r.Products.GetByIDForUpdate(ctx, productID)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NotFound("product", productID)
	}
	now := time.Now()
	switch mode {
	case RestoreAsReturn:
		ref := saleID
		_, err = uc.applyMovement(ctx, r, p, entity.MovementKindReturn, quantity, &ref,
			fmt.Sprintf("Devolución venta #%d", saleID), now)
		return err
	case RestoreByRemoval:
		mov, err := r.Movements.FindSaleMovement(ctx, saleID, productID, quantity)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.NotFound("stock movement", fmt.Sprintf("venta %d producto %d", saleID, productID))
		}
		if err := r.Movements.Delete(ctx, mov.ID); err != nil {
			return err
		}
		p.StockQuantity += quantity
		p.UpdatedAt = now
		return r.Products.UpdateStock(ctx, p.ID, p.StockQuantity, now)
	}
	return domain.Invalid("mode", "modo de restauración desconocido")
}

// ListMovements historial del libro, más recientes primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, in dto.MovementFilter) ([]dto.MovementResponse, error) {
	if in.Kind != "" && !entity.IsValidMovementKind(in.Kind) {
		return nil, domain.Invalid("kind", "tipo de movimiento desconocido")
	}
	f := repository.MovementFilter{
		ProductID:   in.ProductID,
		Kind:        in.Kind,
		ReferenceID: in.SaleID,
		From:        in.StartDate,
		Limit:       in.Limit,
	}
	if in.EndDate != nil {
		to := in.EndDate.AddDate(0, 0, 1)
		f.To = &to
	}
	if f.Limit <= 0 {
		f.Limit = 200
	}
	list, err := uc.movements.List(ctx, f)
	if err != nil {
		return nil, domain.Storage("list movements", err)
	}
	out := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementFromEntity(m))
	}
	return out, nil
}

// VerifyLedger compara la existencia del producto con la suma de su libro.
func (uc *LedgerUseCase) VerifyLedger(ctx context.Context, productID int64) (*dto.LedgerCheckResponse, error) {
	p, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, domain.Storage("get product", err)
	}
	if p == nil {
		return nil, domain.NotFound("product", productID)
	}
	sum, err := uc.movements.SumByProduct(ctx, productID)
	if err != nil {
		return nil, domain.Storage("sum movements", err)
	}
	if sum != p.StockQuantity {
		uc.log.Warn().Int64("product_id", productID).Int("stock", p.StockQuantity).Int("ledger", sum).
			Msg("existencia inconsistente con el libro")
	}
	return &dto.LedgerCheckResponse{
		ProductID:     productID,
		StockQuantity: p.StockQuantity,
		LedgerSum:     sum,
		Consistent:    sum == p.StockQuantity,
	}, nil
}

// applyMovement es el único lugar que cambia la existencia: registra el movimiento
// y persiste la nueva cantidad. El caller valida que el resultado no sea negativo.
func (uc *LedgerUseCase) applyMovement(
	ctx context.Context,
	r TxRepos,
	p *entity.Product,
	kind string,
	delta int,
	ref *int64,
	notes string,
	now time.Time,
) (*entity.StockMovement, error) {
	newQty := p.StockQuantity + delta
	if err := r.Products.UpdateStock(ctx, p.ID, newQty, now); err != nil {
		return nil, err
	}
	mov := &entity.StockMovement{
		ProductID:     p.ID,
		ProductName:   p.Name,
		Kind:          kind,
		QuantityDelta: delta,
		ReferenceID:   ref,
		Notes:         notes,
		CreatedAt:     now,
	}
	if err := r.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	p.StockQuantity = newQty
	p.UpdatedAt = now
	return mov, nil
}

// newProduct datos de alta ya normalizados.
type newProduct struct {
	name    string
	barcode string
	minimum int
}

// checkNewProduct valida el alta sin tocar el almacenamiento.
func checkNewProduct(in dto.CreateProductRequest, defaultMinimum int) (newProduct, error) {
	out := newProduct{
		name:    strings.TrimSpace(in.Name),
		barcode: strings.TrimSpace(in.Barcode),
		minimum: defaultMinimum,
	}
	if out.name == "" {
		return out, domain.Invalid("name", "es obligatorio")
	}
	if err := validateMoney("purchase_price", in.PurchasePrice); err != nil {
		return out, err
	}
	if err := validatePrice(in.SellingPrice); err != nil {
		return out, err
	}
	if in.StockQuantity < 0 {
		return out, domain.Invalid("stock_quantity", "no puede ser negativa")
	}
	if in.MinimumStock != nil {
		if *in.MinimumStock < 0 {
			return out, domain.Invalid("minimum_stock", "no puede ser negativo")
		}
		out.minimum = *in.MinimumStock
	}
	return out, nil
}

// validatePrice el precio de venta debe ser positivo.
func validatePrice(v decimal.Decimal) error {
	if err := validateMoney("selling_price", v); err != nil {
		return err
	}
	if !v.IsPositive() {
		return domain.Invalid("selling_price", "debe ser mayor que cero")
	}
	return nil
}

// validateMoney montos no negativos con máximo 2 decimales.
func validateMoney(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return domain.Invalid(field, "no puede ser negativo")
	}
	if !v.Equal(v.Round(2)) {
		return domain.Invalid(field, "admite máximo 2 decimales")
	}
	return nil
}
