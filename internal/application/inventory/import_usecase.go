package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
)

// ImportUseCase carga masiva de productos. Cada fila se procesa por separado:
// una fila inválida se reporta y no detiene el lote.
type ImportUseCase struct {
	ledger *LedgerUseCase
	fold   cases.Caser
	log    zerolog.Logger
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(ledger *LedgerUseCase, log zerolog.Logger) *ImportUseCase {
	return &ImportUseCase{
		ledger: ledger,
		fold:   cases.Fold(),
		log:    log.With().Str("component", "import").Logger(),
	}
}

// ImportProducts crea cada fila como producto. Las categorías desconocidas se crean antes
// del producto; la comparación de nombres no distingue mayúsculas.
// Un error de almacenamiento aborta el lote y se devuelve junto al resultado parcial.
func (uc *ImportUseCase) ImportProducts(ctx context.Context, rows []dto.ImportProductRow) (*dto.ImportResult, error) {
	result := &dto.ImportResult{Errors: []dto.ImportRowError{}}
	if len(rows) == 0 {
		return result, domain.Invalid("products", "la carga no contiene filas")
	}

	known, err := uc.categoryIndex(ctx)
	if err != nil {
		return result, err
	}

	for i, row := range rows {
		rowNum := i + 1
		err := uc.importRow(ctx, row, known, result)
		if err == nil {
			result.Successful++
			continue
		}
		if errors.Is(err, domain.ErrStorage) {
			uc.log.Error().Err(err).Int("row", rowNum).Msg("carga masiva abortada")
			return result, err
		}
		result.Failed++
		result.Errors = append(result.Errors, dto.ImportRowError{
			Row:   rowNum,
			Name:  row.Name,
			Error: err.Error(),
		})
	}

	uc.log.Info().Int("successful", result.Successful).Int("failed", result.Failed).
		Int("categories_created", len(result.CreatedCategories)).Msg("carga masiva finalizada")
	return result, nil
}

// importRow valida la fila completa antes de crear su categoría: una fila rechazada
// no deja nada escrito.
func (uc *ImportUseCase) importRow(ctx context.Context, row dto.ImportProductRow, known map[string]int64, result *dto.ImportResult) error {
	if strings.TrimSpace(row.Name) == "" {
		return domain.Invalid("name", "es obligatorio")
	}
	purchase, err := parseAmount("purchase_price", row.PurchasePrice)
	if err != nil {
		return err
	}
	selling, err := parseAmount("selling_price", row.SellingPrice)
	if err != nil {
		return err
	}
	in := dto.CreateProductRequest{
		Name:          row.Name,
		Barcode:       row.Barcode,
		PurchasePrice: purchase,
		SellingPrice:  selling,
		StockQuantity: row.StockQuantity,
		MinimumStock:  row.MinimumStock,
	}
	checked, err := checkNewProduct(in, uc.ledger.defaultMinim)
	if err != nil {
		return err
	}
	if checked.barcode != "" {
		existing, err := uc.ledger.products.GetByBarcode(ctx, checked.barcode)
		if err != nil {
			return domain.Storage("get product by barcode", err)
		}
		if existing != nil {
			return domain.Conflict("product", fmt.Sprintf("el código de barras %s ya existe", checked.barcode))
		}
	}

	if name := strings.TrimSpace(row.Category); name != "" {
		id, err := uc.resolveCategory(ctx, name, known, result)
		if err != nil {
			return err
		}
		in.CategoryID = &id
	}

	_, err = uc.ledger.AddProduct(ctx, in)
	return err
}

func (uc *ImportUseCase) resolveCategory(ctx context.Context, name string, known map[string]int64, result *dto.ImportResult) (int64, error) {
	key := uc.fold.String(name)
	if id, ok := known[key]; ok {
		return id, nil
	}
	created, err := uc.ledger.AddCategory(ctx, dto.CategoryRequest{Name: name, Description: "Creada por carga masiva"})
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			return 0, err
		}
		// otra escritura la creó entre la lectura inicial y ahora
		existing, lookupErr := uc.ledger.GetCategoryByName(ctx, name)
		if lookupErr != nil {
			return 0, lookupErr
		}
		known[key] = existing.ID
		return existing.ID, nil
	}
	known[key] = created.ID
	result.CreatedCategories = append(result.CreatedCategories, created.Name)
	return created.ID, nil
}

func (uc *ImportUseCase) categoryIndex(ctx context.Context) (map[string]int64, error) {
	list, err := uc.ledger.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]int64, len(list))
	for _, c := range list {
		idx[uc.fold.String(c.Name)] = c.ID
	}
	return idx, nil
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, domain.Invalid(field, "no es un monto válido")
	}
	return v, nil
}
