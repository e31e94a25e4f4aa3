package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/domain"
)

func TestCategorias_SeedYNombreUnicoSinMayusculas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	list, err := f.ledger.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 5, "la instalación nueva trae las categorías por defecto")

	_, err = f.ledger.AddCategory(ctx, dto.CategoryRequest{Name: "general"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	snacks, err := f.ledger.AddCategory(ctx, dto.CategoryRequest{Name: " Snacks ", Description: "Galletas y dulces"})
	require.NoError(t, err)
	assert.Equal(t, "Snacks", snacks.Name)

	got, err := f.ledger.GetCategoryByName(ctx, "SNACKS")
	require.NoError(t, err)
	assert.Equal(t, snacks.ID, got.ID)
}

func TestUpdateCategory_RenombrarAUnNombreExistente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, err := f.ledger.AddCategory(ctx, dto.CategoryRequest{Name: "Bebidas frías"})
	require.NoError(t, err)

	_, err = f.ledger.UpdateCategory(ctx, c.ID, dto.CategoryRequest{Name: "clothing"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	renamed, err := f.ledger.UpdateCategory(ctx, c.ID, dto.CategoryRequest{Name: "Bebidas"})
	require.NoError(t, err)
	assert.Equal(t, "Bebidas", renamed.Name)

	_, err = f.ledger.UpdateCategory(ctx, 999, dto.CategoryRequest{Name: "Nada"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteCategory_ConProductosEsConflicto(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, err := f.ledger.AddCategory(ctx, dto.CategoryRequest{Name: "Panadería"})
	require.NoError(t, err)
	_, err = f.ledger.AddProduct(ctx, dto.CreateProductRequest{Name: "Baguette", SellingPrice: decimal.RequireFromString("2.00"), CategoryID: &c.ID})
	require.NoError(t, err)

	assert.ErrorIs(t, f.ledger.DeleteCategory(ctx, c.ID), domain.ErrConflict)

	vacia, err := f.ledger.AddCategory(ctx, dto.CategoryRequest{Name: "Vacía"})
	require.NoError(t, err)
	require.NoError(t, f.ledger.DeleteCategory(ctx, vacia.ID))
	_, err = f.ledger.GetCategoryByName(ctx, "Vacía")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
