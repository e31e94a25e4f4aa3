package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
	"github.com/jhoicas/pos-api/internal/infrastructure/memory"
)

func newProduct(name string) *entity.Product {
	now := time.Now()
	return &entity.Product{Name: name, SellingPrice: decimal.NewFromInt(1), CreatedAt: now, UpdatedAt: now}
}

func TestTxRunner_ErrorRestauraElEstado(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	products := memory.NewProductRepository(s)

	boom := errors.New("boom")
	err := memory.NewTxRunner(s).Run(ctx, func(r inventory.TxRepos) error {
		require.NoError(t, r.Products.Create(ctx, newProduct("fantasma")))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := products.List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTxRunner_PanicRestauraYPropaga(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = memory.NewTxRunner(s).Run(ctx, func(r inventory.TxRepos) error {
			_ = r.Products.Create(ctx, newProduct("fantasma"))
			panic("fallo inesperado")
		})
	})

	// el candado se liberó y el estado volvió atrás
	list, err := memory.NewProductRepository(s).List(ctx, repository.ProductFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTxRunner_CommitVisibleFuera(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	p := newProduct("real")

	require.NoError(t, memory.NewTxRunner(s).Run(ctx, func(r inventory.TxRepos) error {
		return r.Products.Create(ctx, p)
	}))

	got, err := memory.NewProductRepository(s).GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "real", got.Name)
}

func TestFailNext_SoloUnaVez(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	repo := memory.NewProductRepository(s)

	s.FailNext("products.create")
	err := repo.Create(ctx, newProduct("a"))
	require.ErrorIs(t, err, domain.ErrStorage)
	assert.ErrorIs(t, err, memory.ErrInjected)

	assert.NoError(t, repo.Create(ctx, newProduct("b")))
}

func TestProductRepository_DevuelveCopias(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	repo := memory.NewProductRepository(s)
	p := newProduct("original")
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Name = "mutado"

	again, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", again.Name)

	missing, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductRepository_UpdateStockNoAceptaNegativos(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	repo := memory.NewProductRepository(s)
	p := newProduct("x")
	require.NoError(t, repo.Create(ctx, p))

	assert.ErrorIs(t, repo.UpdateStock(ctx, p.ID, -1, time.Now()), domain.ErrConflict)
}

func TestReceiptSequence_PorDia(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	seq := memory.NewReceiptSequenceRepository(s)
	d1 := time.Date(2026, 10, 17, 0, 0, 0, 0, time.Local)

	n, err := seq.Next(ctx, d1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = seq.Next(ctx, d1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	n, err = seq.Next(ctx, d1.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
