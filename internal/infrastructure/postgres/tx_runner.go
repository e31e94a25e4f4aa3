package postgres

import (
	"context"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/sales"
)

// Ensure TxRunner implements inventory.TxRunner and sales.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de la transacción de escritura del Store.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner con el Store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return r.run(ctx, func() error {
		return fn(inventoryRepos(r.store))
	})
}

// RunSale inicia una transacción con repos de inventario y ventas (para CreateSale, VoidSale y DeleteSale).
func (r *TxRunner) RunSale(ctx context.Context, fn func(repos sales.TxRepos) error) error {
	return r.run(ctx, func() error {
		return fn(sales.TxRepos{
			Inventory: inventoryRepos(r.store),
			Sales:     NewSaleRepository(r.store),
			Sequences: NewReceiptSequenceRepository(r.store),
		})
	})
}

func (r *TxRunner) run(ctx context.Context, fn func() error) (err error) {
	if err := r.store.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = r.store.Rollback(context.WithoutCancel(ctx))
			panic(p)
		}
		if err != nil {
			if rbErr := r.store.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				r.store.log.Error().Err(rbErr).Msg("rollback fallido")
			}
		}
	}()

	if err = fn(); err != nil {
		return err
	}
	return r.store.Commit(ctx)
}

func inventoryRepos(q Querier) inventory.TxRepos {
	return inventory.TxRepos{
		Products:   NewProductRepository(q),
		Categories: NewCategoryRepository(q),
		Movements:  NewStockMovementRepository(q),
	}
}
