package memory

import (
	"context"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/sales"
)

// TxRunner implementa inventory.TxRunner y sales.TxRunner: toma el candado del Store
// durante toda la función y restaura la copia previa si falla.
type TxRunner struct {
	s *Store
}

// NewTxRunner crea el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ sales.TxRunner     = (*TxRunner)(nil)
)

// Run ejecuta fn con repositorios de inventario atados a la transacción.
func (t *TxRunner) Run(ctx context.Context, fn func(repos inventory.TxRepos) error) error {
	return t.run(ctx, func(sc scope) error {
		return fn(inventoryRepos(sc))
	})
}

// RunSale ejecuta fn con repositorios de venta e inventario atados a la transacción.
func (t *TxRunner) RunSale(ctx context.Context, fn func(repos sales.TxRepos) error) error {
	return t.run(ctx, func(sc scope) error {
		return fn(sales.TxRepos{
			Inventory: inventoryRepos(sc),
			Sales:     &SaleRepository{sc},
			Sequences: &ReceiptSequenceRepository{sc},
		})
	})
}

func (t *TxRunner) run(ctx context.Context, fn func(sc scope) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	snapshot := t.s.data.clone()
	defer func() {
		if p := recover(); p != nil {
			t.s.data = snapshot
			panic(p)
		}
		if err != nil {
			t.s.data = snapshot
		}
	}()
	return fn(scope{s: t.s, inTx: true})
}

func inventoryRepos(sc scope) inventory.TxRepos {
	return inventory.TxRepos{
		Products:   &ProductRepository{sc},
		Categories: &CategoryRepository{sc},
		Movements:  &StockMovementRepository{sc},
	}
}
