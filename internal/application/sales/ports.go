package sales

import (
	"context"

	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// TxRepos repositorios de venta e inventario atados a la misma transacción.
type TxRepos struct {
	Inventory inventory.TxRepos
	Sales     repository.SaleRepository
	Sequences repository.ReceiptSequenceRepository
}

// TxRunner ejecuta una función dentro de una transacción (venta + inventario).
// Si fn devuelve error se hace rollback de todo.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(repos TxRepos) error) error
}

// StockLedger operaciones del libro de inventario que la venta ejecuta en su transacción.
// Lo implementa *inventory.LedgerUseCase.
type StockLedger interface {
	ReduceStockInTx(ctx context.Context, repos inventory.TxRepos, productID int64, quantity int, saleID int64) error
	RestoreStockInTx(ctx context.Context, repos inventory.TxRepos, productID int64, quantity int, saleID int64, mode inventory.RestoreMode) error
}
