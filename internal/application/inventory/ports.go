package inventory

import (
	"context"

	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Products   repository.ProductRepository
	Categories repository.CategoryRepository
	Movements  repository.StockMovementRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error (o entra en pánico) se hace rollback; si no, commit.
// Garantiza atomicidad para el libro de inventario.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
