package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// StockMovementRepository implementación en memoria del libro de inventario.
type StockMovementRepository struct{ scope }

// NewStockMovementRepository crea el repositorio fuera de transacción.
func NewStockMovementRepository(s *Store) *StockMovementRepository {
	return &StockMovementRepository{scope{s: s}}
}

var _ repository.StockMovementRepository = (*StockMovementRepository)(nil)

// Create asigna el ID y agrega el movimiento al libro.
func (r *StockMovementRepository) Create(_ context.Context, m *entity.StockMovement) error {
	defer r.lock()()
	if err := r.s.fault("movements.create"); err != nil {
		return err
	}
	if _, ok := r.d().products[m.ProductID]; !ok {
		return domain.Conflict("stock movement", "el producto no existe")
	}
	if !entity.IsValidMovementKind(m.Kind) {
		return domain.Invalid("kind", "tipo de movimiento desconocido")
	}
	r.d().lastMovementID++
	m.ID = r.d().lastMovementID
	r.d().movements[m.ID] = cloneMovement(m)
	return nil
}

// FindSaleMovement movimiento "sale" más antiguo de la venta para producto y cantidad.
func (r *StockMovementRepository) FindSaleMovement(_ context.Context, saleID, productID int64, quantity int) (*entity.StockMovement, error) {
	defer r.lock()()
	var found *entity.StockMovement
	for _, m := range r.d().movements {
		if m.Kind != entity.MovementKindSale || m.ProductID != productID || m.QuantityDelta != -quantity {
			continue
		}
		if m.ReferenceID == nil || *m.ReferenceID != saleID {
			continue
		}
		if found == nil || m.ID < found.ID {
			found = m
		}
	}
	if found == nil {
		return nil, nil
	}
	return cloneMovement(found), nil
}

// Delete elimina un movimiento por ID.
func (r *StockMovementRepository) Delete(_ context.Context, id int64) error {
	defer r.lock()()
	if err := r.s.fault("movements.delete"); err != nil {
		return err
	}
	if _, ok := r.d().movements[id]; !ok {
		return missing("stock movement", id)
	}
	delete(r.d().movements, id)
	return nil
}

// DeleteByProduct elimina el historial del producto.
func (r *StockMovementRepository) DeleteByProduct(_ context.Context, productID int64) error {
	defer r.lock()()
	for id, m := range r.d().movements {
		if m.ProductID == productID {
			delete(r.d().movements, id)
		}
	}
	return nil
}

// List historial filtrado, más recientes primero.
func (r *StockMovementRepository) List(_ context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	defer r.lock()()
	out := make([]*entity.StockMovement, 0)
	for _, m := range r.d().movements {
		if f.ProductID != nil && m.ProductID != *f.ProductID {
			continue
		}
		if f.Kind != "" && m.Kind != f.Kind {
			continue
		}
		if f.ReferenceID != nil && (m.ReferenceID == nil || *m.ReferenceID != *f.ReferenceID) {
			continue
		}
		if !inRange(m.CreatedAt, f.From, f.To) {
			continue
		}
		cp := cloneMovement(m)
		if p, ok := r.d().products[m.ProductID]; ok {
			cp.ProductName = p.Name
		}
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return paginate(out, f.Limit, 0), nil
}

// SumByProduct suma de deltas del producto.
func (r *StockMovementRepository) SumByProduct(_ context.Context, productID int64) (int, error) {
	defer r.lock()()
	sum := 0
	for _, m := range r.d().movements {
		if m.ProductID == productID {
			sum += m.QuantityDelta
		}
	}
	return sum, nil
}
