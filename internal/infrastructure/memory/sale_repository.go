package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

// SaleRepository implementación en memoria de repository.SaleRepository.
type SaleRepository struct{ scope }

// NewSaleRepository crea el repositorio fuera de transacción.
func NewSaleRepository(s *Store) *SaleRepository {
	return &SaleRepository{scope{s: s}}
}

var _ repository.SaleRepository = (*SaleRepository)(nil)

// Create asigna el ID y guarda la cabecera de la venta.
func (r *SaleRepository) Create(_ context.Context, sale *entity.Sale) error {
	defer r.lock()()
	if err := r.s.fault("sales.create"); err != nil {
		return err
	}
	for _, other := range r.d().sales {
		if other.ReceiptNumber == sale.ReceiptNumber {
			return domain.Conflict("sale", "el número de recibo ya existe")
		}
	}
	r.d().lastSaleID++
	sale.ID = r.d().lastSaleID
	cp := *sale
	r.d().sales[sale.ID] = &cp
	return nil
}

// CreateLine guarda una línea; la venta debe existir.
func (r *SaleRepository) CreateLine(_ context.Context, line *entity.SaleLine) error {
	defer r.lock()()
	if err := r.s.fault("sales.create_line"); err != nil {
		return err
	}
	if _, ok := r.d().sales[line.SaleID]; !ok {
		return domain.Conflict("sale line", "la venta no existe")
	}
	if _, ok := r.d().products[line.ProductID]; !ok {
		return domain.Conflict("sale line", "el producto no existe")
	}
	r.d().lastLineID++
	line.ID = r.d().lastLineID
	cp := *line
	r.d().lines[line.ID] = &cp
	return nil
}

// GetByID devuelve una copia o nil si no existe.
func (r *SaleRepository) GetByID(_ context.Context, id int64) (*entity.Sale, error) {
	defer r.lock()()
	s, ok := r.d().sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

// GetByIDForUpdate igual que GetByID: el candado del Store ya serializa.
func (r *SaleRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Sale, error) {
	return r.GetByID(ctx, id)
}

// GetLines líneas de la venta en orden de creación.
func (r *SaleRepository) GetLines(_ context.Context, saleID int64) ([]*entity.SaleLine, error) {
	defer r.lock()()
	return r.linesOf(saleID), nil
}

func (r *SaleRepository) linesOf(saleID int64) []*entity.SaleLine {
	out := make([]*entity.SaleLine, 0)
	for _, l := range r.d().lines {
		if l.SaleID != saleID {
			continue
		}
		cp := *l
		if p, ok := r.d().products[l.ProductID]; ok {
			cp.ProductName = p.Name
			cp.Barcode = p.Barcode
		}
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ExistsReceiptNumber indica si el número de recibo ya está usado.
func (r *SaleRepository) ExistsReceiptNumber(_ context.Context, receiptNumber string) (bool, error) {
	defer r.lock()()
	for _, s := range r.d().sales {
		if s.ReceiptNumber == receiptNumber {
			return true, nil
		}
	}
	return false, nil
}

// MarkVoided cambia el estado a anulada y reemplaza las notas.
func (r *SaleRepository) MarkVoided(_ context.Context, id int64, notes string) error {
	defer r.lock()()
	if err := r.s.fault("sales.mark_voided"); err != nil {
		return err
	}
	s, ok := r.d().sales[id]
	if !ok {
		return missing("sale", id)
	}
	s.Status = entity.SaleStatusVoided
	s.Notes = notes
	return nil
}

// DeleteLines elimina las líneas de la venta.
func (r *SaleRepository) DeleteLines(_ context.Context, saleID int64) error {
	defer r.lock()()
	if err := r.s.fault("sales.delete_lines"); err != nil {
		return err
	}
	for id, l := range r.d().lines {
		if l.SaleID == saleID {
			delete(r.d().lines, id)
		}
	}
	return nil
}

// Delete elimina la cabecera de la venta.
func (r *SaleRepository) Delete(_ context.Context, id int64) error {
	defer r.lock()()
	if _, ok := r.d().sales[id]; !ok {
		return missing("sale", id)
	}
	for _, l := range r.d().lines {
		if l.SaleID == id {
			return domain.Conflict("sale", "tiene líneas asociadas")
		}
	}
	delete(r.d().sales, id)
	return nil
}

// List ventas del filtro, más recientes primero.
func (r *SaleRepository) List(_ context.Context, f repository.SaleFilter) ([]repository.SaleRow, error) {
	defer r.lock()()
	counts := make(map[int64]int)
	for _, l := range r.d().lines {
		counts[l.SaleID]++
	}
	out := make([]repository.SaleRow, 0)
	for _, s := range r.filtered(f) {
		out = append(out, repository.SaleRow{Sale: *s, ItemCount: counts[s.ID]})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Sale, out[j].Sale
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return paginate(out, f.Limit, f.Offset), nil
}

// filtered requiere el candado tomado.
func (r *SaleRepository) filtered(f repository.SaleFilter) []*entity.Sale {
	out := make([]*entity.Sale, 0)
	for _, s := range r.d().sales {
		if !matchesSale(s, f) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func matchesSale(s *entity.Sale, f repository.SaleFilter) bool {
	if !inRange(s.CreatedAt, f.From, f.To) {
		return false
	}
	if f.CashierID != nil && s.CashierID != *f.CashierID {
		return false
	}
	if f.PaymentMethod != "" && s.PaymentMethod != f.PaymentMethod {
		return false
	}
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	return true
}

// ReceiptSequenceRepository contador diario en memoria.
type ReceiptSequenceRepository struct{ scope }

// NewReceiptSequenceRepository crea el repositorio fuera de transacción.
func NewReceiptSequenceRepository(s *Store) *ReceiptSequenceRepository {
	return &ReceiptSequenceRepository{scope{s: s}}
}

var _ repository.ReceiptSequenceRepository = (*ReceiptSequenceRepository)(nil)

// Next incrementa y devuelve el contador del día.
func (r *ReceiptSequenceRepository) Next(_ context.Context, day time.Time) (int64, error) {
	defer r.lock()()
	if err := r.s.fault("sequences.next"); err != nil {
		return 0, err
	}
	key := dayKey(day)
	r.d().sequences[key]++
	return r.d().sequences[key], nil
}

// SettingsRepository settings en memoria.
type SettingsRepository struct{ scope }

// NewSettingsRepository crea el repositorio.
func NewSettingsRepository(s *Store) *SettingsRepository {
	return &SettingsRepository{scope{s: s}}
}

var _ repository.SettingsRepository = (*SettingsRepository)(nil)

// GetAll copia de todas las claves.
func (r *SettingsRepository) GetAll(_ context.Context) (map[string]string, error) {
	defer r.lock()()
	out := make(map[string]string, len(r.d().settings))
	for k, v := range r.d().settings {
		out[k] = v
	}
	return out, nil
}

// Set crea o reemplaza una clave.
func (r *SettingsRepository) Set(_ context.Context, key, value string) error {
	defer r.lock()()
	r.d().settings[key] = value
	return nil
}
