// Package memory implementa los repositorios en memoria. Las transacciones
// toman el candado del Store y restauran una copia completa del estado si fallan.
// Se usa en pruebas y en modo demo (DB_DRIVER=memory).
package memory

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// ErrInjected error que devuelven las operaciones marcadas con FailNext.
var ErrInjected = errors.New("falla inyectada")

type dataset struct {
	categories map[int64]*entity.Category
	products   map[int64]*entity.Product
	movements  map[int64]*entity.StockMovement
	sales      map[int64]*entity.Sale
	lines      map[int64]*entity.SaleLine
	sequences  map[string]int64
	settings   map[string]string

	lastCategoryID int64
	lastProductID  int64
	lastMovementID int64
	lastSaleID     int64
	lastLineID     int64
}

func newDataset() *dataset {
	return &dataset{
		categories: make(map[int64]*entity.Category),
		products:   make(map[int64]*entity.Product),
		movements:  make(map[int64]*entity.StockMovement),
		sales:      make(map[int64]*entity.Sale),
		lines:      make(map[int64]*entity.SaleLine),
		sequences:  make(map[string]int64),
		settings:   make(map[string]string),
	}
}

// clone copia profunda; los ids asignados no retroceden tras un rollback en Postgres,
// pero aquí sí, lo cual es indistinguible para los casos de uso.
func (d *dataset) clone() *dataset {
	c := newDataset()
	for id, v := range d.categories {
		cp := *v
		c.categories[id] = &cp
	}
	for id, v := range d.products {
		c.products[id] = cloneProduct(v)
	}
	for id, v := range d.movements {
		c.movements[id] = cloneMovement(v)
	}
	for id, v := range d.sales {
		cp := *v
		c.sales[id] = &cp
	}
	for id, v := range d.lines {
		cp := *v
		c.lines[id] = &cp
	}
	for k, v := range d.sequences {
		c.sequences[k] = v
	}
	for k, v := range d.settings {
		c.settings[k] = v
	}
	c.lastCategoryID = d.lastCategoryID
	c.lastProductID = d.lastProductID
	c.lastMovementID = d.lastMovementID
	c.lastSaleID = d.lastSaleID
	c.lastLineID = d.lastLineID
	return c
}

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu     sync.Mutex
	data   *dataset
	faults map[string]error
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{data: newDataset(), faults: make(map[string]error)}
}

// NewSeededStore crea un store con las categorías y settings por defecto.
func NewSeededStore() *Store {
	s := NewStore()
	now := time.Now()
	for _, c := range entity.DefaultCategories {
		s.data.lastCategoryID++
		cat := c
		cat.ID = s.data.lastCategoryID
		cat.CreatedAt = now
		s.data.categories[cat.ID] = &cat
	}
	for k, v := range entity.DefaultSettings {
		s.data.settings[k] = v
	}
	return s
}

// FailNext hace que la próxima llamada a op (p. ej. "sales.create_line") falle con ErrInjected.
func (s *Store) FailNext(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = ErrInjected
}

// RowCounts cantidad de filas por tabla.
type RowCounts struct {
	Products  int
	Movements int
	Sales     int
	SaleLines int
}

// Counts cuenta las filas confirmadas.
func (s *Store) Counts() RowCounts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RowCounts{
		Products:  len(s.data.products),
		Movements: len(s.data.movements),
		Sales:     len(s.data.sales),
		SaleLines: len(s.data.lines),
	}
}

// fault consume una falla programada. Requiere el candado tomado.
func (s *Store) fault(op string) error {
	if err, ok := s.faults[op]; ok {
		delete(s.faults, op)
		return &domain.StorageError{Op: op, Err: err}
	}
	return nil
}

// scope abstrae el acceso al dataset: fuera de transacción toma el candado por llamada;
// dentro de una transacción el candado ya lo tiene el TxRunner.
type scope struct {
	s    *Store
	inTx bool
}

func (sc scope) lock() func() {
	if sc.inTx {
		return func() {}
	}
	sc.s.mu.Lock()
	return sc.s.mu.Unlock
}

func (sc scope) d() *dataset { return sc.s.data }

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	if p.CategoryID != nil {
		id := *p.CategoryID
		cp.CategoryID = &id
	}
	return &cp
}

func cloneMovement(m *entity.StockMovement) *entity.StockMovement {
	cp := *m
	if m.ReferenceID != nil {
		id := *m.ReferenceID
		cp.ReferenceID = &id
	}
	return &cp
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}

func missing(resource string, id int64) error {
	return domain.NotFound(resource, fmt.Sprint(id))
}
