package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Los errores tipados de abajo envuelven uno de estos centinelas, así que
// la capa HTTP puede clasificar con errors.Is sin conocer el tipo concreto.
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrStorage           = errors.New("error de almacenamiento")
)

// ValidationError entrada rechazada antes de tocar el almacenamiento.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// Invalid construye un ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError la operación choca con el estado actual (unicidad, venta ya anulada,
// existencia negativa, producto con ventas, etc.).
type ConflictError struct {
	Resource string
	Reason   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", e.Resource, e.Reason)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// Conflict construye un ConflictError.
func Conflict(resource, reason string) error {
	return &ConflictError{Resource: resource, Reason: reason}
}

// InsufficientStockError se devuelve cuando una línea pide más unidades de las disponibles.
type InsufficientStockError struct {
	ProductID   int64
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d",
		e.ProductName, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// NotFoundError referencia a una entidad inexistente.
type NotFoundError struct {
	Resource string
	ID       any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v no encontrado", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NotFound construye un NotFoundError.
func NotFound(resource string, id any) error {
	return &NotFoundError{Resource: resource, ID: id}
}

// StorageError fallo de la capa de persistencia. Siempre implica rollback.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("almacenamiento (%s): %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// Storage envuelve err como StorageError salvo que ya sea un error de dominio tipado.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsDomainError(err) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsDomainError indica si err ya pertenece a la taxonomía de dominio.
func IsDomainError(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrStorage)
}
