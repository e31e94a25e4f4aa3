package postgres

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/domain"
)

var returningID = regexp.MustCompile(`(?is)\bRETURNING\s+id\b`)

// ExecResult resultado de Store.Execute.
type ExecResult struct {
	InsertedID   int64 // solo si la sentencia tiene RETURNING id
	RowsAffected int64
}

// Store es el acceso durable de la aplicación: un pool de PostgreSQL más, a lo sumo,
// una transacción de escritura abierta. Mientras hay una transacción abierta, todas las
// operaciones del Store (Execute, QueryOne, QueryAll y la interfaz Querier) se ejecutan
// dentro de ella; Begin espera hasta que la anterior termine (un único escritor).
// Las lecturas concurrentes de otros flujos deben usar repositorios atados al pool.
type Store struct {
	pool *pgxpool.Pool
	log  zerolog.Logger

	writer chan struct{} // semáforo de un cupo: tomado entre Begin y Commit/Rollback
	mu     sync.Mutex    // protege tx
	tx     pgx.Tx
}

// NewStore construye el Store sobre un pool ya conectado.
func NewStore(pool *pgxpool.Pool, log zerolog.Logger) *Store {
	return &Store{
		pool:   pool,
		log:    log.With().Str("component", "store").Logger(),
		writer: make(chan struct{}, 1),
	}
}

// Pool devuelve el pool para repositorios de solo lectura.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// InTx indica si hay una transacción abierta.
func (s *Store) InTx() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tx != nil
}

func (s *Store) current() Querier {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tx != nil {
		return s.tx
	}
	return s.pool
}

// Begin abre la transacción de escritura. Si otra está abierta espera a que termine
// o a que ctx se cancele.
func (s *Store) Begin(ctx context.Context) error {
	select {
	case s.writer <- struct{}{}:
	case <-ctx.Done():
		return domain.Storage("begin", ctx.Err())
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		<-s.writer
		return domain.Storage("begin", err)
	}
	s.mu.Lock()
	s.tx = tx
	s.mu.Unlock()
	return nil
}

// take retira la transacción abierta (o nil) del Store.
func (s *Store) take() pgx.Tx {
	s.mu.Lock()
	defer s.mu.Unlock()
	tx := s.tx
	s.tx = nil
	return tx
}

// Commit confirma la transacción abierta. Sin transacción abierta no hace nada.
func (s *Store) Commit(ctx context.Context) error {
	tx := s.take()
	if tx == nil {
		s.log.Warn().Msg("commit sin transacción abierta")
		return nil
	}
	defer func() { <-s.writer }()
	if err := tx.Commit(ctx); err != nil {
		return domain.Storage("commit", err)
	}
	return nil
}

// Rollback descarta la transacción abierta. Sin transacción abierta no hace nada.
func (s *Store) Rollback(ctx context.Context) error {
	tx := s.take()
	if tx == nil {
		s.log.Warn().Msg("rollback sin transacción abierta")
		return nil
	}
	defer func() { <-s.writer }()
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return domain.Storage("rollback", err)
	}
	return nil
}

// Execute ejecuta una sentencia. Si contiene RETURNING id devuelve el id insertado.
func (s *Store) Execute(ctx context.Context, sql string, args ...any) (ExecResult, error) {
	return execute(ctx, s.current(), sql, args...)
}

// QueryOne ejecuta una consulta de una fila y la entrega a scan. Devuelve false si no hay filas.
func (s *Store) QueryOne(ctx context.Context, sql string, scan func(pgx.Row) error, args ...any) (bool, error) {
	return queryOne(ctx, s.current(), sql, scan, args...)
}

// QueryAll ejecuta una consulta y llama scan por cada fila, en orden.
func (s *Store) QueryAll(ctx context.Context, sql string, scan func(pgx.Rows) error, args ...any) error {
	return queryAll(ctx, s.current(), sql, scan, args...)
}

// Exec implementa Querier.
func (s *Store) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return s.current().Exec(ctx, sql, args...)
}

// Query implementa Querier.
func (s *Store) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return s.current().Query(ctx, sql, args...)
}

// QueryRow implementa Querier.
func (s *Store) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return s.current().QueryRow(ctx, sql, args...)
}

// Close cierra el pool.
func (s *Store) Close() {
	if tx := s.take(); tx != nil {
		_ = tx.Rollback(context.Background())
		<-s.writer
	}
	s.pool.Close()
}
