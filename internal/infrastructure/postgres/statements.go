package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
)

// Statements contrato de sentencias del Store. Los repositorios construidos sobre el
// Store lo usan dentro de la transacción de escritura; sobre el pool usan el mismo
// contrato sin transacción.
type Statements interface {
	Execute(ctx context.Context, sql string, args ...any) (ExecResult, error)
	QueryOne(ctx context.Context, sql string, scan func(pgx.Row) error, args ...any) (bool, error)
	QueryAll(ctx context.Context, sql string, scan func(pgx.Rows) error, args ...any) error
}

var (
	_ Statements = (*Store)(nil)
	_ Statements = direct{}
)

// statementsFor usa el Store tal cual; cualquier otro Querier se envuelve.
func statementsFor(q Querier) Statements {
	if st, ok := q.(Statements); ok {
		return st
	}
	return direct{q: q}
}

// direct el contrato de Statements sobre un Querier sin transacción propia.
type direct struct {
	q Querier
}

func (d direct) Execute(ctx context.Context, sql string, args ...any) (ExecResult, error) {
	return execute(ctx, d.q, sql, args...)
}

func (d direct) QueryOne(ctx context.Context, sql string, scan func(pgx.Row) error, args ...any) (bool, error) {
	return queryOne(ctx, d.q, sql, scan, args...)
}

func (d direct) QueryAll(ctx context.Context, sql string, scan func(pgx.Rows) error, args ...any) error {
	return queryAll(ctx, d.q, sql, scan, args...)
}

func execute(ctx context.Context, q Querier, sql string, args ...any) (ExecResult, error) {
	if returningID.MatchString(sql) {
		var id int64
		if err := q.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			return ExecResult{}, mapError("execute", "store", err)
		}
		return ExecResult{InsertedID: id, RowsAffected: 1}, nil
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return ExecResult{}, mapError("execute", "store", err)
	}
	return ExecResult{RowsAffected: tag.RowsAffected()}, nil
}

func queryOne(ctx context.Context, q Querier, sql string, scan func(pgx.Row) error, args ...any) (bool, error) {
	err := scan(q.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, domain.Storage("query one", err)
	}
	return true, nil
}

func queryAll(ctx context.Context, q Querier, sql string, scan func(pgx.Rows) error, args ...any) error {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return domain.Storage("query all", err)
	}
	defer rows.Close()
	for rows.Next() {
		if err := scan(rows); err != nil {
			return domain.Storage("query all scan", err)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Storage("query all", err)
	}
	return nil
}
