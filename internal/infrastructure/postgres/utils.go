package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/pos-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	return hasCode(err, "23505")
}

// isForeignKeyViolation verifica si un error es una violación de llave foránea (23503).
func isForeignKeyViolation(err error) bool {
	return hasCode(err, "23503")
}

// isCheckViolation verifica si un error es una violación de CHECK (23514).
func isCheckViolation(err error) bool {
	return hasCode(err, "23514")
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return strings.Contains(err.Error(), code)
}

// mapError traduce errores de PostgreSQL a la taxonomía de dominio.
func mapError(op, resource string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case isUniqueViolation(err):
		return domain.Conflict(resource, "ya existe un registro con ese valor único")
	case isForeignKeyViolation(err):
		return domain.Conflict(resource, "referencia a un registro inexistente o en uso")
	case isCheckViolation(err):
		return domain.Conflict(resource, "el valor viola una restricción")
	}
	return domain.Storage(op, err)
}

// nullString convierte "" en NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern patrón LIKE "contiene s": los comodines que escribe el usuario
// se buscan literalmente (ESCAPE '\').
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// withPage agrega LIMIT/OFFSET parametrizados si corresponden.
func withPage(query string, args []any, limit, offset int) (string, []any) {
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if offset > 0 {
		args = append(args, offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}
	return query, args
}
