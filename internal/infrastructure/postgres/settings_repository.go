package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/pos-api/internal/domain"
	"github.com/jhoicas/pos-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo pares clave/valor de la tabla settings.
type SettingsRepo struct {
	st Statements
}

// NewSettingsRepository construye el adaptador sobre el pool o el Store.
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{st: statementsFor(q)}
}

// GetAll devuelve todas las claves.
func (r *SettingsRepo) GetAll(ctx context.Context) (map[string]string, error) {
	out := make(map[string]string)
	err := r.st.QueryAll(ctx, `SELECT key, value FROM settings`, func(row pgx.Rows) error {
		var k, v string
		if err := row.Scan(&k, &v); err != nil {
			return err
		}
		out[k] = v
		return nil
	})
	if err != nil {
		return nil, domain.Storage("get settings", err)
	}
	return out, nil
}

// Set crea o reemplaza una clave.
func (r *SettingsRepo) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	_, err := r.st.Execute(ctx, query, key, value)
	return err
}
