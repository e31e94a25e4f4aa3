package repository

import "context"

// SettingsRepository pares clave/valor de configuración del negocio.
type SettingsRepository interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
}
