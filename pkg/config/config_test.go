package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/pkg/config"
)

func TestLoadFrom_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.LoadFrom()
	require.NoError(t, err)

	assert.Equal(t, config.DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 4, cfg.DB.MaxConns)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "POS", cfg.POS.ReceiptPrefix)
	assert.Equal(t, 5, cfg.POS.DefaultMinimumStock)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoadFrom_EntornoGanaSobreArchivo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.env")
	require.NoError(t, os.WriteFile(path, []byte("RECEIPT_PREFIX=TIENDA\nDB_DRIVER=memory\nHTTP_PORT=9090\n"), 0o600))
	t.Setenv("RECEIPT_PREFIX", "CAJA")
	t.Setenv("DB_AUTO_MIGRATE", "false")

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "CAJA", cfg.POS.ReceiptPrefix, "la variable de entorno tiene prioridad")
	assert.Equal(t, config.DriverMemory, cfg.DB.Driver, "el archivo aplica si no hay variable")
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.DB.AutoMigrate)
}

func TestLoadFrom_ArchivoInexistenteSeIgnora(t *testing.T) {
	_, err := config.LoadFrom(filepath.Join(t.TempDir(), "no-existe.env"))
	assert.NoError(t, err)
}

func TestLoadFrom_Rechazos(t *testing.T) {
	cases := map[string][2]string{
		"driver desconocido":    {"DB_DRIVER", "sqlite"},
		"una sola conexión":     {"DB_MAX_CONNS", "1"},
		"puerto fuera de rango": {"HTTP_PORT", "70000"},
		"mínimo negativo":       {"POS_DEFAULT_MINIMUM_STOCK", "-1"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := config.LoadFrom()
			assert.Error(t, err)
		})
	}
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5433, User: "caja", Password: "p@ss:word", DBName: "pos", SSLMode: "disable"}
	assert.Equal(t, "postgres://caja:p%40ss%3Aword@db:5433/pos?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otra/url"
	assert.Equal(t, "postgres://otra/url", c.ConnectionString())
}
