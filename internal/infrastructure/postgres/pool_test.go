package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/pkg/config"
)

func TestPoolConfig_MinimoDeConexionesYCommitSincrono(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{
		Host: "127.0.0.1", Port: 5432, User: "pos", Password: "x", DBName: "pos", SSLMode: "disable",
		MaxConns: 1,
	})
	require.NoError(t, err)

	assert.EqualValues(t, 2, pc.MaxConns, "el escritor no puede dejar sin conexión a las lecturas")
	assert.Equal(t, "on", pc.ConnConfig.RuntimeParams["synchronous_commit"])
	assert.Equal(t, "pos", pc.ConnConfig.Database)
	assert.NotNil(t, pc.AfterConnect)
	assert.NotNil(t, pc.ConnConfig.DialFunc)
}

func TestPoolConfig_DatabaseURLTienePrioridad(t *testing.T) {
	pc, err := poolConfig(config.DBConfig{
		DatabaseURL: "postgres://u:p@10.0.0.7:6543/tienda?sslmode=disable",
		Host:        "ignorado", DBName: "ignorado", MaxConns: 6,
	})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", pc.ConnConfig.Host)
	assert.EqualValues(t, 6543, pc.ConnConfig.Port)
	assert.Equal(t, "tienda", pc.ConnConfig.Database)
	assert.EqualValues(t, 6, pc.MaxConns)
}

func TestPoolConfig_DSNInvalido(t *testing.T) {
	_, err := poolConfig(config.DBConfig{DatabaseURL: "postgres://%zz", MaxConns: 2})
	assert.Error(t, err)
}

func TestLookupIPv4_Literales(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "127.0.0.1", lookupIPv4(ctx, "127.0.0.1"))
	assert.Equal(t, "", lookupIPv4(ctx, "::1"))
}
