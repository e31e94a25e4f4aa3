package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/pos-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse_ConservaUsuarioYRol(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, 42, "ama", pkgjwt.RoleCashier, "pos-api-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "ama", claims.Username)
	assert.Equal(t, pkgjwt.RoleCashier, claims.Role)
	assert.Equal(t, "42", claims.Subject)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, 1, "", pkgjwt.RoleAdmin, "pos-api-test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, 1, "", pkgjwt.RoleAdmin, "pos-api-test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", 1, "", pkgjwt.RoleAdmin, "x", 60)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)

	_, err = pkgjwt.Parse("", "cualquier.cosa.aqui")
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}
