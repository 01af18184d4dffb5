package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate(secret, "user-1", "ana@example.com", "crm-api", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "crm-api", claims.Issuer)
}

func TestParse_Errores(t *testing.T) {
	expired, err := Generate(secret, "user-1", "", "crm-api", -1)
	require.NoError(t, err)
	_, err = Parse(secret, expired)
	assert.Error(t, err, "token expirado")

	tok, err := Generate(secret, "user-1", "", "crm-api", 60)
	require.NoError(t, err)
	_, err = Parse("otro-secret", tok)
	assert.Error(t, err, "firma incorrecta")

	noUser, err := Generate(secret, "", "", "crm-api", 60)
	require.NoError(t, err)
	_, err = Parse(secret, noUser)
	assert.Error(t, err, "sin user_id")

	_, err = Generate("", "user-1", "", "crm-api", 60)
	assert.Error(t, err)
	_, err = Parse("", tok)
	assert.Error(t, err)
}
