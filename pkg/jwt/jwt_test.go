package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/myinvois-erp/pkg/jwt"
)

const secret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "co-1", "accountant", "myinvois-erp-test", 60)
	require.NoError(t, err)

	claims, err := pkgjwt.ParseClaims(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "co-1", claims.CompanyID)
	assert.Equal(t, "accountant", claims.Role)
	assert.Equal(t, "myinvois-erp-test", claims.Issuer)
}

func TestParse_Rechazos(t *testing.T) {
	expired, err := pkgjwt.Generate(secret, "u-1", "co-1", "admin", "x", -1)
	require.NoError(t, err)
	_, _, _, err = pkgjwt.Parse(secret, expired)
	assert.Error(t, err, "expirado")

	tok, err := pkgjwt.Generate(secret, "u-1", "co-1", "admin", "x", 60)
	require.NoError(t, err)
	_, _, _, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err, "secret incorrecto")

	_, err = pkgjwt.Generate("", "u-1", "co-1", "admin", "x", 60)
	assert.Error(t, err)
}
