package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/ap-invoice-staging/pkg/jwt"
)

const (
	secret = "test-secret-key-for-unit-tests"
	issuer = "ap-invoice-staging-test"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, 1318, pkgjwt.RoleManager, issuer, time.Hour)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(secret, issuer, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(1318), claims.UserID)
	assert.Equal(t, pkgjwt.RoleManager, claims.Role)
	assert.Equal(t, "1318", claims.Subject)
}

func TestParse_Rejections(t *testing.T) {
	expired, err := pkgjwt.Generate(secret, 1, pkgjwt.RoleClerk, issuer, -time.Minute)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, issuer, expired)
	assert.Error(t, err, "token expirado")

	valid, err := pkgjwt.Generate(secret, 1, pkgjwt.RoleClerk, issuer, time.Hour)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", issuer, valid)
	assert.Error(t, err, "secret incorrecto")

	_, err = pkgjwt.Parse(secret, "otro-emisor", valid)
	assert.Error(t, err, "emisor distinto")

	_, err = pkgjwt.Parse("", issuer, valid)
	assert.Error(t, err)
}

func TestGenerate_RequiresSecret(t *testing.T) {
	_, err := pkgjwt.Generate("", 1, pkgjwt.RoleAdmin, issuer, time.Hour)
	assert.Error(t, err)
}
