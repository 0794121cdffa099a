package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-prueba"

func TestGenerateParse_ConRole(t *testing.T) {
	tok, err := Generate(testSecret, "u-1", "tecnico", "control-equipos-test", 5)
	require.NoError(t, err)

	userID, role, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", userID)
	assert.Equal(t, "tecnico", role)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "u-1", "admin", "x", 5)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate(testSecret, "u-1", "admin", "x", -1)
	require.NoError(t, err)
	_, _, err = Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestParse_UsaSubjectSiNoHayUserID(t *testing.T) {
	claims := gojwt.RegisteredClaims{
		Subject:   "u-sub",
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Minute)),
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	userID, role, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-sub", userID)
	assert.Empty(t, role)
}

func TestParse_RechazaAlgoritmoNone(t *testing.T) {
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, Claims{UserID: "u-1", Role: "admin"}).
		SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, _, err = Parse(testSecret, tok)
	assert.Error(t, err)
}
