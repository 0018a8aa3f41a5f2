package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	tok, err := Generate("s3cret", "user-1", RoleVendedor, "pos-api", 5)
	require.NoError(t, err)

	userID, role, err := Parse("s3cret", "pos-api", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, RoleVendedor, role)
}

func TestParse_Rejects(t *testing.T) {
	tok, err := Generate("s3cret", "user-1", RoleAdmin, "pos-api", 5)
	require.NoError(t, err)
	expired, err := Generate("s3cret", "user-1", RoleAdmin, "pos-api", -5)
	require.NoError(t, err)

	tests := []struct {
		name, secret, issuer, token string
	}{
		{"firma incorrecta", "otro", "pos-api", tok},
		{"emisor distinto", "s3cret", "otro-emisor", tok},
		{"expirado", "s3cret", "pos-api", expired},
		{"basura", "s3cret", "", "no.es.jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.secret, tt.issuer, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestGenerate_Invalid(t *testing.T) {
	_, err := Generate("", "u", RoleAdmin, "", 5)
	assert.Error(t, err)
	_, err = Generate("s", "u", "cajero", "", 5)
	assert.Error(t, err)
}

func TestParse_EmptyRole(t *testing.T) {
	tok, err := Generate("s3cret", "user-1", "", "", 5)
	require.NoError(t, err)
	userID, role, err := Parse("s3cret", "", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Empty(t, role)
}
