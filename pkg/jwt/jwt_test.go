package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo")

	token, err := GenerateToken(3, "ana", "Ana", "funcionario", "v1", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(3), claims.UserID)
	assert.Equal(t, "funcionario", claims.Role)
	assert.Equal(t, "v1", claims.TokenVersion)
	assert.Equal(t, "3", claims.Subject)
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "segredo")

	token, err := GenerateToken(3, "ana", "Ana", "funcionario", "v1", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestWrongSecretRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "um")
	token, err := GenerateToken(1, "g", "G", "gerente", "v", time.Hour)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "outro")
	_, err = ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
