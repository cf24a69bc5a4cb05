package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword_HashAndCheck(t *testing.T) {
	hash, err := HashPassword("contraseña-segura")
	require.NoError(t, err)
	assert.NotEqual(t, "contraseña-segura", hash)

	assert.True(t, CheckPassword("contraseña-segura", hash))
	assert.False(t, CheckPassword("otra-cosa", hash))
}
