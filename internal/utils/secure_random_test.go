package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateURLSafeToken(t *testing.T) {
	a, err := GenerateURLSafeToken(32)
	require.NoError(t, err)
	b, err := GenerateURLSafeToken(32)
	require.NoError(t, err)

	assert.Len(t, a, 43)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")

	_, err = GenerateURLSafeToken(0)
	assert.Error(t, err)
}

func TestHashToken(t *testing.T) {
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", HashToken("hello"))
	assert.Len(t, HashToken("x"), 64)
}
