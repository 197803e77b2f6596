package pkg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSerialCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code, err := GenerateSerialCode(16)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(code, SerialCodePrefix))
		assert.Len(t, code, len(SerialCodePrefix)+16)
		assert.Equal(t, strings.ToUpper(code), code)
		assert.NotContains(t, code, "=")

		assert.False(t, seen[code], "generated a duplicate code: %s", code)
		seen[code] = true
	}
}

func TestGenerateAPIKey(t *testing.T) {
	key, err := GenerateAPIKey("vpk")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "vpk_"))
	assert.NotContains(t, key, "=")

	other, err := GenerateAPIKey("vpk")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}
