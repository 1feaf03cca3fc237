package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator_InvalidLength(t *testing.T) {
	_, err := NewGenerator(2)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestGenerator_Alphabet(t *testing.T) {
	g, err := NewGenerator(DefaultLength)
	require.NoError(t, err)

	code, err := g.Generate()
	require.NoError(t, err)
	assert.Len(t, code, DefaultLength)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(Alphabet, r), "unexpected rune %q", r)
	}
}

func TestGenerator_NoCollisionsAgainstSeededStore(t *testing.T) {
	g, err := NewGenerator(DefaultLength)
	require.NoError(t, err)

	existing := make(map[string]struct{}, 1000)
	for len(existing) < 1000 {
		code, err := g.Generate()
		require.NoError(t, err)
		existing[code] = struct{}{}
	}

	for i := 0; i < 10000; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		_, dup := existing[code]
		require.False(t, dup, "collision on %s after %d codes", code, i)
		existing[code] = struct{}{}
	}
}
