package idgen

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSameSeedSameStream(t *testing.T) {
	t.Parallel()

	a, b := New(7), New(7)
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.UID(), b.UID())
		assert.Equal(t, a.Suffix(), b.Suffix())
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	t.Parallel()

	a, b := New(1), New(2)
	assert.NotEqual(t, a.UID(), b.UID())
}

func TestUIDsAreUniqueAndValid(t *testing.T) {
	t.Parallel()

	g := New(3)
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := string(g.UID())
		require.False(t, seen[id], "UID %s repeated", id)
		seen[id] = true
		_, err := uuid.Parse(id)
		require.NoError(t, err)
	}
}

func TestSuffixShape(t *testing.T) {
	t.Parallel()

	g := New(4)
	for i := 0; i < 100; i++ {
		s := g.Suffix()
		assert.Len(t, s, 5)
		for _, r := range s {
			assert.True(t, strings.ContainsRune(suffixAlphabet, r), "suffix %q uses rune %q outside the alphabet", s, r)
		}
	}
}
