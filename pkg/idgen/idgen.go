// Package idgen produces the unique identifiers and name suffixes handed to
// new resources. The generator is seeded, so a run over the same scenario
// mints the same identifiers every time, and identifiers are never reused
// within a generator's lifetime.
package idgen

import (
	"math/rand"

	"github.com/google/uuid"
	"k8s.io/apimachinery/pkg/types"
)

const suffixAlphabet = "bcdfghjklmnpqrstvwxz2456789"

// Generator mints UIDs and pod-name suffixes from a seeded random stream.
// Not safe for concurrent use; the tick pipeline is single-threaded.
type Generator struct {
	rng *rand.Rand
}

// New returns a generator seeded with the given value.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// UID returns a fresh unique identifier.
func (g *Generator) UID() types.UID {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// The math/rand reader never returns an error.
		panic(err)
	}
	return types.UID(id.String())
}

// Suffix returns a 5-character name suffix in the style of generateName,
// drawn from an alphabet without vowels or ambiguous characters.
func (g *Generator) Suffix() string {
	b := make([]byte, 5)
	for i := range b {
		b[i] = suffixAlphabet[g.rng.Intn(len(suffixAlphabet))]
	}
	return string(b)
}
