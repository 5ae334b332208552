package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryID_Deterministic(t *testing.T) {
	a := EntryID("run-1", 3, "add_truck 1 10")
	b := EntryID("run-1", 3, "add_truck 1 10")

	assert.Equal(t, a, b)
	assert.Len(t, a, 64, "hex-encoded SHA-256")
}

func TestEntryID_DistinguishesFields(t *testing.T) {
	base := EntryID("run-1", 3, "count 0")

	assert.NotEqual(t, base, EntryID("run-2", 3, "count 0"))
	assert.NotEqual(t, base, EntryID("run-1", 4, "count 0"))
	assert.NotEqual(t, base, EntryID("run-1", 3, "count 1"))
}

func TestEntryID_NoBoundaryAmbiguity(t *testing.T) {
	// Moving bytes between run ID and line must change the ID.
	assert.NotEqual(t, EntryID("ab", 1, "c"), EntryID("a", 1, "bc"))
}

func TestEntryID_NFCNormalization(t *testing.T) {
	composed := "count \u00e9"    // é as one code point
	decomposed := "count e\u0301" // e + combining acute

	assert.NotEqual(t, composed, decomposed)

	assert.Equal(t, EntryID("run", 1, composed), EntryID("run", 1, decomposed))
}

func TestFixedGenerator(t *testing.T) {
	gen := NewFixedGenerator("a", "b")
	assert.Equal(t, "a", gen.Generate())
	assert.Equal(t, "b", gen.Generate())
	assert.Panics(t, func() { gen.Generate() })
}
