package vocab

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInternAssignsDenseIDs(t *testing.T) {
	tbl := NewTable()

	a := tbl.Intern("a")
	b := tbl.Intern("b")
	ab := tbl.Intern("ab")

	require.Equal(t, ID(0), a)
	require.Equal(t, ID(1), b)
	require.Equal(t, ID(2), ab)
	require.Equal(t, 3, tbl.Len())
}

func TestInternIsIdempotent(t *testing.T) {
	tbl := NewTable()

	first := tbl.Intern("es")
	// Same string arriving from a different code path must give the same ID.
	second := tbl.Intern("e" + "s")

	require.Equal(t, first, second)
	require.Equal(t, 1, tbl.Len())
}

func TestStringOfRoundTrips(t *testing.T) {
	tbl := NewTable()
	words := []string{"l", "o", "w", "lo", "low", "ö", "ő"}

	for _, w := range words {
		id := tbl.Intern(w)
		require.Equal(t, w, tbl.StringOf(id))
	}
}
