// Package vocab interns token strings to small dense integer IDs.
//
// A Table is owned by exactly one trainer run. The original design kept these
// maps as globals, which made two runs in the same process share state; here
// every component that needs interning gets the Table passed in explicitly.
package vocab

// ID is a dense symbol identifier, assigned in creation order starting at 0.
// IDs are never reused or renumbered.
type ID int32

// Table is an append-only bidirectional string<->ID mapping.
// Not safe for concurrent use; the trainer is single-threaded.
type Table struct {
	ids     map[string]ID
	strings []string
}

func NewTable() *Table {
	return &Table{
		ids: make(map[string]ID),
	}
}

// Intern returns the ID for s, allocating the next dense ID on first sight.
// Interning guarantees that merging the same symbol pair from two different
// code paths yields the same ID.
func (t *Table) Intern(s string) ID {
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := ID(len(t.strings))
	t.strings = append(t.strings, s)
	t.ids[s] = id
	return id
}

// StringOf returns the string for an ID previously issued by Intern.
// Total over all IDs ever issued; panics on anything else, since a bad ID
// can only come from a programming defect.
func (t *Table) StringOf(id ID) string {
	return t.strings[id]
}

// Len is the number of symbols interned so far. Valid IDs are [0, Len).
func (t *Table) Len() int {
	return len(t.strings)
}
