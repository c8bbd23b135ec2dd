// Package suffixauto answers exact substring-occurrence queries over the
// original corpus text via a suffix automaton.
//
// The trainer uses it only for reporting: how often does a freshly minted
// token's string really occur in the raw text, regardless of how the token
// is currently segmented elsewhere. Merge selection never consults it.
package suffixauto

// state of the automaton. Transitions are over raw bytes: token strings are
// well-formed UTF-8, so byte-level matching and codepoint-level matching
// agree on whole-token patterns.
type state struct {
	len  int32
	link int32
	next map[byte]int32
	// number of end positions in the corpus for the substrings this
	// equivalence class represents; filled in by propagate.
	occ int64
}

// Automaton is a suffix automaton over one fixed string. Read-only after New,
// so concurrent Count calls are safe.
type Automaton struct {
	states []state
	last   int32
}

// New builds the automaton online, one byte at a time, then propagates
// endpoint counts up the suffix-link tree. O(len(corpus)) time and space.
func New(corpus string) *Automaton {
	a := &Automaton{
		states: make([]state, 1, 2*len(corpus)+1),
	}
	a.states[0] = state{len: 0, link: -1}

	for i := 0; i < len(corpus); i++ {
		a.extend(corpus[i])
	}
	a.propagate()
	return a
}

// NewFromWords joins words with sep and builds the automaton over the result,
// with sep appended after every word so no pattern can match across a word
// boundary. sep must never occur inside a word; the loader's line/field
// splitting guarantees that for '\n'.
func NewFromWords(words []string, sep byte) *Automaton {
	total := 0
	for _, w := range words {
		total += len(w) + 1
	}
	buf := make([]byte, 0, total)
	for _, w := range words {
		buf = append(buf, w...)
		buf = append(buf, sep)
	}
	return New(string(buf))
}

// extend is the classical online construction step: at most one new state,
// plus occasionally one clone when an existing transition has to be split.
func (a *Automaton) extend(c byte) {
	cur := a.newState(a.states[a.last].len+1, -1)
	a.states[cur].occ = 1 // one fresh right-extension endpoint

	p := a.last
	for p != -1 && !a.hasNext(p, c) {
		a.setNext(p, c, cur)
		p = a.states[p].link
	}

	if p == -1 {
		a.states[cur].link = 0
	} else {
		q := a.states[p].next[c]
		if a.states[p].len+1 == a.states[q].len {
			a.states[cur].link = q
		} else {
			clone := a.newState(a.states[p].len+1, a.states[q].link)
			a.states[clone].next = make(map[byte]int32, len(a.states[q].next))
			for b, t := range a.states[q].next {
				a.states[clone].next[b] = t
			}
			// clones carry no endpoints of their own
			for p != -1 && a.hasNext(p, c) && a.states[p].next[c] == q {
				a.setNext(p, c, clone)
				p = a.states[p].link
			}
			a.states[q].link = clone
			a.states[cur].link = clone
		}
	}
	a.last = cur
}

func (a *Automaton) newState(l, link int32) int32 {
	a.states = append(a.states, state{len: l, link: link})
	return int32(len(a.states) - 1)
}

func (a *Automaton) hasNext(s int32, c byte) bool {
	_, ok := a.states[s].next[c]
	return ok
}

func (a *Automaton) setNext(s int32, c byte, to int32) {
	if a.states[s].next == nil {
		a.states[s].next = make(map[byte]int32)
	}
	a.states[s].next[c] = to
}

// propagate adds each state's occ into its suffix-link target, visiting
// states in decreasing order of len. Counting sort by len keeps this linear.
func (a *Automaton) propagate() {
	maxLen := int32(0)
	for i := range a.states {
		if a.states[i].len > maxLen {
			maxLen = a.states[i].len
		}
	}

	buckets := make([]int32, maxLen+2)
	for i := range a.states {
		buckets[a.states[i].len]++
	}
	for l := int32(1); l <= maxLen; l++ {
		buckets[l] += buckets[l-1]
	}
	order := make([]int32, len(a.states))
	for i := len(a.states) - 1; i >= 0; i-- {
		l := a.states[i].len
		buckets[l]--
		order[buckets[l]] = int32(i)
	}

	// longest first
	for i := len(order) - 1; i >= 0; i-- {
		s := order[i]
		if link := a.states[s].link; link != -1 {
			a.states[link].occ += a.states[s].occ
		}
	}
}

// Count returns the exact number of (possibly overlapping) occurrences of
// pattern in the corpus string the automaton was built over. O(len(pattern)).
func (a *Automaton) Count(pattern string) int64 {
	cur := int32(0)
	for i := 0; i < len(pattern); i++ {
		next, ok := a.states[cur].next[pattern[i]]
		if !ok {
			return 0
		}
		cur = next
	}
	return a.states[cur].occ
}
