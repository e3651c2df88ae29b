package segment

import (
	"bytes"

	"github.com/elfringham/iresearch/core/automaton"
)

// TermCookie is an opaque, per-segment handle sufficient to re-seek a
// term iterator to an exact term without re-scanning (spec.md §3). It
// is only valid against the Reader that produced it.
type TermCookie struct {
	term       []byte
	docs       []int
	payload    byte
	hasPayload bool
}

// Term returns the cookie's term bytes.
func (c TermCookie) Term() []byte { return c.term }

// Docs returns the sorted, de-duplicated document ids posted to the
// cookie's term.
func (c TermCookie) Docs() []int { return c.docs }

// Payload returns the accepting state's payload byte captured when the
// cookie was taken, and whether one was carried.
func (c TermCookie) Payload() (byte, bool) { return c.payload, c.hasPayload }

// TermIterator walks a field's term dictionary in byte-lexicographic
// order (spec.md §6's `term_reader.iterator()`).
type TermIterator struct {
	terms []*trieNode
	pos   int
}

// Next advances to the next term, returning false once exhausted.
func (it *TermIterator) Next() bool {
	if it.pos+1 >= len(it.terms) {
		it.pos = len(it.terms)
		return false
	}
	it.pos++
	return true
}

// SeekCeil positions the iterator at the first term >= target,
// returning true iff that term equals target exactly.
func (it *TermIterator) SeekCeil(target []byte) bool {
	lo, hi := 0, len(it.terms)
	for lo < hi {
		mid := (lo + hi) / 2
		if bytes.Compare(it.terms[mid].term, target) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	it.pos = lo
	return lo < len(it.terms) && bytes.Equal(it.terms[lo].term, target)
}

// Value returns the current term. Undefined before the first Next or
// successful SeekCeil.
func (it *TermIterator) Value() []byte {
	if it.pos < 0 || it.pos >= len(it.terms) {
		return nil
	}
	return it.terms[it.pos].term
}

// DocsCount returns the number of documents posted to the current term.
func (it *TermIterator) DocsCount() int {
	if it.pos < 0 || it.pos >= len(it.terms) {
		return 0
	}
	return len(it.terms[it.pos].docs)
}

// Cookie snapshots the current position.
func (it *TermIterator) Cookie() TermCookie {
	n := it.terms[it.pos]
	return TermCookie{term: n.term, docs: n.docs}
}

// AcceptorTermIterator drives a TermIterator-like walk of the trie
// constrained by an automaton.Acceptor, pruning an entire subtree the
// moment the acceptor reports IsDead for it (spec.md §4.3).
type AcceptorTermIterator struct {
	acceptor *automaton.Acceptor
	stack    []frame
	current  *trieNode
	payload  byte
	hasPay   bool
}

type frame struct {
	node     *trieNode
	state    int
	childIdx int
}

// NewAcceptorTermIterator builds an iterator over dict constrained by
// acceptor, starting from its root (state 0).
func NewAcceptorTermIterator(dict *termDictionary, acceptor *automaton.Acceptor) *AcceptorTermIterator {
	dict.sortedTerms() // ensure trie is materialized; walk uses raw nodes directly
	it := &AcceptorTermIterator{acceptor: acceptor}
	if !acceptor.IsDead(0) {
		it.stack = []frame{{node: &dict.root, state: 0, childIdx: 0}}
	}
	return it
}

// Next advances to the next accepted term in byte-lexicographic order,
// descending only into subtrees the acceptor can still match (per
// Acceptor.CanMatch), and returns false once the walk is exhausted.
func (it *AcceptorTermIterator) Next() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]

		if top.childIdx == 0 && top.node.terminal && it.acceptor.IsAccept(top.state) {
			top.childIdx = -1 // mark "emitted terminal, resume children next call"
			it.current = top.node
			it.payload, it.hasPay = it.acceptor.Payload(top.state)
			return true
		}
		if top.childIdx == -1 {
			top.childIdx = 0
		}

		if top.childIdx >= len(top.node.children) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}

		child := top.node.children[top.childIdx]
		top.childIdx++
		next := it.acceptor.Step(top.state, child.key)
		if it.acceptor.IsDead(next) || !it.acceptor.CanMatch(next) {
			continue
		}
		it.stack = append(it.stack, frame{node: child, state: next, childIdx: 0})
	}
	return false
}

// Value returns the current accepted term.
func (it *AcceptorTermIterator) Value() []byte {
	if it.current == nil {
		return nil
	}
	return it.current.term
}

// DocsCount returns the number of documents posted to the current term.
func (it *AcceptorTermIterator) DocsCount() int {
	if it.current == nil {
		return 0
	}
	return len(it.current.docs)
}

// Payload returns the accepting state's payload byte (e.g. Levenshtein
// edit distance) and whether one was carried.
func (it *AcceptorTermIterator) Payload() (byte, bool) {
	return it.payload, it.hasPay
}

// Cookie snapshots the current position.
func (it *AcceptorTermIterator) Cookie() TermCookie {
	p, ok := it.Payload()
	return TermCookie{term: it.current.term, docs: it.current.docs, payload: p, hasPayload: ok}
}
