package segment

import (
	"fmt"

	"github.com/elfringham/iresearch/core/automaton"
)

// Reader is an in-memory segment: a set of per-field term dictionaries
// plus the segment's identity, standing in for the real codec/directory
// reader named in spec.md §6's "Segment reader surface".
type Reader struct {
	ID     string
	fields map[string]*termDictionary
}

// NewReader creates an empty segment with the given identity.
func NewReader(id string) *Reader {
	return &Reader{ID: id, fields: map[string]*termDictionary{}}
}

// Index posts doc as containing term in field, creating the field's
// dictionary on first use. This is the "indexing" side of the in-memory
// stand-in: a real segment would have been built and flushed already by
// the time a Reader exists.
func (r *Reader) Index(field string, term []byte, doc int) {
	d, ok := r.fields[field]
	if !ok {
		d = newTermDictionary()
		r.fields[field] = d
	}
	d.post(term, doc)
}

// Field returns the named field's TermReader, or false if this segment
// carries no such field (spec.md §6: `field(name) → TermReader?`).
func (r *Reader) Field(name string) (*TermReader, bool) {
	d, ok := r.fields[name]
	if !ok {
		return nil, false
	}
	return &TermReader{segment: r, dict: d}, true
}

// TermReader is a per-segment, per-field view exposing a seekable term
// iterator and an automaton-driven iterator (spec.md §2).
type TermReader struct {
	segment *Reader
	dict    *termDictionary
}

// Iterator returns a plain, unconstrained term iterator in
// byte-lexicographic order.
func (t *TermReader) Iterator() *TermIterator {
	return &TermIterator{terms: t.dict.sortedTerms(), pos: -1}
}

// IteratorMatching returns a term iterator constrained to the language
// acceptor accepts, pruning subtrees the acceptor cannot match
// (spec.md §4.3). It does not validate acceptor; callers check
// acceptor.Validate() first and degrade to empty on failure, per
// spec.md §4.2 (search.Prepare does).
func (t *TermReader) IteratorMatching(acceptor *automaton.Acceptor) *AcceptorTermIterator {
	return NewAcceptorTermIterator(t.dict, acceptor)
}

// Docs returns a DocIdSetIterator over the document ids posted to term,
// re-seeking via cookie without rescanning the dictionary. The bool
// result is false if cookie no longer resolves against this reader
// (spec.md §4.7: "term re-seek may fail... skipped silently").
func (t *TermReader) Docs(cookie TermCookie) (*DocIterator, bool) {
	if cookie.term == nil {
		return nil, false
	}
	n := &t.dict.root
	for _, b := range cookie.term {
		if n = n.child(b); n == nil {
			return nil, false
		}
	}
	if !n.terminal {
		return nil, false
	}
	return NewDocIterator(cookie.docs), true
}

// String aids debugging/log messages.
func (r *Reader) String() string {
	return fmt.Sprintf("segment(%s, %d fields)", r.ID, len(r.fields))
}
