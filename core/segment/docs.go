package segment

import "sort"

// NoMoreDocs is the sentinel returned once a DocIterator is exhausted,
// matching the teacher's DocIdSetIterator.NO_MORE_DOCS convention
// (core/search/model/docIdSetIterator.go).
const NoMoreDocs = int(^uint32(0) >> 1)

// Invalid marks a DocIterator that has not yet been positioned.
const Invalid = -1

// DocIterator walks a sorted, de-duplicated slice of document ids in
// strictly increasing order (spec.md §5's ordering guarantee). State
// machine: Unpositioned → Positioned(doc) → … → Exhausted, matching
// spec.md §4.7.
type DocIterator struct {
	docs []int
	pos  int
	cur  int
}

// NewDocIterator builds an iterator over docs, which must already be
// sorted ascending and de-duplicated (termDictionary.post maintains
// this invariant as it posts).
func NewDocIterator(docs []int) *DocIterator {
	return &DocIterator{docs: docs, pos: -1, cur: Invalid}
}

// DocID returns the current document, Invalid if unpositioned, or
// NoMoreDocs once exhausted.
func (d *DocIterator) DocID() int { return d.cur }

// Next advances to the next document, or NoMoreDocs if exhausted.
func (d *DocIterator) Next() int {
	d.pos++
	if d.pos >= len(d.docs) {
		d.cur = NoMoreDocs
		return d.cur
	}
	d.cur = d.docs[d.pos]
	return d.cur
}

// Seek moves forward only to the first document >= target. Seeking
// with Invalid is a no-op; seeking with NoMoreDocs exhausts the
// iterator (spec.md §4.7).
func (d *DocIterator) Seek(target int) int {
	if target == Invalid {
		return d.cur
	}
	if target == NoMoreDocs {
		d.pos = len(d.docs)
		d.cur = NoMoreDocs
		return d.cur
	}
	i := sort.Search(len(d.docs)-(d.pos+1), func(i int) bool {
		return d.docs[d.pos+1+i] >= target
	})
	d.pos += 1 + i
	if d.pos >= len(d.docs) {
		d.cur = NoMoreDocs
		return d.cur
	}
	d.cur = d.docs[d.pos]
	return d.cur
}

// Cost estimates the number of documents this iterator might produce:
// its total length, regardless of position, an upper bound per the teacher's
// DocIdSetIterator.Cost contract.
func (d *DocIterator) Cost() int64 { return int64(len(d.docs)) }

// Bitset is a simple, sorted-doc-id backed set used for
// SegmentState.unscored_docs (spec.md §3): documents matched by a term
// the top-K cut skipped, which must still surface in the disjunction
// without contributing to scoring.
type Bitset struct {
	docs map[int]struct{}
}

// NewBitset returns an empty Bitset.
func NewBitset() *Bitset {
	return &Bitset{docs: map[int]struct{}{}}
}

// Add marks every document in docs as present.
func (b *Bitset) Add(docs []int) {
	for _, d := range docs {
		b.docs[d] = struct{}{}
	}
}

// Contains reports whether doc was added.
func (b *Bitset) Contains(doc int) bool {
	_, ok := b.docs[doc]
	return ok
}

// Len reports the number of distinct documents held.
func (b *Bitset) Len() int { return len(b.docs) }

// Iterator returns a DocIterator over the bitset's documents in sorted
// order, used as the "neutral score" leg of the disjunction
// (spec.md §4.6 step 2).
func (b *Bitset) Iterator() *DocIterator {
	docs := make([]int, 0, len(b.docs))
	for d := range b.docs {
		docs = append(docs, d)
	}
	sort.Ints(docs)
	return NewDocIterator(docs)
}
