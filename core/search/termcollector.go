package search

import (
	"bytes"
	"container/heap"

	"github.com/elfringham/iresearch/core/segment"
)

// AcceptedTerm is one term visited by an acceptor-driven iterator and
// admitted for scoring (spec.md §3).
type AcceptedTerm struct {
	Cookie    segment.TermCookie
	Segment   string
	Term      []byte
	DocsCount int
	Key       float32
}

// KeyFunc computes a term's ordering key given its byte length and the
// query term's byte length; distance is only meaningful for Levenshtein
// filters (0 for exact/wildcard/prefix, which always sort at key=1).
type KeyFunc func(term []byte, distance byte, hasDistance bool) float32

// ExactKey always ranks a term at the top: exact/wildcard/prefix
// filters carry no notion of "how close" a term is (spec.md §4.4).
func ExactKey([]byte, byte, bool) float32 { return 1 }

// LevenshteinKey implements spec.md §4.4's similarity key:
// `1 - distance/max(1, min(len(candidate), len(query)))`, with lengths
// in bytes. If the iterator provided no payload, the key is -1, below
// every term that carries a distance; such a term is not excluded from
// scoring, and a collector with room left still admits it.
func LevenshteinKey(queryLen int) KeyFunc {
	return func(term []byte, distance byte, hasDistance bool) float32 {
		if !hasDistance {
			return -1
		}
		denom := len(term)
		if queryLen < denom {
			denom = queryLen
		}
		if denom < 1 {
			denom = 1
		}
		return 1 - float32(distance)/float32(denom)
	}
}

// TermCollector visits every accepted term, in Filter.Prepare, deciding
// which survive to be scored (spec.md §4.4).
type TermCollector interface {
	Visit(t AcceptedTerm)
	// Finish returns the terms admitted for scoring and, per segment,
	// the documents matched by a term this collector rejected — they
	// must still surface in the disjunction, unscored (spec.md §3).
	Finish() (scored []AcceptedTerm, unscored map[string]*segment.Bitset)
}

// AllTermsCollector accepts every visited term; used when the order has
// no scored_terms_limit (spec.md §4.4).
type AllTermsCollector struct {
	terms []AcceptedTerm
}

func NewAllTermsCollector() *AllTermsCollector { return &AllTermsCollector{} }

func (c *AllTermsCollector) Visit(t AcceptedTerm) { c.terms = append(c.terms, t) }

func (c *AllTermsCollector) Finish() ([]AcceptedTerm, map[string]*segment.Bitset) {
	return c.terms, map[string]*segment.Bitset{}
}

// heapEntry is one candidate held in the bounded min-heap, ordered so
// that Pop always evicts the *worst* survivor: lowest key first, then
// lexicographically greatest term, then greatest segment id — i.e. the
// reverse of spec.md §4.4's admission order ("key descending, term
// bytes ascending"), so the heap's root is exactly what a new better
// candidate should displace.
type heapEntry struct {
	term AcceptedTerm
}

type termHeap []heapEntry

func (h termHeap) Len() int           { return len(h) }
func (h termHeap) Less(i, j int) bool { return less(h[i].term, h[j].term) }
func (h termHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *termHeap) Push(x interface{}) { *h = append(*h, x.(heapEntry)) }
func (h *termHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// LimitedSampleCollector (a.k.a. TopTermsCollector) keeps at most K
// terms across all segments, ordered by key descending, term bytes
// ascending, ties broken by segment identity (spec.md §3, §4.4). Terms
// evicted from the heap contribute their documents to that segment's
// unscored set instead of being dropped.
type LimitedSampleCollector struct {
	k        int
	h        termHeap
	unscored map[string]*segment.Bitset
}

// NewLimitedSampleCollector builds a collector bounded to k admitted
// terms. k must be > 0; Filter.Prepare substitutes AllTermsCollector
// when the filter's scored_terms_limit is 0 (unbounded).
func NewLimitedSampleCollector(k int) *LimitedSampleCollector {
	return &LimitedSampleCollector{k: k, unscored: map[string]*segment.Bitset{}}
}

func (c *LimitedSampleCollector) Visit(t AcceptedTerm) {
	if len(c.h) < c.k {
		heap.Push(&c.h, heapEntry{term: t})
		return
	}
	worst := c.h[0].term
	if less(t, worst) {
		c.evict(t)
		return
	}
	evicted := heap.Pop(&c.h).(heapEntry).term
	heap.Push(&c.h, heapEntry{term: t})
	c.evict(evicted)
}

// less reports whether a ranks strictly worse than b under spec.md
// §3's tie-break: key descending, term bytes ascending, segment
// identity ascending.
func less(a, b AcceptedTerm) bool {
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	if c := bytes.Compare(a.Term, b.Term); c != 0 {
		return c > 0
	}
	return a.Segment > b.Segment
}

func (c *LimitedSampleCollector) evict(t AcceptedTerm) {
	b, ok := c.unscored[t.Segment]
	if !ok {
		b = segment.NewBitset()
		c.unscored[t.Segment] = b
	}
	b.Add(t.Cookie.Docs())
}

func (c *LimitedSampleCollector) Finish() ([]AcceptedTerm, map[string]*segment.Bitset) {
	scored := make([]AcceptedTerm, len(c.h))
	for i, e := range c.h {
		scored[i] = e.term
	}
	return scored, c.unscored
}
