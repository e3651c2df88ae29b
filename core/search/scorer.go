package search

import "github.com/elfringham/iresearch/core/segment"

// ScoredDocIterator wraps a plain segment.DocIterator, applying a set
// of prepared bucket scorers to every document it yields (spec.md
// §4.7). Its state machine is inherited directly from
// segment.DocIterator (Unpositioned -> Positioned(doc) -> ... ->
// Exhausted); ScoredDocIterator only adds the scoring step.
type ScoredDocIterator struct {
	docs    *segment.DocIterator
	scorers []Scorer // one per bucket in the order, aligned by index
	boost   float32
}

// NewScoredDocIterator builds an iterator over docs, scoring each
// document with scorers (already prepared from a stats region and
// term boost via Bucket.PrepareScorer). If no sort order was
// configured, pass a single NoopScorer; its Score must cost nothing
// per spec.md §4.7.
func NewScoredDocIterator(docs *segment.DocIterator, scorers []Scorer, boost float32) *ScoredDocIterator {
	return &ScoredDocIterator{docs: docs, scorers: scorers, boost: boost}
}

func (s *ScoredDocIterator) DocID() int          { return s.docs.DocID() }
func (s *ScoredDocIterator) Next() int           { return s.docs.Next() }
func (s *ScoredDocIterator) Seek(target int) int { return s.docs.Seek(target) }
func (s *ScoredDocIterator) Cost() int64         { return s.docs.Cost() }

// Score writes each bucket's score for the current document into out,
// which must have len(out) == len(scorers).
func (s *ScoredDocIterator) Score(out []float32) {
	doc := s.docs.DocID()
	for i, sc := range s.scorers {
		out[i] = sc.Score(doc, s.boost)
	}
}

// docIter is the minimal surface a disjunction leg needs; both
// *segment.DocIterator and *ScoredDocIterator satisfy it.
type docIter interface {
	DocID() int
	Seek(target int) int
}

// leg is one contributing iterator in a Disjunction; scored is nil for
// the unscored/neutral-score leg.
type leg struct {
	it     docIter
	scored *ScoredDocIterator
}

// Disjunction emits the union of document ids from its legs in
// strictly increasing order (spec.md §4.6 step 2, §5's ordering
// guarantee), merging each bucket's contributing scores under the
// query's per-bucket merge policy.
type Disjunction struct {
	legs    []leg
	policy  []MergePolicy
	cur     int
	started bool
}

// NewDisjunction builds a disjunction over scoredLegs (one per scored
// term state) plus, optionally, unscored (the bitset leg for documents
// matched by a term the top-K cut skipped). policy has one entry per
// sort bucket.
func NewDisjunction(scoredLegs []*ScoredDocIterator, unscored *segment.DocIterator, policy []MergePolicy) *Disjunction {
	d := &Disjunction{policy: policy, cur: segment.Invalid}
	for _, s := range scoredLegs {
		d.legs = append(d.legs, leg{it: s, scored: s})
	}
	if unscored != nil {
		d.legs = append(d.legs, leg{it: unscored})
	}
	return d
}

func (d *Disjunction) DocID() int { return d.cur }

// Next advances to the next document any leg holds.
func (d *Disjunction) Next() int {
	if !d.started {
		d.started = true
		return d.Seek(0)
	}
	return d.Seek(d.cur + 1)
}

// Seek moves forward only to the first document >= target held by any
// leg (spec.md §4.7's forward-only DocIterator contract).
func (d *Disjunction) Seek(target int) int {
	d.started = true
	min := segment.NoMoreDocs
	for i := range d.legs {
		l := &d.legs[i]
		cur := l.it.DocID()
		if cur < target {
			cur = l.it.Seek(target)
		}
		if cur < min {
			min = cur
		}
	}
	d.cur = min
	return d.cur
}

// Score returns the merged score for the disjunction's current
// document, per bucket, from every scored leg currently positioned on
// it, merged under each bucket's MergePolicy.
func (d *Disjunction) Score() []float32 {
	out := make([]float32, len(d.policy))
	for i, p := range d.policy {
		out[i] = p.Identity()
	}
	buf := make([]float32, len(d.policy))
	scoredAny := false
	for _, l := range d.legs {
		if l.scored == nil || l.it.DocID() != d.cur {
			continue
		}
		scoredAny = true
		l.scored.Score(buf)
		for i, p := range d.policy {
			out[i] = p.Merge(out[i], buf[i])
		}
	}
	// A document matched only through the unscored bitset leg never
	// touched a merge policy above, leaving out at each policy's
	// Identity() (e.g. -maxFloat32 under MergeMax): report a neutral
	// zero score for it instead of that merge-internal sentinel.
	if !scoredAny {
		for i := range out {
			out[i] = 0
		}
	}
	return out
}
