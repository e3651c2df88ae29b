package search

import (
	"github.com/op/go-logging"

	"github.com/elfringham/iresearch/core/segment"
)

var log = logging.MustGetLogger("search")

// ScoredState is one admitted term's contribution to a segment: a
// cookie to re-seek its doc iterator, and the boost to apply to it
// (spec.md §3's `SegmentState.scored_states`).
type ScoredState struct {
	Cookie segment.TermCookie
	Boost  float32
}

// SegmentState holds one segment's contribution to a prepared
// MultiTermQuery: the admitted terms to score, and the bitset of
// documents matched by terms the top-K cut skipped (spec.md §3).
type SegmentState struct {
	Segment      *segment.Reader
	ScoredStates []ScoredState
	UnscoredDocs *segment.Bitset
}

// MultiTermQuery is the product of Filter.Prepare: per-segment states,
// a stats buffer partitioned by bucket, the filter's boost and field,
// and each bucket's merge policy (spec.md §4.6).
type MultiTermQuery struct {
	Order    *Order
	StatsBuf []byte
	Boost    float32
	Field    string
	Merge    []MergePolicy
	States   map[string]*SegmentState
}

// Disjunction builds the scored document disjunction for one segment:
// one ScoredDocIterator per scored state (re-seeking by cookie against
// q.Field) plus the unscored bitset leg, merged under q.Merge (spec.md
// §4.6 steps 1-3). A scored state whose cookie fails to re-seek, or
// whose field is no longer present, is skipped silently (spec.md
// §4.7: "such a state is skipped silently... rather than aborting the
// whole query").
func (q *MultiTermQuery) Disjunction(segID string) *Disjunction {
	st, ok := q.States[segID]
	if !ok || st.Segment == nil {
		return NewDisjunction(nil, nil, q.Merge)
	}

	var scoredLegs []*ScoredDocIterator
	tr, fieldOK := st.Segment.Field(q.Field)
	if fieldOK {
		for _, ss := range st.ScoredStates {
			docs, ok := tr.Docs(ss.Cookie)
			if !ok {
				continue
			}
			// ss.Boost is already the state's fully resolved per-term
			// boost (set to filter.Boost() at prepare time; spec.md §3's
			// scored_states tuple carries no separate query-level factor
			// to layer on top). Bake it into the scorer here and pass 1
			// into NewScoredDocIterator below, so Score applies it once.
			scorers := make([]Scorer, len(q.Order.Buckets))
			for i, b := range q.Order.Buckets {
				scorers[i] = b.PrepareScorer(q.Order.Region(q.StatsBuf, i), ss.Boost)
			}
			scoredLegs = append(scoredLegs, NewScoredDocIterator(docs, scorers, 1))
		}
	} else if len(st.ScoredStates) > 0 {
		log.Warningf("segment %q lost field %q between prepare and execute; skipping its scored states", segID, q.Field)
	}

	var unscored *segment.DocIterator
	if st.UnscoredDocs != nil && st.UnscoredDocs.Len() > 0 {
		unscored = st.UnscoredDocs.Iterator()
	}
	return NewDisjunction(scoredLegs, unscored, q.Merge)
}

// Segments returns the identities of every segment this query has a
// state for, in no particular order; a caller executing the query
// fans Disjunction out over exactly this set.
func (q *MultiTermQuery) Segments() []string {
	out := make([]string, 0, len(q.States))
	for id := range q.States {
		out = append(out, id)
	}
	return out
}
