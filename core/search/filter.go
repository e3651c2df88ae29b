package search

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/elfringham/iresearch/core/automaton"
	"github.com/elfringham/iresearch/core/ldesc"
	"github.com/elfringham/iresearch/core/segment"
)

// Filter is a prepared-query source: the field and parameters needed to
// build an Acceptor and a key function, plus the scored-terms cap
// (spec.md §6's filter surface).
type Filter interface {
	Field() string
	Boost() float32
	ScoredTermsLimit() int
	// Build returns the acceptor for this filter's term language and the
	// key function terms visited through it should be scored with. ok
	// is false for a degenerate/unsatisfiable filter (e.g. an
	// unavailable Levenshtein parametric description), in which case
	// Prepare returns an empty MultiTermQuery per spec.md §4.2/§7.
	Build() (acc *automaton.Acceptor, key KeyFunc, ok bool)
}

// ExactFilter matches exactly one term.
type ExactFilter struct {
	FieldName        string
	Term             []byte
	BoostValue       float32
	Limit int
}

func (f *ExactFilter) Field() string         { return f.FieldName }
func (f *ExactFilter) Boost() float32        { return f.BoostValue }
func (f *ExactFilter) ScoredTermsLimit() int { return f.Limit }
func (f *ExactFilter) Build() (*automaton.Acceptor, KeyFunc, bool) {
	return automaton.NewExact(f.Term), ExactKey, true
}

// PrefixFilter matches every term beginning with Term.
type PrefixFilter struct {
	FieldName         string
	Term              []byte
	BoostValue        float32
	Limit int
}

func (f *PrefixFilter) Field() string         { return f.FieldName }
func (f *PrefixFilter) Boost() float32        { return f.BoostValue }
func (f *PrefixFilter) ScoredTermsLimit() int { return f.Limit }
func (f *PrefixFilter) Build() (*automaton.Acceptor, KeyFunc, bool) {
	pattern := append(append([]byte(nil), f.Term...), '%')
	return automaton.NewWildcard(pattern), ExactKey, true
}

// WildcardFilter matches the `{ %, _, \ }` wildcard language.
type WildcardFilter struct {
	FieldName         string
	Term              []byte
	BoostValue        float32
	Limit int
}

func (f *WildcardFilter) Field() string         { return f.FieldName }
func (f *WildcardFilter) Boost() float32        { return f.BoostValue }
func (f *WildcardFilter) ScoredTermsLimit() int { return f.Limit }
func (f *WildcardFilter) Build() (*automaton.Acceptor, KeyFunc, bool) {
	return automaton.NewWildcard(f.Term), ExactKey, true
}

// RegexFilter matches the conservative regex subset automaton.NewRegex
// supports.
type RegexFilter struct {
	FieldName         string
	Pattern           []byte
	BoostValue        float32
	Limit int
}

func (f *RegexFilter) Field() string         { return f.FieldName }
func (f *RegexFilter) Boost() float32        { return f.BoostValue }
func (f *RegexFilter) ScoredTermsLimit() int { return f.Limit }
func (f *RegexFilter) Build() (*automaton.Acceptor, KeyFunc, bool) {
	acc, err := automaton.NewRegex(f.Pattern)
	if err != nil {
		log.Warningf("regex filter %q degraded to empty: %v", f.Pattern, err)
		return nil, nil, false
	}
	return acc, ExactKey, true
}

// LevenshteinFilter matches terms within MaxDistance edits of Term.
// max_distance=0 decays to an exact term filter (spec.md §4.2).
type LevenshteinFilter struct {
	FieldName          string
	Term               []byte
	MaxDistance        int
	WithTranspositions bool
	BoostValue         float32
	Limit              int
	Descriptions       *ldesc.Cache
}

func (f *LevenshteinFilter) Field() string         { return f.FieldName }
func (f *LevenshteinFilter) Boost() float32        { return f.BoostValue }
func (f *LevenshteinFilter) ScoredTermsLimit() int { return f.Limit }
func (f *LevenshteinFilter) Build() (*automaton.Acceptor, KeyFunc, bool) {
	if f.MaxDistance == 0 {
		return automaton.NewExact(f.Term), ExactKey, true
	}
	desc, ok := f.Descriptions.Get(f.MaxDistance, f.WithTranspositions)
	if !ok {
		log.Warningf("levenshtein filter on %q degraded to empty: no description for max_distance=%d", f.Term, f.MaxDistance)
		return nil, nil, false
	}
	return desc.Generate(f.Term), LevenshteinKey(len(f.Term)), true
}

// Prepare builds a MultiTermQuery from filter against segments,
// per-segment acceptor-driven iteration fanned out with errgroup (per
// SPEC_FULL.md §5), then applies the bounded term-statistics collector
// and the two-phase scoring protocol (spec.md §4.4-§4.6). Preparation
// is total: a malformed or unsatisfiable filter degrades to an empty,
// still-usable MultiTermQuery rather than returning an error
// (spec.md §7).
func Prepare(ctx context.Context, filter Filter, segments []*segment.Reader, order *Order) *MultiTermQuery {
	acc, keyFn, ok := filter.Build()
	if !ok {
		return emptyQuery(order, filter.Boost())
	}
	if err := acc.Validate(); err != nil {
		log.Warningf("filter on field %q degraded to empty: %v", filter.Field(), err)
		return emptyQuery(order, filter.Boost())
	}

	type segmentVisit struct {
		segID string
		terms []AcceptedTerm
	}
	visits := make([]segmentVisit, len(segments))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(max(1, runtime.GOMAXPROCS(0)))
	for i, seg := range segments {
		i, seg := i, seg
		g.Go(func() error {
			tr, ok := seg.Field(filter.Field())
			if !ok {
				return nil // spec.md §8 scenario 5: absent field contributes nothing.
			}
			it := tr.IteratorMatching(acc)
			var terms []AcceptedTerm
			for it.Next() {
				payload, hasPayload := it.Payload()
				terms = append(terms, AcceptedTerm{
					Cookie:    it.Cookie(),
					Segment:   seg.ID,
					Term:      append([]byte(nil), it.Value()...),
					DocsCount: it.DocsCount(),
					Key:       keyFn(it.Value(), payload, hasPayload),
				})
			}
			visits[i] = segmentVisit{segID: seg.ID, terms: terms}
			return nil
		})
	}
	_ = g.Wait() // per-segment work never returns an error; see loop body.

	limit := filter.ScoredTermsLimit()
	var tc TermCollector
	if limit > 0 {
		tc = NewLimitedSampleCollector(limit)
	} else {
		tc = NewAllTermsCollector()
	}
	for _, v := range visits {
		for _, t := range v.terms {
			tc.Visit(t)
		}
	}
	scored, unscored := tc.Finish()

	byField := filter.Field()
	fieldCollectors := NewFieldCollectors(order)
	bySeg := map[string]*segment.Reader{}
	for _, seg := range segments {
		bySeg[seg.ID] = seg
	}
	visitedSegments := map[string]bool{}
	for _, v := range visits {
		if len(v.terms) > 0 {
			visitedSegments[v.segID] = true
		}
	}
	for segID := range visitedSegments {
		fieldCollectors.Collect(bySeg[segID], byField)
	}

	termCollectors := NewTermCollectors(order)
	row := termCollectors.PushBack()
	for _, t := range scored {
		termCollectors.Collect(bySeg[t.Segment], byField, row, t.Term, t.DocsCount, 0, false)
	}

	statsBuf := make([]byte, order.StatsSize())
	fieldCollectors.Finish(statsBuf, nil)
	termCollectors.Finish(statsBuf, fieldCollectors, nil)

	states := map[string]*SegmentState{}
	for _, t := range scored {
		st, ok := states[t.Segment]
		if !ok {
			st = &SegmentState{Segment: bySeg[t.Segment], UnscoredDocs: segment.NewBitset()}
			states[t.Segment] = st
		}
		st.ScoredStates = append(st.ScoredStates, ScoredState{
			Cookie: t.Cookie,
			Boost:  filter.Boost(),
		})
	}
	for segID, bitset := range unscored {
		st, ok := states[segID]
		if !ok {
			st = &SegmentState{Segment: bySeg[segID], UnscoredDocs: segment.NewBitset()}
			states[segID] = st
		}
		st.UnscoredDocs = bitset
	}

	return &MultiTermQuery{
		Order:    order,
		StatsBuf: statsBuf,
		Boost:    filter.Boost(),
		Field:    byField,
		Merge:    mergePolicies(order),
		States:   states,
	}
}

func mergePolicies(order *Order) []MergePolicy {
	policies := make([]MergePolicy, len(order.Buckets))
	for i, b := range order.Buckets {
		policies[i] = b.MergeType()
	}
	return policies
}

func emptyQuery(order *Order, boost float32) *MultiTermQuery {
	return &MultiTermQuery{
		Order:    order,
		StatsBuf: make([]byte, order.StatsSize()),
		Boost:    boost,
		Merge:    mergePolicies(order),
		States:   map[string]*SegmentState{},
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
