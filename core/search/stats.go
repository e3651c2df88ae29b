package search

import "github.com/elfringham/iresearch/core/segment"

// BucketFieldCollector aggregates per-field statistics for one sort
// bucket (spec.md §4.5).
type BucketFieldCollector interface {
	Collect(seg *segment.Reader, field string)
}

// BucketTermCollector aggregates per-term statistics for one sort
// bucket. termIdx identifies which query-term row this collector
// belongs to (spec.md §4.5's row-major `t{i}b{j}` layout); a single
// MultiTermQuery always populates row 0.
type BucketTermCollector interface {
	Collect(seg *segment.Reader, field string, termIdx int, term []byte, docsCount int, payload byte, hasPayload bool)
}

// Scorer produces a document's contribution to one bucket's score,
// given the bucket's region of the stats buffer and the term's boost.
type Scorer interface {
	Score(doc int, boost float32) float32
}

type noopFieldCollector struct{}

func (noopFieldCollector) Collect(*segment.Reader, string) {}

// NoopFieldCollector is substituted wherever a Bucket declines to
// supply a field collector, so call sites stay branchless (spec.md
// §4.5, §9's "no-op collector substitution" note).
var NoopFieldCollector BucketFieldCollector = noopFieldCollector{}

type noopTermCollector struct{}

func (noopTermCollector) Collect(*segment.Reader, string, int, []byte, int, byte, bool) {}

// NoopTermCollector is the term-collector analogue of NoopFieldCollector.
var NoopTermCollector BucketTermCollector = noopTermCollector{}

type noopScorer struct{}

func (noopScorer) Score(int, float32) float32 { return 0 }

// NoopScorer is used when no sort order was configured; its per-document
// cost must be zero (spec.md §4.7).
var NoopScorer Scorer = noopScorer{}

// Bucket is one component of a query's sort order (spec.md §4.5, §6).
type Bucket interface {
	StatsSize() int
	ScoreSize() int
	MergeType() MergePolicy
	// PrepareFieldCollector may return nil to decline field-level
	// aggregation for this bucket.
	PrepareFieldCollector() BucketFieldCollector
	// PrepareTermCollector may return nil to decline term-level
	// aggregation for this bucket.
	PrepareTermCollector() BucketTermCollector
	// Finish writes this bucket's stats into statsRegion using
	// whatever fc/tc accumulated. fc and tc are never nil: the caller
	// substitutes the shared no-op instances.
	Finish(statsRegion []byte, index *segment.Reader, fc BucketFieldCollector, tc BucketTermCollector)
	PrepareScorer(statsRegion []byte, boost float32) Scorer
}

// Order is an ordered sequence of Buckets; the stats buffer they
// collectively produce is partitioned by bucket at fixed offsets
// (spec.md §3's StatsBuffer, §4.5).
type Order struct {
	Buckets []Bucket
	offsets []int
	total   int
}

// NewOrder lays out buckets back to back in the given order.
func NewOrder(buckets ...Bucket) *Order {
	o := &Order{Buckets: buckets, offsets: make([]int, len(buckets))}
	off := 0
	for i, b := range buckets {
		o.offsets[i] = off
		off += b.StatsSize()
	}
	o.total = off
	return o
}

// StatsSize is the total length of the buffer Finish/PrepareScorer
// operate over.
func (o *Order) StatsSize() int { return o.total }

// Region slices out bucket i's portion of buf.
func (o *Order) Region(buf []byte, i int) []byte {
	return buf[o.offsets[i] : o.offsets[i]+o.Buckets[i].StatsSize()]
}

// FieldCollectors holds one field-collector per bucket and fans
// `Collect(segment, field)` out to each once per visited field
// (spec.md §4.5).
type FieldCollectors struct {
	order *Order
	fcs   []BucketFieldCollector
}

// NewFieldCollectors prepares one field-collector per bucket in order,
// substituting NoopFieldCollector wherever a bucket declines.
func NewFieldCollectors(order *Order) *FieldCollectors {
	fcs := make([]BucketFieldCollector, len(order.Buckets))
	for i, b := range order.Buckets {
		if fc := b.PrepareFieldCollector(); fc != nil {
			fcs[i] = fc
		} else {
			fcs[i] = NoopFieldCollector
		}
	}
	return &FieldCollectors{order: order, fcs: fcs}
}

func (f *FieldCollectors) Collect(seg *segment.Reader, field string) {
	for _, fc := range f.fcs {
		fc.Collect(seg, field)
	}
}

// Finish invokes each bucket's Finish with its own field collector and
// the shared no-op term collector, per spec.md §4.5's
// `collect(stats_buf + bucket.offset, index, field_col, nullptr)`.
func (f *FieldCollectors) Finish(statsBuf []byte, index *segment.Reader) {
	for i, b := range f.order.Buckets {
		b.Finish(f.order.Region(statsBuf, i), index, f.fcs[i], NoopTermCollector)
	}
}

// TermCollectors holds `bucket_count x term_count` term-collectors in
// row-major layout (spec.md §4.5). PushBack appends one row (one query
// term's worth of per-bucket collectors); a single MultiTermQuery
// always has exactly one row, but the row-major shape is retained so a
// future multi-term query composition can reuse it directly.
type TermCollectors struct {
	order *Order
	rows  [][]BucketTermCollector
}

func NewTermCollectors(order *Order) *TermCollectors {
	return &TermCollectors{order: order}
}

// PushBack appends a new row and returns its index.
func (t *TermCollectors) PushBack() int {
	row := make([]BucketTermCollector, len(t.order.Buckets))
	for i, b := range t.order.Buckets {
		if tc := b.PrepareTermCollector(); tc != nil {
			row[i] = tc
		} else {
			row[i] = NoopTermCollector
		}
	}
	t.rows = append(t.rows, row)
	return len(t.rows) - 1
}

// Collect fans out to row termIdx.
func (t *TermCollectors) Collect(seg *segment.Reader, field string, termIdx int, term []byte, docsCount int, payload byte, hasPayload bool) {
	for _, tc := range t.rows[termIdx] {
		tc.Collect(seg, field, termIdx, term, docsCount, payload, hasPayload)
	}
}

// Finish iterates row-major, writing each bucket's stats using the
// corresponding field collector (spec.md §4.5).
func (t *TermCollectors) Finish(statsBuf []byte, fieldCollectors *FieldCollectors, index *segment.Reader) {
	for _, row := range t.rows {
		for i, b := range t.order.Buckets {
			b.Finish(t.order.Region(statsBuf, i), index, fieldCollectors.fcs[i], row[i])
		}
	}
}
