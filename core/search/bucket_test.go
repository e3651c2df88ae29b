package search

import (
	"testing"

	"github.com/elfringham/iresearch/core/segment"
)

func TestDocsCountBucketStatsAndScorer(t *testing.T) {
	seg := segment.NewReader("s0")
	seg.Index("text", []byte("bar"), 1)
	seg.Index("text", []byte("bar"), 2)
	seg.Index("text", []byte("baz"), 3)

	order := NewOrder(DocsCountBucket{})
	fc := NewFieldCollectors(order)
	fc.Collect(seg, "text")

	tc := NewTermCollectors(order)
	row := tc.PushBack()
	tc.Collect(seg, "text", row, []byte("bar"), 2, 0, false)

	buf := make([]byte, order.StatsSize())
	fc.Finish(buf, seg)
	tc.Finish(buf, fc, seg)

	scorer := order.Buckets[0].PrepareScorer(order.Region(buf, 0), 1)
	score := scorer.Score(1, 1)
	if score <= 0 {
		t.Fatalf("expected a positive idf-based score, got %v", score)
	}
}

func TestOrderLaysOutBucketsBackToBack(t *testing.T) {
	order := NewOrder(DocsCountBucket{}, DocsCountBucket{})
	if order.StatsSize() != 16 {
		t.Fatalf("got stats size %d, want 16", order.StatsSize())
	}
	r0 := order.Region(make([]byte, 16), 0)
	r1 := order.Region(make([]byte, 16), 1)
	if len(r0) != 8 || len(r1) != 8 {
		t.Fatalf("got region lengths %d/%d, want 8/8", len(r0), len(r1))
	}
}

func TestFieldAndTermCollectorsFinishWithSharedNoopTermCollector(t *testing.T) {
	order := NewOrder(DocsCountBucket{})
	fc := NewFieldCollectors(order)
	tc := NewTermCollectors(order)
	row := tc.PushBack()

	seg := segment.NewReader("s0")
	seg.Index("text", []byte("bar"), 1)

	// Collect with no fields visited: Finish must not panic reading an
	// all-zero stats region.
	buf := make([]byte, order.StatsSize())
	fc.Finish(buf, nil)
	tc.Collect(seg, "text", row, []byte("bar"), 1, 0, false)
	tc.Finish(buf, fc, nil)
}
