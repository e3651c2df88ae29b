package search

import (
	"encoding/binary"
	"math"

	"github.com/elfringham/iresearch/core/segment"
)

// DocsCountBucket is a minimal, concrete Bucket: it scores a matched
// term by its inverse document frequency within the field, the way the
// teacher's similarities.go computes idf from docFreq/maxDoc. Similarity
// formulas are explicitly out of scope for this spec (spec.md §1); this
// bucket exists only to exercise the two-phase collection and scoring
// protocol end to end with a plausible, if illustrative, ranking
// signal.
type DocsCountBucket struct{}

func (DocsCountBucket) StatsSize() int         { return 8 } // maxDoc uint32 + docFreq uint32
func (DocsCountBucket) ScoreSize() int         { return 4 }
func (DocsCountBucket) MergeType() MergePolicy { return MergeMax }

func (DocsCountBucket) PrepareFieldCollector() BucketFieldCollector {
	return &docsCountFieldCollector{}
}

func (DocsCountBucket) PrepareTermCollector() BucketTermCollector {
	return &docsCountTermCollector{}
}

func (DocsCountBucket) Finish(statsRegion []byte, index *segment.Reader, fc BucketFieldCollector, tc BucketTermCollector) {
	if fcol, ok := fc.(*docsCountFieldCollector); ok {
		binary.LittleEndian.PutUint32(statsRegion[0:4], fcol.maxDoc)
	}
	if tcol, ok := tc.(*docsCountTermCollector); ok {
		binary.LittleEndian.PutUint32(statsRegion[4:8], tcol.docFreq)
	}
}

func (DocsCountBucket) PrepareScorer(statsRegion []byte, boost float32) Scorer {
	maxDoc := binary.LittleEndian.Uint32(statsRegion[0:4])
	docFreq := binary.LittleEndian.Uint32(statsRegion[4:8])
	idf := float32(1)
	if docFreq > 0 && maxDoc > 0 {
		idf = float32(1.0 + math.Log(float64(maxDoc)/float64(docFreq)))
	}
	return &docsCountScorer{idf: idf, boost: boost}
}

type docsCountFieldCollector struct {
	maxDoc uint32
}

func (c *docsCountFieldCollector) Collect(seg *segment.Reader, field string) {
	tr, ok := seg.Field(field)
	if !ok {
		return
	}
	it := tr.Iterator()
	for it.Next() {
		c.maxDoc += uint32(it.DocsCount())
	}
}

type docsCountTermCollector struct {
	docFreq uint32
}

func (c *docsCountTermCollector) Collect(_ *segment.Reader, _ string, _ int, _ []byte, docsCount int, _ byte, _ bool) {
	c.docFreq += uint32(docsCount)
}

type docsCountScorer struct {
	idf   float32
	boost float32
}

func (s *docsCountScorer) Score(_ int, boost float32) float32 {
	return s.idf * s.boost * boost
}
