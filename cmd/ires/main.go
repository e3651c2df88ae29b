// Command ires is a thin demo binary wiring the engine's ambient stack
// around the core index/search library (SPEC_FULL.md §2): it loads
// engineconfig, best-effort attaches catalog/querycache/telemetry,
// tokenizes and indexes a handful of documents, prepares a filter
// against the resulting segment, and prints the matched documents with
// their scores.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/op/go-logging"

	"github.com/elfringham/iresearch/core/analysis"
	"github.com/elfringham/iresearch/core/ldesc"
	"github.com/elfringham/iresearch/core/search"
	"github.com/elfringham/iresearch/core/segment"
	"github.com/elfringham/iresearch/pkg/catalog"
	"github.com/elfringham/iresearch/pkg/engineconfig"
	"github.com/elfringham/iresearch/pkg/ingest"
	"github.com/elfringham/iresearch/pkg/querycache"
	"github.com/elfringham/iresearch/pkg/telemetry"
)

var log = logging.MustGetLogger("ires")

const fieldBody = "body"

var sampleDocs = []ingest.Document{
	{ID: "1", Field: fieldBody, Text: "The quick brown fox runs past the barn"},
	{ID: "2", Field: fieldBody, Text: "A barge runs slow rivers at dawn"},
	{ID: "3", Field: fieldBody, Text: "Foxes bark at the barrier fence"},
	{ID: "4", Field: fieldBody, Text: "The bear runs faster than the fox"},
}

func main() {
	configPath := flag.String("config", "", "path to engine.yaml (defaults used if omitted)")
	pattern := flag.String("query", "ba", "term to search for in the body field")
	maxDistance := flag.Int("max-distance", 0, "levenshtein edit distance; 0 runs a prefix query instead")
	flag.Parse()

	logging.SetBackend(logging.NewLogBackend(os.Stderr, "", 0))

	cfg := engineconfig.Defaults()
	if *configPath != "" {
		loaded, err := engineconfig.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	ctx := context.Background()

	var cat *catalog.Store
	if cfg.PostgresDSN != "" {
		store, err := catalog.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Warningf("catalog unavailable, manifest writes disabled: %v", err)
		} else {
			cat = store
			defer cat.Close()
		}
	}

	cache := querycache.New(cfg.RedisAddr, cfg.QueryCacheTTL)
	defer cache.Close()

	metrics := telemetry.New()

	descriptions, err := ldesc.New(cfg.LdescCacheSize)
	if err != nil {
		log.Fatalf("building levenshtein description cache: %v", err)
	}

	pipeline, err := analysis.NewPipelineFromJSON([]byte(`{"pipeline":[{"type":"whitespace"},{"type":"lowercase"}]}`))
	if err != nil {
		log.Fatalf("building analyzer pipeline: %v", err)
	}

	seg := segment.NewReader("seg-0")
	indexer := &segmentIndexer{seg: seg}
	docCount := 0
	for _, doc := range sampleDocs {
		if err := indexDocument(pipeline, indexer, doc); err != nil {
			log.Errorf("indexing document %s: %v", doc.ID, err)
			continue
		}
		docCount++
	}
	log.Infof("indexed %d documents into %s", docCount, seg)

	if cat != nil {
		row := catalog.SegmentManifestRow{IndexName: "demo", SegmentID: seg.ID, DocCount: docCount, CreatedAt: time.Now()}
		if err := cat.Record(ctx, row); err != nil {
			log.Warningf("recording segment manifest: %v", err)
		}
	}

	order := search.NewOrder(search.DocsCountBucket{})

	var filter search.Filter
	kind := "prefix"
	if *maxDistance > 0 {
		kind = "levenshtein"
		filter = &search.LevenshteinFilter{
			FieldName:    fieldBody,
			Term:         []byte(*pattern),
			MaxDistance:  *maxDistance,
			BoostValue:   1,
			Limit:        cfg.DefaultScoredTermsLimit,
			Descriptions: descriptions,
		}
	} else {
		filter = &search.PrefixFilter{
			FieldName:  fieldBody,
			Term:       []byte(*pattern),
			BoostValue: 1,
			Limit:      cfg.DefaultScoredTermsLimit,
		}
	}

	sig := querycache.Signature{
		Field:            filter.Field(),
		Kind:             kind,
		Params:           fmt.Sprintf("%s/%d", *pattern, *maxDistance),
		ScoredTermsLimit: filter.ScoredTermsLimit(),
		Generation:       seg.ID,
	}
	segments := []*segment.Reader{seg}

	states, hit := cache.Get(ctx, sig, filter.Field(), segments)
	var query *search.MultiTermQuery
	start := time.Now()
	if hit {
		metrics.ObserveCacheHit()
		query = &search.MultiTermQuery{
			Order:    order,
			StatsBuf: make([]byte, order.StatsSize()),
			Boost:    filter.Boost(),
			Field:    filter.Field(),
			Merge:    []search.MergePolicy{search.MergeMax},
			States:   states,
		}
	} else {
		metrics.ObserveCacheMiss()
		query = search.Prepare(ctx, filter, segments, order)
		cache.Put(ctx, sig, query.States)
	}
	metrics.ObservePrepare(kind, time.Since(start).Seconds())

	fmt.Printf("query: %s(%s=%q)\n", kind, fieldBody, *pattern)
	for _, segID := range query.Segments() {
		disj := query.Disjunction(segID)
		for doc := disj.Next(); doc != segment.NoMoreDocs; doc = disj.Next() {
			scores := disj.Score()
			fmt.Printf("  segment=%s doc=%d score=%.4f\n", segID, doc, scores[0])
		}
	}
}

// segmentIndexer adapts segment.Reader to ingest.Indexer for the
// demo's direct (non-Kafka) ingestion path.
type segmentIndexer struct {
	nextDocID int
	seg       *segment.Reader
}

func (s *segmentIndexer) IndexDocument(doc ingest.Document, tokens []string) error {
	id := s.nextDocID
	s.nextDocID++
	for _, tok := range tokens {
		s.seg.Index(doc.Field, []byte(tok), id)
	}
	return nil
}

// indexDocument tokenizes doc.Text through pipeline and hands the
// result to indexer, mirroring the tokenize-then-index step
// pkg/ingest.Consumer runs per Kafka message.
func indexDocument(pipeline *analysis.PipelineTokenStream, indexer ingest.Indexer, doc ingest.Document) error {
	if err := pipeline.Reset(doc.Text); err != nil {
		return err
	}
	var tokens []string
	for {
		ok, err := pipeline.Next()
		if err != nil {
			return err
		}
		if !ok {
			break
		}
		tokens = append(tokens, string(pipeline.Attributes().Term))
	}
	return indexer.IndexDocument(doc, tokens)
}
