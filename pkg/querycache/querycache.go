// Package querycache caches prepared filter results in Redis so that
// repeated queries skip acceptor construction and the per-segment trie
// walk (SPEC_FULL.md §4.12). A cache entry never substitutes for a
// live segment: every hit is re-validated by re-seeking each cached
// term against the current segment.Reader before use. A cached term
// that no longer resolves is dropped from its segment's scored states
// and a segment absent from the current reader set is dropped; the
// lookup still reports a hit with what remains. An expired entry is a
// plain miss.
package querycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/op/go-logging"
	"github.com/redis/go-redis/v9"

	"github.com/elfringham/iresearch/core/search"
	"github.com/elfringham/iresearch/core/segment"
)

var log = logging.MustGetLogger("querycache")

// Signature identifies a prepared filter uniquely enough to reuse its
// cached result: the field and filter kind, its parameters rendered as
// a stable string, the scored-terms limit in effect, and a
// segment-generation marker supplied by the caller (e.g. a hash of the
// set of segment ids/doc counts) so that a new segment invalidates
// every entry keyed to an older generation.
type Signature struct {
	Field            string
	Kind             string
	Params           string
	ScoredTermsLimit int
	Generation       string
}

func (s Signature) key() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s|%d|%s", s.Field, s.Kind, s.Params, s.ScoredTermsLimit, s.Generation)
	return "ires:querycache:" + hex.EncodeToString(h.Sum(nil))
}

// cachedTerm is the JSON-serializable form of a scored term: the term
// bytes and the boost recorded on its search.ScoredState.
type cachedTerm struct {
	Term  []byte  `json:"term"`
	Boost float32 `json:"boost"`
}

// cachedSegmentState is the JSON-serializable form of one segment's
// contribution to a prepared MultiTermQuery.
type cachedSegmentState struct {
	SegmentID string       `json:"segment_id"`
	Scored    []cachedTerm `json:"scored"`
	Unscored  []int        `json:"unscored"`
}

// Cache wraps a Redis client. Its zero value is not usable; construct
// with New.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Cache bound to addr with entries expiring after ttl.
// It does not verify connectivity; a broken connection surfaces as a
// miss on the first Get, per SPEC_FULL.md §7's "querycache errors are
// treated exactly like cache misses".
func New(addr string, ttl time.Duration) *Cache {
	return &Cache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Get looks up sig and, on a hit, re-validates each cached term against
// the corresponding segment.Reader by re-seeking it with SeekCeil. A
// term that no longer resolves exactly is dropped from that segment's
// scored states, matching spec.md §4.7's "term re-seek may fail...
// skipped silently"; a segment id with no matching reader is dropped
// entirely. The second result is false on any miss, decode failure, or
// Redis error.
func (c *Cache) Get(ctx context.Context, sig Signature, field string, segments []*segment.Reader) (map[string]*search.SegmentState, bool) {
	raw, err := c.client.Get(ctx, sig.key()).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Debugf("querycache get %s: %v", sig.key(), err)
		}
		return nil, false
	}

	var cached []cachedSegmentState
	if err := json.Unmarshal(raw, &cached); err != nil {
		log.Warningf("querycache decode %s: %v", sig.key(), err)
		return nil, false
	}

	byID := make(map[string]*segment.Reader, len(segments))
	for _, seg := range segments {
		byID[seg.ID] = seg
	}

	states := make(map[string]*search.SegmentState, len(cached))
	for _, cs := range cached {
		seg, ok := byID[cs.SegmentID]
		if !ok {
			continue
		}
		tr, ok := seg.Field(field)
		if !ok {
			continue
		}

		st := &search.SegmentState{Segment: seg, UnscoredDocs: segment.NewBitset()}
		st.UnscoredDocs.Add(cs.Unscored)

		it := tr.Iterator()
		for _, t := range cs.Scored {
			if !it.SeekCeil(t.Term) {
				continue
			}
			st.ScoredStates = append(st.ScoredStates, search.ScoredState{
				Cookie: it.Cookie(),
				Boost:  t.Boost,
			})
		}
		states[seg.ID] = st
	}

	log.Debugf("querycache hit %s (%d segments)", sig.key(), len(states))
	return states, true
}

// Put stores states under sig with the cache's configured TTL. A
// marshal or Redis failure is logged and swallowed: a failed write
// only costs a future cache miss, never a wrong query result.
func (c *Cache) Put(ctx context.Context, sig Signature, states map[string]*search.SegmentState) {
	cached := make([]cachedSegmentState, 0, len(states))
	for id, st := range states {
		cs := cachedSegmentState{SegmentID: id}
		for _, ss := range st.ScoredStates {
			cs.Scored = append(cs.Scored, cachedTerm{Term: ss.Cookie.Term(), Boost: ss.Boost})
		}
		if st.UnscoredDocs != nil {
			it := st.UnscoredDocs.Iterator()
			for doc := it.Next(); doc != segment.NoMoreDocs; doc = it.Next() {
				cs.Unscored = append(cs.Unscored, doc)
			}
		}
		cached = append(cached, cs)
	}

	data, err := json.Marshal(cached)
	if err != nil {
		log.Warningf("querycache encode %s: %v", sig.key(), err)
		return
	}
	if err := c.client.Set(ctx, sig.key(), data, c.ttl).Err(); err != nil {
		log.Debugf("querycache put %s: %v", sig.key(), err)
	}
}

// Close releases the underlying Redis connection.
func (c *Cache) Close() error { return c.client.Close() }
