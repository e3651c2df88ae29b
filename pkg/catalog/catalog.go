// Package catalog persists the segment manifest to PostgreSQL: which
// segments exist for an index, their document counts, and creation
// times (SPEC_FULL.md §4.10). It stands in for the out-of-scope
// on-disk directory format the core engine deliberately does not need.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("catalog")

// SegmentManifestRow is the catalog's view of one segment (SPEC_FULL.md §3).
type SegmentManifestRow struct {
	IndexName string
	SegmentID string
	DocCount  int
	CreatedAt time.Time
}

// Store wraps a Postgres connection pool. Its zero value is not usable;
// construct with Open.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres using dsn and ensures the manifest table
// exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("catalog: open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("catalog: ping: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS segment_manifest (
	index_name TEXT NOT NULL,
	segment_id TEXT NOT NULL,
	doc_count  INTEGER NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (index_name, segment_id)
)`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("catalog: ensure schema: %w", err)
	}
	return nil
}

// Record upserts a segment's manifest row. Per SPEC_FULL.md §7, a
// catalog write failure never blocks indexing: Record logs the failure
// and returns it without retrying, and callers do not treat it as fatal.
func (s *Store) Record(ctx context.Context, row SegmentManifestRow) error {
	const stmt = `
INSERT INTO segment_manifest (index_name, segment_id, doc_count, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (index_name, segment_id) DO UPDATE SET doc_count = EXCLUDED.doc_count`
	if _, err := s.db.ExecContext(ctx, stmt, row.IndexName, row.SegmentID, row.DocCount, row.CreatedAt); err != nil {
		log.Warningf("recording segment %s/%s failed: %v", row.IndexName, row.SegmentID, err)
		return fmt.Errorf("catalog: record: %w", err)
	}
	return nil
}

// List returns every manifest row for indexName, ordered by creation
// time.
func (s *Store) List(ctx context.Context, indexName string) ([]SegmentManifestRow, error) {
	const stmt = `
SELECT segment_id, doc_count, created_at FROM segment_manifest
WHERE index_name = $1 ORDER BY created_at`
	rows, err := s.db.QueryContext(ctx, stmt, indexName)
	if err != nil {
		return nil, fmt.Errorf("catalog: list: %w", err)
	}
	defer rows.Close()

	var out []SegmentManifestRow
	for rows.Next() {
		row := SegmentManifestRow{IndexName: indexName}
		if err := rows.Scan(&row.SegmentID, &row.DocCount, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("catalog: scan: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Close releases the underlying connection pool.
func (s *Store) Close() error { return s.db.Close() }
