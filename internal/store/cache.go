package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/valobs/internal/ir"
)

// Entry is one cached generator result.
type Entry struct {
	SourceHash   string `json:"source_hash"`
	Path         string `json:"path"`
	Output       []byte `json:"-"`
	Declarations int    `json:"declarations"`
	// Seq orders entries by insertion. Wall time is never recorded.
	Seq int64 `json:"seq"`
	// Hits counts successful lookups.
	Hits int64 `json:"hits"`
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int64 `json:"entries"`
	Bytes   int64 `json:"bytes"`
	Hits    int64 `json:"hits"`
	// Stale counts entries written by another generator or IR version.
	Stale int64 `json:"stale"`
}

// Lookup returns the entry for sourceHash. Entries written by another
// generator or IR version are misses.
func (s *Store) Lookup(ctx context.Context, sourceHash string) (*Entry, bool, error) {
	var e Entry
	err := s.db.QueryRowContext(ctx, `
		SELECT source_hash, path, output, declarations, created_seq, hits
		FROM expansions
		WHERE source_hash = ? AND generator_version = ? AND ir_version = ?
	`, sourceHash, ir.GeneratorVersion, ir.IRVersion).Scan(
		&e.SourceHash, &e.Path, &e.Output, &e.Declarations, &e.Seq, &e.Hits,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup %s: %w", sourceHash, err)
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE expansions SET hits = hits + 1 WHERE source_hash = ?`, sourceHash); err != nil {
		return nil, false, fmt.Errorf("lookup %s: %w", sourceHash, err)
	}
	e.Hits++
	return &e, true, nil
}

// Put stores an entry, replacing any previous one for the same hash.
func (s *Store) Put(ctx context.Context, e Entry) error {
	if e.SourceHash == "" {
		return fmt.Errorf("put: empty source hash")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO expansions
		(source_hash, path, output, declarations, generator_version, ir_version, created_seq)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(created_seq), 0) + 1 FROM expansions))
		ON CONFLICT(source_hash) DO UPDATE SET
			path = excluded.path,
			output = excluded.output,
			declarations = excluded.declarations,
			generator_version = excluded.generator_version,
			ir_version = excluded.ir_version,
			created_seq = excluded.created_seq,
			hits = 0
	`,
		e.SourceHash,
		e.Path,
		e.Output,
		e.Declarations,
		ir.GeneratorVersion,
		ir.IRVersion,
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", e.Path, err)
	}
	return nil
}

// Stats returns cache statistics.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(LENGTH(output)), 0),
			COALESCE(SUM(hits), 0),
			COALESCE(SUM(CASE WHEN generator_version != ? OR ir_version != ? THEN 1 ELSE 0 END), 0)
		FROM expansions
	`, ir.GeneratorVersion, ir.IRVersion).Scan(&st.Entries, &st.Bytes, &st.Hits, &st.Stale)
	if err != nil {
		return Stats{}, fmt.Errorf("stats: %w", err)
	}
	return st, nil
}

// Entries lists cached entries in insertion order.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source_hash, path, declarations, created_seq, hits
		FROM expansions
		ORDER BY created_seq ASC, source_hash COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("entries: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.SourceHash, &e.Path, &e.Declarations, &e.Seq, &e.Hits); err != nil {
			return nil, fmt.Errorf("entries: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Clear removes every entry and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expansions`)
	if err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	return n, nil
}
