package chunkstream

import (
	"database/sql"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	_ "modernc.org/sqlite"

	"github.com/rogueforge/simcore/pkg/simerr"
)

// SQLitePersistence is the optional persistent cache backend from spec.md
// §4.6's "cache_dir?, persistent?" configuration knobs: generated chunks'
// hashes are recorded so a later process with the same config can validate
// its regenerated chunk against the one already on disk without
// re-streaming the tile payload itself.
type SQLitePersistence struct {
	db *sql.DB
}

// OpenSQLitePersistence opens (creating if absent) a SQLite database at
// path and ensures its schema exists, retrying transient I/O errors with
// exponential backoff.
func OpenSQLitePersistence(path string) (*SQLitePersistence, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("chunkstream: open persistence db: %w", err)
	}
	p := &SQLitePersistence{db: db}
	op := func() error {
		_, err := db.Exec(`CREATE TABLE IF NOT EXISTS chunk_hashes (
			cx INTEGER NOT NULL,
			cy INTEGER NOT NULL,
			hash INTEGER NOT NULL,
			PRIMARY KEY (cx, cy)
		)`)
		return err
	}
	if err := backoff.Retry(op, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)); err != nil {
		db.Close()
		return nil, fmt.Errorf("chunkstream: init persistence schema: %w", err)
	}
	return p, nil
}

// Close releases the underlying database handle.
func (p *SQLitePersistence) Close() error { return p.db.Close() }

// RecordHash persists the hash last computed for (cx,cy), retrying
// transient write failures.
func (p *SQLitePersistence) RecordHash(cx, cy int, hash uint64) error {
	op := func() error {
		_, err := p.db.Exec(
			`INSERT INTO chunk_hashes (cx, cy, hash) VALUES (?, ?, ?)
			 ON CONFLICT(cx, cy) DO UPDATE SET hash=excluded.hash`,
			cx, cy, int64(hash),
		)
		return err
	}
	if err := backoff.Retry(op, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)); err != nil {
		return fmt.Errorf("chunkstream: record chunk hash: %w", err)
	}
	return nil
}

// LookupHash returns the previously-recorded hash for (cx,cy), if any.
func (p *SQLitePersistence) LookupHash(cx, cy int) (uint64, bool, error) {
	var h int64
	err := p.db.QueryRow(`SELECT hash FROM chunk_hashes WHERE cx = ? AND cy = ?`, cx, cy).Scan(&h)
	switch {
	case err == sql.ErrNoRows:
		return 0, false, nil
	case err != nil:
		return 0, false, fmt.Errorf("chunkstream: lookup chunk hash: %w", simerr.ErrIOError)
	default:
		return uint64(h), true, nil
	}
}
