package database

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jchantrell/tadhash/internal/resolve"
)

const (
	resolutionTableDDL = `CREATE TABLE IF NOT EXISTS resolution (
	ordinal INTEGER PRIMARY KEY,
	hash INTEGER NOT NULL,
	path_hash INTEGER NOT NULL,
	path TEXT NOT NULL
)`
	resolutionIndexDDL = `CREATE INDEX IF NOT EXISTS resolution_hash ON resolution (hash, path_hash)`
	metadataTableDDL   = `CREATE TABLE IF NOT EXISTS _metadata (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

	insertEntrySQL    = `INSERT INTO resolution (ordinal, hash, path_hash, path) VALUES (?, ?, ?, ?)`
	insertMetadataSQL = `INSERT OR REPLACE INTO _metadata (key, value) VALUES (?, ?)`
)

// ProgressCallback is called after each committed batch
type ProgressCallback func(done int, total int)

// ResolutionStore writes resolution entries into SQLite
type ResolutionStore struct {
	db        *Database
	batchSize int
}

// NewResolutionStore creates a store writing batchSize rows per transaction
func NewResolutionStore(db *Database, batchSize int) *ResolutionStore {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return &ResolutionStore{db: db, batchSize: batchSize}
}

// CreateSchema creates the resolution and metadata tables
func (s *ResolutionStore) CreateSchema(ctx context.Context) error {
	for _, ddl := range []string{resolutionTableDDL, resolutionIndexDDL, metadataTableDDL} {
		if _, err := s.db.Exec(ctx, ddl); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// InsertEntries writes entries in load order, one transaction per batch.
// The ordinal column preserves the order so first-match queries can
// ORDER BY it.
func (s *ResolutionStore) InsertEntries(ctx context.Context, entries []resolve.Entry, progress ProgressCallback) error {
	for start := 0; start < len(entries); start += s.batchSize {
		end := min(start+s.batchSize, len(entries))

		if err := s.insertBatch(ctx, start, entries[start:end]); err != nil {
			return fmt.Errorf("inserting batch %d-%d: %w", start, end-1, err)
		}

		if progress != nil {
			progress(end, len(entries))
		}
	}

	slog.Debug("Resolution entries stored", "count", len(entries), "database", s.db.Path())
	return nil
}

func (s *ResolutionStore) insertBatch(ctx context.Context, offset int, batch []resolve.Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() // Safe to call even after commit

	stmt, err := tx.PrepareContext(ctx, insertEntrySQL)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for i, e := range batch {
		if _, err := stmt.ExecContext(ctx, offset+i, int64(e.Hash), int64(e.PathHash), e.Path); err != nil {
			return fmt.Errorf("inserting %s: %w", e.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// SetMetadata records a key/value pair in the metadata table
func (s *ResolutionStore) SetMetadata(ctx context.Context, key, value string) error {
	if _, err := s.db.Exec(ctx, insertMetadataSQL, key, value); err != nil {
		return fmt.Errorf("setting metadata %s: %w", key, err)
	}
	return nil
}

// Metadata returns a value from the metadata table and whether it was set
func (s *ResolutionStore) Metadata(ctx context.Context, key string) (string, bool, error) {
	rows, err := s.db.Query(ctx, `SELECT value FROM _metadata WHERE key = ?`, key)
	if err != nil {
		return "", false, fmt.Errorf("reading metadata %s: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}

	var value string
	if err := rows.Scan(&value); err != nil {
		return "", false, fmt.Errorf("scanning metadata %s: %w", key, err)
	}
	return value, true, nil
}

// LookupByHash mirrors resolve.Database.LookupByHash against the stored table
func (s *ResolutionStore) LookupByHash(ctx context.Context, hash, pathHash uint32) (resolve.Entry, bool, error) {
	query := `SELECT hash, path_hash, path FROM resolution WHERE hash = ? ORDER BY ordinal LIMIT 1`
	args := []any{int64(hash)}
	if pathHash != 0 {
		query = `SELECT hash, path_hash, path FROM resolution WHERE hash = ? AND path_hash = ? ORDER BY ordinal LIMIT 1`
		args = append(args, int64(pathHash))
	}

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return resolve.Entry{}, false, err
	}
	defer rows.Close()

	if !rows.Next() {
		return resolve.Entry{}, false, rows.Err()
	}

	var h, ph int64
	var e resolve.Entry
	if err := rows.Scan(&h, &ph, &e.Path); err != nil {
		return resolve.Entry{}, false, fmt.Errorf("scanning entry: %w", err)
	}
	e.Hash = uint32(h)
	e.PathHash = uint32(ph)

	return e, true, nil
}

// Export writes a whole resolution database with its digest and count
func (s *ResolutionStore) Export(ctx context.Context, source *resolve.Database, progress ProgressCallback) (int, error) {
	entries, err := source.Entries()
	if err != nil {
		return 0, err
	}

	digest, err := source.Digest()
	if err != nil {
		return 0, err
	}

	if err := s.CreateSchema(ctx); err != nil {
		return 0, err
	}

	if err := s.InsertEntries(ctx, entries, progress); err != nil {
		return 0, err
	}

	if err := s.SetMetadata(ctx, "snapshot_digest", digest); err != nil {
		return 0, err
	}
	if err := s.SetMetadata(ctx, "entry_count", strconv.Itoa(len(entries))); err != nil {
		return 0, err
	}

	return len(entries), nil
}
