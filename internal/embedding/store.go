package embedding

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one cached vector: the item it belongs to, a hash of the
// searchable text the vector was generated from, and the vector itself.
// A stored hash that no longer matches the item's current searchable text
// invalidates the entry, so stale vectors from a prior catalog version are
// dropped instead of trusted.
type Entry struct {
	ItemID   string
	TextHash string
	Vector   []float32
}

// TextHash returns the cache-invalidation hash for an item's searchable text.
func TextHash(searchableText string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(searchableText))
	return fmt.Sprintf("%016x", h.Sum64())
}

// Store persists the vector cache in SQLite, one row per item id. Persisting
// writes the complete current set in one transaction, so the file is always
// a consistent snapshot of the last full generation pass.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the cache database at dbPath and initializes the
// schema. Parent directories are created if they do not exist.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	schema := `
	CREATE TABLE IF NOT EXISTS vectors (
		item_id TEXT PRIMARY KEY,
		text_hash TEXT NOT NULL,
		dims INTEGER NOT NULL,
		vector BLOB NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Load reads all cached entries with the expected dimensionality. Entries
// with a different dimension (an older provider/model) are skipped.
func (s *Store) Load(ctx context.Context, dims int) (map[string]Entry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT item_id, text_hash, dims, vector FROM vectors")
	if err != nil {
		return nil, fmt.Errorf("failed to read vectors: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]Entry)
	for rows.Next() {
		var e Entry
		var d int
		var blob []byte
		if err := rows.Scan(&e.ItemID, &e.TextHash, &d, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan vector row: %w", err)
		}
		if d != dims {
			continue
		}
		e.Vector = bytesToFloat32Slice(blob)
		entries[e.ItemID] = e
	}
	return entries, rows.Err()
}

// SaveAll replaces the stored set with entries in one transaction.
func (s *Store) SaveAll(ctx context.Context, entries []Entry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM vectors"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear vectors: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, "INSERT INTO vectors (item_id, text_hash, dims, vector) VALUES (?, ?, ?, ?)")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, e.ItemID, e.TextHash, len(e.Vector), float32SliceToBytes(e.Vector)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to insert vector for %s: %w", e.ItemID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vectors: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func float32SliceToBytes(s []float32) []byte {
	const size = 4
	out := make([]byte, len(s)*size)
	for i, v := range s {
		binary.LittleEndian.PutUint32(out[i*size:(i+1)*size], math.Float32bits(v))
	}
	return out
}

func bytesToFloat32Slice(b []byte) []float32 {
	const size = 4
	out := make([]float32, len(b)/size)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*size : (i+1)*size]))
	}
	return out
}
