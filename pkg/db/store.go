package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sol-wrapped/pkg/model"
	"github.com/sol-wrapped/pkg/wrapped"
)

const schema = `
CREATE TABLE IF NOT EXISTS asset_metadata (
    id TEXT PRIMARY KEY,
    symbol TEXT NOT NULL,
    price_per_token REAL DEFAULT 0,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_asset_updated ON asset_metadata(updated_at);
`

var _ wrapped.MetadataCache = (*Store)(nil)

// Store caches asset metadata (mint → symbol, last seen price) between runs.
type Store struct {
	db *sql.DB
}

func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ---- Asset Metadata ----

// LookupAssets returns cached entries for ids updated within maxAge.
// maxAge <= 0 means no age limit.
func (s *Store) LookupAssets(ctx context.Context, ids []string, maxAge time.Duration) (map[string]model.AssetMeta, error) {
	out := map[string]model.AssetMeta{}
	cutoff := time.Now().Add(-maxAge)

	for start := 0; start < len(ids); start += maxLookupIDs {
		end := start + maxLookupIDs
		if end > len(ids) {
			end = len(ids)
		}
		if err := s.lookupChunk(ctx, ids[start:end], maxAge, cutoff, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

const maxLookupIDs = 500

func (s *Store) lookupChunk(ctx context.Context, ids []string, maxAge time.Duration, cutoff time.Time, out map[string]model.AssetMeta) error {
	query := `SELECT id, symbol, COALESCE(price_per_token, 0), updated_at FROM asset_metadata WHERE id IN (?` +
		strings.Repeat(",?", len(ids)-1) + `)`
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m model.AssetMeta
		var updated time.Time
		if err := rows.Scan(&m.ID, &m.Symbol, &m.PricePerToken, &updated); err != nil {
			return err
		}
		if maxAge > 0 && updated.Before(cutoff) {
			continue
		}
		out[m.ID] = m
	}
	return rows.Err()
}

// SaveAssets upserts metadata. An empty symbol never replaces a stored one.
func (s *Store) SaveAssets(ctx context.Context, assets []model.AssetMeta) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO asset_metadata (id, symbol, price_per_token, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			symbol = CASE WHEN excluded.symbol != '' THEN excluded.symbol ELSE asset_metadata.symbol END,
			price_per_token = CASE WHEN excluded.price_per_token > 0 THEN excluded.price_per_token ELSE asset_metadata.price_per_token END,
			updated_at = excluded.updated_at`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, a := range assets {
		if a.ID == "" || a.Symbol == "" {
			continue
		}
		if _, err := stmt.ExecContext(ctx, a.ID, a.Symbol, a.PricePerToken, now); err != nil {
			return fmt.Errorf("save asset %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) CountAssets(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM asset_metadata").Scan(&n)
	return n, err
}
