package db

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/sol-wrapped/pkg/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "wrapped.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.SaveAssets(ctx, []model.AssetMeta{
		{ID: "bonk", Symbol: "BONK", PricePerToken: 0.00002},
		{ID: "nosym"},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.LookupAssets(ctx, []string{"bonk", "nosym", "missing"}, time.Hour)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(got) != 1 || got["bonk"].Symbol != "BONK" || got["bonk"].PricePerToken != 0.00002 {
		t.Fatalf("unexpected lookup %+v", got)
	}
	if n, _ := s.CountAssets(ctx); n != 1 {
		t.Fatalf("expected 1 stored asset, got %d", n)
	}
}

func TestStoreKeepsKnownPrice(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveAssets(ctx, []model.AssetMeta{{ID: "m", Symbol: "M", PricePerToken: 3}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveAssets(ctx, []model.AssetMeta{{ID: "m", Symbol: "M2"}}); err != nil {
		t.Fatalf("save again: %v", err)
	}

	got, err := s.LookupAssets(ctx, []string{"m"}, 0)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if got["m"].Symbol != "M2" || got["m"].PricePerToken != 3 {
		t.Fatalf("expected new symbol with the kept price, got %+v", got["m"])
	}
}

func TestStoreLookupHonorsMaxAge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.db.Exec(`INSERT INTO asset_metadata (id, symbol, price_per_token, updated_at) VALUES (?, ?, ?, ?)`,
		"stale", "OLD", 1, time.Now().UTC().Add(-48*time.Hour)); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.LookupAssets(ctx, []string{"stale"}, 24*time.Hour)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected stale entry skipped, got %+v", got)
	}
}

func TestStoreLookupChunksLargeSets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var metas []model.AssetMeta
	var ids []string
	for i := 0; i < 1200; i++ {
		id := fmt.Sprintf("mint-%04d", i)
		ids = append(ids, id)
		metas = append(metas, model.AssetMeta{ID: id, Symbol: "T"})
	}
	if err := s.SaveAssets(ctx, metas); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.LookupAssets(ctx, ids, time.Hour)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(got) != 1200 {
		t.Fatalf("expected 1200 hits, got %d", len(got))
	}
}
