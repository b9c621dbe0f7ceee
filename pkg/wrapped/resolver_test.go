package wrapped

import (
	"context"
	"testing"

	"github.com/sol-wrapped/pkg/model"
)

const (
	bonkMint = "DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263"
	mintA    = "mintA"
	mintB    = "mintB"
)

func bonkPortfolio() model.Portfolio {
	return model.Portfolio{Holdings: []model.Holding{
		{ID: bonkMint, Symbol: "BONK", Amount: 1000, ValueUSD: 50},
	}}
}

func TestResolverSeedsFromHoldings(t *testing.T) {
	r := NewResolver(&fakeUpstream{}, bonkPortfolio(), ResolverOptions{})

	sym, price := r.Lookup(bonkMint)
	if sym != "BONK" || price != 0.05 {
		t.Fatalf("expected BONK at 0.05, got %s at %v", sym, price)
	}
	sym, price = r.Lookup("nope")
	if sym != UnknownSymbol || price != 0 {
		t.Fatalf("expected placeholder, got %s at %v", sym, price)
	}
}

func TestResolverExtendIsIdempotent(t *testing.T) {
	up := &fakeUpstream{assets: map[string]model.AssetMeta{
		mintA: {ID: mintA, Symbol: "AAA", PricePerToken: 2},
	}}
	r := NewResolver(up, bonkPortfolio(), ResolverOptions{BatchSize: 100, Concurrency: 2})
	ctx := context.Background()

	r.Extend(ctx, []string{mintA, mintB, bonkMint, mintA})
	if len(up.assetCalls) != 1 {
		t.Fatalf("expected 1 batch call, got %d", len(up.assetCalls))
	}
	if got := up.assetCalls[0]; len(got) != 2 || got[0] != mintA || got[1] != mintB {
		t.Fatalf("expected only unknown ids, got %v", got)
	}

	r.Extend(ctx, []string{mintA, mintB, bonkMint})
	if len(up.assetCalls) != 1 {
		t.Fatalf("second extend hit upstream: %v", up.assetCalls)
	}

	if sym, price := r.Lookup(mintA); sym != "AAA" || price != 2 {
		t.Fatalf("expected AAA at 2, got %s at %v", sym, price)
	}
	if sym, _ := r.Lookup(mintB); sym != UnknownSymbol {
		t.Fatalf("expected placeholder for unresolved mint, got %s", sym)
	}
}

func TestResolverNeverOverwrites(t *testing.T) {
	r := NewResolver(&fakeUpstream{}, bonkPortfolio(), ResolverOptions{})

	r.merge([]model.AssetMeta{{ID: bonkMint, Symbol: "FAKE", PricePerToken: 99}, {ID: mintA}})

	if sym, price := r.Lookup(bonkMint); sym != "BONK" || price != 0.05 {
		t.Fatalf("resolved entry overwritten: %s at %v", sym, price)
	}
	if r.Known(mintA) {
		t.Fatalf("empty symbol must not resolve an id")
	}
}

func TestResolverBatchesAndFailureIsolation(t *testing.T) {
	ids := make([]string, 250)
	for i := range ids {
		ids[i] = "m" + string(rune('a'+i%26)) + string(rune('a'+i/26))
	}
	up := &fakeUpstream{assetsError: errUpstream}
	r := NewResolver(up, model.Portfolio{}, ResolverOptions{BatchSize: 100, Concurrency: 3})

	r.Extend(context.Background(), ids)

	if len(up.assetCalls) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(up.assetCalls))
	}
	if sym, _ := r.Lookup(ids[0]); sym != UnknownSymbol {
		t.Fatalf("expected placeholder after failed batch, got %s", sym)
	}
}

func TestResolverUsesCache(t *testing.T) {
	cache := &memCache{rows: map[string]model.AssetMeta{
		mintA: {ID: mintA, Symbol: "AAA"},
	}}
	up := &fakeUpstream{assets: map[string]model.AssetMeta{
		mintB: {ID: mintB, Symbol: "BBB", PricePerToken: 1},
	}}
	r := NewResolver(up, model.Portfolio{}, ResolverOptions{Cache: cache})

	r.Extend(context.Background(), []string{mintA, mintB})

	if len(up.assetCalls) != 1 || len(up.assetCalls[0]) != 1 || up.assetCalls[0][0] != mintB {
		t.Fatalf("expected upstream only for the cache miss, got %v", up.assetCalls)
	}
	if sym, _ := r.Lookup(mintA); sym != "AAA" {
		t.Fatalf("expected cached symbol, got %s", sym)
	}
	if len(cache.saved) != 1 || cache.saved[0].ID != mintB {
		t.Fatalf("expected fetched entry saved, got %v", cache.saved)
	}
}

func TestResolverFetchesHoldingWithoutSymbol(t *testing.T) {
	up := &fakeUpstream{assets: map[string]model.AssetMeta{
		mintA: {ID: mintA, Symbol: "AAA"},
	}}
	holdings := model.Portfolio{Holdings: []model.Holding{{ID: mintA, Amount: 4, ValueUSD: 8}}}
	r := NewResolver(up, holdings, ResolverOptions{})
	txs := []model.Transaction{{TokenTransfers: []model.TokenTransfer{{Mint: mintA}}}}

	r.Extend(context.Background(), MissingMints(txs, r.Known))

	if len(up.assetCalls) != 1 || up.assetCalls[0][0] != mintA {
		t.Fatalf("expected a metadata batch for the unnamed holding, got %v", up.assetCalls)
	}
	if sym, price := r.Lookup(mintA); sym != "AAA" || price != 2 {
		t.Fatalf("expected AAA at the holding price 2, got %s at %v", sym, price)
	}
}
