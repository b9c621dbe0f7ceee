package wrapped

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sol-wrapped/pkg/model"
)

var errUpstream = errors.New("upstream unavailable")

// fakeUpstream serves a fixed history from memory and records every call.
type fakeUpstream struct {
	mu sync.Mutex

	portfolio    model.Portfolio
	portfolioErr error

	history       []model.SignatureRecord // newest first
	failPageAfter int                     // 0 never fails
	befores       []string

	txs         map[string]model.Transaction
	failTxBatch func(batch []string) bool
	txBatches   [][]string

	assets      map[string]model.AssetMeta
	assetCalls  [][]string
	assetsError error
}

func (f *fakeUpstream) GetPortfolio(context.Context, string) (model.Portfolio, error) {
	return f.portfolio, f.portfolioErr
}

func (f *fakeUpstream) GetSignatures(_ context.Context, _ string, before string, limit int) ([]model.SignatureRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.befores = append(f.befores, before)
	if f.failPageAfter > 0 && len(f.befores) > f.failPageAfter {
		return nil, errUpstream
	}
	start := 0
	if before != "" {
		for i, s := range f.history {
			if s.Signature == before {
				start = i + 1
				break
			}
		}
	}
	end := start + limit
	if end > len(f.history) {
		end = len(f.history)
	}
	return append([]model.SignatureRecord(nil), f.history[start:end]...), nil
}

func (f *fakeUpstream) GetTransactions(_ context.Context, sigs []string) ([]model.Transaction, error) {
	f.mu.Lock()
	f.txBatches = append(f.txBatches, append([]string(nil), sigs...))
	f.mu.Unlock()
	if f.failTxBatch != nil && f.failTxBatch(sigs) {
		return nil, errUpstream
	}
	var out []model.Transaction
	for _, s := range sigs {
		if tx, ok := f.txs[s]; ok {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeUpstream) GetAssetBatch(_ context.Context, ids []string) ([]model.AssetMeta, error) {
	f.mu.Lock()
	f.assetCalls = append(f.assetCalls, append([]string(nil), ids...))
	f.mu.Unlock()
	if f.assetsError != nil {
		return nil, f.assetsError
	}
	var out []model.AssetMeta
	for _, id := range ids {
		if m, ok := f.assets[id]; ok {
			out = append(out, m)
		}
	}
	return out, nil
}

// memCache is an in-memory MetadataCache.
type memCache struct {
	mu    sync.Mutex
	rows  map[string]model.AssetMeta
	saved []model.AssetMeta
}

func (c *memCache) LookupAssets(_ context.Context, ids []string, _ time.Duration) (map[string]model.AssetMeta, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := map[string]model.AssetMeta{}
	for _, id := range ids {
		if m, ok := c.rows[id]; ok {
			out[id] = m
		}
	}
	return out, nil
}

func (c *memCache) SaveAssets(_ context.Context, assets []model.AssetMeta) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saved = append(c.saved, assets...)
	return nil
}

// history builds n signatures, newest first, one minute apart ending at newest.
func history(n int, newest time.Time) []model.SignatureRecord {
	out := make([]model.SignatureRecord, n)
	for i := range out {
		out[i] = model.SignatureRecord{
			Signature: fmt.Sprintf("sig-%05d", i),
			BlockTime: newest.Add(-time.Duration(i) * time.Minute).Unix(),
		}
	}
	return out
}

const (
	wallet = "So11111111111111111111111111111111111111112"
	alice  = "alice1111111111111111111111111111"
	bob    = "bob11111111111111111111111111111"
)

func nativeTx(sig string, at time.Time, from, to string, sol float64) model.Transaction {
	return model.Transaction{
		Signature: sig,
		Timestamp: at.Unix(),
		Type:      "TRANSFER",
		NativeTransfers: []model.NativeTransfer{
			{From: from, To: to, Lamports: int64(sol * 1e9)},
		},
	}
}
