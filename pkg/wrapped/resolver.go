package wrapped

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sol-wrapped/pkg/model"
)

// UnknownSymbol is returned for identifiers with no resolved metadata.
const UnknownSymbol = "Token"

// MetadataCache persists resolved asset metadata across runs.
type MetadataCache interface {
	LookupAssets(ctx context.Context, ids []string, maxAge time.Duration) (map[string]model.AssetMeta, error)
	SaveAssets(ctx context.Context, assets []model.AssetMeta) error
}

// SymbolLookup is the read side of the resolver used by the aggregator.
type SymbolLookup interface {
	Lookup(id string) (symbol string, price float64)
}

type ResolverOptions struct {
	BatchSize   int
	Concurrency int
	Cache       MetadataCache // optional
	CacheMaxAge time.Duration
}

// Resolver maps asset identifiers to symbol and unit price. Entries are only
// ever added; a resolved entry is never replaced.
type Resolver struct {
	up   Upstream
	opts ResolverOptions

	mu        sync.RWMutex
	symbols   map[string]string
	prices    map[string]float64
	attempted map[string]bool
}

func NewResolver(up Upstream, portfolio model.Portfolio, opts ResolverOptions) *Resolver {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	r := &Resolver{
		up:        up,
		opts:      opts,
		symbols:   map[string]string{},
		prices:    map[string]float64{},
		attempted: map[string]bool{},
	}
	for _, h := range portfolio.Holdings {
		if h.ID == "" {
			continue
		}
		// holdings without a symbol stay eligible for Extend
		if h.Symbol != "" {
			r.attempted[h.ID] = true
			r.symbols[h.ID] = h.Symbol
		}
		switch {
		case h.PricePerToken > 0:
			r.prices[h.ID] = h.PricePerToken
		case h.Amount > 0 && h.ValueUSD > 0:
			r.prices[h.ID] = h.ValueUSD / h.Amount
		}
	}
	return r
}

func (r *Resolver) Lookup(id string) (string, float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sym, ok := r.symbols[id]
	if !ok {
		sym = UnknownSymbol
	}
	return sym, r.prices[id]
}

// Known reports whether id already has a resolved symbol.
func (r *Resolver) Known(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.symbols[id]
	return ok
}

// Extend resolves identifiers not yet in the table. Each identifier is sent
// upstream at most once per resolver, whatever the outcome.
func (r *Resolver) Extend(ctx context.Context, ids []string) {
	pending := r.claim(ids)
	if len(pending) == 0 {
		return
	}
	l := logger(ctx)

	if r.opts.Cache != nil {
		hits, err := r.opts.Cache.LookupAssets(ctx, pending, r.opts.CacheMaxAge)
		if err != nil {
			l.Warn().Err(err).Msg("metadata cache lookup failed")
		} else if len(hits) > 0 {
			cached := make([]model.AssetMeta, 0, len(hits))
			var rest []string
			for _, id := range pending {
				if m, ok := hits[id]; ok {
					cached = append(cached, m)
				} else {
					rest = append(rest, id)
				}
			}
			r.merge(cached)
			pending = rest
			l.Debug().Int("hits", len(cached)).Msg("metadata cache")
		}
	}

	batches := chunk(pending, r.opts.BatchSize)
	fetched := make([][]model.AssetMeta, len(batches))
	var g errgroup.Group
	g.SetLimit(r.opts.Concurrency)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			metas, err := r.up.GetAssetBatch(ctx, batch)
			if err != nil {
				l.Warn().Err(err).Int("ids", len(batch)).Msg("asset batch failed")
				return nil
			}
			r.merge(metas)
			fetched[i] = metas
			return nil
		})
	}
	_ = g.Wait()

	if r.opts.Cache == nil {
		return
	}
	var save []model.AssetMeta
	for _, metas := range fetched {
		for _, m := range metas {
			if m.ID != "" && m.Symbol != "" {
				save = append(save, m)
			}
		}
	}
	if len(save) > 0 {
		if err := r.opts.Cache.SaveAssets(ctx, save); err != nil {
			l.Warn().Err(err).Msg("metadata cache save failed")
		}
	}
}

// claim dedupes ids and marks the ones never seen before as attempted.
func (r *Resolver) claim(ids []string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, id := range ids {
		if id == "" || r.attempted[id] {
			continue
		}
		if _, ok := r.symbols[id]; ok {
			continue
		}
		r.attempted[id] = true
		out = append(out, id)
	}
	return out
}

func (r *Resolver) merge(metas []model.AssetMeta) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range metas {
		if m.ID == "" {
			continue
		}
		if _, ok := r.symbols[m.ID]; !ok && m.Symbol != "" {
			r.symbols[m.ID] = m.Symbol
		}
		if r.prices[m.ID] == 0 && m.PricePerToken > 0 {
			r.prices[m.ID] = m.PricePerToken
		}
	}
}
