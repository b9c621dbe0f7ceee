package wrapped

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sol-wrapped/pkg/config"
	"github.com/sol-wrapped/pkg/model"
)

const metadataMaxAge = 24 * time.Hour

// Service runs the Collector → Enricher → Aggregate → Assemble pipeline.
type Service struct {
	cfg   *config.Config
	up    Upstream
	cache MetadataCache
	now   func() time.Time
}

// NewService wires the pipeline. cache may be nil.
func NewService(cfg *config.Config, up Upstream, cache MetadataCache) *Service {
	return &Service{cfg: cfg, up: up, cache: cache, now: time.Now}
}

// ComputeWalletSummary fails only on an invalid address or when the holdings
// query errors; every later upstream failure degrades the summary instead.
func (s *Service) ComputeWalletSummary(ctx context.Context, address string) (model.Summary, error) {
	if err := ValidateAddress(address); err != nil {
		return model.Summary{}, err
	}

	runID := uuid.NewString()
	l := log.With().Str("run", runID[:8]).Str("addr", abbrev(address)).Logger()
	ctx = l.WithContext(ctx)
	started := s.now()

	portfolio, err := s.up.GetPortfolio(ctx, address)
	if err != nil {
		return model.Summary{}, fmt.Errorf("%w: %w", ErrHoldingsUnavailable, err)
	}

	sigs := NewCollector(s.up, s.cfg.SignaturePageSize, s.cfg.SignatureCap).Collect(ctx, address)

	resolver := NewResolver(s.up, portfolio, ResolverOptions{
		BatchSize:   s.cfg.AssetBatchSize,
		Concurrency: s.cfg.BatchConcurrency,
		Cache:       s.cache,
		CacheMaxAge: metadataMaxAge,
	})

	periodStart := s.cfg.PeriodStart()
	txs := NewEnricher(s.up, s.cfg.TxBatchSize, s.cfg.BatchConcurrency).Enrich(ctx, sigs, periodStart)
	resolver.Extend(ctx, MissingMints(txs, resolver.Known))

	now := s.now()
	agg := Aggregate(AggregateInput{
		Address:        address,
		Transactions:   txs,
		Symbols:        resolver,
		NativePrice:    portfolio.NativePrice,
		SignatureCount: len(sigs),
		Now:            now,
		TopN:           s.cfg.TopN,
		Policy:         s.cfg.Personality,
	})

	assets, top := TopAssets(portfolio, s.cfg.TopN)
	summary := Assemble(AssembleInput{
		Address:        address,
		SignatureCount: len(sigs),
		MonthChange:    countSince(sigs, now.Add(-window).Unix()),
		NativePrice:    portfolio.NativePrice,
		Aggregates:     agg,
		TopAssets:      assets,
		TopAsset:       top,
		Rank:           RankBalance(lamportsToSOL(portfolio.NativeLamports)),
		PreviewSize:    s.cfg.PreviewSize,
		PeriodStart:    periodStart,
		GeneratedAt:    now.UTC(),
	})

	l.Info().Int("signatures", len(sigs)).Int("period_txs", len(txs)).
		Float64("volume", summary.TotalVolume).Str("personality", summary.Personality).
		Dur("took", s.now().Sub(started)).Msg("wallet summary computed")
	return summary, nil
}
