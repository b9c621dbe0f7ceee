package wrapped

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sol-wrapped/pkg/model"
)

// Enricher fetches full transaction detail for the signatures of the
// reporting period, in concurrent batches.
type Enricher struct {
	up          Upstream
	batchSize   int
	concurrency int
}

func NewEnricher(up Upstream, batchSize, concurrency int) *Enricher {
	if batchSize <= 0 || batchSize > 100 {
		batchSize = 100
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Enricher{up: up, batchSize: batchSize, concurrency: concurrency}
}

// Enrich returns the transactions at or after periodStart. Order is not
// preserved. A failed batch contributes nothing and does not affect others.
func (e *Enricher) Enrich(ctx context.Context, sigs []model.SignatureRecord, periodStart time.Time) []model.Transaction {
	l := logger(ctx)
	start := periodStart.Unix()

	var inPeriod []string
	for _, s := range sigs {
		if s.BlockTime >= start {
			inPeriod = append(inPeriod, s.Signature)
		}
	}
	if len(inPeriod) == 0 {
		return nil
	}

	batches := chunk(inPeriod, e.batchSize)
	results := make([][]model.Transaction, len(batches))
	failed := make([]bool, len(batches))

	var g errgroup.Group
	g.SetLimit(e.concurrency)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			txs, err := e.up.GetTransactions(ctx, batch)
			if err != nil {
				l.Warn().Err(err).Int("batch", i).Int("size", len(batch)).Msg("transaction batch failed")
				failed[i] = true
				return nil
			}
			results[i] = txs
			return nil
		})
	}
	_ = g.Wait()

	var out []model.Transaction
	nFailed := 0
	for i, txs := range results {
		if failed[i] {
			nFailed++
		}
		for _, tx := range txs {
			if tx.Timestamp >= start {
				out = append(out, tx)
			}
		}
	}
	l.Debug().Int("signatures", len(inPeriod)).Int("batches", len(batches)).
		Int("failed", nFailed).Int("txs", len(out)).Msg("enriched transactions")
	return out
}

// MissingMints lists token mints not yet known, deduplicated, in first-seen order.
func MissingMints(txs []model.Transaction, known func(string) bool) []string {
	seen := map[string]bool{}
	var out []string
	for _, tx := range txs {
		for _, t := range tx.TokenTransfers {
			if t.Mint == "" || seen[t.Mint] || known(t.Mint) {
				continue
			}
			seen[t.Mint] = true
			out = append(out, t.Mint)
		}
	}
	return out
}
