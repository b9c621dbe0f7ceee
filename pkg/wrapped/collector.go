package wrapped

import (
	"context"

	"github.com/sol-wrapped/pkg/model"
)

// Collector pages through a wallet's signature history with a "before"
// cursor until the history ends or the cap is reached.
type Collector struct {
	up       Upstream
	pageSize int
	limit    int
}

func NewCollector(up Upstream, pageSize, limit int) *Collector {
	if pageSize <= 0 {
		pageSize = 1000
	}
	if limit <= 0 {
		limit = 10000
	}
	return &Collector{up: up, pageSize: pageSize, limit: limit}
}

// Collect returns signatures newest first. A failed page ends collection and
// whatever was gathered so far is returned.
func (c *Collector) Collect(ctx context.Context, address string) []model.SignatureRecord {
	l := logger(ctx)
	var all []model.SignatureRecord
	before := ""

	for len(all) < c.limit {
		if ctx.Err() != nil {
			break
		}
		page, err := c.up.GetSignatures(ctx, address, before, c.pageSize)
		if err != nil {
			l.Warn().Err(err).Int("collected", len(all)).Str("before", abbrev(before)).Msg("signature page failed, keeping partial history")
			break
		}
		all = append(all, page...)
		if len(page) == 0 || len(page) < c.pageSize {
			break
		}
		before = page[len(page)-1].Signature
	}

	if len(all) > c.limit {
		all = all[:c.limit]
	}
	l.Debug().Int("signatures", len(all)).Msg("collected signatures")
	return all
}

// countSince counts signatures with a block time strictly after cutoff.
func countSince(sigs []model.SignatureRecord, cutoff int64) int {
	n := 0
	for _, s := range sigs {
		if s.BlockTime > cutoff {
			n++
		}
	}
	return n
}
