package wrapped

import (
	"sort"

	"github.com/sol-wrapped/pkg/model"
)

// TopAssets merges the native balance with token holdings, drops empty
// balances and ranks by USD value. The top asset falls back to a zero SOL
// placeholder for an empty wallet.
func TopAssets(p model.Portfolio, n int) ([]model.Asset, model.Asset) {
	all := []model.Asset{{
		Symbol:   model.NativeSymbol,
		Amount:   lamportsToSOL(p.NativeLamports),
		ValueUSD: p.NativeValueUSD,
	}}
	for _, h := range p.Holdings {
		sym := h.Symbol
		if sym == "" {
			sym = "Unknown"
		}
		all = append(all, model.Asset{Symbol: sym, Amount: h.Amount, ValueUSD: h.ValueUSD})
	}

	ranked := all[:0]
	for _, a := range all {
		if a.Amount > 0 {
			ranked = append(ranked, a)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].ValueUSD > ranked[j].ValueUSD
	})
	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}

	top := model.Asset{Symbol: model.NativeSymbol}
	if len(ranked) > 0 {
		top = ranked[0]
	}
	return ranked, top
}

type rankStep struct {
	minSOL     float64
	percentile float64
	label      string
}

var rankSteps = []rankStep{
	{10000, 0.1, "Solana Leviathan"},
	{1000, 1, "Whale"},
	{100, 5, "Shark"},
	{10, 10, "Dolphin"},
	{1, 25, "Fish"},
}

// RankBalance maps a SOL balance to a holder percentile: more SOL, smaller
// percentile.
func RankBalance(sol float64) model.WalletRank {
	for _, s := range rankSteps {
		if sol >= s.minSOL {
			return model.WalletRank{Percentile: s.percentile, Label: s.label}
		}
	}
	return model.WalletRank{Percentile: 50, Label: "Solana Plankton"}
}
