package wrapped

import "github.com/sol-wrapped/pkg/config"

const (
	PersonalityBot       = "Bot-like"
	PersonalityDiamond   = "Diamond Hands"
	PersonalityDegen     = "Degen"
	PersonalityNFT       = "NFT Collector"
	PersonalityNightOwl  = "Night Owl"
	PersonalityWeekender = "Weekender"
	PersonalityMaxi      = "Chain Maxi"
	PersonalityTrader    = "Trader"
	PersonalityHolder    = "Holder"
)

type PersonalityInput struct {
	SignatureCount  int
	PeriodTxCount   int
	TokenTxCount    int
	NativeVolume    float64
	NativeVolumeUSD float64
	HasNFTTrades    bool
	NightTxs        int
	WeekendTxs      int
}

type personalityRule struct {
	label string
	match func(in PersonalityInput, p config.PersonalityThresholds) bool
}

// personalityRules is evaluated top to bottom; the first match wins.
var personalityRules = []personalityRule{
	{PersonalityBot, func(in PersonalityInput, p config.PersonalityThresholds) bool {
		return in.SignatureCount >= p.BotSignatures
	}},
	{PersonalityDiamond, func(in PersonalityInput, p config.PersonalityThresholds) bool {
		return in.NativeVolumeUSD > p.DiamondVolumeUSD && in.PeriodTxCount < p.DiamondMaxTxs
	}},
	{PersonalityDegen, func(in PersonalityInput, p config.PersonalityThresholds) bool {
		return in.TokenTxCount > p.DegenTokenTxs
	}},
	{PersonalityNFT, func(in PersonalityInput, _ config.PersonalityThresholds) bool {
		return in.HasNFTTrades
	}},
	{PersonalityNightOwl, func(in PersonalityInput, p config.PersonalityThresholds) bool {
		return majority(in.NightTxs, in.PeriodTxCount, p.MajorityShare)
	}},
	{PersonalityWeekender, func(in PersonalityInput, p config.PersonalityThresholds) bool {
		return majority(in.WeekendTxs, in.PeriodTxCount, p.MajorityShare)
	}},
	{PersonalityMaxi, func(in PersonalityInput, _ config.PersonalityThresholds) bool {
		return in.TokenTxCount == 0 && in.NativeVolume > 0
	}},
	{PersonalityTrader, func(in PersonalityInput, p config.PersonalityThresholds) bool {
		return in.PeriodTxCount > p.TraderTxs
	}},
}

// Classify returns the label of the first rule that holds, or Holder.
func Classify(in PersonalityInput, p config.PersonalityThresholds) string {
	for _, r := range personalityRules {
		if r.match(in, p) {
			return r.label
		}
	}
	return PersonalityHolder
}

func majority(n, total int, share float64) bool {
	return total > 0 && float64(n) > share*float64(total)
}
