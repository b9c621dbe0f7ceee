package wrapped

import (
	"testing"

	"github.com/sol-wrapped/pkg/config"
)

func TestClassify(t *testing.T) {
	p := config.DefaultPersonalityThresholds()
	cases := []struct {
		name string
		in   PersonalityInput
		want string
	}{
		{"bot beats trader", PersonalityInput{SignatureCount: 5000, PeriodTxCount: 800}, PersonalityBot},
		{"diamond", PersonalityInput{SignatureCount: 20, PeriodTxCount: 10, NativeVolume: 1000, NativeVolumeUSD: 150000}, PersonalityDiamond},
		{"busy whale is not diamond", PersonalityInput{SignatureCount: 200, PeriodTxCount: 200, NativeVolumeUSD: 150000, TokenTxCount: 10}, PersonalityTrader},
		{"degen", PersonalityInput{SignatureCount: 900, PeriodTxCount: 900, TokenTxCount: 600}, PersonalityDegen},
		{"nft", PersonalityInput{SignatureCount: 5, PeriodTxCount: 5, HasNFTTrades: true}, PersonalityNFT},
		{"night owl", PersonalityInput{SignatureCount: 10, PeriodTxCount: 10, NightTxs: 6, TokenTxCount: 1}, PersonalityNightOwl},
		{"half at night is not a majority", PersonalityInput{SignatureCount: 10, PeriodTxCount: 10, NightTxs: 5, TokenTxCount: 1}, PersonalityHolder},
		{"weekender", PersonalityInput{SignatureCount: 10, PeriodTxCount: 10, WeekendTxs: 8, TokenTxCount: 1}, PersonalityWeekender},
		{"maxi", PersonalityInput{SignatureCount: 3, PeriodTxCount: 3, NativeVolume: 2}, PersonalityMaxi},
		{"trader", PersonalityInput{SignatureCount: 300, PeriodTxCount: 150, TokenTxCount: 20}, PersonalityTrader},
		{"empty wallet", PersonalityInput{}, PersonalityHolder},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Classify(c.in, p); got != c.want {
				t.Fatalf("expected %s, got %s", c.want, got)
			}
		})
	}
}

func TestClassifyHonorsPolicy(t *testing.T) {
	p := config.DefaultPersonalityThresholds()
	p.BotSignatures = 10

	if got := Classify(PersonalityInput{SignatureCount: 10}, p); got != PersonalityBot {
		t.Fatalf("expected lowered bot threshold to apply, got %s", got)
	}
}
