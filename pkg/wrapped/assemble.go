package wrapped

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sol-wrapped/pkg/model"
)

type AssembleInput struct {
	Address        string
	SignatureCount int
	MonthChange    int
	NativePrice    float64
	Aggregates     Aggregates
	TopAssets      []model.Asset
	TopAsset       model.Asset
	Rank           model.WalletRank
	PreviewSize    int
	PeriodStart    time.Time
	GeneratedAt    time.Time
}

// Assemble merges stage outputs into the final summary. Currency values are
// rounded here and nowhere else. Slices are copied so the summary shares no
// backing arrays with its inputs.
func Assemble(in AssembleInput) model.Summary {
	agg := in.Aggregates
	price := in.NativePrice

	all := append([]model.TxRecord(nil), agg.Transactions...)
	preview := all
	if in.PreviewSize >= 0 && len(preview) > in.PreviewSize {
		preview = preview[:in.PreviewSize]
	}
	preview = append([]model.TxRecord(nil), preview...)

	assets := make([]model.Asset, len(in.TopAssets))
	for i, a := range in.TopAssets {
		assets[i] = roundAsset(a)
	}
	wallets := make([]model.Counterparty, len(agg.TopWallets))
	for i, w := range agg.TopWallets {
		w.TotalVolume = round(w.TotalVolume, 2)
		wallets[i] = w
	}

	s := model.Summary{
		Address:                in.Address,
		TotalVolume:            round(agg.TotalVolume, 2),
		TotalVolumeUSD:         round(agg.TotalVolume*price, 2),
		TotalInflow:            round(agg.TotalInflow, 2),
		TotalInflowUSD:         round(agg.TotalInflow*price, 2),
		TotalOutflow:           round(agg.TotalOutflow, 2),
		TotalOutflowUSD:        round(agg.TotalOutflow*price, 2),
		TransactionCount:       in.SignatureCount,
		PeriodTransactionCount: agg.PeriodTxCount,
		MonthChange:            in.MonthChange,
		VolumeChangePercentage: round(agg.VolumeChangePercentage, 1),
		TopAsset:               roundAsset(in.TopAsset),
		TopAssets:              assets,
		TopWallets:             wallets,
		Activity:               agg.Activity,
		Personality:            agg.Personality,
		WalletRank:             in.Rank,
		Transactions:           preview,
		AllTransactions:        all,
		SolPrice:               round(price, 2),
		PeriodStart:            in.PeriodStart,
		GeneratedAt:            in.GeneratedAt,
	}
	if agg.MostActiveDay != nil {
		d := *agg.MostActiveDay
		s.MostActiveDay = &d
	}
	if agg.Biggest != nil {
		b := *agg.Biggest
		b.Amount = round(b.Amount, 2)
		b.ValueUSD = round(b.ValueUSD, 2)
		s.BiggestTransaction = &b
	}
	return s
}

func roundAsset(a model.Asset) model.Asset {
	a.Amount = round(a.Amount, 2)
	a.ValueUSD = round(a.ValueUSD, 2)
	return a
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
