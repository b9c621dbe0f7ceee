package wrapped

import (
	"testing"
	"time"

	"github.com/sol-wrapped/pkg/model"
)

func TestAssembleRoundsAndCopies(t *testing.T) {
	records := []model.TxRecord{
		{Signature: "a", Amount: 1.23456, Currency: model.NativeSymbol},
		{Signature: "b", Amount: 2, Currency: model.NativeSymbol},
		{Signature: "c", Amount: 3, Currency: model.NativeSymbol},
	}
	agg := Aggregates{
		TotalVolume:            6.23456,
		TotalInflow:            3.23456,
		TotalOutflow:           3,
		VolumeChangePercentage: 33.333333,
		Transactions:           records,
		TopWallets:             []model.Counterparty{{Address: alice, TotalVolume: 1.005001}},
		Biggest:                &model.BiggestTx{Signature: "c", Amount: 3.14159, ValueUSD: 314.159},
	}

	s := Assemble(AssembleInput{
		Address:     wallet,
		NativePrice: 100,
		Aggregates:  agg,
		PreviewSize: 2,
		PeriodStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	if s.TotalVolume != 6.23 || s.TotalVolumeUSD != 623.46 || s.TotalInflow != 3.23 {
		t.Fatalf("unexpected rounding %v / %v / %v", s.TotalVolume, s.TotalVolumeUSD, s.TotalInflow)
	}
	if s.VolumeChangePercentage != 33.3 {
		t.Fatalf("expected one decimal, got %v", s.VolumeChangePercentage)
	}
	if len(s.Transactions) != 2 || len(s.AllTransactions) != 3 {
		t.Fatalf("expected preview 2 of 3, got %d of %d", len(s.Transactions), len(s.AllTransactions))
	}
	if s.AllTransactions[0].Amount != 1.23456 {
		t.Fatalf("record amounts must stay unrounded, got %v", s.AllTransactions[0].Amount)
	}
	if s.TopWallets[0].TotalVolume != 1.01 {
		t.Fatalf("expected counterparty volume rounded, got %v", s.TopWallets[0].TotalVolume)
	}
	if s.BiggestTransaction.Amount != 3.14 || s.BiggestTransaction.ValueUSD != 314.16 {
		t.Fatalf("unexpected biggest %+v", s.BiggestTransaction)
	}

	records[0].Signature = "mutated"
	agg.Biggest.Signature = "mutated"
	if s.AllTransactions[0].Signature != "a" || s.Transactions[0].Signature != "a" || s.BiggestTransaction.Signature != "c" {
		t.Fatalf("summary shares memory with its inputs")
	}
}
