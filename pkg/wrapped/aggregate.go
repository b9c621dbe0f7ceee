package wrapped

import (
	"math"
	"sort"
	"time"

	"github.com/sol-wrapped/pkg/config"
	"github.com/sol-wrapped/pkg/model"
)

const (
	window    = 30 * 24 * time.Hour
	dayLayout = "2006-01-02"
)

type AggregateInput struct {
	Address        string
	Transactions   []model.Transaction
	Symbols        SymbolLookup
	NativePrice    float64
	SignatureCount int
	Now            time.Time
	TopN           int
	Policy         config.PersonalityThresholds
}

// Aggregates is everything derived from one pass over the period's transactions.
type Aggregates struct {
	TotalVolume            float64
	TotalInflow            float64
	TotalOutflow           float64
	CurrentWindowVolume    float64
	PreviousWindowVolume   float64
	VolumeChangePercentage float64

	Activity      [12]int
	PeriodTxCount int
	TokenTxCount  int

	Transactions  []model.TxRecord // newest first
	TopWallets    []model.Counterparty
	MostActiveDay *model.ActiveDay
	Biggest       *model.BiggestTx
	Personality   string
}

// accumulator is the fold state. It never escapes Aggregate.
type accumulator struct {
	in AggregateInput

	agg        Aggregates
	records    []model.TxRecord
	biggestUSD float64

	wallets     map[string]*model.Counterparty
	walletOrder []string

	nightTxs   int
	weekendTxs int
	nftTrades  bool
}

// Aggregate folds the period's transactions into one Aggregates value. It
// performs no I/O and never fails.
func Aggregate(in AggregateInput) Aggregates {
	if in.TopN <= 0 {
		in.TopN = 5
	}
	if in.Symbols == nil {
		in.Symbols = noSymbols{}
	}
	if in.Policy == (config.PersonalityThresholds{}) {
		in.Policy = config.DefaultPersonalityThresholds()
	}
	acc := &accumulator{in: in, wallets: map[string]*model.Counterparty{}}
	for _, tx := range in.Transactions {
		acc.add(tx)
	}
	return acc.finish()
}

type noSymbols struct{}

func (noSymbols) Lookup(string) (string, float64) { return UnknownSymbol, 0 }

func (a *accumulator) add(tx model.Transaction) {
	addr := a.in.Address
	ts := tx.Time()

	a.agg.Activity[ts.Month()-1]++
	a.agg.PeriodTxCount++
	if h := ts.Hour(); h >= a.in.Policy.NightStartHour && h < a.in.Policy.NightEndHour {
		a.nightTxs++
	}
	if wd := ts.Weekday(); wd == time.Saturday || wd == time.Sunday {
		a.weekendTxs++
	}
	if tx.Type == "NFT_SALE" || tx.Type == "NFT_BID" {
		a.nftTrades = true
	}
	for _, t := range tx.TokenTransfers {
		if t.From == addr || t.To == addr {
			a.agg.TokenTxCount++
			break
		}
	}

	age := a.in.Now.Sub(ts)
	amount := 0.0
	dir := model.DirectionOut
	counterparty := ""

	for _, nt := range tx.NativeTransfers {
		if nt.From != addr && nt.To != addr {
			continue
		}
		sol := math.Abs(lamportsToSOL(nt.Lamports))
		amount += sol
		if nt.From == addr {
			dir = model.DirectionOut
			a.agg.TotalOutflow += sol
			counterparty = nt.To
		} else {
			dir = model.DirectionIn
			a.agg.TotalInflow += sol
			counterparty = nt.From
		}
		a.agg.TotalVolume += sol

		if age <= window {
			a.agg.CurrentWindowVolume += sol
		} else if age <= 2*window {
			a.agg.PreviousWindowVolume += sol
		}
	}

	currency := model.NativeSymbol
	valueUSD := amount * a.in.NativePrice

	if amount == 0 {
		for _, t := range tx.TokenTransfers {
			if t.From != addr && t.To != addr {
				continue
			}
			sym, price := a.in.Symbols.Lookup(t.Mint)
			amount = math.Abs(t.Amount)
			currency = sym
			valueUSD = amount * price
			if t.From == addr {
				dir = model.DirectionOut
				counterparty = t.To
			} else {
				dir = model.DirectionIn
				counterparty = t.From
			}
			break
		}
	}

	if amount <= 0 {
		return
	}

	rec := model.TxRecord{
		Signature: tx.Signature,
		Direction: dir,
		Amount:    amount,
		Currency:  currency,
		Date:      ts.Format(dayLayout),
		Timestamp: tx.Timestamp,
		From:      addr,
		To:        addr,
	}
	if dir == model.DirectionIn {
		rec.From = counterparty
	} else {
		rec.To = counterparty
	}
	a.records = append(a.records, rec)

	if valueUSD > a.biggestUSD {
		a.biggestUSD = valueUSD
		a.agg.Biggest = &model.BiggestTx{
			Signature:    tx.Signature,
			Amount:       amount,
			Currency:     currency,
			Counterparty: counterparty,
			Date:         rec.Date,
			ValueUSD:     valueUSD,
		}
	}

	if counterparty != "" && counterparty != addr {
		native := 0.0
		if currency == model.NativeSymbol {
			native = amount
		}
		a.touch(counterparty, dir, native)
	}
}

func (a *accumulator) touch(address string, dir model.Direction, volume float64) {
	tag := model.TagSent
	if dir == model.DirectionIn {
		tag = model.TagReceived
	}
	cp, ok := a.wallets[address]
	if !ok {
		cp = &model.Counterparty{Address: address, Type: tag}
		a.wallets[address] = cp
		a.walletOrder = append(a.walletOrder, address)
	}
	cp.InteractionCount++
	cp.TotalVolume += volume
	if cp.Type != tag {
		cp.Type = model.TagBoth
	}
}

func (a *accumulator) finish() Aggregates {
	agg := a.agg

	sort.SliceStable(a.records, func(i, j int) bool {
		return a.records[i].Timestamp > a.records[j].Timestamp
	})
	agg.Transactions = a.records
	agg.MostActiveDay = mostActiveDay(a.records)
	agg.TopWallets = a.topWallets()
	agg.VolumeChangePercentage = volumeChange(agg.CurrentWindowVolume, agg.PreviousWindowVolume)

	agg.Personality = Classify(PersonalityInput{
		SignatureCount:  a.in.SignatureCount,
		PeriodTxCount:   agg.PeriodTxCount,
		TokenTxCount:    agg.TokenTxCount,
		NativeVolume:    agg.TotalVolume,
		NativeVolumeUSD: agg.TotalVolume * a.in.NativePrice,
		HasNFTTrades:    a.nftTrades,
		NightTxs:        a.nightTxs,
		WeekendTxs:      a.weekendTxs,
	}, a.in.Policy)

	return agg
}

func (a *accumulator) topWallets() []model.Counterparty {
	all := make([]model.Counterparty, 0, len(a.walletOrder))
	for _, addr := range a.walletOrder {
		all = append(all, *a.wallets[addr])
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].InteractionCount > all[j].InteractionCount
	})
	if len(all) > a.in.TopN {
		all = all[:a.in.TopN]
	}
	return all
}

// mostActiveDay buckets records by UTC date. Buckets are visited in the order
// they were first seen in records; only a strictly higher count replaces the
// current best, so ties resolve to the earliest-visited day.
func mostActiveDay(records []model.TxRecord) *model.ActiveDay {
	counts := map[string]int{}
	var order []string
	for _, r := range records {
		day := time.Unix(r.Timestamp, 0).UTC().Format(dayLayout)
		if _, ok := counts[day]; !ok {
			order = append(order, day)
		}
		counts[day]++
	}
	var best *model.ActiveDay
	for _, day := range order {
		if best == nil || counts[day] > best.Count {
			best = &model.ActiveDay{Date: day, Count: counts[day]}
		}
	}
	return best
}

func volumeChange(current, previous float64) float64 {
	switch {
	case previous > 0:
		return (current - previous) / previous * 100
	case current > 0:
		return 100
	default:
		return 0
	}
}
