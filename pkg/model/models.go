package model

import "time"

// NativeSymbol is the display symbol of the chain's native currency.
const NativeSymbol = "SOL"

// ---- Upstream Records ----

type SignatureRecord struct {
	Signature string `json:"signature"`
	BlockTime int64  `json:"block_time"` // unix seconds
}

type NativeTransfer struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Lamports int64  `json:"lamports"`
}

type TokenTransfer struct {
	From   string  `json:"from"`
	To     string  `json:"to"`
	Mint   string  `json:"mint"`
	Amount float64 `json:"amount"` // already scaled by decimals
}

// Transaction is one enriched transaction. It is produced once by the
// upstream adapter and never mutated afterwards.
type Transaction struct {
	Signature       string           `json:"signature"`
	Timestamp       int64            `json:"timestamp"`
	Type            string           `json:"type"` // "TRANSFER","SWAP","NFT_SALE","NFT_BID",...
	Fee             int64            `json:"fee"`
	NativeTransfers []NativeTransfer `json:"native_transfers"`
	TokenTransfers  []TokenTransfer  `json:"token_transfers"`
}

func (t Transaction) Time() time.Time {
	return time.Unix(t.Timestamp, 0).UTC()
}

type Holding struct {
	ID            string  `json:"id"` // mint
	Symbol        string  `json:"symbol"`
	Amount        float64 `json:"amount"`
	ValueUSD      float64 `json:"value_usd"`
	PricePerToken float64 `json:"price_per_token"`
}

// Portfolio is the current balance snapshot of a wallet.
type Portfolio struct {
	Holdings       []Holding `json:"holdings"`
	NativeLamports int64     `json:"native_lamports"`
	NativePrice    float64   `json:"native_price"`
	NativeValueUSD float64   `json:"native_value_usd"`
}

type AssetMeta struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	PricePerToken float64 `json:"price_per_token"`
}

// ---- Summary Records ----

type Direction string

const (
	DirectionIn  Direction = "in"
	DirectionOut Direction = "out"
)

type CounterpartyTag string

const (
	TagSent     CounterpartyTag = "sent"
	TagReceived CounterpartyTag = "received"
	TagBoth     CounterpartyTag = "both"
)

type TxRecord struct {
	Signature string    `json:"hash"`
	Direction Direction `json:"type"`
	Amount    float64   `json:"amount"` // unrounded, month views re-sum it
	Currency  string    `json:"currency"`
	Date      string    `json:"date"` // YYYY-MM-DD, UTC
	Timestamp int64     `json:"timestamp"`
	From      string    `json:"from"`
	To        string    `json:"to"`
}

type Counterparty struct {
	Address          string          `json:"address"`
	InteractionCount int             `json:"interaction_count"`
	TotalVolume      float64         `json:"total_volume"` // SOL only
	Type             CounterpartyTag `json:"type"`
}

type Asset struct {
	Symbol   string  `json:"symbol"`
	Amount   float64 `json:"amount"`
	ValueUSD float64 `json:"value_usd"`
}

type BiggestTx struct {
	Signature    string  `json:"hash"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
	Counterparty string  `json:"to"`
	Date         string  `json:"date"`
	ValueUSD     float64 `json:"usd_value"`
}

type ActiveDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type WalletRank struct {
	Percentile float64 `json:"percentile"`
	Label      string  `json:"label"`
}

// Summary is the year-in-review result for one wallet. It is built once by
// the assembler and must not be mutated afterwards.
type Summary struct {
	Address                string         `json:"address"`
	TotalVolume            float64        `json:"total_volume"`
	TotalVolumeUSD         float64        `json:"total_volume_usd"`
	TotalInflow            float64        `json:"total_inflow"`
	TotalInflowUSD         float64        `json:"total_inflow_usd"`
	TotalOutflow           float64        `json:"total_outflow"`
	TotalOutflowUSD        float64        `json:"total_outflow_usd"`
	TransactionCount       int            `json:"transaction_count"`
	PeriodTransactionCount int            `json:"period_transaction_count"`
	MonthChange            int            `json:"month_change"`
	VolumeChangePercentage float64        `json:"volume_change_percentage"`
	TopAsset               Asset          `json:"top_asset"`
	TopAssets              []Asset        `json:"top_assets"`
	TopWallets             []Counterparty `json:"top_wallets"`
	Activity               [12]int        `json:"activity"`
	MostActiveDay          *ActiveDay     `json:"most_active_day,omitempty"`
	BiggestTransaction     *BiggestTx     `json:"biggest_transaction,omitempty"`
	Personality            string         `json:"personality"`
	WalletRank             WalletRank     `json:"wallet_rank"`
	Transactions           []TxRecord     `json:"transactions"`
	AllTransactions        []TxRecord     `json:"all_transactions"`
	SolPrice               float64        `json:"sol_price"`
	PeriodStart            time.Time      `json:"period_start"`
	GeneratedAt            time.Time      `json:"generated_at"`
}

// DayActivity is one bar of a month's daily histogram.
type DayActivity struct {
	Day   int `json:"name"`
	Total int `json:"total"`
}

// MonthView is a summary narrowed to a single calendar month.
type MonthView struct {
	Address          string        `json:"address"`
	Month            int           `json:"month"` // 0-based
	TotalVolume      float64       `json:"total_volume"`
	TotalInflow      float64       `json:"total_inflow"`
	TotalInflowUSD   float64       `json:"total_inflow_usd"`
	TotalOutflow     float64       `json:"total_outflow"`
	TotalOutflowUSD  float64       `json:"total_outflow_usd"`
	TransactionCount int           `json:"transaction_count"`
	Transactions     []TxRecord    `json:"transactions"`
	Activity         []DayActivity `json:"activity"`
}
