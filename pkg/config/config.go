package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Helius
	HeliusAPIKey string
	HeliusRPCURL string // DAS + JSON-RPC endpoint, api key appended
	HeliusAPIURL string // enhanced transactions API base
	HeliusRPS    float64
	HTTPTimeout  time.Duration

	// Reporting period
	ReportYear int

	// Collection limits
	SignaturePageSize int
	SignatureCap      int
	TxBatchSize       int
	AssetBatchSize    int
	BatchConcurrency  int
	PreviewSize       int
	TopN              int

	// Personality thresholds
	Personality PersonalityThresholds

	// DB (asset metadata cache, empty disables)
	DBPath string

	// Dashboard
	DashboardPort   int
	SummaryCacheTTL time.Duration

	LogLevel string
}

// PersonalityThresholds are policy values for the personality decision list.
type PersonalityThresholds struct {
	BotSignatures    int
	DiamondVolumeUSD float64
	DiamondMaxTxs    int
	DegenTokenTxs    int
	TraderTxs        int
	NightStartHour   int // inclusive, UTC
	NightEndHour     int // exclusive, UTC
	MajorityShare    float64
}

func DefaultPersonalityThresholds() PersonalityThresholds {
	return PersonalityThresholds{
		BotSignatures:    1000,
		DiamondVolumeUSD: 100000,
		DiamondMaxTxs:    50,
		DegenTokenTxs:    500,
		TraderTxs:        100,
		NightStartHour:   0,
		NightEndHour:     6,
		MajorityShare:    0.5,
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	d := DefaultPersonalityThresholds()
	cfg := &Config{
		HeliusAPIKey: os.Getenv("HELIUS_API_KEY"),
		HeliusRPCURL: envOr("HELIUS_RPC_URL", "https://mainnet.helius-rpc.com"),
		HeliusAPIURL: envOr("HELIUS_API_URL", "https://api.helius.xyz"),
		HeliusRPS:    envFloat("HELIUS_RPS", 10),
		HTTPTimeout:  time.Duration(envInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second,

		ReportYear: envInt("REPORT_YEAR", time.Now().UTC().Year()),

		SignaturePageSize: envInt("SIGNATURE_PAGE_SIZE", 1000),
		SignatureCap:      envInt("SIGNATURE_CAP", 10000),
		TxBatchSize:       envInt("TX_BATCH_SIZE", 100),
		AssetBatchSize:    envInt("ASSET_BATCH_SIZE", 100),
		BatchConcurrency:  envInt("BATCH_CONCURRENCY", 10),
		PreviewSize:       envInt("PREVIEW_SIZE", 10),
		TopN:              envInt("TOP_N", 5),

		Personality: PersonalityThresholds{
			BotSignatures:    envInt("BOT_SIGNATURE_THRESHOLD", d.BotSignatures),
			DiamondVolumeUSD: envFloat("DIAMOND_VOLUME_USD", d.DiamondVolumeUSD),
			DiamondMaxTxs:    envInt("DIAMOND_MAX_TXS", d.DiamondMaxTxs),
			DegenTokenTxs:    envInt("DEGEN_TOKEN_TX_THRESHOLD", d.DegenTokenTxs),
			TraderTxs:        envInt("TRADER_TX_THRESHOLD", d.TraderTxs),
			NightStartHour:   envInt("NIGHT_START_HOUR", d.NightStartHour),
			NightEndHour:     envInt("NIGHT_END_HOUR", d.NightEndHour),
			MajorityShare:    envFloat("MAJORITY_SHARE", d.MajorityShare),
		},

		DBPath:          envOr("DB_PATH", ""),
		DashboardPort:   envInt("DASHBOARD_PORT", 8080),
		SummaryCacheTTL: time.Duration(envInt("SUMMARY_CACHE_TTL_SECONDS", 300)) * time.Second,

		LogLevel: strings.ToLower(envOr("LOG_LEVEL", "info")),
	}

	return cfg, nil
}

// PeriodStart is the first second of the reporting year, UTC.
func (c *Config) PeriodStart() time.Time {
	return time.Date(c.ReportYear, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// RPCEndpoint returns the JSON-RPC URL with the api key attached.
func (c *Config) RPCEndpoint() string {
	return fmt.Sprintf("%s/?api-key=%s", strings.TrimRight(c.HeliusRPCURL, "/"), c.HeliusAPIKey)
}

func (c *Config) Validate() error {
	if c.HeliusAPIKey == "" {
		return fmt.Errorf("HELIUS_API_KEY is not set")
	}
	if c.SignaturePageSize <= 0 || c.SignatureCap <= 0 {
		return fmt.Errorf("signature page size and cap must be positive (got %d, %d)", c.SignaturePageSize, c.SignatureCap)
	}
	if c.TxBatchSize <= 0 || c.TxBatchSize > 100 {
		return fmt.Errorf("TX_BATCH_SIZE must be in 1..100 (got %d)", c.TxBatchSize)
	}
	if c.AssetBatchSize <= 0 || c.AssetBatchSize > 100 {
		return fmt.Errorf("ASSET_BATCH_SIZE must be in 1..100 (got %d)", c.AssetBatchSize)
	}
	return nil
}

// helpers
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
