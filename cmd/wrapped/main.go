package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sol-wrapped/pkg/config"
	"github.com/sol-wrapped/pkg/dashboard"
	"github.com/sol-wrapped/pkg/db"
	"github.com/sol-wrapped/pkg/helius"
	"github.com/sol-wrapped/pkg/model"
	"github.com/sol-wrapped/pkg/wrapped"
)

func main() {
	serve := flag.Bool("serve", false, "run the HTTP API instead of printing one summary")
	asJSON := flag.Bool("json", false, "print the summary as JSON")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: wrapped [-json] <address>\n       wrapped -serve\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid config")
	}

	var cache wrapped.MetadataCache
	if cfg.DBPath != "" {
		store, err := db.NewStore(cfg.DBPath)
		if err != nil {
			log.Fatal().Err(err).Msg("database init failed")
		}
		defer store.Close()
		cache = store
		if n, err := store.CountAssets(context.Background()); err == nil {
			log.Debug().Str("path", cfg.DBPath).Int("assets", n).Msg("metadata cache opened")
		}
	}

	svc := wrapped.NewService(cfg, helius.New(cfg), cache)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *serve {
		log.Info().Int("year", cfg.ReportYear).Msg("🎁 wallet wrapped API starting...")
		if err := dashboard.New(svc, cfg.DashboardPort, cfg.SummaryCacheTTL).Run(ctx); err != nil {
			log.Error().Err(err).Msg("dashboard stopped")
		}
		log.Info().Msg("goodbye 👋")
		return
	}

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	s, err := svc.ComputeWalletSummary(ctx, flag.Arg(0))
	if err != nil {
		// log.Fatal skips deferred calls, close the store first
		cancel()
		if c, ok := cache.(*db.Store); ok {
			c.Close()
		}
		log.Fatal().Err(err).Msg("summary failed")
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(s)
		return
	}
	printSummary(s)
}

func printSummary(s model.Summary) {
	title := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	fmt.Println("\n" + strings.Repeat("═", 60))
	fmt.Printf("  🎁 %s %d WRAPPED: %s\n", title("SOLANA"), s.PeriodStart.Year(), s.Address)
	fmt.Println(strings.Repeat("═", 60))
	fmt.Printf("  Personality:  %s\n", title(s.Personality))
	fmt.Printf("  Rank:         %s (top %g%%)\n", s.WalletRank.Label, s.WalletRank.Percentile)
	fmt.Printf("  Volume:       %.2f SOL ($%.2f)\n", s.TotalVolume, s.TotalVolumeUSD)
	fmt.Printf("  Inflow:       %s SOL   Outflow: %s SOL\n",
		green(fmt.Sprintf("%.2f", s.TotalInflow)), red(fmt.Sprintf("%.2f", s.TotalOutflow)))
	change := fmt.Sprintf("%+.1f%%", s.VolumeChangePercentage)
	if s.VolumeChangePercentage >= 0 {
		change = green(change)
	} else {
		change = red(change)
	}
	fmt.Printf("  30d change:   %s\n", change)
	fmt.Printf("  Signatures:   %d (%d in period, %d last 30d)\n", s.TransactionCount, s.PeriodTransactionCount, s.MonthChange)
	if s.MostActiveDay != nil {
		fmt.Printf("  Busiest day:  %s (%d txs)\n", s.MostActiveDay.Date, s.MostActiveDay.Count)
	}
	if b := s.BiggestTransaction; b != nil {
		fmt.Printf("  Biggest tx:   %.4f %s ($%.2f) on %s\n", b.Amount, b.Currency, b.ValueUSD, b.Date)
	}
	fmt.Println()

	months := tablewriter.NewWriter(os.Stdout)
	months.SetHeader([]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"})
	row := make([]string, 0, len(s.Activity))
	for _, n := range s.Activity {
		row = append(row, fmt.Sprint(n))
	}
	months.Append(row)
	months.Render()

	if len(s.TopAssets) > 0 {
		assets := tablewriter.NewWriter(os.Stdout)
		assets.SetHeader([]string{"Asset", "Amount", "Value USD"})
		for _, a := range s.TopAssets {
			assets.Append([]string{a.Symbol, fmt.Sprintf("%.4f", a.Amount), fmt.Sprintf("%.2f", a.ValueUSD)})
		}
		assets.Render()
	}

	if len(s.TopWallets) > 0 {
		wallets := tablewriter.NewWriter(os.Stdout)
		wallets.SetHeader([]string{"Counterparty", "Interactions", "SOL", "Type"})
		for _, w := range s.TopWallets {
			wallets.Append([]string{w.Address, fmt.Sprint(w.InteractionCount), fmt.Sprintf("%.2f", w.TotalVolume), string(w.Type)})
		}
		wallets.Render()
	}

	if len(s.Transactions) > 0 {
		txs := tablewriter.NewWriter(os.Stdout)
		txs.SetHeader([]string{"Date", "Dir", "Amount", "Currency", "Signature"})
		for _, t := range s.Transactions {
			txs.Append([]string{t.Date, string(t.Direction), fmt.Sprintf("%.4f", t.Amount), t.Currency, abbrev(t.Signature)})
		}
		txs.Render()
	}
}

func abbrev(s string) string {
	if len(s) <= 16 {
		return s
	}
	return s[:8] + "..." + s[len(s)-8:]
}
