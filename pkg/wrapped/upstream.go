package wrapped

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/sol-wrapped/pkg/model"
)

var (
	ErrInvalidAddress      = errors.New("invalid wallet address")
	ErrHoldingsUnavailable = errors.New("holdings query failed")
)

// Upstream is the blockchain data provider. Implementations own transport,
// auth and retries; every method is a single request/response.
type Upstream interface {
	GetPortfolio(ctx context.Context, owner string) (model.Portfolio, error)
	GetSignatures(ctx context.Context, address, before string, limit int) ([]model.SignatureRecord, error)
	GetTransactions(ctx context.Context, signatures []string) ([]model.Transaction, error)
	GetAssetBatch(ctx context.Context, ids []string) ([]model.AssetMeta, error)
}

// ValidateAddress accepts base58 encoded 32-byte public keys.
func ValidateAddress(address string) error {
	if len(address) < 32 || len(address) > 44 {
		return fmt.Errorf("%w: length %d", ErrInvalidAddress, len(address))
	}
	if _, err := solana.PublicKeyFromBase58(address); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return nil
}

func lamportsToSOL(lamports int64) float64 {
	return float64(lamports) / float64(solana.LAMPORTS_PER_SOL)
}

// logger returns the run logger carried on ctx, or the global one.
func logger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &log.Logger
}

func chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = len(items)
	}
	var out [][]T
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		out = append(out, items[i:end])
	}
	return out
}

func abbrev(addr string) string {
	if len(addr) > 12 {
		return addr[:6] + "..." + addr[len(addr)-4:]
	}
	return addr
}
