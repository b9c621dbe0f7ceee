package helius

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/sol-wrapped/pkg/model"
)

// ── DAS: holdings and asset metadata ────────────────────────

type dasAsset struct {
	ID      string `json:"id"`
	Content *struct {
		Metadata struct {
			Name   string `json:"name"`
			Symbol string `json:"symbol"`
		} `json:"metadata"`
	} `json:"content"`
	TokenInfo *struct {
		Symbol    string  `json:"symbol"`
		Balance   float64 `json:"balance"`
		Decimals  int     `json:"decimals"`
		PriceInfo *struct {
			PricePerToken float64 `json:"price_per_token"`
			TotalPrice    float64 `json:"total_price"`
		} `json:"price_info"`
	} `json:"token_info"`
}

func (a dasAsset) symbol() string {
	if a.Content != nil && a.Content.Metadata.Symbol != "" {
		return a.Content.Metadata.Symbol
	}
	if a.TokenInfo != nil {
		return a.TokenInfo.Symbol
	}
	return ""
}

func (a dasAsset) pricePerToken() float64 {
	if a.TokenInfo != nil && a.TokenInfo.PriceInfo != nil {
		return a.TokenInfo.PriceInfo.PricePerToken
	}
	return 0
}

// GetPortfolio returns fungible holdings plus the native balance and SOL price.
func (c *Client) GetPortfolio(ctx context.Context, owner string) (model.Portfolio, error) {
	result, err := c.rpcCall(ctx, "getAssetsByOwner", map[string]interface{}{
		"ownerAddress": owner,
		"page":         1,
		"limit":        1000,
		"displayOptions": map[string]bool{
			"showFungible":      true,
			"showNativeBalance": true,
		},
	})
	if err != nil {
		return model.Portfolio{}, err
	}

	var parsed struct {
		Items         []dasAsset `json:"items"`
		NativeBalance *struct {
			Lamports    int64   `json:"lamports"`
			PricePerSol float64 `json:"price_per_sol"`
			TotalPrice  float64 `json:"total_price"`
		} `json:"nativeBalance"`
	}
	if err := json.Unmarshal(result, &parsed); err != nil {
		return model.Portfolio{}, fmt.Errorf("getAssetsByOwner: decode: %w", err)
	}

	var p model.Portfolio
	if nb := parsed.NativeBalance; nb != nil {
		p.NativeLamports = nb.Lamports
		p.NativePrice = nb.PricePerSol
		p.NativeValueUSD = nb.TotalPrice
	}
	for _, a := range parsed.Items {
		// NFTs and compressed assets carry no token_info
		if a.ID == "" || a.TokenInfo == nil {
			continue
		}
		h := model.Holding{
			ID:            a.ID,
			Symbol:        a.symbol(),
			Amount:        a.TokenInfo.Balance / math.Pow(10, float64(a.TokenInfo.Decimals)),
			PricePerToken: a.pricePerToken(),
		}
		if a.TokenInfo.PriceInfo != nil {
			h.ValueUSD = a.TokenInfo.PriceInfo.TotalPrice
		}
		p.Holdings = append(p.Holdings, h)
	}
	return p, nil
}

// GetAssetBatch resolves up to 100 mints. Unknown ids come back as nulls and are skipped.
func (c *Client) GetAssetBatch(ctx context.Context, ids []string) ([]model.AssetMeta, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	result, err := c.rpcCall(ctx, "getAssetBatch", map[string]interface{}{"ids": ids})
	if err != nil {
		return nil, err
	}
	var assets []*dasAsset
	if err := json.Unmarshal(result, &assets); err != nil {
		return nil, fmt.Errorf("getAssetBatch: decode: %w", err)
	}
	out := make([]model.AssetMeta, 0, len(assets))
	for _, a := range assets {
		if a == nil || a.ID == "" {
			continue
		}
		out = append(out, model.AssetMeta{ID: a.ID, Symbol: a.symbol(), PricePerToken: a.pricePerToken()})
	}
	return out, nil
}

// ── Solana RPC: signature history ───────────────────────────

func (c *Client) GetSignatures(ctx context.Context, address, before string, limit int) ([]model.SignatureRecord, error) {
	opts := map[string]interface{}{"limit": limit}
	if before != "" {
		opts["before"] = before
	}
	result, err := c.rpcCall(ctx, "getSignaturesForAddress", []interface{}{address, opts})
	if err != nil {
		return nil, err
	}

	var sigs []struct {
		Signature string `json:"signature"`
		BlockTime *int64 `json:"blockTime"`
	}
	if err := json.Unmarshal(result, &sigs); err != nil {
		return nil, fmt.Errorf("getSignaturesForAddress: decode: %w", err)
	}
	out := make([]model.SignatureRecord, 0, len(sigs))
	for _, s := range sigs {
		rec := model.SignatureRecord{Signature: s.Signature}
		if s.BlockTime != nil {
			rec.BlockTime = *s.BlockTime
		}
		out = append(out, rec)
	}
	return out, nil
}

// ── Enhanced transactions ───────────────────────────────────

type enhancedTx struct {
	Signature       string `json:"signature"`
	Timestamp       int64  `json:"timestamp"`
	Type            string `json:"type"`
	Fee             int64  `json:"fee"`
	NativeTransfers []struct {
		FromUserAccount string `json:"fromUserAccount"`
		ToUserAccount   string `json:"toUserAccount"`
		Amount          int64  `json:"amount"`
	} `json:"nativeTransfers"`
	TokenTransfers []struct {
		FromUserAccount string  `json:"fromUserAccount"`
		ToUserAccount   string  `json:"toUserAccount"`
		Mint            string  `json:"mint"`
		TokenAmount     float64 `json:"tokenAmount"`
	} `json:"tokenTransfers"`
}

// GetTransactions fetches parsed detail for up to 100 signatures. Records
// without a signature are dropped here so downstream code can trust shapes.
func (c *Client) GetTransactions(ctx context.Context, signatures []string) ([]model.Transaction, error) {
	if len(signatures) == 0 {
		return nil, nil
	}
	payload, err := json.Marshal(map[string][]string{"transactions": signatures})
	if err != nil {
		return nil, err
	}
	url := fmt.Sprintf("%s/v0/transactions?api-key=%s", c.apiURL, c.apiKey)
	body, err := c.post(ctx, url, payload)
	if err != nil {
		return nil, fmt.Errorf("transactions: %w", err)
	}

	var raw []enhancedTx
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("transactions: decode: %w", err)
	}
	return toTransactions(raw), nil
}

func toTransactions(raw []enhancedTx) []model.Transaction {
	out := make([]model.Transaction, 0, len(raw))
	for _, p := range raw {
		if p.Signature == "" {
			continue
		}
		tx := model.Transaction{
			Signature: p.Signature,
			Timestamp: p.Timestamp,
			Type:      p.Type,
			Fee:       p.Fee,
		}
		for _, nt := range p.NativeTransfers {
			tx.NativeTransfers = append(tx.NativeTransfers, model.NativeTransfer{
				From: nt.FromUserAccount, To: nt.ToUserAccount, Lamports: nt.Amount,
			})
		}
		for _, tt := range p.TokenTransfers {
			tx.TokenTransfers = append(tx.TokenTransfers, model.TokenTransfer{
				From: tt.FromUserAccount, To: tt.ToUserAccount, Mint: tt.Mint, Amount: tt.TokenAmount,
			})
		}
		out = append(out, tx)
	}
	return out
}
