package helius

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/sol-wrapped/pkg/config"
	"github.com/sol-wrapped/pkg/wrapped"
)

// ── Helius Client ───────────────────────────────────────────
// DAS + JSON-RPC calls go to the RPC endpoint, parsed transactions to the
// enhanced transactions API. Every request waits on a shared rate limiter.

var _ wrapped.Upstream = (*Client)(nil)

type Client struct {
	rpcURL  string
	apiURL  string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

func New(cfg *config.Config) *Client {
	rps := cfg.HeliusRPS
	if rps <= 0 {
		rps = 10
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		rpcURL:  cfg.RPCEndpoint(),
		apiURL:  strings.TrimRight(cfg.HeliusAPIURL, "/"),
		apiKey:  cfg.HeliusAPIKey,
		client:  &http.Client{Timeout: cfg.HTTPTimeout},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// rpcCall performs a JSON-RPC call against the Helius RPC endpoint.
func (c *Client) rpcCall(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	reqBody, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      method,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, err
	}

	body, err := c.post(ctx, c.rpcURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return nil, fmt.Errorf("%s: rpc unmarshal: %w", method, err)
	}
	if rpcResp.Error != nil {
		return nil, fmt.Errorf("%s: rpc error %d: %s", method, rpcResp.Error.Code, rpcResp.Error.Message)
	}
	return rpcResp.Result, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// the endpoint carries the api key
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return nil, uerr.Err
		}
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet(body))
	}
	return body, nil
}

func snippet(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
