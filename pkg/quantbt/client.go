// Package quantbt provides a Go SDK for the quantbt-server REST API.
package quantbt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Bar is one OHLCV bar as served by the API. Ts is epoch milliseconds.
type Bar struct {
	Ts     int64   `json:"timestamp"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// BacktestRequest names the symbol and strategy to run. Zero-valued cost
// fields use the server's configured defaults.
type BacktestRequest struct {
	Symbol          string  `json:"symbol"`
	Strategy        string  `json:"strategy"`
	InitialEquity   float64 `json:"initial_equity,omitempty"`
	CommissionFixed float64 `json:"commission_fixed,omitempty"`
	CommissionBps   float64 `json:"commission_bps,omitempty"`
	SlippageBps     float64 `json:"slippage_bps,omitempty"`
}

// BacktestResult is a stored backtest outcome.
type BacktestResult struct {
	ID             string    `json:"id"`
	Symbol         string    `json:"symbol"`
	Strategy       string    `json:"strategy"`
	InitialEquity  float64   `json:"initial_equity"`
	FinalEquity    float64   `json:"final_equity"`
	TradesExecuted int       `json:"trades_executed"`
	CreatedAt      time.Time `json:"created_at"`
}

// Client talks to a quantbt-server instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the server at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Health checks that the server is up.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/api/health", &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("unexpected health status %q", resp.Status)
	}
	return nil
}

// Version returns the server's reported version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var resp struct {
		Version string `json:"version"`
	}
	if err := c.get(ctx, "/api/version", &resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

// Strategies lists the strategy names the server can run.
func (c *Client) Strategies(ctx context.Context) ([]string, error) {
	var resp struct {
		Strategies []string `json:"strategies"`
	}
	if err := c.get(ctx, "/api/strategies", &resp); err != nil {
		return nil, err
	}
	return resp.Strategies, nil
}

// IngestCSV uploads CSV bar data for a symbol and returns the number of bars
// the server accepted.
func (c *Client) IngestCSV(ctx context.Context, symbol string, data io.Reader) (int, error) {
	u := c.baseURL + "/api/ingest/csv?symbol=" + url.QueryEscape(symbol)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, data)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "text/csv")

	var resp struct {
		Bars int `json:"bars"`
	}
	if err := c.do(req, http.StatusAccepted, &resp); err != nil {
		return 0, err
	}
	return resp.Bars, nil
}

// Quotes retrieves the stored bars for a symbol.
func (c *Client) Quotes(ctx context.Context, symbol string) ([]Bar, error) {
	var resp struct {
		Bars []Bar `json:"bars"`
	}
	if err := c.get(ctx, "/api/quotes/"+url.PathEscape(symbol), &resp); err != nil {
		return nil, err
	}
	return resp.Bars, nil
}

// RunBacktest runs a backtest over the symbol's stored quotes and returns the
// result record.
func (c *Client) RunBacktest(ctx context.Context, breq BacktestRequest) (BacktestResult, error) {
	body, err := json.Marshal(breq)
	if err != nil {
		return BacktestResult{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/backtest", bytes.NewReader(body))
	if err != nil {
		return BacktestResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp struct {
		Result BacktestResult `json:"result"`
	}
	if err := c.do(req, http.StatusOK, &resp); err != nil {
		return BacktestResult{}, err
	}
	return resp.Result, nil
}

// ListBacktests returns stored results, newest first. A non-positive limit
// uses the server default.
func (c *Client) ListBacktests(ctx context.Context, limit int) ([]BacktestResult, error) {
	path := "/api/backtests"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var resp struct {
		Results []BacktestResult `json:"results"`
	}
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, http.StatusOK, out)
}

func (c *Client) do(req *http.Request, wantStatus int, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s: %s (status %d)", req.Method, req.URL.Path, apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
