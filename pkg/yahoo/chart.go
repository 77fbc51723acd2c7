// Package yahoo fetches quote records from Yahoo Finance.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"tickerbot/pkg/quote"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultChartURL = "https://query1.finance.yahoo.com"
	chartPath       = "/v8/finance/chart/{symbol}"

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta map[string]any `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// ChartSource reads the meta block of the v8 chart endpoint. It needs no
// session cookie and carries price, previous close, day and 52 week ranges,
// volume and names. Market cap and P/E are not part of it.
type ChartSource struct {
	client *resty.Client
}

func NewChartSource(baseURL string, timeout time.Duration) *ChartSource {
	if baseURL == "" {
		baseURL = DefaultChartURL
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", userAgent)

	return &ChartSource{client: client}
}

func (s *ChartSource) Name() string { return "yahoo-chart" }

func (s *ChartSource) Quote(ctx context.Context, symbol string) (quote.Record, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetPathParam("symbol", symbol).
		SetQueryParams(map[string]string{
			"interval": "1d",
			"range":    "1d",
		}).
		Get(chartPath)
	if err != nil {
		return nil, fmt.Errorf("chart request failed: %w", err)
	}

	// Unknown symbols come back as 404 with a "Not Found" error body
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", symbol, quote.ErrNotFound)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("yahoo chart error (status %d): %s", resp.StatusCode(), resp.String())
	}

	var raw chartResponse
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if raw.Chart.Error != nil {
		return nil, fmt.Errorf("%s: %s: %w", symbol, raw.Chart.Error.Description, quote.ErrNotFound)
	}
	if len(raw.Chart.Result) == 0 || raw.Chart.Result[0].Meta == nil {
		return nil, fmt.Errorf("%s: empty chart result: %w", symbol, quote.ErrNotFound)
	}

	rec := quote.Record(raw.Chart.Result[0].Meta)
	if !rec.HasPrice() {
		return nil, fmt.Errorf("%s: no market price: %w", symbol, quote.ErrNotFound)
	}
	return rec, nil
}
