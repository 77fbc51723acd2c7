package tradingview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"tickerbot/pkg/ticker"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultImageURL = "https://api.chart-img.com"
	advancedChartV2 = "/v2/tradingview/advanced-chart"

	// free tier limit is 800x600
	MaxImageWidth  = 800
	MaxImageHeight = 600
)

// ErrImagesDisabled is returned when no API key is configured.
var ErrImagesDisabled = errors.New("chart images disabled")

// Study is one indicator drawn on a rendered chart.
type Study struct {
	Name         string `json:"name"`
	ForceOverlay bool   `json:"forceOverlay"`
}

// ChartRequest is the advanced-chart request body.
type ChartRequest struct {
	Symbol   string  `json:"symbol"`
	Interval string  `json:"interval"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Theme    string  `json:"theme"`
	Studies  []Study `json:"studies"`
}

// ChartImgClient renders TradingView charts through chart-img.com.
type ChartImgClient struct {
	client *resty.Client
	apiKey string
	theme  string
}

func NewChartImgClient(baseURL, apiKey, theme string, timeout time.Duration) *ChartImgClient {
	if baseURL == "" {
		baseURL = DefaultImageURL
	}
	if theme == "" {
		theme = "dark"
	}
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)

	return &ChartImgClient{
		client: client,
		apiKey: apiKey,
		theme:  theme,
	}
}

// Enabled reports whether the client has credentials to call the API.
func (c *ChartImgClient) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// NewChartRequest builds the request body for symbol. Volume is always drawn,
// followed by the requested indicators. Dimensions are clamped to the API limits.
func NewChartRequest(symbol string, tf ticker.Timeframe, width, height int, indicators []string, theme string) ChartRequest {
	studies := []Study{{Name: "Volume"}}
	for _, ind := range indicators {
		if ind == "Volume" {
			continue
		}
		studies = append(studies, Study{Name: ind})
	}

	return ChartRequest{
		Symbol:   QualifiedSymbol(symbol),
		Interval: tf.Meta().ImageArg,
		Width:    clamp(width, MaxImageWidth),
		Height:   clamp(height, MaxImageHeight),
		Theme:    theme,
		Studies:  studies,
	}
}

// Image returns the PNG bytes of the chart of symbol.
func (c *ChartImgClient) Image(ctx context.Context, symbol string, tf ticker.Timeframe,
	width, height int, indicators []string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrImagesDisabled
	}

	body := NewChartRequest(symbol, tf, width, height, indicators, c.theme)

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("x-api-key", c.apiKey).
		SetBody(body).
		Post(advancedChartV2)
	if err != nil {
		return nil, fmt.Errorf("chart-img request failed: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("chart-img error (status %d): %s", resp.StatusCode(), resp.String())
	}

	return resp.Body(), nil
}

func clamp(v, limit int) int {
	if v <= 0 || v > limit {
		return limit
	}
	return v
}
