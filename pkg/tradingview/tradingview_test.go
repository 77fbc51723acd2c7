package tradingview

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tickerbot/pkg/ticker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExchange(t *testing.T) {
	assert.Equal(t, "NASDAQ", Exchange("AAPL"))
	assert.Equal(t, "NASDAQ", Exchange("nvda"))
	assert.Equal(t, "NYSE", Exchange("IBM"))
	assert.Equal(t, "NYSE:KO", QualifiedSymbol("ko"))
}

func TestBuildLink(t *testing.T) {
	assert.Equal(t,
		"https://www.tradingview.com/chart/?symbol=NASDAQ:AAPL&interval=60",
		BuildLink("AAPL", ticker.Interval60Min))
	assert.Equal(t,
		"https://www.tradingview.com/chart/?symbol=NYSE:IBM&interval=D",
		BuildLink("IBM", ticker.IntervalDaily))
}

func TestLinks(t *testing.T) {
	links := NewLinkBuilder("https://example.test/chart/").Links("TSLA")
	require.Len(t, links, 3)
	assert.Equal(t, []string{"1H", "4H", "1D"}, []string{links[0].Label, links[1].Label, links[2].Label})
	assert.Equal(t, "https://example.test/chart/?symbol=NASDAQ:TSLA&interval=240", links[1].URL)
}

func TestNewChartRequest(t *testing.T) {
	req := NewChartRequest("MSFT", ticker.Interval240Min, 1200, 500,
		[]string{"Exponential Moving Average", "Volume"}, "dark")

	assert.Equal(t, "NASDAQ:MSFT", req.Symbol)
	assert.Equal(t, "4h", req.Interval)
	assert.Equal(t, MaxImageWidth, req.Width)
	assert.Equal(t, 500, req.Height)
	assert.Equal(t, []Study{{Name: "Volume"}, {Name: "Exponential Moving Average"}}, req.Studies)
}

func TestChartImgClientImage(t *testing.T) {
	png := []byte("\x89PNG fake")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/tradingview/advanced-chart", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))

		var body ChartRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Symbol != "NYSE:IBM" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"bad symbol"}`))
			return
		}
		assert.Equal(t, "1D", body.Interval)
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	defer srv.Close()

	client := NewChartImgClient(srv.URL, "secret", "", 5*time.Second)
	ctx := context.Background()

	got, err := client.Image(ctx, "IBM", ticker.IntervalDaily, 800, 500, nil)
	require.NoError(t, err)
	assert.Equal(t, png, got)

	_, err = client.Image(ctx, "AAPL", ticker.IntervalDaily, 800, 500, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestChartImgClientDisabled(t *testing.T) {
	client := NewChartImgClient("", "", "", time.Second)
	assert.False(t, client.Enabled())

	_, err := client.Image(context.Background(), "IBM", ticker.IntervalDaily, 800, 500, nil)
	assert.ErrorIs(t, err, ErrImagesDisabled)
}
