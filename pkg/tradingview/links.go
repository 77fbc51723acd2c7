// Package tradingview builds TradingView chart links and fetches rendered
// chart images from the chart-img.com API.
package tradingview

import (
	"fmt"
	"net/url"
	"strings"

	"tickerbot/pkg/ticker"
)

const DefaultBaseURL = "https://www.tradingview.com/chart/"

// nasdaqSymbols is a static sample of NASDAQ listings. Anything else is assumed
// to trade on NYSE; this is a best-effort guess, not an authoritative lookup.
var nasdaqSymbols = map[string]bool{
	"AAPL": true, "MSFT": true, "GOOGL": true, "GOOG": true, "AMZN": true, "TSLA": true,
	"META": true, "NVDA": true, "AMD": true, "NFLX": true, "INTC": true, "CSCO": true,
	"ADBE": true, "PYPL": true, "CMCSA": true, "AVGO": true, "TXN": true, "QCOM": true,
	"COST": true, "SBUX": true, "CHTR": true, "INTU": true, "AMGN": true, "TMUS": true,
	"GILD": true, "MDLZ": true, "VRTX": true, "ADP": true, "ISRG": true, "FISV": true,
	"BKNG": true, "REGN": true, "ATVI": true, "CSX": true, "ILMN": true, "BIIB": true,
	"MU": true, "LRCX": true, "ADSK": true, "MNST": true,
}

// Exchange guesses the listing exchange of symbol.
func Exchange(symbol string) string {
	if nasdaqSymbols[strings.ToUpper(symbol)] {
		return "NASDAQ"
	}
	return "NYSE"
}

// QualifiedSymbol returns "EXCHANGE:SYMBOL".
func QualifiedSymbol(symbol string) string {
	symbol = strings.ToUpper(symbol)
	return Exchange(symbol) + ":" + symbol
}

// Link is a labelled chart URL.
type Link struct {
	Label string
	URL   string
}

// LinkTimeframes are the intervals offered as chart links on every reply.
var LinkTimeframes = []ticker.Timeframe{
	ticker.Interval60Min,
	ticker.Interval240Min,
	ticker.IntervalDaily,
}

// LinkBuilder builds chart deep links against a configurable base URL.
type LinkBuilder struct {
	baseURL string
}

func NewLinkBuilder(baseURL string) *LinkBuilder {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &LinkBuilder{baseURL: baseURL}
}

// BuildLink returns the chart URL of symbol at the given interval code.
func (b *LinkBuilder) BuildLink(symbol string, tf ticker.Timeframe) string {
	return fmt.Sprintf("%s?symbol=%s&interval=%s",
		b.baseURL, url.PathEscape(QualifiedSymbol(symbol)), url.QueryEscape(string(tf)))
}

// Links returns one link per LinkTimeframes entry, labelled "1H", "4H", "1D".
func (b *LinkBuilder) Links(symbol string) []Link {
	out := make([]Link, 0, len(LinkTimeframes))
	for _, tf := range LinkTimeframes {
		out = append(out, Link{
			Label: strings.ToUpper(tf.Label()),
			URL:   b.BuildLink(symbol, tf),
		})
	}
	return out
}

var defaultBuilder = NewLinkBuilder(DefaultBaseURL)

// BuildLink builds a link against the public TradingView site.
func BuildLink(symbol string, tf ticker.Timeframe) string {
	return defaultBuilder.BuildLink(symbol, tf)
}

// Links builds the standard link set against the public TradingView site.
func Links(symbol string) []Link {
	return defaultBuilder.Links(symbol)
}
