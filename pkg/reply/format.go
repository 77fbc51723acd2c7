package reply

import (
	"strconv"
	"strings"

	"tickerbot/pkg/quote"
	"tickerbot/pkg/ticker"
	"tickerbot/pkg/tradingview"
)

const (
	LabelPrice     = "Price"
	LabelVolume    = "Volume"
	LabelMarketCap = "Market Cap"
	LabelPERatio   = "P/E Ratio"
	LabelDayRange  = "Day Range"
	LabelYearRange = "52 Week Range"

	DefaultFooter = "Data provided by Yahoo Finance"
)

// Formatter builds replies. The zero value is not usable; use NewFormatter.
type Formatter struct {
	links  *tradingview.LinkBuilder
	footer string
}

func NewFormatter(links *tradingview.LinkBuilder, footer string) *Formatter {
	if links == nil {
		links = tradingview.NewLinkBuilder(tradingview.DefaultBaseURL)
	}
	if footer == "" {
		footer = DefaultFooter
	}
	return &Formatter{links: links, footer: footer}
}

var defaultFormatter = NewFormatter(nil, "")

// Format builds the reply with the public TradingView links and default footer.
func Format(symbol string, rec quote.Record, req ticker.Request) Reply {
	return defaultFormatter.Format(symbol, rec, req)
}

// Format builds the reply for symbol. Missing optional fields are omitted;
// a missing price renders "N/A". It never fails.
func (f *Formatter) Format(symbol string, rec quote.Record, req ticker.Request) Reply {
	symbol = strings.ToUpper(symbol)

	r := Reply{
		Symbol:     symbol,
		Title:      "$" + symbol + " - " + rec.Name(symbol),
		Color:      Neutral,
		ChartLinks: f.links.Links(symbol),
		Footer:     f.footer,
	}

	price, hasPrice := rec.Price()
	prev, hasPrev := rec.PreviousClose()
	if hasPrice {
		r.Price = &price
	}
	if hasPrice && hasPrev {
		amount := price - prev
		r.Change = &Change{Amount: amount, Percent: amount / prev * 100}
		r.Color = Positive
		if amount < 0 {
			r.Color = Negative
		}
	}

	r.Fields = append(r.Fields, Field{Label: LabelPrice, Value: priceText(r.Price, r.Change), Inline: true})

	if vol, ok := rec.Volume(); ok {
		r.Fields = append(r.Fields, Field{Label: LabelVolume, Value: FormatVolume(vol), Inline: true})
	}
	if mcap, ok := rec.MarketCap(); ok {
		r.Fields = append(r.Fields, Field{Label: LabelMarketCap, Value: FormatCurrency(mcap), Inline: true})
	}
	if pe, ok := rec.PERatio(); ok {
		r.Fields = append(r.Fields, Field{Label: LabelPERatio, Value: strconv.FormatFloat(pe, 'f', 2, 64), Inline: true})
	}
	if low, high, ok := rec.DayRange(); ok {
		r.Fields = append(r.Fields, Field{Label: LabelDayRange, Value: FormatPrice(low) + " - " + FormatPrice(high), Inline: true})
	}
	if low, high, ok := rec.YearRange(); ok {
		r.Fields = append(r.Fields, Field{Label: LabelYearRange, Value: FormatPrice(low) + " - " + FormatPrice(high), Inline: true})
	}

	if !req.IsDefault() {
		r.Extra = extraText(req)
	}

	return r
}

func priceText(price *float64, change *Change) string {
	if price == nil {
		return NotAvailable
	}
	text := "**" + FormatPrice(*price) + "**"
	if change != nil {
		text += "\n" + change.Emoji() + " " + change.String()
	}
	return text
}

func extraText(req ticker.Request) string {
	tf := req.Timeframe
	if tf == "" {
		tf = ticker.DefaultTimeframe
	}
	lines := []string{"📊 Interval: **" + tf.Label() + "**"}
	if len(req.Indicators) > 0 {
		lines = append(lines, "📈 Indicators: **"+strings.Join(req.Indicators, ", ")+"**")
	}
	return strings.Join(lines, "\n")
}

// LinksMarkdown renders chart links as "📊 **TradingView charts:** [1H](url) | ...".
func LinksMarkdown(links []tradingview.Link) string {
	parts := make([]string, 0, len(links))
	for _, l := range links {
		parts = append(parts, "["+l.Label+"]("+l.URL+")")
	}
	return "📊 **TradingView charts:** " + strings.Join(parts, " | ")
}
