package ticker

import "strings"

// Timeframe is the canonical chart interval code used by TradingView links
// (e.g. "60" for one hour, "D" for daily).
type Timeframe string

// TimeframeMeta holds the display label and the chart-img interval for a Timeframe.
type TimeframeMeta struct {
	Label    string // human-readable label, e.g. "4h"
	ImageArg string // interval accepted by the chart image API, e.g. "4h", "1D"
}

const (
	Interval1Sec    Timeframe = "1S"
	Interval5Sec    Timeframe = "5S"
	Interval10Sec   Timeframe = "10S"
	Interval15Sec   Timeframe = "15S"
	Interval30Sec   Timeframe = "30S"
	Interval1Min    Timeframe = "1"
	Interval3Min    Timeframe = "3"
	Interval5Min    Timeframe = "5"
	Interval15Min   Timeframe = "15"
	Interval30Min   Timeframe = "30"
	Interval45Min   Timeframe = "45"
	Interval60Min   Timeframe = "60"
	Interval120Min  Timeframe = "120"
	Interval180Min  Timeframe = "180"
	Interval240Min  Timeframe = "240"
	Interval360Min  Timeframe = "360"
	Interval480Min  Timeframe = "480"
	Interval720Min  Timeframe = "720"
	IntervalDaily   Timeframe = "D"
	IntervalWeekly  Timeframe = "W"
	IntervalMonthly Timeframe = "M"

	// DefaultTimeframe is used when a mention has no timeframe or an unknown one.
	DefaultTimeframe = IntervalDaily
)

var timeframeMeta = map[Timeframe]TimeframeMeta{
	Interval1Sec:    {Label: "1s", ImageArg: "1s"},
	Interval5Sec:    {Label: "5s", ImageArg: "5s"},
	Interval10Sec:   {Label: "10s", ImageArg: "10s"},
	Interval15Sec:   {Label: "15s", ImageArg: "15s"},
	Interval30Sec:   {Label: "30s", ImageArg: "30s"},
	Interval1Min:    {Label: "1m", ImageArg: "1m"},
	Interval3Min:    {Label: "3m", ImageArg: "3m"},
	Interval5Min:    {Label: "5m", ImageArg: "5m"},
	Interval15Min:   {Label: "15m", ImageArg: "15m"},
	Interval30Min:   {Label: "30m", ImageArg: "30m"},
	Interval45Min:   {Label: "45m", ImageArg: "45m"},
	Interval60Min:   {Label: "1h", ImageArg: "1h"},
	Interval120Min:  {Label: "2h", ImageArg: "2h"},
	Interval180Min:  {Label: "3h", ImageArg: "3h"},
	Interval240Min:  {Label: "4h", ImageArg: "4h"},
	Interval360Min:  {Label: "6h", ImageArg: "6h"},
	Interval480Min:  {Label: "8h", ImageArg: "8h"},
	Interval720Min:  {Label: "12h", ImageArg: "12h"},
	IntervalDaily:   {Label: "1d", ImageArg: "1D"},
	IntervalWeekly:  {Label: "1w", ImageArg: "1W"},
	IntervalMonthly: {Label: "1M", ImageArg: "1M"},
}

// timeframeTokens maps user input to canonical codes. Keys that differ only by
// case ("1m" minute, "1M" month) are resolved by trying the exact token first.
var timeframeTokens = map[string]Timeframe{
	"1s": Interval1Sec, "5s": Interval5Sec, "10s": Interval10Sec, "15s": Interval15Sec, "30s": Interval30Sec,
	"1m": Interval1Min, "3m": Interval3Min, "5m": Interval5Min, "15m": Interval15Min, "30m": Interval30Min, "45m": Interval45Min,
	"1h": Interval60Min, "2h": Interval120Min, "3h": Interval180Min, "4h": Interval240Min,
	"6h": Interval360Min, "8h": Interval480Min, "12h": Interval720Min,
	"1d": IntervalDaily, "1day": IntervalDaily, "d": IntervalDaily,
	"1w": IntervalWeekly, "1week": IntervalWeekly, "w": IntervalWeekly,
	"1M": IntervalMonthly, "1month": IntervalMonthly, "M": IntervalMonthly,
}

// Meta returns the metadata of t. Unknown codes get themselves as label.
func (t Timeframe) Meta() TimeframeMeta {
	if meta, ok := timeframeMeta[t]; ok {
		return meta
	}
	return TimeframeMeta{Label: string(t), ImageArg: string(t)}
}

// Label returns the human-readable name of t, e.g. "4h".
func (t Timeframe) Label() string {
	return t.Meta().Label
}

// LookupTimeframe maps a user token such as "4h" or "1day" to its canonical code.
func LookupTimeframe(token string) (Timeframe, bool) {
	if token == "" {
		return "", false
	}
	if tf, ok := timeframeTokens[token]; ok {
		return tf, true
	}
	tf, ok := timeframeTokens[strings.ToLower(token)]
	return tf, ok
}

// ResolveTimeframe is LookupTimeframe with the daily fallback applied.
func ResolveTimeframe(token string) Timeframe {
	if tf, ok := LookupTimeframe(token); ok {
		return tf
	}
	return DefaultTimeframe
}
