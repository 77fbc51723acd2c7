package ticker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want []Request
	}{
		{
			name: "plain symbol",
			text: "$AAPL",
			want: []Request{{Symbol: "AAPL", Timeframe: IntervalDaily}},
		},
		{
			name: "symbol with timeframe",
			text: "$TSLA 1h",
			want: []Request{{Symbol: "TSLA", Timeframe: Interval60Min}},
		},
		{
			name: "symbol with timeframe and one indicator",
			text: "$MSFT 4h EMA",
			want: []Request{{Symbol: "MSFT", Timeframe: Interval240Min, Indicators: []string{"Exponential Moving Average"}}},
		},
		{
			name: "comma separated indicators keep their order",
			text: "$GOOGL 1d RSI,MACD",
			want: []Request{{Symbol: "GOOGL", Timeframe: IntervalDaily, Indicators: []string{"Relative Strength Index", "MACD"}}},
		},
		{
			name: "indicators without timeframe",
			text: "$NVDA bb vol",
			want: []Request{{Symbol: "NVDA", Timeframe: IntervalDaily, Indicators: []string{"Bollinger Bands", "Volume"}}},
		},
		{
			name: "unknown indicator tokens are dropped",
			text: "$AMD looks strong",
			want: []Request{{Symbol: "AMD", Timeframe: IntervalDaily}},
		},
		{
			name: "unknown timeframe falls back to daily",
			text: "$AMZN 7h",
			want: []Request{{Symbol: "AMZN", Timeframe: IntervalDaily}},
		},
		{
			name: "month and minute stay distinct",
			text: "$META 1M and $NFLX 1m",
			want: []Request{
				{Symbol: "META", Timeframe: IntervalMonthly},
				{Symbol: "NFLX", Timeframe: Interval1Min},
			},
		},
		{
			name: "unit prefix of a longer word still sets the timeframe",
			text: "$AAPL 1hr ema",
			want: []Request{{Symbol: "AAPL", Timeframe: Interval60Min}},
		},
		{
			name: "long form timeframe",
			text: "$INTC 1week",
			want: []Request{{Symbol: "INTC", Timeframe: IntervalWeekly}},
		},
		{
			name: "several mentions in one message",
			text: "compare $AAPL and $MSFT 4h",
			want: []Request{
				{Symbol: "AAPL", Timeframe: IntervalDaily},
				{Symbol: "MSFT", Timeframe: Interval240Min},
			},
		},
		{
			name: "duplicates collapse regardless of indicator order",
			text: "$AAPL 1h rsi,ema then $AAPL 1h EMA RSI",
			want: []Request{{Symbol: "AAPL", Timeframe: Interval60Min, Indicators: []string{"Relative Strength Index", "Exponential Moving Average"}}},
		},
		{
			name: "same symbol with different timeframe is kept",
			text: "$AAPL $AAPL 4h",
			want: []Request{
				{Symbol: "AAPL", Timeframe: IntervalDaily},
				{Symbol: "AAPL", Timeframe: Interval240Min},
			},
		},
		{
			name: "currency codes are filtered",
			text: "$USD $EUR $GBP $CAD $JPY $CHF $AUD $SPY",
			want: []Request{{Symbol: "SPY", Timeframe: IntervalDaily}},
		},
		{
			name: "aliases resolving to the same indicator collapse",
			text: "$IBM bb bollinger",
			want: []Request{{Symbol: "IBM", Timeframe: IntervalDaily, Indicators: []string{"Bollinger Bands"}}},
		},
		{
			name: "six letters is not a ticker",
			text: "$ABCDEF",
			want: nil,
		},
		{
			name: "lower case is not a ticker",
			text: "$aapl",
			want: nil,
		},
		{
			name: "no mention",
			text: "nothing to see here",
			want: nil,
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.text))
		})
	}
}

func TestParseNeverReturnsDeniedSymbols(t *testing.T) {
	texts := []string{
		"$USD 1h ema", "$EUR,$GBP", "price in $CAD or $JPY", "$CHF 4h $AUD 1d rsi",
	}
	for _, text := range texts {
		for _, req := range Parse(text) {
			assert.False(t, IsDenied(req.Symbol), "denied symbol %s returned for %q", req.Symbol, text)
		}
	}
}

func TestParseArgs(t *testing.T) {
	req, err := ParseArgs([]string{"$tsla"})
	require.NoError(t, err)
	assert.Equal(t, Request{Symbol: "TSLA", Timeframe: IntervalDaily}, req)

	req, err = ParseArgs([]string{"msft", "4h", "ema,", "rsi"})
	require.NoError(t, err)
	assert.Equal(t, "MSFT", req.Symbol)
	assert.Equal(t, Interval240Min, req.Timeframe)
	assert.Equal(t, []string{"Exponential Moving Average", "Relative Strength Index"}, req.Indicators)

	req, err = ParseArgs([]string{"brk-b", "macd"})
	require.NoError(t, err)
	assert.Equal(t, "BRK-B", req.Symbol)
	assert.Equal(t, IntervalDaily, req.Timeframe)
	assert.Equal(t, []string{"MACD"}, req.Indicators)

	_, err = ParseArgs(nil)
	assert.Error(t, err)

	_, err = ParseArgs([]string{"not a symbol"})
	assert.Error(t, err)
}

func TestTimeframeMeta(t *testing.T) {
	assert.Equal(t, "4h", Interval240Min.Label())
	assert.Equal(t, "1D", IntervalDaily.Meta().ImageArg)
	assert.Equal(t, "7", Timeframe("7").Label())
	assert.Equal(t, "1h", Interval60Min.Meta().ImageArg)
}

func TestRequestIsDefault(t *testing.T) {
	assert.True(t, Request{Symbol: "A", Timeframe: IntervalDaily}.IsDefault())
	assert.True(t, Request{Symbol: "A"}.IsDefault())
	assert.False(t, Request{Symbol: "A", Timeframe: Interval60Min}.IsDefault())
	assert.False(t, Request{Symbol: "A", Timeframe: IntervalDaily, Indicators: []string{"MACD"}}.IsDefault())
}
