package quote

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumber(t *testing.T) {
	testCases := []struct {
		name  string
		in    any
		want  float64
		valid bool
	}{
		{"float", 12.5, 12.5, true},
		{"int", 7, 7, true},
		{"int64", int64(3_000_000_000), 3_000_000_000, true},
		{"json number", json.Number("42.1"), 42.1, true},
		{"numeric string", "1500", 1500, true},
		{"text", "abc", 0, false},
		{"nil", nil, 0, false},
		{"bool", true, 0, false},
		{"nan", math.NaN(), 0, false},
		{"inf", math.Inf(1), 0, false},
		{"slice", []int{1}, 0, false},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Number(tt.in)
			assert.Equal(t, tt.valid, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordFallbacks(t *testing.T) {
	rec := Record{
		"shortName":            "Apple Inc.",
		"regularMarketPrice":   0.0,
		"currentPrice":         187.2,
		"previousClose":        "185.0",
		"regularMarketVolume":  51_000_000,
		"forwardPE":            28.4,
		"dayLow":               184.1,
		"regularMarketDayHigh": 188.0,
		"fiftyTwoWeekLow":      120.0,
	}

	assert.Equal(t, "Apple Inc.", rec.Name("AAPL"))

	price, ok := rec.Price()
	require.True(t, ok)
	assert.Equal(t, 187.2, price)

	prev, ok := rec.PreviousClose()
	require.True(t, ok)
	assert.Equal(t, 185.0, prev)

	vol, ok := rec.Volume()
	require.True(t, ok)
	assert.Equal(t, 51_000_000.0, vol)

	pe, ok := rec.PERatio()
	require.True(t, ok)
	assert.Equal(t, 28.4, pe)

	_, ok = rec.MarketCap()
	assert.False(t, ok)

	low, high, ok := rec.DayRange()
	require.True(t, ok)
	assert.Equal(t, 184.1, low)
	assert.Equal(t, 188.0, high)

	_, _, ok = rec.YearRange()
	assert.False(t, ok, "52-week range needs both ends")
}

func TestRecordName(t *testing.T) {
	assert.Equal(t, "Microsoft Corporation", Record{"longName": "Microsoft Corporation", "shortName": "Microsoft"}.Name("MSFT"))
	assert.Equal(t, "Microsoft", Record{"longName": "  ", "shortName": "Microsoft"}.Name("MSFT"))
	assert.Equal(t, "MSFT", Record{}.Name("MSFT"))
}

func TestFromStructAndMerge(t *testing.T) {
	type upstream struct {
		Symbol string  `json:"symbol"`
		Price  float64 `json:"regularMarketPrice"`
	}

	rec, err := FromStruct(upstream{Symbol: "IBM", Price: 140.5})
	require.NoError(t, err)
	assert.True(t, rec.HasPrice())
	assert.Equal(t, "IBM", rec["symbol"])

	merged := rec.Merge(Record{"regularMarketPrice": 1.0, "longName": "IBM Corp"})
	assert.Equal(t, 140.5, merged["regularMarketPrice"])
	assert.Equal(t, "IBM Corp", merged["longName"])
	_, exists := rec["longName"]
	assert.False(t, exists, "merge must not modify the receiver")
}

func TestRecordComplete(t *testing.T) {
	rec := Record{
		"regularMarketPrice": 10.0,
		"volume":             1e6,
		"marketCap":          2e9,
		"trailingPE":         15.0,
		"dayLow":             9.5,
		"dayHigh":            10.5,
		"fiftyTwoWeekLow":    7.0,
		"fiftyTwoWeekHigh":   12.0,
	}
	assert.True(t, rec.Complete())

	delete(rec, "trailingPE")
	assert.False(t, rec.Complete())
	assert.True(t, rec.Merge(Record{"forwardPE": 14.0}).Complete())
}
