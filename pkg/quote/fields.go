package quote

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Candidate field names per logical attribute, tried in order. The upstream is
// inconsistent about which of them it populates.
var (
	LongNameFields      = []string{"longName"}
	ShortNameFields     = []string{"shortName", "displayName"}
	PriceFields         = []string{"regularMarketPrice", "currentPrice"}
	PreviousCloseFields = []string{"regularMarketPreviousClose", "previousClose", "chartPreviousClose"}
	VolumeFields        = []string{"volume", "regularMarketVolume"}
	MarketCapFields     = []string{"marketCap"}
	PERatioFields       = []string{"trailingPE", "forwardPE"}
	DayLowFields        = []string{"regularMarketDayLow", "dayLow"}
	DayHighFields       = []string{"regularMarketDayHigh", "dayHigh"}
	YearLowFields       = []string{"fiftyTwoWeekLow"}
	YearHighFields      = []string{"fiftyTwoWeekHigh"}
)

// Number converts v to a float64. Nil, booleans, NaN, infinities and
// values that are not numeric report false.
func Number(v any) (float64, bool) {
	switch v.(type) {
	case nil, bool:
		return 0, false
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Float returns the first candidate field holding a non-zero number.
func (r Record) Float(fields ...string) (float64, bool) {
	for _, name := range fields {
		if f, ok := Number(r[name]); ok && f != 0 {
			return f, true
		}
	}
	return 0, false
}

// String returns the first candidate field holding a non-blank string.
func (r Record) String(fields ...string) (string, bool) {
	for _, name := range fields {
		if s, ok := r[name].(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	}
	return "", false
}

// Name resolves the display name: long name, then short name, then fallback.
func (r Record) Name(fallback string) string {
	if s, ok := r.String(LongNameFields...); ok {
		return s
	}
	if s, ok := r.String(ShortNameFields...); ok {
		return s
	}
	return fallback
}

func (r Record) Price() (float64, bool)         { return r.Float(PriceFields...) }
func (r Record) PreviousClose() (float64, bool) { return r.Float(PreviousCloseFields...) }
func (r Record) Volume() (float64, bool)        { return r.Float(VolumeFields...) }
func (r Record) MarketCap() (float64, bool)     { return r.Float(MarketCapFields...) }
func (r Record) PERatio() (float64, bool)       { return r.Float(PERatioFields...) }

// DayRange returns the session low and high; both must be present.
func (r Record) DayRange() (low, high float64, ok bool) {
	return r.pair(DayLowFields, DayHighFields)
}

// YearRange returns the 52-week low and high; both must be present.
func (r Record) YearRange() (low, high float64, ok bool) {
	return r.pair(YearLowFields, YearHighFields)
}

func (r Record) pair(lowFields, highFields []string) (float64, float64, bool) {
	low, okLow := r.Float(lowFields...)
	high, okHigh := r.Float(highFields...)
	if !okLow || !okHigh {
		return 0, 0, false
	}
	return low, high, true
}

// HasPrice reports whether r carries the marker field callers use to decide
// that a quote was found.
func (r Record) HasPrice() bool {
	_, ok := r.Price()
	return ok
}

// Complete reports whether r carries every optional reply attribute.
func (r Record) Complete() bool {
	_, okVol := r.Volume()
	_, okCap := r.MarketCap()
	_, okPE := r.PERatio()
	_, _, okDay := r.DayRange()
	_, _, okYear := r.YearRange()
	return okVol && okCap && okPE && okDay && okYear
}
