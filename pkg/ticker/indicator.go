package ticker

import "strings"

// indicatorAliases maps lower-case user shorthand to canonical indicator names.
var indicatorAliases = map[string]string{
	// moving averages
	"ema": "Exponential Moving Average",
	"sma": "Simple Moving Average",
	"wma": "Weighted Moving Average",
	// oscillators
	"rsi":   "Relative Strength Index",
	"macd":  "MACD",
	"stoch": "Stochastic",
	"cci":   "Commodity Channel Index",
	// bands
	"bb":        "Bollinger Bands",
	"bollinger": "Bollinger Bands",
	// volume
	"volume": "Volume",
	"vol":    "Volume",
	// trend
	"adx":      "Average Directional Index",
	"ichimoku": "Ichimoku Cloud",

	"atr": "Average True Range",
	"obv": "On Balance Volume",
}

// LookupIndicator resolves an indicator alias case-insensitively.
func LookupIndicator(token string) (string, bool) {
	name, ok := indicatorAliases[strings.ToLower(strings.TrimSpace(token))]
	return name, ok
}

// ResolveIndicators maps tokens to canonical names in order, dropping unknown
// tokens and repeated names.
func ResolveIndicators(tokens []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, tok := range tokens {
		name, ok := LookupIndicator(tok)
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
