// Package ticker extracts stock-ticker mentions such as "$MSFT 4h EMA,RSI"
// from free-form chat text.
package ticker

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Request is one ticker mention resolved to canonical codes.
type Request struct {
	Symbol     string
	Timeframe  Timeframe
	Indicators []string
}

// IsDefault reports whether r asks for nothing beyond the plain daily view.
// An empty timeframe counts as the default.
func (r Request) IsDefault() bool {
	return (r.Timeframe == "" || r.Timeframe == DefaultTimeframe) && len(r.Indicators) == 0
}

// key identifies r for deduplication; indicator order does not matter.
func (r Request) key() string {
	inds := append([]string(nil), r.Indicators...)
	sort.Strings(inds)
	return r.Symbol + "|" + string(r.Timeframe) + "|" + strings.Join(inds, ",")
}

var (
	mentionPattern = regexp.MustCompile(
		`\$([A-Z]{1,5})\b(?:\s+(\d+(?:day|week|month|[smhdwMy])))?(?:\s+([A-Za-z,\s]+))?`)
	indicatorSeparator = regexp.MustCompile(`[,\s]+`)
	symbolPattern      = regexp.MustCompile(`^[A-Z0-9.\-=^]{1,10}$`)
)

// deniedSymbols are currency codes that look like tickers but never are.
var deniedSymbols = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "CAD": true,
	"JPY": true, "CHF": true, "AUD": true,
}

// IsDenied reports whether symbol is a known false positive.
func IsDenied(symbol string) bool {
	return deniedSymbols[strings.ToUpper(symbol)]
}

// Parse returns every distinct ticker request mentioned in text, in order of
// first appearance. Text without mentions yields nil.
func Parse(text string) []Request {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var out []Request
	seen := map[string]bool{}
	for _, m := range matches {
		symbol := m[1]
		if IsDenied(symbol) {
			continue
		}

		req := Request{
			Symbol:     symbol,
			Timeframe:  ResolveTimeframe(m[2]),
			Indicators: splitIndicators(m[3]),
		}

		k := req.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, req)
	}
	return out
}

func splitIndicators(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return ResolveIndicators(indicatorSeparator.Split(s, -1))
}

// NormalizeSymbol strips a leading "$" and upper-cases s.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "$"))
}

// ParseArgs builds a request from manual command arguments:
// SYMBOL [timeframe] [indicator ...].
func ParseArgs(args []string) (Request, error) {
	if len(args) == 0 {
		return Request{}, fmt.Errorf("missing symbol")
	}

	symbol := NormalizeSymbol(args[0])
	if !symbolPattern.MatchString(symbol) {
		return Request{}, fmt.Errorf("invalid symbol: %q", args[0])
	}

	req := Request{Symbol: symbol, Timeframe: DefaultTimeframe}
	rest := args[1:]
	if len(rest) > 0 {
		if tf, ok := LookupTimeframe(rest[0]); ok {
			req.Timeframe = tf
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		req.Indicators = splitIndicators(strings.Join(rest, " "))
	}
	return req, nil
}
