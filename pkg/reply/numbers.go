package reply

import (
	"strconv"
	"strings"

	"tickerbot/pkg/quote"

	"github.com/dustin/go-humanize"
)

const NotAvailable = "N/A"

type magnitude struct {
	scale  float64
	suffix string
}

// largest first
var magnitudes = []magnitude{
	{1e12, "T"},
	{1e9, "B"},
	{1e6, "M"},
	{1e3, "K"},
}

// FormatCurrency renders v as "$X.XX" below one thousand and with a K/M/B/T
// suffix above. The ladder only applies to positive values, so negatives
// render in full ("$-1500.00"). Nil or non-numeric input renders "N/A".
func FormatCurrency(v any) string {
	f, ok := quote.Number(v)
	if !ok {
		return NotAvailable
	}
	for _, m := range magnitudes {
		if f >= m.scale {
			return "$" + strconv.FormatFloat(f/m.scale, 'f', 2, 64) + m.suffix
		}
	}
	return "$" + strconv.FormatFloat(f, 'f', 2, 64)
}

// FormatVolume renders v with a K/M/B suffix, or as a plain comma-grouped
// integer below one thousand.
func FormatVolume(v any) string {
	f, ok := quote.Number(v)
	if !ok {
		return NotAvailable
	}
	for _, m := range magnitudes[1:] {
		if f >= m.scale {
			return strconv.FormatFloat(f/m.scale, 'f', 2, 64) + m.suffix
		}
	}
	return groupThousands(f, 0)
}

// FormatPrice renders f as "$1,234.56".
func FormatPrice(f float64) string {
	sign, abs := splitSign(f)
	return sign + "$" + groupThousands(abs, 2)
}

// FormatSignedPrice renders f as "+$1.23" or "-$1.23".
func FormatSignedPrice(f float64) string {
	if f >= 0 {
		return "+$" + strconv.FormatFloat(f, 'f', 2, 64)
	}
	return "-$" + strconv.FormatFloat(-f, 'f', 2, 64)
}

// FormatSignedPercent renders f as "+1.23%" or "-1.23%".
func FormatSignedPercent(f float64) string {
	if f >= 0 {
		return "+" + strconv.FormatFloat(f, 'f', 2, 64) + "%"
	}
	return strconv.FormatFloat(f, 'f', 2, 64) + "%"
}

// groupThousands formats f with the given precision and comma separators in
// the integer part.
func groupThousands(f float64, prec int) string {
	s := strconv.FormatFloat(f, 'f', prec, 64)
	intPart, frac, hasFrac := strings.Cut(s, ".")
	n, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return s
	}
	out := humanize.Comma(n)
	if hasFrac {
		out += "." + frac
	}
	return out
}

func splitSign(f float64) (string, float64) {
	if f < 0 {
		return "-", -f
	}
	return "", f
}
