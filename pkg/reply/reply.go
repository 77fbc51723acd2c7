// Package reply turns a quote record and a ticker request into the fields of a
// chat reply. Formatting is pure: the same inputs always give the same Reply.
package reply

import (
	"time"

	"tickerbot/pkg/tradingview"
)

// Color classifies the direction of the day's move.
type Color int

const (
	Neutral Color = iota
	Positive
	Negative
)

func (c Color) String() string {
	switch c {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	default:
		return "neutral"
	}
}

// Field is one labelled value of a reply.
type Field struct {
	Label  string
	Value  string
	Inline bool
}

// Change is the move against the previous close.
type Change struct {
	Amount  float64
	Percent float64
}

// String renders the change as "+$10.00 (+10.00%)".
func (c Change) String() string {
	return FormatSignedPrice(c.Amount) + " (" + FormatSignedPercent(c.Percent) + ")"
}

// Emoji returns the trend marker shown before the change.
func (c Change) Emoji() string {
	if c.Amount >= 0 {
		return "📈"
	}
	return "📉"
}

// Reply is the formatted summary of one ticker request.
type Reply struct {
	Symbol     string
	Title      string
	Color      Color
	Price      *float64
	Change     *Change
	Fields     []Field
	Extra      string
	ChartLinks []tradingview.Link
	Footer     string

	// Timestamp is set by the caller; Format leaves it zero.
	Timestamp time.Time
}
