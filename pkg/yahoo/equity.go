package yahoo

import (
	"context"
	"fmt"

	"tickerbot/pkg/quote"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/equity"
)

// EquityFunc fetches one equity quote. equity.Get is the production value.
type EquityFunc func(symbol string) (*finance.Equity, error)

// EquitySource reads the full quote through finance-go. It is the only source
// carrying market cap and P/E ratios.
type EquitySource struct {
	get EquityFunc
}

func NewEquitySource(get EquityFunc) *EquitySource {
	if get == nil {
		get = equity.Get
	}
	return &EquitySource{get: get}
}

func (s *EquitySource) Name() string { return "yahoo-equity" }

// Quote runs the blocking finance-go call in its own goroutine so that ctx
// cancellation returns early. The call itself is not interrupted.
func (s *EquitySource) Quote(ctx context.Context, symbol string) (quote.Record, error) {
	type result struct {
		eq  *finance.Equity
		err error
	}
	done := make(chan result, 1)
	go func() {
		eq, err := s.get(symbol)
		done <- result{eq, err}
	}()

	var res result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-done:
	}

	if res.err != nil {
		return nil, fmt.Errorf("equity quote %s: %w", symbol, res.err)
	}
	if res.eq == nil || res.eq.RegularMarketPrice == 0 {
		return nil, fmt.Errorf("%s: %w", symbol, quote.ErrNotFound)
	}

	rec, err := quote.FromStruct(res.eq)
	if err != nil {
		return nil, fmt.Errorf("convert equity %s: %w", symbol, err)
	}
	return rec, nil
}
