package yahoo

import (
	"context"
	"errors"
	"fmt"

	"tickerbot/pkg/quote"

	"go.uber.org/zap"
)

// MultiSource asks each source in order. The first record wins; while it
// still lacks optional fields, later sources are asked too and only fill
// the gaps.
type MultiSource struct {
	sources []quote.Source
	log     *zap.Logger
}

func NewMultiSource(log *zap.Logger, sources ...quote.Source) *MultiSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &MultiSource{sources: sources, log: log}
}

func (m *MultiSource) Name() string { return "yahoo-multi" }

// Quote returns quote.ErrNotFound only when every source reported the symbol
// as absent. Otherwise the upstream failures are joined and returned.
// Failures while backfilling are logged and ignored.
func (m *MultiSource) Quote(ctx context.Context, symbol string) (quote.Record, error) {
	if len(m.sources) == 0 {
		return nil, errors.New("no quote sources configured")
	}

	var rec quote.Record
	var errs []error
	allNotFound := true
	for _, src := range m.sources {
		if rec != nil && rec.Complete() {
			break
		}

		got, err := src.Quote(ctx, symbol)
		if err == nil {
			if rec == nil {
				rec = got
			} else {
				rec = rec.Merge(got)
				m.log.Debug("quote backfilled",
					zap.String("source", src.Name()),
					zap.String("symbol", symbol))
			}
			continue
		}
		if ctx.Err() != nil {
			if rec != nil {
				return rec, nil
			}
			return nil, ctx.Err()
		}

		m.log.Debug("quote source failed",
			zap.String("source", src.Name()),
			zap.String("symbol", symbol),
			zap.Error(err))

		if rec != nil || errors.Is(err, quote.ErrNotFound) {
			continue
		}
		allNotFound = false
		errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
	}

	if rec != nil {
		return rec, nil
	}
	if allNotFound {
		return nil, fmt.Errorf("%s: %w", symbol, quote.ErrNotFound)
	}
	return nil, errors.Join(errs...)
}
