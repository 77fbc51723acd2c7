package bot

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"tickerbot/pkg/quote"
	"tickerbot/pkg/ticker"

	"go.uber.org/zap"
)

// SymbolLoader streams the configured watch list.
type SymbolLoader struct {
	Symbols []string
	Logger  *zap.Logger
}

// LoadSymbols validates the watch list and streams it into the provided
// channel, which it closes when done.
func (l *SymbolLoader) LoadSymbols(ctx context.Context, ch chan<- string) error {
	defer close(ch) // Ensure downstream consumers can exit cleanly

	for _, raw := range l.Symbols {
		req, err := ticker.ParseArgs([]string{raw})
		if err != nil {
			l.Logger.Warn("skipping invalid warm symbol", zap.String("symbol", raw), zap.Error(err))
			continue
		}

		select {
		case ch <- req.Symbol:
		case <-ctx.Done():
			l.Logger.Warn("symbol streaming interrupted", zap.Error(ctx.Err()))
			return ctx.Err()
		}
	}
	return nil
}

// Warmer fills the quote cache for the watch list.
type Warmer struct {
	Loader      *SymbolLoader
	Quotes      quote.Source
	Timeout     time.Duration
	Concurrency int
	Logger      *zap.Logger
}

// Warm fetches every symbol and returns how many succeeded.
func (w *Warmer) Warm(ctx context.Context) (int, error) {
	if w.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.Timeout)
		defer cancel()
	}

	symbolCh := make(chan string, 100)
	loadErr := make(chan error, 1)
	go func() { loadErr <- w.Loader.LoadSymbols(ctx, symbolCh) }()

	concurrency := w.Concurrency
	if concurrency <= 0 {
		concurrency = 5
	}
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	var ok atomic.Int32
	for symbol := range symbolCh {
		symbol := symbol
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem; wg.Done() }()

			if _, err := w.Quotes.Quote(ctx, symbol); err != nil {
				w.Logger.Warn("warmup fetch failed", zap.String("symbol", symbol), zap.Error(err))
				return
			}
			ok.Add(1)
		}()
	}
	wg.Wait()

	n := int(ok.Load())
	w.Logger.Info("quote cache warmed", zap.Int("symbols", n))
	return n, <-loadErr
}
