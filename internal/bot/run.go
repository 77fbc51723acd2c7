package bot

import (
	"context"
	"fmt"
	"time"

	"tickerbot/config"
	"tickerbot/internal/quotes"
	"tickerbot/internal/retention"
	"tickerbot/pkg/discord"
	"tickerbot/pkg/quote"
	"tickerbot/pkg/reply"
	"tickerbot/pkg/storage"
	"tickerbot/pkg/storage/postgres"
	"tickerbot/pkg/tradingview"
	"tickerbot/pkg/yahoo"

	"go.uber.org/zap"
)

// NewQuoteSource builds the provider chain named in cfg.Providers.
func NewQuoteSource(cfg config.QuoteConfig, logger *zap.Logger) (quote.Source, error) {
	var sources []quote.Source
	for _, name := range cfg.Providers {
		switch name {
		case "equity":
			sources = append(sources, yahoo.NewEquitySource(nil))
		case "chart":
			sources = append(sources, yahoo.NewChartSource(cfg.ChartURL, cfg.Timeout))
		default:
			return nil, fmt.Errorf("unknown quote provider %q", name)
		}
	}
	if len(sources) == 1 {
		return sources[0], nil
	}
	return yahoo.NewMultiSource(logger, sources...), nil
}

// NewFetcher wraps the configured sources with the quote cache.
func NewFetcher(cfg config.QuoteConfig, logger *zap.Logger) (*quotes.Fetcher, error) {
	src, err := NewQuoteSource(cfg, logger)
	if err != nil {
		return nil, err
	}
	return quotes.NewFetcher(src, cfg.CacheCapacity, cfg.CacheTTL, cfg.Timeout, logger.Named("quotes")), nil
}

// NewFormatter builds the reply formatter with the configured chart links.
func NewFormatter(cfg config.ChartConfig) *reply.Formatter {
	return reply.NewFormatter(tradingview.NewLinkBuilder(cfg.TradingViewURL), "")
}

// OpenAuditStore connects and migrates the reply audit table. With postgres
// disabled it returns a nil store and replies are not recorded.
func OpenAuditStore(ctx context.Context, cfg config.PostgresConfig) (storage.Store, func(), error) {
	if !cfg.Enabled {
		return nil, func() {}, nil
	}

	pg, err := postgres.InitializeAndMigrateReplyRecord(cfg, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if !pg.IsHealthy(pingCtx) {
		pg.Close()
		return nil, nil, fmt.Errorf("postgres %s:%d is not reachable", cfg.Host, cfg.Port)
	}

	return pg, func() { pg.Close() }, nil
}

// StartBot wires the pipeline: quote sources and cache, chart rendering,
// the reply audit store, daily maintenance and the gateway connection.
// It blocks until ctx is cancelled.
func StartBot(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if err := cfg.RequireDiscord(); err != nil {
		return err
	}

	fetcher, err := NewFetcher(cfg.Quote, logger)
	if err != nil {
		return err
	}

	charts := tradingview.NewChartImgClient(cfg.Chart.ImageURL, cfg.Chart.APIKey, cfg.Chart.Theme, cfg.Chart.Timeout)
	if cfg.Chart.Embedded && !charts.Enabled() {
		logger.Info("chart images disabled: no chart-img API key")
	}

	// Initialize the audit store
	audit, closeAudit, err := OpenAuditStore(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer closeAudit()

	rest := discord.NewRESTClient(cfg.Discord.APIURL, cfg.Discord.Token, cfg.Discord.Timeout, logger.Named("rest"))

	handler := NewHandler(fetcher, rest, charts, NewFormatter(cfg.Chart), audit, Options{
		CommandPrefix:  cfg.Discord.CommandPrefix,
		NoticeTTL:      cfg.Discord.NoticeTTL,
		EmbedCharts:    cfg.Chart.Embedded,
		ChartWidth:     cfg.Chart.Width,
		ChartHeight:    cfg.Chart.Height,
		DedupeCapacity: cfg.Bot.DedupeCapacity,
	}, logger.Named("handler"))

	warmer := &Warmer{
		Loader:  &SymbolLoader{Symbols: cfg.Quote.WarmSymbols, Logger: logger},
		Quotes:  fetcher,
		Timeout: cfg.Quote.Timeout * 3,
		Logger:  logger.Named("warmup"),
	}

	// Daily maintenance, first run at startup
	jobs := []retention.Job{
		retention.SweepCache(fetcher, logger),
		{Name: "warm-quote-cache", Run: func(ctx context.Context) error {
			_, err := warmer.Warm(ctx)
			return err
		}},
	}
	if audit != nil && cfg.Postgres.Retention > 0 {
		jobs = append(jobs, retention.PurgeReplies(audit, cfg.Postgres.Retention, logger))
	}
	retention.NewMidnightRunner(logger.Named("retention"), jobs...).Start(ctx)

	// Connect to the gateway and route messages to the handler
	gateway := discord.NewGateway(cfg.Discord.GatewayURL, cfg.Discord.Token, cfg.Discord.Intents, logger.Named("gateway"))
	gateway.SetEventHandler(MakeDispatchHandler(ctx, logger, handler, cfg.Bot.MaxConcurrent))

	logger.Info("starting bot",
		zap.Strings("providers", cfg.Quote.Providers),
		zap.Bool("chart_images", cfg.ImagesEnabled()),
		zap.Bool("postgres", cfg.Postgres.Enabled))

	if err := gateway.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
