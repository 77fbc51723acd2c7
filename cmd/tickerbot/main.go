package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tickerbot/config"
	"tickerbot/internal/bot"
	"tickerbot/internal/terminal"
	"tickerbot/logger"
	"tickerbot/pkg/quote"
	"tickerbot/pkg/ticker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "tickerbot",
		Short:        "Discord bot answering $TICKER mentions with stock quotes",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(configPath)
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Configuration file path")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Connect to Discord and answer ticker mentions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(configPath)
		},
	})
	rootCmd.AddCommand(newQuoteCmd(&configPath))
	rootCmd.AddCommand(&cobra.Command{
		Use:   "parse TEXT",
		Short: "Show the ticker requests found in a message",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), terminal.RenderRequests(ticker.Parse(strings.Join(args, " "))))
		},
	})

	return rootCmd
}

func newQuoteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "quote SYMBOL [timeframe] [indicators...]",
		Short: "Fetch one quote and print the reply card",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := ticker.ParseArgs(args)
			if err != nil {
				return err
			}

			cfg, log, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()

			fetcher, err := bot.NewFetcher(cfg.Quote, log)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Quote.Timeout+5*time.Second)
			defer cancel()

			rec, err := fetcher.Quote(ctx, req.Symbol)
			if err == nil && !rec.HasPrice() {
				err = quote.ErrNotFound
			}
			if errors.Is(err, quote.ErrNotFound) {
				return fmt.Errorf("could not find data for $%s", req.Symbol)
			}
			if err != nil {
				return err
			}

			r := bot.NewFormatter(cfg.Chart).Format(req.Symbol, rec, req)
			r.Timestamp = time.Now()
			fmt.Fprintln(cmd.OutOrStdout(), terminal.RenderCard(r))
			return nil
		},
	}
}

func runBot(configPath string) error {
	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// run bot
	if err := bot.StartBot(ctx, cfg, log); err != nil {
		log.Error("bot failed", zap.Error(err))
		return err
	}
	log.Info("bot stopped")
	return nil
}

func setup(configPath string) (*config.Config, *zap.Logger, error) {
	// viper config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}
