package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tickerbot/internal/memorystore"
	"tickerbot/pkg/discord"
	"tickerbot/pkg/quote"
	"tickerbot/pkg/reply"
	"tickerbot/pkg/storage"
	"tickerbot/pkg/ticker"

	"go.uber.org/zap"
)

// CommandAliases name the manual quote command.
var CommandAliases = []string{"stock", "ticker", "s"}

// Sender delivers replies to a channel.
type Sender interface {
	SendMessage(ctx context.Context, channelID string, msg discord.MessageSend, files ...discord.File) (*discord.Message, error)
	SendNotice(ctx context.Context, channelID, content string, ttl time.Duration) error
}

// ChartRenderer produces chart images.
type ChartRenderer interface {
	Enabled() bool
	Image(ctx context.Context, symbol string, tf ticker.Timeframe, width, height int, indicators []string) ([]byte, error)
}

type Options struct {
	CommandPrefix  string
	NoticeTTL      time.Duration
	EmbedCharts    bool
	ChartWidth     int
	ChartHeight    int
	DedupeCapacity int
}

// Handler answers ticker mentions and manual quote commands.
type Handler struct {
	quotes    quote.Source
	sender    Sender
	charts    ChartRenderer // optional
	formatter *reply.Formatter
	audit     storage.Store // optional
	seen      *memorystore.SeenStore
	opts      Options
	logger    *zap.Logger

	now func() time.Time
}

func NewHandler(quotes quote.Source, sender Sender, charts ChartRenderer, formatter *reply.Formatter,
	audit storage.Store, opts Options, logger *zap.Logger) *Handler {
	if formatter == nil {
		formatter = reply.NewFormatter(nil, "")
	}
	if opts.DedupeCapacity <= 0 {
		opts.DedupeCapacity = 1000
	}
	if opts.CommandPrefix == "" {
		opts.CommandPrefix = "!"
	}
	return &Handler{
		quotes:    quotes,
		sender:    sender,
		charts:    charts,
		formatter: formatter,
		audit:     audit,
		seen:      memorystore.NewSeenStore(opts.DedupeCapacity),
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleMessage processes one chat message. Messages from bots and messages
// already handled are ignored. A failure on one request never stops the
// remaining requests of the same message.
func (h *Handler) HandleMessage(ctx context.Context, m discord.Message) {
	if m.Author.Bot {
		return
	}
	if !h.seen.MarkSeen(m.ID) {
		return
	}

	if args, ok := h.commandArgs(m.Content); ok {
		h.handleCommand(ctx, m, args)
		return
	}

	for _, req := range ticker.Parse(m.Content) {
		if ctx.Err() != nil {
			return
		}
		h.answer(ctx, m, req, h.opts.NoticeTTL)
	}
}

// commandArgs returns the arguments of a manual quote command, if m is one.
func (h *Handler) commandArgs(content string) ([]string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(content), h.opts.CommandPrefix)
	if !ok {
		return nil, false
	}
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil, false
	}
	name := strings.ToLower(fields[0])
	for _, alias := range CommandAliases {
		if name == alias {
			return fields[1:], true
		}
	}
	return nil, false
}

func (h *Handler) handleCommand(ctx context.Context, m discord.Message, args []string) {
	req, err := ticker.ParseArgs(args)
	if err != nil {
		usage := fmt.Sprintf("❌ Usage: `%s%s SYMBOL [timeframe] [indicators]`", h.opts.CommandPrefix, CommandAliases[0])
		h.notice(ctx, m.ChannelID, usage, h.opts.NoticeTTL)
		return
	}
	// notices for explicit commands stay in the channel
	h.answer(ctx, m, req, 0)
}

// answer fetches, formats and sends the reply for one request.
func (h *Handler) answer(ctx context.Context, m discord.Message, req ticker.Request, noticeTTL time.Duration) {
	logger := h.logger.With(
		zap.String("message_id", m.ID),
		zap.String("symbol", req.Symbol),
		zap.String("timeframe", string(req.Timeframe)))

	entry := storage.ReplyEntry{
		MessageID:  m.ID,
		ChannelID:  m.ChannelID,
		AuthorID:   m.Author.ID,
		Symbol:     req.Symbol,
		Timeframe:  string(req.Timeframe),
		Indicators: req.Indicators,
		CreatedAt:  h.now(),
	}
	defer func() { h.record(ctx, entry) }()

	rec, err := h.quotes.Quote(ctx, req.Symbol)
	if err == nil && !rec.HasPrice() {
		err = fmt.Errorf("%s: no price in record: %w", req.Symbol, quote.ErrNotFound)
	}
	if err != nil {
		if errors.Is(err, quote.ErrNotFound) {
			entry.Status = storage.StatusNotFound
			logger.Info("quote not found", zap.Error(err))
		} else {
			entry.Status = storage.StatusError
			logger.Error("quote fetch failed", zap.Error(err))
		}
		h.notice(ctx, m.ChannelID, NotFoundNotice(req.Symbol), noticeTTL)
		return
	}

	r := h.formatter.Format(req.Symbol, rec, req)
	r.Timestamp = h.now()
	entry.Price = r.Price
	if r.Change != nil {
		pct := r.Change.Percent
		entry.ChangePercent = &pct
	}

	var files []discord.File
	imageName := ""
	if img := h.chartImage(ctx, req, logger); img != nil {
		imageName = ChartFileName(req.Symbol)
		files = append(files, discord.File{Name: imageName, ContentType: "image/png", Data: img})
	}

	msg := discord.MessageSend{Embeds: []discord.Embed{RenderEmbed(r, imageName)}}
	if _, err := h.sender.SendMessage(ctx, m.ChannelID, msg, files...); err != nil {
		entry.Status = storage.StatusError
		logger.Error("failed to send reply", zap.Error(err))
		h.notice(ctx, m.ChannelID, NotFoundNotice(req.Symbol), noticeTTL)
		return
	}

	entry.Status = storage.StatusOK
	logger.Debug("reply sent", zap.Bool("chart_image", imageName != ""))
}

// chartImage returns nil when images are disabled or rendering failed; the
// reply then goes out with links only.
func (h *Handler) chartImage(ctx context.Context, req ticker.Request, logger *zap.Logger) []byte {
	if !h.opts.EmbedCharts || h.charts == nil || !h.charts.Enabled() {
		return nil
	}
	img, err := h.charts.Image(ctx, req.Symbol, req.Timeframe, h.opts.ChartWidth, h.opts.ChartHeight, req.Indicators)
	if err != nil {
		logger.Warn("chart image failed", zap.Error(err))
		return nil
	}
	return img
}

func (h *Handler) notice(ctx context.Context, channelID, content string, ttl time.Duration) {
	if err := h.sender.SendNotice(ctx, channelID, content, ttl); err != nil {
		h.logger.Warn("failed to send notice", zap.String("channel_id", channelID), zap.Error(err))
	}
}

func (h *Handler) record(ctx context.Context, entry storage.ReplyEntry) {
	if h.audit == nil {
		return
	}
	dbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := h.audit.SaveReply(dbCtx, entry); err != nil {
		h.logger.Warn("failed to record reply", zap.String("symbol", entry.Symbol), zap.Error(err))
	}
}

// NotFoundNotice is shown for unknown symbols and upstream failures alike.
func NotFoundNotice(symbol string) string {
	return fmt.Sprintf("❌ Could not find data for `$%s`. Check that the symbol is correct.", symbol)
}

// ChartFileName names the image attachment of symbol.
func ChartFileName(symbol string) string {
	return symbol + "_chart.png"
}
