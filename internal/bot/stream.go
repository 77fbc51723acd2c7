package bot

import (
	"context"
	"encoding/json"

	"tickerbot/pkg/discord"

	"go.uber.org/zap"
)

// MakeDispatchHandler returns a gateway event handler that decodes
// MESSAGE_CREATE events and hands each message to h on its own goroutine,
// with at most maxConcurrent messages in flight.
func MakeDispatchHandler(ctx context.Context, logger *zap.Logger, h *Handler, maxConcurrent int) discord.EventHandler {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	sem := make(chan struct{}, maxConcurrent)

	return func(eventType string, data json.RawMessage) {
		// Step 1: early filtering on the event name
		if eventType != discord.EventMessageCreate {
			return // READY, RESUMED, guild events...
		}

		// Step 2: decode the message payload
		var m discord.Message
		if err := json.Unmarshal(data, &m); err != nil {
			logger.Warn("failed to parse message payload", zap.Error(err))
			return
		}
		if m.Author.Bot || m.Content == "" {
			return
		}

		// Step 3: handle off the read loop so heartbeats keep flowing
		go func() {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			defer func() { <-sem }()

			h.HandleMessage(ctx, m)
		}()
	}
}
