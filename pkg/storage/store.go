// Package storage holds the reply audit trail: one entry per answered ticker
// request.
package storage

import (
	"context"
	"time"
)

// Reply outcomes.
const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

// ReplyEntry describes one ticker request the bot answered.
type ReplyEntry struct {
	MessageID  string
	ChannelID  string
	AuthorID   string
	Symbol     string
	Timeframe  string
	Indicators []string
	Status     string

	// nil when the quote had no price or no previous close
	Price         *float64
	ChangePercent *float64

	CreatedAt time.Time
}

type Store interface {
	SaveReply(ctx context.Context, entry ReplyEntry) error
	DeleteRepliesBefore(ctx context.Context, before time.Time) (int64, error)
}
