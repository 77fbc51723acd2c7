package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tickerbot/pkg/storage"

	"github.com/shopspring/decimal"
)

func (p *PostgresClient) InsertReply(ctx context.Context, record *ReplyRecord) error {
	if err := p.DB.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("insert reply: %w", err)
	}
	return nil
}

// SaveReply implements storage.Store.
func (p *PostgresClient) SaveReply(ctx context.Context, entry storage.ReplyEntry) error {
	return p.InsertReply(ctx, ToReplyRecord(entry))
}

// DeleteRepliesBefore implements storage.Store.
func (p *PostgresClient) DeleteRepliesBefore(ctx context.Context, before time.Time) (int64, error) {
	tx := p.DB.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&ReplyRecord{})
	if tx.Error != nil {
		return 0, fmt.Errorf("delete old replies: %w", tx.Error)
	}
	return tx.RowsAffected, nil
}

// ToReplyRecord converts an audit entry into a ReplyRecord for DB insertion.
// Prices are stored as exact decimals rounded to 4 places.
func ToReplyRecord(e storage.ReplyEntry) *ReplyRecord {
	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	return &ReplyRecord{
		MessageID:     e.MessageID,
		ChannelID:     e.ChannelID,
		AuthorID:      e.AuthorID,
		Symbol:        e.Symbol,
		Timeframe:     e.Timeframe,
		Indicators:    strings.Join(e.Indicators, ","),
		Status:        e.Status,
		Price:         nullDecimal(e.Price),
		ChangePercent: nullDecimal(e.ChangePercent),
		CreatedAt:     created.UTC(),
	}
}

func nullDecimal(f *float64) decimal.NullDecimal {
	if f == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(*f).Round(4), Valid: true}
}
