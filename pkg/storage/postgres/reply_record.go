package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReplyRecord is one answered ticker request.
type ReplyRecord struct {
	ID uint `gorm:"primaryKey"`

	MessageID  string `gorm:"type:varchar(32);not null;index:idx_reply_message"`
	ChannelID  string `gorm:"type:varchar(32);not null"`
	AuthorID   string `gorm:"type:varchar(32)"`
	Symbol     string `gorm:"type:varchar(10);not null;index:idx_reply_symbol_created"`
	Timeframe  string `gorm:"type:varchar(10);not null"`
	Indicators string `gorm:"type:text"` // comma separated display names
	Status     string `gorm:"type:varchar(16);not null"`

	Price         decimal.NullDecimal `gorm:"type:numeric"`
	ChangePercent decimal.NullDecimal `gorm:"type:numeric"`

	CreatedAt  time.Time `gorm:"not null;index:idx_reply_symbol_created;index:idx_reply_created"`
	RecordedAt time.Time `gorm:"autoCreateTime"`
}

// TableName overrides the default table name for GORM.
func (ReplyRecord) TableName() string {
	return "reply_record"
}
