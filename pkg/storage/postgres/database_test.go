package postgres_test

import (
	"testing"
	"time"

	"tickerbot/config"
	"tickerbot/pkg/storage"
	"tickerbot/pkg/storage/postgres"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// go test -v --run TestCreateDatabase
func TestCreateDatabase(t *testing.T) {
	testDSN(t)
	cfg := config.PostgresConfig{
		Host:     envOr("PGHOST", "localhost"),
		Port:     5432,
		User:     envOr("PGUSER", "postgres"),
		Password: envOr("PGPASSWORD", ""),
		DBName:   "test_tickerbot_db",
		SSLMode:  "disable",
	}

	// running twice must be a no-op the second time
	for i := 0; i < 2; i++ {
		if err := postgres.CreateDatabase(cfg); err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
	}
}

func TestToReplyRecord(t *testing.T) {
	price := 189.123456
	change := -1.5
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("EST", -5*3600))

	rec := postgres.ToReplyRecord(storage.ReplyEntry{
		MessageID:     "m",
		ChannelID:     "c",
		Symbol:        "AAPL",
		Timeframe:     "240",
		Indicators:    []string{"Relative Strength Index", "MACD"},
		Status:        storage.StatusOK,
		Price:         &price,
		ChangePercent: &change,
		CreatedAt:     created,
	})

	assert.Equal(t, "Relative Strength Index,MACD", rec.Indicators)
	assert.True(t, rec.Price.Valid)
	assert.True(t, decimal.RequireFromString("189.1235").Equal(rec.Price.Decimal))
	assert.True(t, decimal.NewFromFloat(-1.5).Equal(rec.ChangePercent.Decimal))
	assert.Equal(t, time.UTC, rec.CreatedAt.Location())
	assert.True(t, created.Equal(rec.CreatedAt))

	empty := postgres.ToReplyRecord(storage.ReplyEntry{Symbol: "X"})
	assert.False(t, empty.Price.Valid)
	assert.False(t, empty.CreatedAt.IsZero())
}
