package retention

import (
	"context"
	"time"

	"tickerbot/pkg/storage"

	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

// PurgeReplies deletes audit entries older than keep.
func PurgeReplies(store storage.Store, keep time.Duration, logger *zap.Logger) Job {
	return Job{
		Name: "purge-replies",
		Run: func(ctx context.Context) error {
			cutoff := time.Now().Add(-keep)
			n, err := store.DeleteRepliesBefore(ctx, cutoff)
			if err != nil {
				return err
			}
			logger.Info("purged old replies",
				zap.Int64("rows", n),
				zap.String("older_than", humanize.Time(cutoff)))
			return nil
		},
	}
}

// Sweeper drops expired cache entries.
type Sweeper interface {
	Sweep() int
	Len() int
}

// SweepCache evicts expired quotes so idle symbols do not hold memory.
func SweepCache(cache Sweeper, logger *zap.Logger) Job {
	return Job{
		Name: "sweep-quote-cache",
		Run: func(context.Context) error {
			evicted := cache.Sweep()
			logger.Info("swept quote cache",
				zap.Int("evicted", evicted),
				zap.Int("remaining", cache.Len()))
			return nil
		},
	}
}
