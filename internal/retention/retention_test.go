package retention

import (
	"context"
	"errors"
	"testing"
	"time"

	"tickerbot/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNextMidnight(t *testing.T) {
	cases := []struct {
		now  time.Time
		want time.Time
	}{
		{time.Date(2024, 6, 1, 13, 45, 0, 0, time.UTC), time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 6, 2, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		// 20:00 in New York is already the next UTC day
		{time.Date(2024, 6, 1, 20, 0, 0, 0, time.FixedZone("EDT", -4*3600)), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NextMidnight(tc.now), "now=%s", tc.now)
	}
}

type fakeSweeper struct{ calls int }

func (f *fakeSweeper) Sweep() int { f.calls++; return 3 }
func (f *fakeSweeper) Len() int   { return 7 }

func TestRunOnceContinuesAfterFailure(t *testing.T) {
	var order []string
	sweeper := &fakeSweeper{}

	runner := NewMidnightRunner(zap.NewNop(),
		Job{Name: "broken", Run: func(context.Context) error {
			order = append(order, "broken")
			return errors.New("db down")
		}},
		SweepCache(sweeper, zap.NewNop()),
		Job{Name: "last", Run: func(context.Context) error {
			order = append(order, "last")
			return nil
		}},
	)
	runner.RunOnce(context.Background())

	assert.Equal(t, []string{"broken", "last"}, order)
	assert.Equal(t, 1, sweeper.calls)
}

type purgeStore struct {
	cutoff time.Time
	err    error
}

func (p *purgeStore) SaveReply(context.Context, storage.ReplyEntry) error { return nil }

func (p *purgeStore) DeleteRepliesBefore(_ context.Context, before time.Time) (int64, error) {
	p.cutoff = before
	return 4, p.err
}

func TestPurgeReplies(t *testing.T) {
	store := &purgeStore{}
	job := PurgeReplies(store, 30*24*time.Hour, zap.NewNop())

	start := time.Now()
	require.NoError(t, job.Run(context.Background()))
	assert.WithinDuration(t, start.Add(-30*24*time.Hour), store.cutoff, time.Minute)

	store.err = errors.New("db down")
	assert.Error(t, job.Run(context.Background()))
}

func TestStartRunsImmediately(t *testing.T) {
	ran := make(chan struct{}, 1)
	runner := NewMidnightRunner(zap.NewNop(), Job{Name: "ping", Run: func(context.Context) error {
		ran <- struct{}{}
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner.Start(ctx)

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("job did not run at startup")
	}
}
