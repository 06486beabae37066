package analytics

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type stubAnalyticsRepo struct {
	loads int64
}

func (r *stubAnalyticsRepo) UserCounts(context.Context) (int64, int64, map[string]int64, map[string]int64, error) {
	atomic.AddInt64(&r.loads, 1)
	return 12, 10,
		map[string]int64{"client": 9, "accountant": 2, "admin": 1},
		map[string]int64{"free": 6, "premium": 6}, nil
}

func (r *stubAnalyticsRepo) BusinessCount(context.Context) (int64, error) {
	return 7, nil
}

func (r *stubAnalyticsRepo) TransactionTotals(context.Context, string) (int64, decimal.Decimal, decimal.Decimal, error) {
	return 42, decimal.NewFromInt(1000), decimal.NewFromInt(400), nil
}

func (r *stubAnalyticsRepo) BusinessTrend(context.Context, string, int) (map[string]KindTotals, error) {
	return map[string]KindTotals{
		"2026-02": {Income: decimal.NewFromInt(500), Expense: decimal.NewFromInt(200)},
		"2026-01": {Income: decimal.NewFromInt(300), Expense: decimal.NewFromInt(350)},
	}, nil
}

func (r *stubAnalyticsRepo) PendingExportCount(context.Context) (int64, error) {
	return 3, nil
}

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestOverviewAggregates(t *testing.T) {
	svc := NewService(&stubAnalyticsRepo{}, newTestCache(t))
	overview, err := svc.Overview(context.Background(), "2026-03")
	require.NoError(t, err)
	require.Equal(t, int64(12), overview.TotalUsers)
	require.Equal(t, int64(10), overview.ActiveUsers)
	require.Equal(t, int64(9), overview.UsersByRole["client"])
	require.Equal(t, int64(7), overview.TotalBusinesses)
	require.Equal(t, int64(42), overview.TransactionsPeriod)
	require.Equal(t, "1000.00", overview.IncomeTotal)
	require.Equal(t, "400.00", overview.ExpenseTotal)
	require.Equal(t, int64(3), overview.PendingExports)
	require.False(t, overview.GeneratedAt.IsZero())
}

func TestOverviewRejectsBadPeriod(t *testing.T) {
	svc := NewService(&stubAnalyticsRepo{}, newTestCache(t))
	_, err := svc.Overview(context.Background(), "2026-13")
	require.Error(t, err)
}

func TestOverviewCachesUntilBump(t *testing.T) {
	repo := &stubAnalyticsRepo{}
	svc := NewService(repo, newTestCache(t))
	ctx := context.Background()

	_, err := svc.Overview(ctx, "2026-03")
	require.NoError(t, err)
	_, err = svc.Overview(ctx, "2026-03")
	require.NoError(t, err)
	require.Equal(t, int64(1), atomic.LoadInt64(&repo.loads), "second call is a cache hit")

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.Overview(ctx, "2026-03")
	require.NoError(t, err)
	require.Equal(t, int64(2), atomic.LoadInt64(&repo.loads), "bump forces a reload")
}

func TestTrendSortsPeriodsAndComputesNet(t *testing.T) {
	svc := NewService(&stubAnalyticsRepo{}, newTestCache(t))
	points, err := svc.Trend(context.Background(), "biz-1", 6)
	require.NoError(t, err)
	require.Len(t, points, 2)
	require.Equal(t, "2026-01", points[0].Period)
	require.Equal(t, "-50.00", points[0].Net)
	require.Equal(t, "2026-02", points[1].Period)
	require.Equal(t, "500.00", points[1].Income)
	require.Equal(t, "300.00", points[1].Net)
}

func TestTrendRequiresBusinessID(t *testing.T) {
	svc := NewService(&stubAnalyticsRepo{}, newTestCache(t))
	_, err := svc.Trend(context.Background(), "", 6)
	require.Error(t, err)
}

func TestCacheWorksWithoutRedis(t *testing.T) {
	svc := NewService(&stubAnalyticsRepo{}, NewCache(nil, 0))
	overview, err := svc.Overview(context.Background(), "2026-03")
	require.NoError(t, err)
	require.Equal(t, int64(12), overview.TotalUsers)
}
