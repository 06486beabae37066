package analytics

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// RepositoryPort defines the aggregation queries behind the overview.
type RepositoryPort interface {
	UserCounts(ctx context.Context) (total, active int64, byRole, byTier map[string]int64, err error)
	BusinessCount(ctx context.Context) (int64, error)
	TransactionTotals(ctx context.Context, period string) (count int64, income, expense decimal.Decimal, err error)
	BusinessTrend(ctx context.Context, businessID string, months int) (map[string]KindTotals, error)
	PendingExportCount(ctx context.Context) (int64, error)
}

// Service assembles platform KPIs with a Redis cache in front.
type Service struct {
	repo  RepositoryPort
	cache *Cache
}

// NewService builds Service instance. A nil cache disables caching.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Overview returns the KPI set for one period, serving from cache when warm.
func (s *Service) Overview(ctx context.Context, period string) (*Overview, error) {
	if !periodPattern.MatchString(period) {
		return nil, errors.New("period must be YYYY-MM")
	}
	key, err := s.cache.BuildKey(ctx, keyOverview(period))
	if err != nil {
		return nil, err
	}
	var overview Overview
	err = s.cache.FetchJSON(ctx, key, &overview, func(ctx context.Context) (interface{}, error) {
		return s.loadOverview(ctx, period)
	})
	if err != nil {
		return nil, err
	}
	return &overview, nil
}

func (s *Service) loadOverview(ctx context.Context, period string) (*Overview, error) {
	overview := &Overview{Period: period}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, active, byRole, byTier, err := s.repo.UserCounts(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		overview.TotalUsers = total
		overview.ActiveUsers = active
		overview.UsersByRole = byRole
		overview.UsersByTier = byTier
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		count, err := s.repo.BusinessCount(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		overview.TotalBusinesses = count
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		count, income, expense, err := s.repo.TransactionTotals(ctx, period)
		if err != nil {
			return err
		}
		mu.Lock()
		overview.TransactionsPeriod = count
		overview.IncomeTotal = income.StringFixed(2)
		overview.ExpenseTotal = expense.StringFixed(2)
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		count, err := s.repo.PendingExportCount(ctx)
		if err != nil {
			return err
		}
		mu.Lock()
		overview.PendingExports = count
		mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	overview.GeneratedAt = time.Now().UTC()
	return overview, nil
}

// Trend returns monthly cash movement points for one business, oldest first.
// Months without records are omitted.
func (s *Service) Trend(ctx context.Context, businessID string, months int) ([]TrendPoint, error) {
	if businessID == "" {
		return nil, errors.New("business id is required")
	}
	if months <= 0 {
		months = 6
	}
	if months > 24 {
		months = 24
	}
	key, err := s.cache.BuildKey(ctx, keyTrend(businessID, months))
	if err != nil {
		return nil, err
	}
	var points []TrendPoint
	err = s.cache.FetchJSON(ctx, key, &points, func(ctx context.Context) (interface{}, error) {
		return s.loadTrend(ctx, businessID, months)
	})
	if err != nil {
		return nil, err
	}
	return points, nil
}

func (s *Service) loadTrend(ctx context.Context, businessID string, months int) ([]TrendPoint, error) {
	trend, err := s.repo.BusinessTrend(ctx, businessID, months)
	if err != nil {
		return nil, err
	}
	periods := make([]string, 0, len(trend))
	for period := range trend {
		periods = append(periods, period)
	}
	sort.Strings(periods)

	points := make([]TrendPoint, 0, len(periods))
	for _, period := range periods {
		totals := trend[period]
		points = append(points, TrendPoint{
			Period:  period,
			Income:  totals.Income.StringFixed(2),
			Expense: totals.Expense.StringFixed(2),
			Net:     totals.Income.Sub(totals.Expense).StringFixed(2),
		})
	}
	return points, nil
}

// Invalidate bumps the cache version after bulk data changes.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}
