package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/repository"
)

type fakeDashboardRepo struct {
	users       repository.UserCounts
	communities repository.CommunityCounts
	posts       int64
	pending     int64
	reports     int64
	userTimes   []time.Time
	postTimes   []time.Time
}

func (f *fakeDashboardRepo) CountUsers(ctx context.Context) (repository.UserCounts, error) {
	return f.users, nil
}

func (f *fakeDashboardRepo) CountCommunities(ctx context.Context) (repository.CommunityCounts, error) {
	return f.communities, nil
}

func (f *fakeDashboardRepo) CountPostsSince(ctx context.Context, since time.Time) (int64, error) {
	return f.posts, nil
}

func (f *fakeDashboardRepo) CountPendingJoinRequests(ctx context.Context) (int64, error) {
	return f.pending, nil
}

func (f *fakeDashboardRepo) CountReports(ctx context.Context) (int64, error) {
	return f.reports, nil
}

func (f *fakeDashboardRepo) ListUserCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	return append([]time.Time(nil), f.userTimes...), nil
}

func (f *fakeDashboardRepo) ListPostCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	return append([]time.Time(nil), f.postTimes...), nil
}

func TestDashboardServiceMetricsCaching(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	defer server.Close()

	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	defer client.Close()

	repo := &fakeDashboardRepo{
		users:       repository.UserCounts{Total: 10, Active: 8, Banned: 1},
		communities: repository.CommunityCounts{Total: 3, Public: 2, Private: 1},
		posts:       7,
		pending:     2,
		reports:     4,
	}
	svc := NewDashboardService(repo, client, time.Minute, testLogger())

	metrics, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	require.False(t, metrics.CacheHit)
	require.Equal(t, int64(10), metrics.TotalUsers)
	require.Equal(t, int64(1), metrics.BannedUsers)
	require.Equal(t, int64(2), metrics.PendingJoinRequests)

	repo.users.Total = 99
	cached, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	require.True(t, cached.CacheHit)
	require.Equal(t, int64(10), cached.TotalUsers, "cached value served within TTL")
}

func TestDashboardServiceSeriesBucketsByDay(t *testing.T) {
	day := func(offset int, hour int) time.Time {
		return time.Date(2026, 8, 1+offset, hour, 0, 0, 0, time.UTC)
	}

	repo := &fakeDashboardRepo{
		postTimes: []time.Time{
			day(2, 9),
			day(0, 10),
			day(0, 23),
			{},
			day(1, 1),
		},
	}
	svc := NewDashboardService(repo, nil, time.Minute, testLogger())

	series, err := svc.PostFrequency(context.Background(), 30)
	require.NoError(t, err)
	require.Equal(t, []dto.TimeSeriesPoint{
		{Date: "2026-08-01", Count: 2},
		{Date: "2026-08-02", Count: 1},
		{Date: "2026-08-03", Count: 1},
	}, series.Points, "zero timestamps are skipped and buckets sort ascending")
}

func TestDashboardServiceWorksWithoutCache(t *testing.T) {
	repo := &fakeDashboardRepo{users: repository.UserCounts{Total: 1, Active: 1}}
	svc := NewDashboardService(repo, nil, time.Minute, testLogger())

	metrics, err := svc.Metrics(context.Background())
	require.NoError(t, err)
	require.False(t, metrics.CacheHit)
	require.Equal(t, int64(1), metrics.TotalUsers)
}
