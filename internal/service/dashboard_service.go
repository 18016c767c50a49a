package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/repository"
)

const (
	dashboardDefaultWindowDays = 30
	dashboardMaxWindowDays     = 365
	dayBucketLayout            = "2006-01-02"
)

// DashboardService aggregates platform metrics for administrators.
type DashboardService interface {
	Metrics(ctx context.Context) (dto.DashboardMetricsResponse, error)
	UserGrowth(ctx context.Context, days int) (dto.TimeSeriesResponse, error)
	PostFrequency(ctx context.Context, days int) (dto.TimeSeriesResponse, error)
}

type dashboardService struct {
	repo     repository.DashboardRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(repo repository.DashboardRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
		tracer:   otel.Tracer("github.com/communix/communix-api/internal/service/dashboard"),
		now:      time.Now,
	}
}

func (s *dashboardService) Metrics(ctx context.Context) (dto.DashboardMetricsResponse, error) {
	const cacheKey = "dashboard:metrics"
	ctx, span := s.tracer.Start(ctx, "dashboard.metrics")
	span.SetAttributes(attribute.String("dashboard.cache_key", cacheKey))
	defer span.End()

	var cached dto.DashboardMetricsResponse
	if s.readCache(ctx, span, cacheKey, &cached) {
		cached.CacheHit = true
		return cached, nil
	}

	users, err := s.repo.CountUsers(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_users_failed")
		return dto.DashboardMetricsResponse{}, err
	}

	communities, err := s.repo.CountCommunities(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_communities_failed")
		return dto.DashboardMetricsResponse{}, err
	}

	posts, err := s.repo.CountPostsSince(ctx, s.now().Add(-24*time.Hour))
	if err != nil {
		span.RecordError(err)
		return dto.DashboardMetricsResponse{}, err
	}

	pending, err := s.repo.CountPendingJoinRequests(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.DashboardMetricsResponse{}, err
	}

	reports, err := s.repo.CountReports(ctx)
	if err != nil {
		span.RecordError(err)
		return dto.DashboardMetricsResponse{}, err
	}

	response := dto.DashboardMetricsResponse{
		TotalUsers:          users.Total,
		ActiveUsers:         users.Active,
		BannedUsers:         users.Banned,
		TotalCommunities:    communities.Total,
		PublicCommunities:   communities.Public,
		PrivateCommunities:  communities.Private,
		PostsLast24Hours:    posts,
		PendingJoinRequests: pending,
		ReportCount:         reports,
		GeneratedAt:         s.now().UTC(),
	}

	s.writeCache(ctx, span, cacheKey, response)

	return response, nil
}

func (s *dashboardService) UserGrowth(ctx context.Context, days int) (dto.TimeSeriesResponse, error) {
	return s.series(ctx, "dashboard:user_growth", days, s.repo.ListUserCreationTimes)
}

func (s *dashboardService) PostFrequency(ctx context.Context, days int) (dto.TimeSeriesResponse, error) {
	return s.series(ctx, "dashboard:post_frequency", days, s.repo.ListPostCreationTimes)
}

func (s *dashboardService) series(ctx context.Context, keyBase string, days int, list func(context.Context, time.Time) ([]time.Time, error)) (dto.TimeSeriesResponse, error) {
	if days <= 0 {
		days = dashboardDefaultWindowDays
	}
	if days > dashboardMaxWindowDays {
		days = dashboardMaxWindowDays
	}

	cacheKey := fmt.Sprintf("%s:%d", keyBase, days)
	ctx, span := s.tracer.Start(ctx, "dashboard.series", trace.WithAttributes(
		attribute.String("dashboard.cache_key", cacheKey),
		attribute.Int("dashboard.window_days", days),
	))
	defer span.End()

	var cached dto.TimeSeriesResponse
	if s.readCache(ctx, span, cacheKey, &cached) {
		cached.CacheHit = true
		return cached, nil
	}

	since := s.now().AddDate(0, 0, -days)
	times, err := list(ctx, since)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list_creation_times_failed")
		return dto.TimeSeriesResponse{}, err
	}

	response := dto.TimeSeriesResponse{
		Points:      bucketByDay(times),
		GeneratedAt: s.now().UTC(),
	}

	s.writeCache(ctx, span, cacheKey, response)

	return response, nil
}

func (s *dashboardService) readCache(ctx context.Context, span trace.Span, key string, target interface{}) bool {
	if s.cache == nil {
		return false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read dashboard cache")
			span.RecordError(err)
		}
		return false
	}

	if err := json.Unmarshal([]byte(cached), target); err != nil {
		return false
	}

	span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
	return true
}

func (s *dashboardService) writeCache(ctx context.Context, span trace.Span, key string, value interface{}) {
	if s.cache == nil {
		return
	}

	payload, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store dashboard cache")
		span.RecordError(err)
	}
}

// bucketByDay folds creation timestamps into per-day counts, skipping
// zero timestamps, and returns the buckets in ascending date order.
func bucketByDay(times []time.Time) []dto.TimeSeriesPoint {
	buckets := map[string]int64{}
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		buckets[t.UTC().Format(dayBucketLayout)]++
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	points := make([]dto.TimeSeriesPoint, 0, len(dates))
	for _, date := range dates {
		points = append(points, dto.TimeSeriesPoint{Date: date, Count: buckets[date]})
	}
	return points
}
