package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/models"
)

// UserCounts groups the user counters shown on the dashboard.
type UserCounts struct {
	Total  int64
	Active int64
	Banned int64
}

// CommunityCounts groups the community counters shown on the dashboard.
type CommunityCounts struct {
	Total   int64
	Public  int64
	Private int64
}

// DashboardRepository supplies data for administrator dashboards. Growth
// series are bucketed in the service layer from raw creation timestamps.
type DashboardRepository interface {
	CountUsers(ctx context.Context) (UserCounts, error)
	CountCommunities(ctx context.Context) (CommunityCounts, error)
	CountPostsSince(ctx context.Context, since time.Time) (int64, error)
	CountPendingJoinRequests(ctx context.Context) (int64, error)
	CountReports(ctx context.Context) (int64, error)
	ListUserCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error)
	ListPostCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository constructs the dashboard repository.
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountUsers(ctx context.Context) (UserCounts, error) {
	var counts UserCounts

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&counts.Total).Error; err != nil {
		return UserCounts{}, err
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("is_active = ?", true).Count(&counts.Active).Error; err != nil {
		return UserCounts{}, err
	}
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where("banned = ?", true).Count(&counts.Banned).Error; err != nil {
		return UserCounts{}, err
	}

	return counts, nil
}

func (r *dashboardRepository) CountCommunities(ctx context.Context) (CommunityCounts, error) {
	var counts CommunityCounts

	if err := r.db.WithContext(ctx).Model(&models.Community{}).Count(&counts.Total).Error; err != nil {
		return CommunityCounts{}, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Community{}).Where("privacy = ?", models.PrivacyPublic).Count(&counts.Public).Error; err != nil {
		return CommunityCounts{}, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Community{}).Where("privacy = ?", models.PrivacyPrivate).Count(&counts.Private).Error; err != nil {
		return CommunityCounts{}, err
	}

	return counts, nil
}

func (r *dashboardRepository) CountPostsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountPendingJoinRequests(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.JoinRequest{}).
		Where("status = ?", models.JoinRequestPending).
		Count(&count).Error
	return count, err
}

func (r *dashboardRepository) CountReports(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Report{}).Count(&count).Error
	return count, err
}

func (r *dashboardRepository) ListUserCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &times).Error
	return times, err
}

func (r *dashboardRepository) ListPostCreationTimes(ctx context.Context, since time.Time) ([]time.Time, error) {
	var times []time.Time
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("created_at >= ?", since).
		Order("created_at ASC").
		Pluck("created_at", &times).Error
	return times, err
}
