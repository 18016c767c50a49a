package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/communix/communix-api/internal/models"
)

func TestDashboardCounts(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDashboardRepository(db)

	require.NoError(t, db.Create(&models.User{UserID: "a.1", Name: "A", Email: "a@example.com", PasswordHash: "x", Profession: models.ProfessionStudent, IsActive: true}).Error)
	require.NoError(t, db.Create(&models.User{UserID: "b.2", Name: "B", Email: "b@example.com", PasswordHash: "x", Profession: models.ProfessionStudent, IsActive: false, Banned: true}).Error)

	require.NoError(t, db.Create(&models.Community{CommunityID: "c-1", Name: "One", Privacy: models.PrivacyPublic}).Error)
	require.NoError(t, db.Create(&models.Community{CommunityID: "c-2", Name: "Two", Privacy: models.PrivacyPrivate}).Error)

	require.NoError(t, db.Create(&models.Post{PostID: "p-1", CommunityID: "c-1", AuthorID: "a.1", CreatedAt: time.Now().Add(-2 * time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Post{PostID: "p-2", CommunityID: "c-1", AuthorID: "a.1", CreatedAt: time.Now().Add(-48 * time.Hour)}).Error)

	require.NoError(t, db.Create(&models.JoinRequest{RequestID: "r-1", CommunityID: "c-1", UserID: "a.1", Status: models.JoinRequestPending}).Error)
	require.NoError(t, db.Create(&models.Report{ReportID: "rep-1", PostID: "p-1", ReportedBy: "b.2", Reason: "spam", ReportedAt: time.Now()}).Error)

	users, err := repo.CountUsers(context.Background())
	require.NoError(t, err)
	require.Equal(t, UserCounts{Total: 2, Active: 1, Banned: 1}, users)

	communities, err := repo.CountCommunities(context.Background())
	require.NoError(t, err)
	require.Equal(t, CommunityCounts{Total: 2, Public: 1, Private: 1}, communities)

	posts, err := repo.CountPostsSince(context.Background(), time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(1), posts)

	pending, err := repo.CountPendingJoinRequests(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), pending)

	reports, err := repo.CountReports(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(1), reports)
}

func TestDashboardCreationTimesAscending(t *testing.T) {
	db := setupTestDB(t)
	repo := NewDashboardRepository(db)

	now := time.Now()
	require.NoError(t, db.Create(&models.Post{PostID: "p-1", CreatedAt: now.Add(-time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Post{PostID: "p-2", CreatedAt: now.Add(-3 * time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Post{PostID: "p-3", CreatedAt: now.Add(-90 * 24 * time.Hour)}).Error)

	times, err := repo.ListPostCreationTimes(context.Background(), now.Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, times, 2)
	require.True(t, times[0].Before(times[1]))
}
