package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/models"
)

func TestCommunityCreateWithGroupsIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommunityRepository(db)
	groupRepo := NewGroupRepository(db)

	community := models.Community{
		CommunityID: "comm-1",
		Name:        "Go Builders",
		Topics:      datatypes.JSON(`["Backend","Tooling"]`),
		Privacy:     models.PrivacyPublic,
	}
	groups := []models.Group{
		{GroupID: "grp-1", Name: "Backend", TopicIndex: 0, Admin: "alice.1234"},
		{GroupID: "grp-2", Name: "Tooling", TopicIndex: 1, Admin: "alice.1234"},
	}

	require.NoError(t, repo.CreateWithGroups(context.Background(), &community, groups))

	stored, err := groupRepo.ListByCommunity(context.Background(), "comm-1")
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, "Backend", stored[0].Name, "groups ordered by topic index")
	require.Equal(t, "comm-1", stored[0].CommunityID)
}

func TestCommunityDeleteRemovesGroups(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommunityRepository(db)
	groupRepo := NewGroupRepository(db)

	community := models.Community{CommunityID: "comm-1", Name: "Go Builders"}
	groups := []models.Group{{GroupID: "grp-1", Name: "Backend"}}
	require.NoError(t, repo.CreateWithGroups(context.Background(), &community, groups))

	require.NoError(t, repo.Delete(context.Background(), "comm-1"))

	_, err := repo.GetByCommunityID(context.Background(), "comm-1")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	remaining, err := groupRepo.ListByCommunity(context.Background(), "comm-1")
	require.NoError(t, err)
	require.Empty(t, remaining)
}

func TestCommunityDeleteMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommunityRepository(db)

	err := repo.Delete(context.Background(), "nope")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCommunityListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCommunityRepository(db)

	public := models.Community{CommunityID: "comm-1", Name: "Go Builders", Privacy: models.PrivacyPublic}
	private := models.Community{CommunityID: "comm-2", Name: "Rustaceans", Privacy: models.PrivacyPrivate, Archived: true}
	require.NoError(t, db.Create(&public).Error)
	require.NoError(t, db.Create(&private).Error)

	communities, total, err := repo.List(context.Background(), CommunityFilter{Privacy: models.PrivacyPublic, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "comm-1", communities[0].CommunityID)

	archived := false
	communities, _, err = repo.List(context.Background(), CommunityFilter{Archived: &archived, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, communities, 1)
	require.Equal(t, "Go Builders", communities[0].Name)

	communities, _, err = repo.List(context.Background(), CommunityFilter{Search: "rust", PageSize: 10})
	require.NoError(t, err)
	require.Len(t, communities, 1)
	require.Equal(t, "comm-2", communities[0].CommunityID)
}
