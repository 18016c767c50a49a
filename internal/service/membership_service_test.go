package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/questionnaire"
	"github.com/communix/communix-api/internal/repository"
)

type fakeJoinRequestRepo struct {
	requests map[string]models.JoinRequest
}

func newFakeJoinRequestRepo() *fakeJoinRequestRepo {
	return &fakeJoinRequestRepo{requests: map[string]models.JoinRequest{}}
}

func (f *fakeJoinRequestRepo) Create(ctx context.Context, request *models.JoinRequest) error {
	f.requests[request.RequestID] = *request
	return nil
}

func (f *fakeJoinRequestRepo) GetByRequestID(ctx context.Context, requestID string) (models.JoinRequest, error) {
	request, ok := f.requests[requestID]
	if !ok {
		return models.JoinRequest{}, gorm.ErrRecordNotFound
	}
	return request, nil
}

func (f *fakeJoinRequestRepo) List(ctx context.Context, filter repository.JoinRequestFilter) ([]models.JoinRequest, int64, error) {
	requests := make([]models.JoinRequest, 0, len(f.requests))
	for _, request := range f.requests {
		if filter.Status != "" && request.Status != filter.Status {
			continue
		}
		requests = append(requests, request)
	}
	return requests, int64(len(requests)), nil
}

func (f *fakeJoinRequestRepo) PendingExists(ctx context.Context, communityID, userID string) (bool, error) {
	for _, request := range f.requests {
		if request.CommunityID == communityID && request.UserID == userID && request.Status == models.JoinRequestPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeJoinRequestRepo) Resolve(ctx context.Context, requestID, status string) (int64, error) {
	request, ok := f.requests[requestID]
	if !ok || request.Status != models.JoinRequestPending {
		return 0, nil
	}
	request.Status = status
	f.requests[requestID] = request
	return 1, nil
}

type fakeCommunityRepo struct {
	communities map[string]models.Community
	groups      map[string][]models.Group
}

func newFakeCommunityRepo() *fakeCommunityRepo {
	return &fakeCommunityRepo{
		communities: map[string]models.Community{},
		groups:      map[string][]models.Group{},
	}
}

func (f *fakeCommunityRepo) CreateWithGroups(ctx context.Context, community *models.Community, groups []models.Group) error {
	f.communities[community.CommunityID] = *community
	for i := range groups {
		groups[i].CommunityID = community.CommunityID
	}
	f.groups[community.CommunityID] = groups
	return nil
}

func (f *fakeCommunityRepo) GetByCommunityID(ctx context.Context, communityID string) (models.Community, error) {
	community, ok := f.communities[communityID]
	if !ok {
		return models.Community{}, gorm.ErrRecordNotFound
	}
	return community, nil
}

func (f *fakeCommunityRepo) List(ctx context.Context, filter repository.CommunityFilter) ([]models.Community, int64, error) {
	communities := make([]models.Community, 0, len(f.communities))
	for _, community := range f.communities {
		communities = append(communities, community)
	}
	return communities, int64(len(communities)), nil
}

func (f *fakeCommunityRepo) Update(ctx context.Context, communityID string, updates map[string]interface{}) (models.Community, error) {
	community, ok := f.communities[communityID]
	if !ok {
		return models.Community{}, gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		community.Name = name
	}
	if archived, ok := updates["archived"].(bool); ok {
		community.Archived = archived
	}
	f.communities[communityID] = community
	return community, nil
}

func (f *fakeCommunityRepo) SetMembers(ctx context.Context, communityID string, members datatypes.JSON) error {
	community, ok := f.communities[communityID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	community.Members = members
	f.communities[communityID] = community
	return nil
}

func (f *fakeCommunityRepo) Delete(ctx context.Context, communityID string) error {
	if _, ok := f.communities[communityID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.communities, communityID)
	delete(f.groups, communityID)
	return nil
}

type fakeGroupRepo struct {
	owner *fakeCommunityRepo
}

func (f *fakeGroupRepo) Create(ctx context.Context, group *models.Group) error {
	f.owner.groups[group.CommunityID] = append(f.owner.groups[group.CommunityID], *group)
	return nil
}

func (f *fakeGroupRepo) GetByGroupID(ctx context.Context, groupID string) (models.Group, error) {
	for _, groups := range f.owner.groups {
		for _, group := range groups {
			if group.GroupID == groupID {
				return group, nil
			}
		}
	}
	return models.Group{}, gorm.ErrRecordNotFound
}

func (f *fakeGroupRepo) ListByCommunity(ctx context.Context, communityID string) ([]models.Group, error) {
	return append([]models.Group(nil), f.owner.groups[communityID]...), nil
}

func (f *fakeGroupRepo) SetMembers(ctx context.Context, groupID string, members datatypes.JSON) error {
	for communityID, groups := range f.owner.groups {
		for i, group := range groups {
			if group.GroupID == groupID {
				groups[i].Members = members
				f.owner.groups[communityID] = groups
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func membershipFixture(t *testing.T) (*fakeJoinRequestRepo, *fakeCommunityRepo, MembershipService) {
	t.Helper()

	requests := newFakeJoinRequestRepo()
	communities := newFakeCommunityRepo()
	groups := &fakeGroupRepo{owner: communities}

	assembled := map[string][]questionnaire.Question{
		"mentor": {
			{Text: "Topic Access", Type: questionnaire.TypeTopicAccess, Options: []string{"Backend"}},
			{Text: "Why do you want to join?", Options: []string{"To learn", "To teach"}},
		},
	}
	community := models.Community{
		CommunityID: "comm-1",
		Name:        "Go Builders",
		Questions:   mustJSON(assembled),
		Members:     encodeMembers([]string{"founder.1000"}),
	}
	communityGroups := []models.Group{
		{GroupID: "grp-1", Name: "Backend", TopicIndex: 0, Members: encodeMembers([]string{"founder.1000"})},
		{GroupID: "grp-2", Name: "Frontend", TopicIndex: 1, Members: encodeMembers([]string{"founder.1000"})},
	}
	require.NoError(t, communities.CreateWithGroups(context.Background(), &community, communityGroups))

	svc := NewMembershipService(requests, communities, groups, testValidator(), nil, testLogger())
	return requests, communities, svc
}

func TestMembershipSubmitAndDuplicate(t *testing.T) {
	_, _, svc := membershipFixture(t)

	response, err := svc.Submit(context.Background(), "comm-1", "alice.1234", dto.JoinRequestCreateRequest{
		Role:    "mentor",
		Answers: []models.JoinAnswer{{Question: "Why do you want to join?", Answer: "To teach"}},
	})
	require.NoError(t, err)
	require.Equal(t, models.JoinRequestPending, response.Status)

	_, err = svc.Submit(context.Background(), "comm-1", "alice.1234", dto.JoinRequestCreateRequest{
		Role:    "mentor",
		Answers: []models.JoinAnswer{{Question: "Why do you want to join?", Answer: "To teach"}},
	})
	require.ErrorIs(t, err, ErrDuplicateJoinRequest)
}

func TestMembershipSubmitUnknownRole(t *testing.T) {
	_, _, svc := membershipFixture(t)

	_, err := svc.Submit(context.Background(), "comm-1", "alice.1234", dto.JoinRequestCreateRequest{
		Role:    "stranger",
		Answers: []models.JoinAnswer{{Question: "q", Answer: "a"}},
	})
	require.ErrorIs(t, err, questionnaire.ErrUnknownRole)
}

func TestMembershipSubmitExistingMember(t *testing.T) {
	_, _, svc := membershipFixture(t)

	_, err := svc.Submit(context.Background(), "comm-1", "founder.1000", dto.JoinRequestCreateRequest{
		Role:    "mentor",
		Answers: []models.JoinAnswer{{Question: "q", Answer: "a"}},
	})
	require.ErrorIs(t, err, ErrAlreadyMember)
}

func TestMembershipApproveEnrollsByTopicAccess(t *testing.T) {
	requests, communities, svc := membershipFixture(t)

	submitted, err := svc.Submit(context.Background(), "comm-1", "alice.1234", dto.JoinRequestCreateRequest{
		Role:    "mentor",
		Answers: []models.JoinAnswer{{Question: "Why do you want to join?", Answer: "To teach"}},
	})
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), submitted.RequestID, ActivityActor{ID: "admin.1", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, models.JoinRequestApproved, approved.Status)

	community := communities.communities["comm-1"]
	require.Contains(t, decodeMembers(community.Members), "alice.1234")

	groups := communities.groups["comm-1"]
	require.Contains(t, decodeMembers(groups[0].Members), "alice.1234", "granted topic group gains the member")
	require.NotContains(t, decodeMembers(groups[1].Members), "alice.1234", "ungranted topic group stays untouched")

	_, err = svc.Approve(context.Background(), submitted.RequestID, ActivityActor{ID: "admin.2", Role: models.RoleAdmin})
	require.ErrorIs(t, err, ErrJoinRequestResolved)

	_, err = svc.Reject(context.Background(), submitted.RequestID, ActivityActor{ID: "admin.2", Role: models.RoleAdmin})
	require.ErrorIs(t, err, ErrJoinRequestResolved)

	stored := requests.requests[submitted.RequestID]
	require.Equal(t, models.JoinRequestApproved, stored.Status)
}

func TestMembershipApproveMissingRequest(t *testing.T) {
	_, _, svc := membershipFixture(t)

	_, err := svc.Approve(context.Background(), "nope", ActivityActor{ID: "admin.1", Role: models.RoleAdmin})
	require.ErrorIs(t, err, ErrJoinRequestNotFound)
}

func TestMembershipSubmitArchivedCommunity(t *testing.T) {
	_, communities, svc := membershipFixture(t)

	_, err := communities.Update(context.Background(), "comm-1", map[string]interface{}{"archived": true})
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), "comm-1", "alice.1234", dto.JoinRequestCreateRequest{
		Role:    "mentor",
		Answers: []models.JoinAnswer{{Question: "q", Answer: "a"}},
	})
	require.ErrorIs(t, err, ErrCommunityArchived)
}
