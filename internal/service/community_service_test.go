package service

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/questionnaire"
)

// pngHeader is enough for content type detection.
var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

type storageStub struct {
	uploads []string
}

func (s *storageStub) Upload(ctx context.Context, container, name string, reader io.Reader) (string, error) {
	s.uploads = append(s.uploads, container+"/"+name)
	return fmt.Sprintf("https://cdn.example.com/%s/%s", container, name), nil
}

func communityServiceFixture() (*fakeCommunityRepo, *storageStub, CommunityService) {
	communities := newFakeCommunityRepo()
	groups := &fakeGroupRepo{owner: communities}
	storage := &storageStub{}
	svc := NewCommunityService(communities, groups, storage, testValidator(), nil, 1024*1024, testLogger())
	return communities, storage, svc
}

func createPayload() dto.CommunityCreateRequest {
	return dto.CommunityCreateRequest{
		Name:   "Go Builders",
		Topics: []string{"Backend", "Frontend"},
		Roles:  []string{"mentor", "member"},
		RoleQuestions: map[string][]questionnaire.Question{
			"mentor": {{Text: "Why mentor?", Options: []string{"To teach", "To learn"}}},
		},
		TopicAccess: map[string][]string{
			"mentor": {"Backend"},
		},
	}
}

func TestCommunityCreateBuildsGroupsAndQuestionnaires(t *testing.T) {
	communities, storage, svc := communityServiceFixture()

	response, err := svc.Create(context.Background(), "founder.1000", createPayload(),
		&Upload{Name: "banner.png", Data: pngHeader},
		map[string]Upload{"Backend": {Name: "backend.png", Data: pngHeader}},
	)
	require.NoError(t, err)
	require.NotEmpty(t, response.CommunityID)
	require.Equal(t, models.PrivacyPublic, response.Privacy, "privacy defaults to public")
	require.Equal(t, []string{"founder.1000"}, response.Members)
	require.Contains(t, response.ProfilePicture, "community-profile-pics")
	require.Contains(t, response.TopicPictures["Backend"], "topic-profile-pics")
	require.Len(t, storage.uploads, 2)

	groups := communities.groups[response.CommunityID]
	require.Len(t, groups, 2, "one group per declared topic")
	require.Equal(t, "Backend", groups[0].Name)
	require.Equal(t, 0, groups[0].TopicIndex)
	require.Equal(t, "founder.1000", groups[0].Admin)

	mentor := response.RoleQuestions["mentor"]
	require.Equal(t, questionnaire.TypeTopicAccess, mentor[0].Type)
	require.Equal(t, []string{"Backend"}, mentor[0].Options)

	member := response.RoleQuestions["member"]
	require.Len(t, member, 1, "roles without configured questions still get a topic access question")
	require.Empty(t, member[0].Options)
}

func TestCommunityCreateRejectsNonImageUpload(t *testing.T) {
	_, _, svc := communityServiceFixture()

	_, err := svc.Create(context.Background(), "founder.1000", createPayload(),
		&Upload{Name: "notes.txt", Data: []byte("plain text")}, nil)
	require.ErrorIs(t, err, ErrNotAnImage)
}

func TestCommunityCreateRejectsOversizedUpload(t *testing.T) {
	communities := newFakeCommunityRepo()
	groups := &fakeGroupRepo{owner: communities}
	svc := NewCommunityService(communities, groups, &storageStub{}, testValidator(), nil, 4, testLogger())

	_, err := svc.Create(context.Background(), "founder.1000", createPayload(),
		&Upload{Name: "banner.png", Data: pngHeader}, nil)
	require.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestCommunityCreateRejectsUndeclaredTopicPicture(t *testing.T) {
	_, _, svc := communityServiceFixture()

	_, err := svc.Create(context.Background(), "founder.1000", createPayload(), nil,
		map[string]Upload{"Gardening": {Name: "g.png", Data: pngHeader}})
	require.ErrorIs(t, err, ErrUnknownTopicPicture)
}

func TestCommunityCreateRejectsUndeclaredTopicGrant(t *testing.T) {
	_, _, svc := communityServiceFixture()

	payload := createPayload()
	payload.TopicAccess["mentor"] = []string{"Gardening"}

	_, err := svc.Create(context.Background(), "founder.1000", payload, nil, nil)
	require.ErrorIs(t, err, questionnaire.ErrUndeclaredTopic)
}

func TestCommunityCreateSchemaViolation(t *testing.T) {
	_, _, svc := communityServiceFixture()

	payload := createPayload()
	payload.Topics = []string{}
	payload.Roles = []string{}

	_, err := svc.Create(context.Background(), "founder.1000", payload, nil, nil)
	require.Error(t, err)
}

func TestCommunityRoleQuestionsUnknownRole(t *testing.T) {
	_, _, svc := communityServiceFixture()

	created, err := svc.Create(context.Background(), "founder.1000", createPayload(), nil, nil)
	require.NoError(t, err)

	_, err = svc.RoleQuestions(context.Background(), created.CommunityID, "stranger")
	require.ErrorIs(t, err, questionnaire.ErrUnknownRole)

	questions, err := svc.RoleQuestions(context.Background(), created.CommunityID, "mentor")
	require.NoError(t, err)
	require.Len(t, questions.Questions, 2)
}

func TestCommunityGetMissing(t *testing.T) {
	_, _, svc := communityServiceFixture()

	_, err := svc.Get(context.Background(), "nope")
	require.ErrorIs(t, err, ErrCommunityNotFound)
}

func TestCommunityArchiveAndDelete(t *testing.T) {
	communities, _, svc := communityServiceFixture()

	created, err := svc.Create(context.Background(), "founder.1000", createPayload(), nil, nil)
	require.NoError(t, err)

	archived, err := svc.Archive(context.Background(), created.CommunityID, ActivityActor{ID: "admin.1", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.True(t, archived.Archived)

	require.NoError(t, svc.Delete(context.Background(), created.CommunityID, ActivityActor{ID: "admin.1", Role: models.RoleAdmin}))
	require.Empty(t, communities.communities)
	require.ErrorIs(t, svc.Delete(context.Background(), created.CommunityID, ActivityActor{ID: "admin.1", Role: models.RoleAdmin}), ErrCommunityNotFound)
}
