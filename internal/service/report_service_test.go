package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/repository"
)

type fakeReportRepo struct {
	reports map[string]models.Report
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[string]models.Report{}}
}

func (f *fakeReportRepo) Create(ctx context.Context, report *models.Report) error {
	f.reports[report.ReportID] = *report
	return nil
}

func (f *fakeReportRepo) GetByReportID(ctx context.Context, reportID string) (models.Report, error) {
	report, ok := f.reports[reportID]
	if !ok {
		return models.Report{}, gorm.ErrRecordNotFound
	}
	return report, nil
}

func (f *fakeReportRepo) List(ctx context.Context, filter repository.ReportFilter) ([]models.Report, int64, error) {
	reports := make([]models.Report, 0, len(f.reports))
	for _, report := range f.reports {
		reports = append(reports, report)
	}
	return reports, int64(len(reports)), nil
}

func (f *fakeReportRepo) Delete(ctx context.Context, reportID string) error {
	if _, ok := f.reports[reportID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.reports, reportID)
	return nil
}

func (f *fakeReportRepo) DeleteByPostID(ctx context.Context, postID string) error {
	for id, report := range f.reports {
		if report.PostID == postID {
			delete(f.reports, id)
		}
	}
	return nil
}

type fakePostRepo struct {
	posts map[string]models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]models.Post{}}
}

func (f *fakePostRepo) GetByPostID(ctx context.Context, postID string) (models.Post, error) {
	post, ok := f.posts[postID]
	if !ok {
		return models.Post{}, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (f *fakePostRepo) GetByPostIDs(ctx context.Context, postIDs []string) (map[string]models.Post, error) {
	result := map[string]models.Post{}
	for _, id := range postIDs {
		if post, ok := f.posts[id]; ok {
			result[id] = post
		}
	}
	return result, nil
}

func (f *fakePostRepo) Delete(ctx context.Context, postID string) error {
	if _, ok := f.posts[postID]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.posts, postID)
	return nil
}

type fakeWarningRepo struct {
	warnings []models.Warning
}

func (f *fakeWarningRepo) Create(ctx context.Context, warning *models.Warning) error {
	f.warnings = append(f.warnings, *warning)
	return nil
}

func (f *fakeWarningRepo) ListByUser(ctx context.Context, userID string) ([]models.Warning, error) {
	result := []models.Warning{}
	for _, warning := range f.warnings {
		if warning.UserID == userID {
			result = append(result, warning)
		}
	}
	return result, nil
}

func reportFixture(t *testing.T) (*fakeReportRepo, *fakePostRepo, *fakeUserRepo, *fakeWarningRepo, ReportService) {
	t.Helper()

	reports := newFakeReportRepo()
	posts := newFakePostRepo()
	users := newFakeUserRepo()
	warnings := &fakeWarningRepo{}

	users.users["author.1111"] = models.User{UserID: "author.1111", IsActive: true}
	posts.posts["post-1"] = models.Post{PostID: "post-1", AuthorID: "author.1111", Content: "offending content"}
	reports.reports["rep-1"] = models.Report{ReportID: "rep-1", PostID: "post-1", ReportedBy: "reporter.2222", Reason: "spam"}

	svc := NewReportService(reports, posts, users, warnings, testValidator(), nil, testLogger())
	return reports, posts, users, warnings, svc
}

func TestReportModerateDeleteRemovesPostAndReports(t *testing.T) {
	reports, posts, _, _, svc := reportFixture(t)
	reports.reports["rep-2"] = models.Report{ReportID: "rep-2", PostID: "post-1", ReportedBy: "other.3333", Reason: "abuse"}

	response, err := svc.Moderate(context.Background(), "rep-1", dto.ModerationRequest{Action: dto.ModerationActionDelete}, ActivityActor{ID: "admin.1", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, "post-1", response.PostID)

	require.Empty(t, posts.posts)
	require.Empty(t, reports.reports, "sibling reports against the post are removed too")
}

func TestReportModerateWarnRequiresMessage(t *testing.T) {
	_, _, _, warnings, svc := reportFixture(t)

	_, err := svc.Moderate(context.Background(), "rep-1", dto.ModerationRequest{Action: dto.ModerationActionWarn}, ActivityActor{ID: "admin.1", Role: models.RoleAdmin})
	require.ErrorIs(t, err, ErrWarningMessageRequired)
	require.Empty(t, warnings.warnings)
}

func TestReportModerateWarnIssuesWarning(t *testing.T) {
	reports, _, _, warnings, svc := reportFixture(t)

	response, err := svc.Moderate(context.Background(), "rep-1", dto.ModerationRequest{Action: dto.ModerationActionWarn, Message: "tone it down"}, ActivityActor{ID: "admin.1", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, "author.1111", response.UserID)
	require.Len(t, warnings.warnings, 1)
	require.Equal(t, "author.1111", warnings.warnings[0].UserID)
	require.Empty(t, reports.reports, "acted-on report is closed")
}

func TestReportModerateBanDisablesAuthor(t *testing.T) {
	_, _, users, _, svc := reportFixture(t)

	response, err := svc.Moderate(context.Background(), "rep-1", dto.ModerationRequest{Action: dto.ModerationActionBan}, ActivityActor{ID: "admin.1", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, "author.1111", response.UserID)

	author := users.users["author.1111"]
	require.True(t, author.Banned)
	require.False(t, author.IsActive, "a ban also deactivates the account")
}

func TestReportModerateUnknownReport(t *testing.T) {
	_, _, _, _, svc := reportFixture(t)

	_, err := svc.Moderate(context.Background(), "nope", dto.ModerationRequest{Action: dto.ModerationActionDelete}, ActivityActor{ID: "admin.1", Role: models.RoleAdmin})
	require.ErrorIs(t, err, ErrReportNotFound)
}

func TestReportCreateUnknownPost(t *testing.T) {
	_, _, _, _, svc := reportFixture(t)

	_, err := svc.Create(context.Background(), "reporter.2222", dto.ReportCreateRequest{PostID: "ghost", Reason: "spam"})
	require.ErrorIs(t, err, ErrPostNotFound)
}
