package service

import (
	"context"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/repository"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

type recorderStub struct {
	entries []ActivityEntry
}

func (r *recorderStub) Record(ctx context.Context, entry ActivityEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

// fakeUserRepo is an in-memory UserRepository keyed by handle.
type fakeUserRepo struct {
	users map[string]models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]models.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.users[user.UserID] = *user
	return nil
}

func (f *fakeUserRepo) GetByUserID(ctx context.Context, userID string) (models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeUserRepo) HandleExists(ctx context.Context, handle string) (bool, error) {
	_, ok := f.users[handle]
	return ok, nil
}

func (f *fakeUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]models.User, int64, error) {
	users := make([]models.User, 0, len(f.users))
	for _, user := range f.users {
		users = append(users, user)
	}
	return users, int64(len(users)), nil
}

func (f *fakeUserRepo) Update(ctx context.Context, userID string, updates map[string]interface{}) (models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	if name, ok := updates["name"].(string); ok {
		user.Name = name
	}
	if email, ok := updates["email"].(string); ok {
		user.Email = email
	}
	if profession, ok := updates["profession"].(string); ok {
		user.Profession = profession
	}
	if role, ok := updates["role"].(string); ok {
		user.Role = role
	}
	if active, ok := updates["is_active"].(bool); ok {
		user.IsActive = active
	}
	if banned, ok := updates["banned"].(bool); ok {
		user.Banned = banned
	}
	f.users[userID] = user
	return user, nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	user, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.PasswordHash = passwordHash
	f.users[userID] = user
	return nil
}

func (f *fakeUserRepo) SetOnboardingAnswers(ctx context.Context, userID string, answers datatypes.JSON) error {
	user, ok := f.users[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.OnboardingAnswers = answers
	f.users[userID] = user
	return nil
}
