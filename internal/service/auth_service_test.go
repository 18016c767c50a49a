package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/communix/communix-api/internal/auth"
	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/questionnaire"
)

func professionalSelections() questionnaire.Selections {
	return questionnaire.Selections{
		0: {Single: true, Values: []string{"Finance and Investments"}},
		1: {Values: []string{"Watching Movies", "Fitness Training"}},
		2: {Values: []string{"Mid Career (4-10 years of experience)"}},
	}
}

func TestAuthServiceSignupGeneratesHandle(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testValidator(), "secret", time.Hour, testLogger())

	response, err := svc.Signup(context.Background(), dto.SignupRequest{
		Name:       "Alice Johnson",
		Email:      "Alice@Example.com",
		Password:   "sup3rsecret",
		Profession: models.ProfessionProfessional,
		Selections: professionalSelections(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)
	require.Regexp(t, regexp.MustCompile(`^alicejohnson\.\d{4}$`), response.User.UserID)
	require.Equal(t, "alice@example.com", response.User.Email, "email must be stored lowercased")
	require.Len(t, response.User.OnboardingAnswers, 3)

	stored, err := repo.GetByUserID(context.Background(), response.User.UserID)
	require.NoError(t, err)
	require.True(t, auth.VerifyPassword("sup3rsecret", stored.PasswordHash))
	require.Equal(t, models.RoleUser, stored.Role)
}

func TestAuthServiceSignupDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	repo.users["bob.1234"] = models.User{UserID: "bob.1234", Email: "bob@example.com"}
	svc := NewAuthService(repo, testValidator(), "secret", time.Hour, testLogger())

	_, err := svc.Signup(context.Background(), dto.SignupRequest{
		Name:       "Bob",
		Email:      "BOB@example.com",
		Password:   "sup3rsecret",
		Profession: models.ProfessionProfessional,
		Selections: professionalSelections(),
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthServiceSignupIncompleteQuestionnaire(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testValidator(), "secret", time.Hour, testLogger())

	selections := professionalSelections()
	delete(selections, 2)

	_, err := svc.Signup(context.Background(), dto.SignupRequest{
		Name:       "Carol",
		Email:      "carol@example.com",
		Password:   "sup3rsecret",
		Profession: models.ProfessionProfessional,
		Selections: selections,
	})

	var incomplete *questionnaire.IncompleteError
	require.ErrorAs(t, err, &incomplete)
	require.Equal(t, 2, incomplete.Index)
	require.Empty(t, repo.users, "no account may be created from an incomplete questionnaire")
}

func TestAuthServiceLogin(t *testing.T) {
	repo := newFakeUserRepo()
	digest, err := auth.HashPassword("sup3rsecret")
	require.NoError(t, err)
	repo.users["dave.4321"] = models.User{
		UserID:       "dave.4321",
		Email:        "dave@example.com",
		PasswordHash: digest,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	svc := NewAuthService(repo, testValidator(), "secret", time.Hour, testLogger())

	response, err := svc.Login(context.Background(), dto.LoginRequest{Email: "dave@example.com", Password: "sup3rsecret"})
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "nobody@example.com", Password: "sup3rsecret"})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "dave@example.com", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceLoginDisabledAccount(t *testing.T) {
	repo := newFakeUserRepo()
	digest, err := auth.HashPassword("sup3rsecret")
	require.NoError(t, err)
	repo.users["eve.9999"] = models.User{
		UserID:       "eve.9999",
		Email:        "eve@example.com",
		PasswordHash: digest,
		IsActive:     false,
	}
	svc := NewAuthService(repo, testValidator(), "secret", time.Hour, testLogger())

	_, err = svc.Login(context.Background(), dto.LoginRequest{Email: "eve@example.com", Password: "sup3rsecret"})
	require.ErrorIs(t, err, ErrAccountDisabled)
}
