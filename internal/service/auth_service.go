package service

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/auth"
	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/questionnaire"
	"github.com/communix/communix-api/internal/repository"
)

var (
	// ErrEmailTaken indicates the email already belongs to an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrUserNotFound indicates no account exists for the identifier.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidCredentials indicates the supplied password is wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountDisabled indicates the account is deactivated or banned.
	ErrAccountDisabled = errors.New("account disabled")
)

// AuthService handles registration and login.
type AuthService interface {
	Signup(ctx context.Context, payload dto.SignupRequest) (dto.AuthResponse, error)
	Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error)
}

type authService struct {
	users     repository.UserRepository
	validator *validator.Validate
	secret    string
	tokenTTL  time.Duration
	random    *rand.Rand
	logger    zerolog.Logger
}

// NewAuthService constructs the auth service.
func NewAuthService(users repository.UserRepository, validate *validator.Validate, secret string, tokenTTL time.Duration, logger zerolog.Logger) AuthService {
	return &authService{
		users:     users,
		validator: validate,
		secret:    secret,
		tokenTTL:  tokenTTL,
		random:    rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:    logger.With().Str("component", "auth_service").Logger(),
	}
}

func (s *authService) Signup(ctx context.Context, payload dto.SignupRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	email := strings.ToLower(strings.TrimSpace(payload.Email))
	profession := strings.ToLower(strings.TrimSpace(payload.Profession))

	catalog, err := questionnaire.Catalog(profession)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	answers, err := questionnaire.Normalize(catalog, payload.Selections)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	taken, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	if taken {
		return dto.AuthResponse{}, ErrEmailTaken
	}

	handle, err := generateHandle(ctx, payload.Name, s.random, s.users.HandleExists)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	digest, err := auth.HashPassword(payload.Password)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	encodedAnswers, err := json.Marshal(answers)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	user := models.User{
		UserID:            handle,
		Name:              strings.TrimSpace(payload.Name),
		Email:             email,
		PasswordHash:      digest,
		Profession:        profession,
		Role:              models.RoleUser,
		IsActive:          true,
		OnboardingAnswers: datatypes.JSON(encodedAnswers),
	}

	if err := s.users.Create(ctx, &user); err != nil {
		s.logger.Error().Err(err).Msg("failed to create user")
		return dto.AuthResponse{}, err
	}

	token, err := auth.IssueToken(s.secret, s.tokenTTL, user.UserID, user.Email, user.Role)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	s.logger.Info().Str("user_id", user.UserID).Msg("user registered")

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}

func (s *authService) Login(ctx context.Context, payload dto.LoginRequest) (dto.AuthResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.AuthResponse{}, err
	}

	user, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AuthResponse{}, ErrUserNotFound
		}
		return dto.AuthResponse{}, err
	}

	if !auth.VerifyPassword(payload.Password, user.PasswordHash) {
		return dto.AuthResponse{}, ErrInvalidCredentials
	}

	if !user.IsActive || user.Banned {
		return dto.AuthResponse{}, ErrAccountDisabled
	}

	token, err := auth.IssueToken(s.secret, s.tokenTTL, user.UserID, user.Email, user.Role)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{Token: token, User: dto.NewUserResponse(user)}, nil
}
