package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

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

// ErrUnknownRoleName indicates the role to assign is not defined.
var ErrUnknownRoleName = errors.New("role is not defined")

// UserService orchestrates profile and user administration use cases.
type UserService interface {
	Get(ctx context.Context, userID string) (dto.UserResponse, error)
	Update(ctx context.Context, userID string, payload dto.UserUpdateRequest) (dto.UserResponse, error)
	ChangePassword(ctx context.Context, userID string, payload dto.ChangePasswordRequest) error
	OnboardingCatalog(profession string) (dto.OnboardingCatalogResponse, error)
	SubmitOnboarding(ctx context.Context, userID string, payload dto.OnboardingSubmitRequest) (dto.UserResponse, error)

	List(ctx context.Context, req dto.UserListRequest) (dto.UserListResponse, error)
	AdminUpdate(ctx context.Context, userID string, payload dto.AdminUserUpdateRequest, actor ActivityActor) (dto.UserResponse, error)
	Deactivate(ctx context.Context, userID string, actor ActivityActor) error
	AssignRole(ctx context.Context, userID string, payload dto.AssignRoleRequest, actor ActivityActor) (dto.UserResponse, error)
}

type userService struct {
	users     repository.UserRepository
	roles     repository.RoleRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewUserService constructs the user service.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) UserService {
	return &userService{
		users:     users,
		roles:     roles,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "user_service").Logger(),
	}
}

func (s *userService) Get(ctx context.Context, userID string) (dto.UserResponse, error) {
	user, err := s.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) Update(ctx context.Context, userID string, payload dto.UserUpdateRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Profession != nil {
		updates["profession"] = strings.ToLower(strings.TrimSpace(*payload.Profession))
	}
	if len(updates) == 0 {
		return s.Get(ctx, userID)
	}

	user, err := s.users.Update(ctx, userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	return dto.NewUserResponse(user), nil
}

func (s *userService) ChangePassword(ctx context.Context, userID string, payload dto.ChangePasswordRequest) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	user, err := s.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if !auth.VerifyPassword(payload.CurrentPassword, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	digest, err := auth.HashPassword(payload.NewPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, userID, digest)
}

func (s *userService) OnboardingCatalog(profession string) (dto.OnboardingCatalogResponse, error) {
	normalized := strings.ToLower(strings.TrimSpace(profession))
	catalog, err := questionnaire.Catalog(normalized)
	if err != nil {
		return dto.OnboardingCatalogResponse{}, err
	}

	return dto.OnboardingCatalogResponse{Profession: normalized, Questions: catalog}, nil
}

func (s *userService) SubmitOnboarding(ctx context.Context, userID string, payload dto.OnboardingSubmitRequest) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	user, err := s.users.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	catalog, err := questionnaire.Catalog(user.Profession)
	if err != nil {
		return dto.UserResponse{}, err
	}

	answers, err := questionnaire.Normalize(catalog, payload.Selections)
	if err != nil {
		return dto.UserResponse{}, err
	}

	encoded, err := json.Marshal(answers)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if err := s.users.SetOnboardingAnswers(ctx, userID, datatypes.JSON(encoded)); err != nil {
		return dto.UserResponse{}, err
	}

	user.OnboardingAnswers = datatypes.JSON(encoded)
	return dto.NewUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, req dto.UserListRequest) (dto.UserListResponse, error) {
	filter := repository.UserFilter{
		Search:     strings.TrimSpace(req.Search),
		Role:       strings.TrimSpace(req.Role),
		Profession: strings.TrimSpace(req.Profession),
		IsActive:   req.IsActive,
		Sort:       req.Sort,
		Page:       req.Page,
		PageSize:   req.PageSize,
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return dto.UserListResponse{}, err
	}

	responses := make([]dto.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, dto.NewUserResponse(user))
	}

	return dto.UserListResponse{
		Items:      responses,
		Pagination: dto.NewPaginationMeta(maxInt(req.Page, 1), req.PageSize, total),
	}, nil
}

func (s *userService) AdminUpdate(ctx context.Context, userID string, payload dto.AdminUserUpdateRequest, actor ActivityActor) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Name != nil {
		updates["name"] = strings.TrimSpace(*payload.Name)
	}
	if payload.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*payload.Email))
		taken, err := s.users.EmailExists(ctx, email)
		if err != nil {
			return dto.UserResponse{}, err
		}
		if taken {
			return dto.UserResponse{}, ErrEmailTaken
		}
		updates["email"] = email
	}
	if payload.Profession != nil {
		updates["profession"] = strings.ToLower(strings.TrimSpace(*payload.Profession))
	}
	if payload.IsActive != nil {
		updates["is_active"] = *payload.IsActive
	}
	if len(updates) == 0 {
		return s.Get(ctx, userID)
	}

	user, err := s.users.Update(ctx, userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	s.recordActivity(ctx, actor, "user.update", "user", userID, map[string]interface{}{"fields": len(updates)})

	return dto.NewUserResponse(user), nil
}

func (s *userService) Deactivate(ctx context.Context, userID string, actor ActivityActor) error {
	_, err := s.users.Update(ctx, userID, map[string]interface{}{"is_active": false})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	s.recordActivity(ctx, actor, "user.deactivate", "user", userID, nil)
	return nil
}

func (s *userService) AssignRole(ctx context.Context, userID string, payload dto.AssignRoleRequest, actor ActivityActor) (dto.UserResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.UserResponse{}, err
	}

	role := strings.ToLower(strings.TrimSpace(payload.Role))
	if role != models.RoleUser && role != models.RoleAdmin {
		if _, err := s.roles.GetByName(ctx, role); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.UserResponse{}, ErrUnknownRoleName
			}
			return dto.UserResponse{}, err
		}
	}

	user, err := s.users.Update(ctx, userID, map[string]interface{}{"role": role})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.UserResponse{}, ErrUserNotFound
		}
		return dto.UserResponse{}, err
	}

	s.recordActivity(ctx, actor, "user.assign_role", "user", userID, map[string]interface{}{"role": role})

	return dto.NewUserResponse(user), nil
}

func (s *userService) recordActivity(ctx context.Context, actor ActivityActor, action, entityType, entityID string, metadata map[string]interface{}) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
