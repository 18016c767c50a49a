package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/dto"
	"github.com/communix/communix-api/internal/models"
	"github.com/communix/communix-api/internal/repository"
)

var (
	// ErrRoleNotFound indicates no role definition exists for the identifier.
	ErrRoleNotFound = errors.New("role not found")
	// ErrRoleNameTaken indicates a role with the name already exists.
	ErrRoleNameTaken = errors.New("role name already exists")
)

// SettingsService manages the platform configuration document and role
// definitions.
type SettingsService interface {
	Get(ctx context.Context) (dto.SettingsResponse, error)
	Update(ctx context.Context, payload dto.SettingsUpdateRequest, actor ActivityActor) (dto.SettingsResponse, error)

	ListRoles(ctx context.Context) ([]dto.RoleResponse, error)
	CreateRole(ctx context.Context, payload dto.RoleCreateRequest, actor ActivityActor) (dto.RoleResponse, error)
	UpdateRole(ctx context.Context, id uint, payload dto.RoleUpdateRequest, actor ActivityActor) (dto.RoleResponse, error)
	DeleteRole(ctx context.Context, id uint, actor ActivityActor) error
}

type settingsService struct {
	settings  repository.SettingsRepository
	roles     repository.RoleRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewSettingsService constructs the settings service.
func NewSettingsService(settings repository.SettingsRepository, roles repository.RoleRepository, validate *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) SettingsService {
	return &settingsService{
		settings:  settings,
		roles:     roles,
		validator: validate,
		activity:  activity,
		logger:    logger.With().Str("component", "settings_service").Logger(),
	}
}

// Get returns the settings document. A platform with no stored settings
// yet serves an empty document rather than an error.
func (s *settingsService) Get(ctx context.Context) (dto.SettingsResponse, error) {
	setting, err := s.settings.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SettingsResponse{Values: map[string]interface{}{}}, nil
		}
		return dto.SettingsResponse{}, err
	}
	return dto.NewSettingsResponse(setting), nil
}

func (s *settingsService) Update(ctx context.Context, payload dto.SettingsUpdateRequest, actor ActivityActor) (dto.SettingsResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.SettingsResponse{}, err
	}

	values := datatypes.JSONMap{}
	for key, value := range payload.Values {
		values[key] = value
	}

	setting, err := s.settings.Upsert(ctx, values)
	if err != nil {
		return dto.SettingsResponse{}, err
	}

	s.recordActivity(ctx, actor, "settings.update", "settings", "", map[string]interface{}{"keys": len(values)})

	return dto.NewSettingsResponse(setting), nil
}

func (s *settingsService) ListRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.RoleResponse, 0, len(roles))
	for _, role := range roles {
		responses = append(responses, dto.NewRoleResponse(role))
	}
	return responses, nil
}

func (s *settingsService) CreateRole(ctx context.Context, payload dto.RoleCreateRequest, actor ActivityActor) (dto.RoleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoleResponse{}, err
	}

	name := strings.ToLower(strings.TrimSpace(payload.Name))
	if _, err := s.roles.GetByName(ctx, name); err == nil {
		return dto.RoleResponse{}, ErrRoleNameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.RoleResponse{}, err
	}

	role := models.Role{
		Name:        name,
		Permissions: mustJSON(trimAll(payload.Permissions)),
	}

	if err := s.roles.Create(ctx, &role); err != nil {
		return dto.RoleResponse{}, err
	}

	s.recordActivity(ctx, actor, "role.create", "role", name, nil)

	return dto.NewRoleResponse(role), nil
}

func (s *settingsService) UpdateRole(ctx context.Context, id uint, payload dto.RoleUpdateRequest, actor ActivityActor) (dto.RoleResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.RoleResponse{}, err
	}

	updates := make(map[string]interface{})
	if payload.Name != nil {
		updates["name"] = strings.ToLower(strings.TrimSpace(*payload.Name))
	}
	if payload.Permissions != nil {
		updates["permissions"] = mustJSON(trimAll(payload.Permissions))
	}
	if len(updates) == 0 {
		role, err := s.roles.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.RoleResponse{}, ErrRoleNotFound
			}
			return dto.RoleResponse{}, err
		}
		return dto.NewRoleResponse(role), nil
	}

	role, err := s.roles.Update(ctx, id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.RoleResponse{}, ErrRoleNotFound
		}
		return dto.RoleResponse{}, err
	}

	s.recordActivity(ctx, actor, "role.update", "role", role.Name, nil)

	return dto.NewRoleResponse(role), nil
}

func (s *settingsService) DeleteRole(ctx context.Context, id uint, actor ActivityActor) error {
	if err := s.roles.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	s.recordActivity(ctx, actor, "role.delete", "role", "", nil)
	return nil
}

func (s *settingsService) recordActivity(ctx context.Context, actor ActivityActor, action, entityType, entityID string, metadata map[string]interface{}) {
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
