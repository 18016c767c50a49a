package repository

import (
	"context"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/models"
)

// SettingsRepository persists the single platform configuration document.
type SettingsRepository interface {
	Get(ctx context.Context) (models.Setting, error)
	Upsert(ctx context.Context, values datatypes.JSONMap) (models.Setting, error)
}

type settingsRepository struct {
	db *gorm.DB
}

// NewSettingsRepository constructs the settings repository.
func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context) (models.Setting, error) {
	var setting models.Setting
	if err := r.db.WithContext(ctx).Order("id ASC").First(&setting).Error; err != nil {
		return models.Setting{}, err
	}
	return setting, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, values datatypes.JSONMap) (models.Setting, error) {
	var setting models.Setting
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Order("id ASC").First(&setting).Error
		switch {
		case err == nil:
			setting.Values = values
			return tx.Save(&setting).Error
		case err == gorm.ErrRecordNotFound:
			setting = models.Setting{Values: values}
			return tx.Create(&setting).Error
		default:
			return err
		}
	})
	if err != nil {
		return models.Setting{}, err
	}
	return setting, nil
}

// RoleRepository persists platform role definitions.
type RoleRepository interface {
	Create(ctx context.Context, role *models.Role) error
	List(ctx context.Context) ([]models.Role, error)
	GetByID(ctx context.Context, id uint) (models.Role, error)
	GetByName(ctx context.Context, name string) (models.Role, error)
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Role, error)
	Delete(ctx context.Context, id uint) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository constructs the role repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *models.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) List(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepository) GetByID(ctx context.Context, id uint) (models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).First(&role, id).Error; err != nil {
		return models.Role{}, err
	}
	return role, nil
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error; err != nil {
		return models.Role{}, err
	}
	return role, nil
}

func (r *roleRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Role, error) {
	result := r.db.WithContext(ctx).Model(&models.Role{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return models.Role{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Role{}, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *roleRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Role{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
