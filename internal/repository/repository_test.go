package repository

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/communix/communix-api/internal/models"
)

func roleFixture(name, permissions string) models.Role {
	return models.Role{Name: name, Permissions: datatypes.JSON(permissions)}
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Warning{},
		&models.Community{},
		&models.Group{},
		&models.JoinRequest{},
		&models.Post{},
		&models.Report{},
		&models.Role{},
		&models.Setting{},
		&models.ActivityLog{},
	))
	return db
}
