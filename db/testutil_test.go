package db

import (
	"testing"
	"time"

	"toolcrib/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = gdb.AutoMigrate(
		&models.User{},
		&models.ToolClass{},
		&models.ToolModel{},
		&models.Tool{},
		&models.Loan{},
		&models.AuditLog{},
		&models.CalibrationAlert{},
	)
	require.NoError(t, err)
	return gdb
}

func seedUser(t *testing.T, gdb *gorm.DB, username, department string, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@plant.example",
		FullName:     username,
		Department:   department,
		Role:         role,
		QRCode:       "TC-" + uuid.NewString(),
		PasswordHash: "x",
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

func seedClass(t *testing.T, gdb *gorm.DB, name string) *models.ToolClass {
	t.Helper()
	c := &models.ToolClass{ID: uuid.NewString(), Name: name}
	require.NoError(t, gdb.Create(c).Error)
	return c
}

func seedModel(t *testing.T, gdb *gorm.DB, name string, requiresCalib bool, intervalDays int) *models.ToolModel {
	t.Helper()
	m := &models.ToolModel{
		ID:                      uuid.NewString(),
		Name:                    name,
		RequiresCalibration:     requiresCalib,
		CalibrationIntervalDays: intervalDays,
	}
	require.NoError(t, gdb.Create(m).Error)
	return m
}

func seedTool(t *testing.T, gdb *gorm.DB, code string, class *models.ToolClass, model *models.ToolModel, qty, avail int) *models.Tool {
	t.Helper()
	tool := &models.Tool{
		ID:                uuid.NewString(),
		Code:              code,
		Name:              "tool " + code,
		ClassID:           class.ID,
		ModelID:           model.ID,
		Quantity:          qty,
		AvailableQuantity: avail,
		Status:            models.ToolAvailable,
	}
	require.NoError(t, gdb.Create(tool).Error)
	return tool
}

func reloadTool(t *testing.T, gdb *gorm.DB, id string) *models.Tool {
	t.Helper()
	var tool models.Tool
	require.NoError(t, gdb.First(&tool, "id = ?", id).Error)
	return &tool
}

func daysFromNow(n int) *time.Time {
	d := time.Now().UTC().AddDate(0, 0, n)
	return &d
}
