package db

import (
	"fmt"
	"os"

	"toolcrib/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB() (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := Migrate(conn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return conn, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.ToolClass{},
		&models.ToolModel{},
		&models.Tool{},
		&models.Loan{},
		&models.AuditLog{},
		&models.CalibrationAlert{},
	); err != nil {
		return err
	}

	// 在借记录的常用过滤路径
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_by_tool
	  ON %s (tool_id, loan_date DESC)
	  WHERE return_date IS NULL;
	`, models.LoanTable, models.LoanTable)).Error; err != nil {
		return err
	}

	// 校准看板按到期日扫
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_next_calibration
	  ON %s (next_calibration_date)
	  WHERE next_calibration_date IS NOT NULL;
	`, models.ToolTable, models.ToolTable)).Error; err != nil {
		return err
	}

	return nil
}
