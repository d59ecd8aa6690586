// internal/database/connection.go
package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tauro-app/tauro-backend/internal/config"
	"github.com/tauro-app/tauro-backend/internal/models"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	return Open(postgres.Open(cfg.DSN()), cfg)
}

// Open connects through any gorm dialector and applies the pool settings.
func Open(dialector gorm.Dialector, cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(gormLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	// Connect to database
	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)
	}

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.WithField("dialect", db.Dialector.Name()).Info("Database connection established")
	return db, nil
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logrus.WithError(err).Error("Error getting underlying sql.DB")
		return
	}

	if err := sqlDB.Close(); err != nil {
		logrus.WithError(err).Error("Error closing database connection")
	} else {
		logrus.Info("Database connection closed")
	}
}

func RunMigrations(db *gorm.DB) error {
	logrus.Info("Running database migrations...")

	err := db.AutoMigrate(
		&models.Material{},
		&models.Garment{},
		&models.GarmentMaterial{},
		&models.AuditLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logrus.Info("Database migrations completed")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_materials_created_at ON materials(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_garments_created_at ON garments(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			// Continue with other indexes instead of failing completely
			logrus.WithError(err).WithField("index", index).Warn("Failed to create index")
		}
	}

	return nil
}

// SeedDemoData loads a small catalogue: two materials and a blouse with a
// bill of materials for the regular size group. Existing rows are left alone.
func SeedDemoData(db *gorm.DB) error {
	logrus.Info("Seeding demo data...")

	return WithTransaction(db, func(tx *gorm.DB) error {
		cotton, err := seedMaterial(tx, "Cotton", "5.00", "Tela de algodón")
		if err != nil {
			return err
		}
		thread, err := seedMaterial(tx, "Thread", "1.00", "Hilo de costura")
		if err != nil {
			return err
		}

		var blouse models.Garment
		res := tx.Where("name = ?", "Blouse").Limit(1).Find(&blouse)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		blouse = models.Garment{
			Name:        "Blouse",
			Description: "Blusa básica",
			SalePrice:   decimal.NewNullDecimal(decimal.RequireFromString("30.00")),
		}
		if err := tx.Create(&blouse).Error; err != nil {
			return fmt.Errorf("failed to seed garment: %w", err)
		}

		lines := []models.GarmentMaterial{
			{GarmentID: blouse.ID, MaterialID: cotton.ID, SizeGroup: models.SizeGroupRegular, Quantity: decimal.RequireFromString("2.0")},
			{GarmentID: blouse.ID, MaterialID: thread.ID, SizeGroup: models.SizeGroupRegular, Quantity: decimal.RequireFromString("0.5")},
		}
		if err := tx.Create(&lines).Error; err != nil {
			return fmt.Errorf("failed to seed garment materials: %w", err)
		}

		logrus.WithField("garment", blouse.Name).Info("Demo data seeded")
		return nil
	})
}

func seedMaterial(tx *gorm.DB, name, price, description string) (*models.Material, error) {
	var material models.Material
	res := tx.Where("name = ?", name).Limit(1).Find(&material)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		return &material, nil
	}

	material = models.Material{
		Name:          name,
		PricePerMeter: decimal.RequireFromString(price),
		Description:   description,
	}
	if err := tx.Create(&material).Error; err != nil {
		return nil, fmt.Errorf("failed to seed material %s: %w", name, err)
	}
	return &material, nil
}

// ServerVersion reports the database engine version string.
func ServerVersion(ctx context.Context, db *gorm.DB) (string, error) {
	query := "SELECT version()"
	if db.Dialector.Name() == "sqlite" {
		query = "SELECT sqlite_version()"
	}

	var version string
	if err := db.WithContext(ctx).Raw(query).Scan(&version).Error; err != nil {
		return "", err
	}
	return version, nil
}

// ErrTransaction wraps failures to begin or commit, as opposed to errors
// returned by the transaction body.
var ErrTransaction = errors.New("transaction failed")

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("%w: begin: %w", ErrTransaction, tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("%w: commit: %w", ErrTransaction, err)
	}
	return nil
}
