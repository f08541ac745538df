package service

import (
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/google/uuid"
	"github.com/gyan-sharma/gs7crm-backend/config"
	"github.com/gyan-sharma/gs7crm-backend/model"
)

// OpenDatabase connects to Postgres with bounded retry, runs migrations and
// seeds the initial admin account.
func OpenDatabase(cfg *config.Config) (*gorm.DB, error) {
	var db *gorm.DB

	err := Retry(10, time.Second, func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
		return openErr
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	if err := seedAdmin(db, &cfg.Admin); err != nil {
		return nil, fmt.Errorf("failed to seed admin: %w", err)
	}

	return db, nil
}

// Migrate creates or updates the schema for every entity.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Partner{},
		&model.Customer{},
		&model.Opportunity{},
		&model.Offer{},
		&model.OfferEnvironment{},
		&model.OfferComponent{},
		&model.OfferServiceSet{},
		&model.OfferService{},
		&model.ReviewRequest{},
		&model.Review{},
		&model.ReviewHistoryEntry{},
		&model.Document{},
		&model.Contract{},
		&model.Project{},
		&model.Milestone{},
		&model.LicensePrice{},
	)
}

// Retry runs fn up to attempts times, doubling the delay between attempts.
func Retry(attempts int, initialDelay time.Duration, fn func() error) error {
	delay := initialDelay
	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i < attempts {
			slog.Warn("operation failed, retrying",
				"attempt", i,
				"max_attempts", attempts,
				"delay", delay.String(),
				"error", err,
			)
			time.Sleep(delay)
			delay *= 2
		}
	}
	return fmt.Errorf("after %d attempts: %w", attempts, err)
}

// seedAdmin creates the initial admin user when no admin exists yet.
func seedAdmin(db *gorm.DB, cfg *config.AdminConfig) error {
	var count int64
	if err := db.Model(&model.User{}).
		Where("role = ?", model.RoleAdmin).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if cfg.Password == "" {
		slog.Warn("no admin password configured, skipping admin seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := model.User{
		ID:           uuid.New().String(),
		Code:         model.GenerateCode("user"),
		Name:         "Administrator",
		Email:        cfg.Email,
		Role:         model.RoleAdmin,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	slog.Info("created default admin user", "email", admin.Email)
	return nil
}
