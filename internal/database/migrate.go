package database

import (
	"errors"
	"fmt"
	"log"

	"dormitory-backend/internal/config"
	"dormitory-backend/internal/models"
	"dormitory-backend/pkg/utils"

	"gorm.io/gorm"
)

// Migrate creates or updates every table, parents before children
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.AuditLog{},
		&models.Province{},
		&models.District{},
		&models.University{},
		&models.Amenity{},
		&models.Dormitory{},
		&models.DormitoryImage{},
		&models.Floor{},
		&models.Room{},
		&models.Student{},
		&models.Application{},
		&models.Payment{},
		&models.Notification{},
		&models.UserNotification{},
		&models.ApplicationNotification{},
		&models.FloorLeader{},
		&models.AttendanceSession{},
		&models.AttendanceRecord{},
		&models.Collection{},
		&models.CollectionRecord{},
		&models.Task{},
		&models.Apartment{},
	)
}

// Seed ensures the bootstrap superadmin exists
func Seed(db *gorm.DB, cfg config.SeedConfig) error {
	if cfg.SuperAdminUsername == "" {
		return nil
	}
	if cfg.SuperAdminPassword == "" {
		return errors.New("SUPERADMIN_PASSWORD is required when SUPERADMIN_USERNAME is set")
	}

	var existing models.User
	err := db.Where("username = ?", cfg.SuperAdminUsername).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(cfg.SuperAdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash superadmin password: %w", err)
	}

	user := &models.User{
		Username:     cfg.SuperAdminUsername,
		PasswordHash: hash,
		Role:         models.RoleSuperAdmin,
		IsActive:     true,
	}
	if err := db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create superadmin: %w", err)
	}

	log.Printf("Superadmin %s seeded", user.Username)
	return nil
}
