package repository

import (
	"encoding/json"

	"dormitory-backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepo(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// CreateAuditLog creates a new audit log entry
// payload is optional structured context stored as JSON
func (r *AuditRepository) CreateAuditLog(userID *uint, action string, details string, payload interface{}) error {
	log := &models.AuditLog{
		UserID:  userID,
		Action:  action,
		Details: details,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		log.Payload = datatypes.JSON(raw)
	}
	return r.db.Create(log).Error
}

// ListAuditLogs returns the newest entries first, optionally filtered by action
func (r *AuditRepository) ListAuditLogs(action string, page Page) ([]models.AuditLog, int64, error) {
	query := r.db.Model(&models.AuditLog{})
	if action != "" {
		query = query.Where("action = ?", action)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	err := query.Scopes(page.apply).Order("id DESC").Find(&logs).Error
	return logs, total, err
}
