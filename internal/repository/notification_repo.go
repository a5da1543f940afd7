package repository

import (
	"dormitory-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// fan-out rows are inserted in batches of this size
const notificationBatchSize = 500

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepo(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *NotificationRepository) WithTx(tx *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: tx}
}

// CreateNotification stores the announcement itself
func (r *NotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// Deliver creates one delivery row per recipient; recipients that already have it are skipped
func (r *NotificationRepository) Deliver(notificationID uint, userIDs []uint) error {
	if len(userIDs) == 0 {
		return nil
	}
	rows := make([]models.UserNotification, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, models.UserNotification{UserID: id, NotificationID: notificationID})
	}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&rows, notificationBatchSize).Error
}

// GetAllNotifications lists announcements, newest first
func (r *NotificationRepository) GetAllNotifications(createdByID uint, page Page) ([]models.Notification, int64, error) {
	query := r.db.Model(&models.Notification{})
	if createdByID != 0 {
		query = query.Where("created_by_id = ?", createdByID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []models.Notification
	err := query.Scopes(page.apply).Order("id DESC").Find(&notifications).Error
	return notifications, total, err
}

// GetNotification retrieves an announcement by ID
func (r *NotificationRepository) GetNotification(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := r.db.First(&notification, id).Error; err != nil {
		return nil, translate(err, "notification")
	}
	return &notification, nil
}

// DeleteNotification deletes an announcement and its deliveries
func (r *NotificationRepository) DeleteNotification(id uint) error {
	if err := r.db.Where("notification_id = ?", id).Delete(&models.UserNotification{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Notification{}, id).Error
}

// ListForUser lists the deliveries of a user, newest first
func (r *NotificationRepository) ListForUser(userID uint, unreadOnly bool, page Page) ([]models.UserNotification, int64, error) {
	query := r.db.Model(&models.UserNotification{}).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.UserNotification
	err := query.Scopes(page.apply).
		Preload("Notification").
		Order("id DESC").
		Find(&rows).Error
	return rows, total, err
}

// MarkRead marks a delivery of the user as read
func (r *NotificationRepository) MarkRead(userID, id uint) error {
	result := r.db.Model(&models.UserNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "notification")
	}
	return nil
}

// CreateMessage stores a personal message
func (r *NotificationRepository) CreateMessage(message *models.ApplicationNotification) error {
	return r.db.Create(message).Error
}

// ListMessages lists the personal messages of a user, newest first
func (r *NotificationRepository) ListMessages(userID uint, page Page) ([]models.ApplicationNotification, int64, error) {
	query := r.db.Model(&models.ApplicationNotification{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var messages []models.ApplicationNotification
	err := query.Scopes(page.apply).Order("id DESC").Find(&messages).Error
	return messages, total, err
}

// MarkMessageRead marks a personal message of the user as read
func (r *NotificationRepository) MarkMessageRead(userID, id uint) error {
	result := r.db.Model(&models.ApplicationNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "message")
	}
	return nil
}

// UnreadCounts returns the number of unread deliveries and unread personal messages
func (r *NotificationRepository) UnreadCounts(userID uint) (notifications int64, messages int64, err error) {
	err = r.db.Model(&models.UserNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&notifications).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.Model(&models.ApplicationNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&messages).Error
	return notifications, messages, err
}
