package models

import (
	"time"

	"gorm.io/datatypes"
)

// NotificationTarget selects who receives a broadcast notification
type NotificationTarget string

const (
	TargetAllStudents  NotificationTarget = "all_students"
	TargetAllAdmins    NotificationTarget = "all_admins"
	TargetSpecificUser NotificationTarget = "specific_user"
)

// Notification is an announcement fanned out to many users
type Notification struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	Title        string             `gorm:"size:255;not null" json:"title"`
	Message      string             `gorm:"type:text;not null" json:"message"`
	TargetType   NotificationTarget `gorm:"size:20;not null" json:"target_type"`
	TargetUserID *uint              `gorm:"index" json:"target_user_id,omitempty"`
	CreatedByID  uint               `gorm:"not null;index" json:"created_by_id"`
	Meta         datatypes.JSON     `json:"meta,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// TableName specifies the table name for Notification model
func (Notification) TableName() string {
	return "notifications"
}

// UserNotification is the per-recipient delivery row of a Notification
type UserNotification struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;uniqueIndex:idx_user_notification" json:"user_id"`
	NotificationID uint      `gorm:"not null;uniqueIndex:idx_user_notification" json:"notification_id"`
	IsRead         bool      `gorm:"default:false" json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`

	// Relationships
	Notification *Notification `gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE" json:"notification,omitempty"`
}

// TableName specifies the table name for UserNotification model
func (UserNotification) TableName() string {
	return "user_notifications"
}

// ApplicationNotification is a personal message produced by an event
// (new application, application decision, approved payment)
type ApplicationNotification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for ApplicationNotification model
func (ApplicationNotification) TableName() string {
	return "application_notifications"
}
