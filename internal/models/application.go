package models

import "time"

// ApplicationStatus of a dormitory application
type ApplicationStatus string

const (
	ApplicationPending   ApplicationStatus = "PENDING"
	ApplicationApproved  ApplicationStatus = "APPROVED"
	ApplicationRejected  ApplicationStatus = "REJECTED"
	ApplicationCancelled ApplicationStatus = "CANCELLED"
)

// Application is a request for a bed in a dormitory, submitted by a prospective student
type Application struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	UserID       *uint             `gorm:"index" json:"user_id"`
	DormitoryID  uint              `gorm:"not null;index" json:"dormitory_id"`
	RoomID       *uint             `gorm:"index" json:"room_id"`
	Status       ApplicationStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	Name         string            `gorm:"size:255;not null" json:"name"`
	FIO          string            `gorm:"column:fio;size:255" json:"fio,omitempty"`
	City         string            `gorm:"size:255" json:"city,omitempty"`
	Village      string            `gorm:"size:255" json:"village,omitempty"`
	University   string            `gorm:"size:255" json:"university,omitempty"`
	Phone        string            `gorm:"size:20;not null" json:"phone"`
	Passport     string            `gorm:"size:9;not null;index" json:"passport"`
	Comment      string            `gorm:"type:text" json:"comment,omitempty"`
	AdminComment string            `gorm:"type:text" json:"admin_comment,omitempty"`
	Document     string            `gorm:"size:255" json:"document,omitempty"` // path in the external file store
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`

	// Relationships
	Dormitory *Dormitory `gorm:"foreignKey:DormitoryID" json:"dormitory,omitempty"`
	Room      *Room      `gorm:"foreignKey:RoomID;constraint:OnDelete:SET NULL" json:"room,omitempty"`
}

// TableName specifies the table name for Application model
func (Application) TableName() string {
	return "applications"
}
