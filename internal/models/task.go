package models

import "time"

// TaskStatus of a to-do item
type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
)

// Task is a personal to-do item of a staff user
type Task struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Status      TaskStatus `gorm:"size:20;not null;default:'PENDING';index" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Task model
func (Task) TableName() string {
	return "tasks"
}

// Apartment is a rental listing published by a landlord
type Apartment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LandlordID  uint      `gorm:"not null;index" json:"landlord_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Address     string    `gorm:"size:255;not null" json:"address"`
	ProvinceID  *uint     `json:"province_id,omitempty"`
	DistrictID  *uint     `json:"district_id,omitempty"`
	RoomsCount  int       `gorm:"not null;default:1" json:"rooms_count"`
	Price       int64     `gorm:"not null" json:"price"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for Apartment model
func (Apartment) TableName() string {
	return "apartments"
}
