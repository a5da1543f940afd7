package models

import (
	"time"

	"gorm.io/datatypes"
)

// PaymentStatus of a recorded payment
type PaymentStatus string

const (
	PaymentApproved  PaymentStatus = "APPROVED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// PaymentMethod used to pay
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "Cash"
	PaymentCard PaymentMethod = "Card"
)

// Payment is a rent payment made by a student
// ValidUntil is the last calendar day the payment covers
type Payment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	StudentID   uint            `gorm:"not null;index" json:"student_id"`
	DormitoryID uint            `gorm:"not null;index" json:"dormitory_id"`
	Amount      int64           `gorm:"not null" json:"amount"`
	PaidDate    datatypes.Date  `json:"paid_date"`
	ValidUntil  *datatypes.Date `gorm:"index" json:"valid_until"`
	Method      PaymentMethod   `gorm:"size:10;not null;default:'Cash'" json:"method"`
	Status      PaymentStatus   `gorm:"size:20;not null;index" json:"status"`
	Comment     string          `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relationships
	Student *Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

// TableName specifies the table name for Payment model
func (Payment) TableName() string {
	return "payments"
}
