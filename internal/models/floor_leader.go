package models

import (
	"time"

	"gorm.io/datatypes"
)

// FloorLeader grants a student-role user limited administration of one floor
type FloorLeader struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	FloorID   uint      `gorm:"not null;uniqueIndex" json:"floor_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Floor *Floor `gorm:"foreignKey:FloorID;constraint:OnDelete:CASCADE" json:"floor,omitempty"`
	User  *User  `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// TableName specifies the table name for FloorLeader model
func (FloorLeader) TableName() string {
	return "floor_leaders"
}

// AttendanceStatus of a student in a roll call
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceExcused AttendanceStatus = "excused"
)

// AttendanceSession is one evening roll call on a floor
type AttendanceSession struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	FloorID     uint               `gorm:"not null;uniqueIndex:idx_attendance_floor_date" json:"floor_id"`
	Date        datatypes.Date     `gorm:"not null;uniqueIndex:idx_attendance_floor_date" json:"date"`
	CreatedByID uint               `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time          `json:"created_at"`
	Records     []AttendanceRecord `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE" json:"records,omitempty"`
}

// TableName specifies the table name for AttendanceSession model
func (AttendanceSession) TableName() string {
	return "attendance_sessions"
}

// AttendanceRecord is the mark of one student in a session
type AttendanceRecord struct {
	ID        uint             `gorm:"primaryKey" json:"id"`
	SessionID uint             `gorm:"not null;uniqueIndex:idx_attendance_session_student" json:"session_id"`
	StudentID uint             `gorm:"not null;uniqueIndex:idx_attendance_session_student" json:"student_id"`
	Status    AttendanceStatus `gorm:"size:10;not null" json:"status"`
	Student   *Student         `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

// TableName specifies the table name for AttendanceRecord model
func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// Collection is a fee a floor leader collects from the students of the floor
type Collection struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	FloorID     uint               `gorm:"not null;index" json:"floor_id"`
	Title       string             `gorm:"size:255;not null" json:"title"`
	Description string             `gorm:"type:text" json:"description,omitempty"`
	Amount      int64              `gorm:"not null" json:"amount"`
	Deadline    *datatypes.Date    `json:"deadline,omitempty"`
	CreatedByID uint               `gorm:"not null" json:"created_by_id"`
	CreatedAt   time.Time          `json:"created_at"`
	Records     []CollectionRecord `gorm:"foreignKey:CollectionID;constraint:OnDelete:CASCADE" json:"records,omitempty"`
}

// TableName specifies the table name for Collection model
func (Collection) TableName() string {
	return "collections"
}

// CollectionRecord tracks whether a student has paid a collection
type CollectionRecord struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CollectionID uint       `gorm:"not null;uniqueIndex:idx_collection_student" json:"collection_id"`
	StudentID    uint       `gorm:"not null;uniqueIndex:idx_collection_student" json:"student_id"`
	Paid         bool       `gorm:"default:false" json:"paid"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`
	Student      *Student   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
}

// TableName specifies the table name for CollectionRecord model
func (CollectionRecord) TableName() string {
	return "collection_records"
}
