package models

import "time"

// Gender of a floor or room
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// RoomStatus is derived from occupancy and capacity, never set by callers
type RoomStatus string

const (
	RoomAvailable         RoomStatus = "AVAILABLE"
	RoomPartiallyOccupied RoomStatus = "PARTIALLY_OCCUPIED"
	RoomFullyOccupied     RoomStatus = "FULLY_OCCUPIED"
)

// Floor belongs to one dormitory and has many rooms
type Floor struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DormitoryID uint      `gorm:"not null;index;uniqueIndex:idx_floor_dormitory_name" json:"dormitory_id"`
	Name        string    `gorm:"size:120;not null;uniqueIndex:idx_floor_dormitory_name" json:"name"`
	Gender      Gender    `gorm:"size:10;not null;default:'male'" json:"gender"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Dormitory *Dormitory `gorm:"foreignKey:DormitoryID" json:"dormitory,omitempty"`
}

// TableName specifies the table name for Floor model
func (Floor) TableName() string {
	return "floors"
}

// Room represents a bedroom on a floor
// CurrentOccupancy and Status are maintained by the reconciler
type Room struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	FloorID          uint       `gorm:"not null;index;uniqueIndex:idx_room_floor_name" json:"floor_id"`
	Name             string     `gorm:"size:120;not null;uniqueIndex:idx_room_floor_name" json:"name"`
	Capacity         int        `gorm:"not null" json:"capacity"`
	CurrentOccupancy int        `gorm:"not null;default:0" json:"current_occupancy"`
	Status           RoomStatus `gorm:"size:20;not null;default:'AVAILABLE';index" json:"status"`
	Gender           Gender     `gorm:"size:10;not null;default:'male'" json:"gender"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relationships
	Floor *Floor `gorm:"foreignKey:FloorID" json:"floor,omitempty"`
}

// TableName specifies the table name for Room model
func (Room) TableName() string {
	return "rooms"
}
