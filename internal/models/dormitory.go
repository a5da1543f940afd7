package models

import "time"

// University represents a higher-education institution dormitories are attached to
type University struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	Address     string    `gorm:"size:255;not null" json:"address"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Contact     string    `gorm:"type:text" json:"contact,omitempty"`
	Logo        string    `gorm:"size:255" json:"logo,omitempty"` // path in the external file store
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName specifies the table name for University model
func (University) TableName() string {
	return "universities"
}

// Amenity is a facility a dormitory can advertise (wifi, laundry, ...)
type Amenity struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:120;not null" json:"name"`
	IsActive bool   `gorm:"default:true" json:"is_active"`
}

// TableName specifies the table name for Amenity model
func (Amenity) TableName() string {
	return "amenities"
}

// Dormitory is owned by exactly one admin user and has many floors
type Dormitory struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Address      string    `gorm:"size:255;not null" json:"address"`
	UniversityID uint      `gorm:"not null;index" json:"university_id"`
	AdminID      uint      `gorm:"not null;uniqueIndex" json:"admin_id"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	MonthPrice   *int      `json:"month_price,omitempty"`
	YearPrice    *int      `json:"year_price,omitempty"`
	Latitude     *float64  `json:"latitude,omitempty"`
	Longitude    *float64  `json:"longitude,omitempty"`
	Rating       *int      `json:"rating,omitempty"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	University *University      `gorm:"foreignKey:UniversityID" json:"university,omitempty"`
	Admin      *User            `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Amenities  []Amenity        `gorm:"many2many:dormitory_amenities" json:"amenities,omitempty"`
	Images     []DormitoryImage `gorm:"foreignKey:DormitoryID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

// TableName specifies the table name for Dormitory model
func (Dormitory) TableName() string {
	return "dormitories"
}

// DormitoryImage references a picture kept in the external file store
type DormitoryImage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DormitoryID uint      `gorm:"not null;index" json:"dormitory_id"`
	Path        string    `gorm:"size:255;not null" json:"path"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for DormitoryImage model
func (DormitoryImage) TableName() string {
	return "dormitory_images"
}
