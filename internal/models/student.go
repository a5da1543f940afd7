package models

import (
	"time"

	"gorm.io/datatypes"
)

// PlacementStatus tells whether a student only has an accepted application or has a bed
type PlacementStatus string

const (
	PlacementReceived PlacementStatus = "Qabul qilindi"
	PlacementPlaced   PlacementStatus = "Joylashdi"
)

// StudentStatus is the derived debt label of a student
type StudentStatus string

const (
	StudentDebtor       StudentStatus = "Qarzdor"
	StudentPaidUp       StudentStatus = "Haqdor"
	StudentNotEvaluated StudentStatus = "Tekshirilmaydi"
)

// StudentGender uses the labels printed on student documents
type StudentGender string

const (
	StudentMale   StudentGender = "Erkak"
	StudentFemale StudentGender = "Ayol"
)

// RoomGender maps a student's gender onto the gender of rooms they may live in
func (g StudentGender) RoomGender() Gender {
	if g == StudentFemale {
		return GenderFemale
	}
	return GenderMale
}

// StudentGender maps a room gender onto the gender of students allowed in it
func (g Gender) StudentGender() StudentGender {
	if g == GenderFemale {
		return StudentFemale
	}
	return StudentMale
}

// Courses a student can be enrolled in
var Courses = []string{"1-kurs", "2-kurs", "3-kurs", "4-kurs", "5-kurs"}

// Student is a resident (or accepted applicant) of a dormitory
type Student struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          *uint           `gorm:"index" json:"user_id"`
	DormitoryID     uint            `gorm:"not null;index" json:"dormitory_id"`
	FloorID         *uint           `gorm:"index" json:"floor_id"`
	RoomID          *uint           `gorm:"index" json:"room_id"`
	Name            string          `gorm:"size:120;not null" json:"name"`
	LastName        string          `gorm:"size:120" json:"last_name,omitempty"`
	MiddleName      string          `gorm:"size:120" json:"middle_name,omitempty"`
	ProvinceID      *uint           `json:"province_id"`
	DistrictID      *uint           `json:"district_id"`
	Faculty         string          `gorm:"size:120" json:"faculty"`
	Direction       string          `gorm:"size:120" json:"direction,omitempty"`
	Passport        *string         `gorm:"size:9;uniqueIndex" json:"passport,omitempty"`
	Group           string          `gorm:"column:group_name;size:120" json:"group,omitempty"`
	Course          string          `gorm:"size:20;default:'1-kurs'" json:"course"`
	Gender          StudentGender   `gorm:"size:10;not null;default:'Erkak'" json:"gender"`
	Phone           string          `gorm:"size:20" json:"phone,omitempty"`
	Picture         string          `gorm:"size:255" json:"picture,omitempty"`
	Privilege       bool            `gorm:"default:false" json:"privilege"`
	AcceptedDate    datatypes.Date  `json:"accepted_date"`
	PlacementStatus PlacementStatus `gorm:"size:20;not null;default:'Qabul qilindi';index" json:"placement_status"`
	Status          StudentStatus   `gorm:"size:20;not null;default:'Tekshirilmaydi';index" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	// Relationships
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
	Dormitory *Dormitory `gorm:"foreignKey:DormitoryID" json:"dormitory,omitempty"`
	Floor     *Floor     `gorm:"foreignKey:FloorID;constraint:OnDelete:SET NULL" json:"floor,omitempty"`
	Room      *Room      `gorm:"foreignKey:RoomID" json:"room,omitempty"`
	Province  *Province  `gorm:"foreignKey:ProvinceID" json:"province,omitempty"`
	District  *District  `gorm:"foreignKey:DistrictID" json:"district,omitempty"`
	Payments  []Payment  `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"payments,omitempty"`
}

// TableName specifies the table name for Student model
func (Student) TableName() string {
	return "students"
}
