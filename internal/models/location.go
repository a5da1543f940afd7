package models

// Province is a top-level administrative region
type Province struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

// TableName specifies the table name for Province model
func (Province) TableName() string {
	return "provinces"
}

// District belongs to a Province
type District struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:255;not null" json:"name"`
	ProvinceID uint      `gorm:"not null;index" json:"province_id"`
	Province   *Province `gorm:"foreignKey:ProvinceID" json:"province,omitempty"`
}

// TableName specifies the table name for District model
func (District) TableName() string {
	return "districts"
}
