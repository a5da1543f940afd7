package repository

import (
	"dormitory-backend/internal/models"

	"gorm.io/gorm"
)

type FloorRepository struct {
	db *gorm.DB
}

func NewFloorRepo(db *gorm.DB) *FloorRepository {
	return &FloorRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *FloorRepository) WithTx(tx *gorm.DB) *FloorRepository {
	return &FloorRepository{db: tx}
}

// GetAllFloors retrieves the floors visible to the scope
func (r *FloorRepository) GetAllFloors(scope Scope, dormitoryID uint) ([]models.Floor, error) {
	query := r.db.Scopes(scope.Floors())
	if dormitoryID != 0 {
		query = query.Where("floors.dormitory_id = ?", dormitoryID)
	}
	var floors []models.Floor
	err := query.Order("floors.dormitory_id ASC, floors.name ASC").Find(&floors).Error
	return floors, err
}

// GetFloor retrieves a floor visible to the scope
func (r *FloorRepository) GetFloor(scope Scope, id uint) (*models.Floor, error) {
	var floor models.Floor
	err := r.db.Scopes(scope.Floors()).Where("floors.id = ?", id).First(&floor).Error
	if err != nil {
		return nil, translate(err, "floor")
	}
	return &floor, nil
}

// GetFloorByID retrieves a floor regardless of scope
func (r *FloorRepository) GetFloorByID(id uint) (*models.Floor, error) {
	var floor models.Floor
	if err := r.db.First(&floor, id).Error; err != nil {
		return nil, translate(err, "floor")
	}
	return &floor, nil
}

// CreateFloor creates a new floor
func (r *FloorRepository) CreateFloor(floor *models.Floor) error {
	return r.db.Create(floor).Error
}

// UpdateFloor applies the given column updates
func (r *FloorRepository) UpdateFloor(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Floor{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteFloor permanently deletes a floor
func (r *FloorRepository) DeleteFloor(id uint) error {
	return r.db.Delete(&models.Floor{}, id).Error
}

// NameTaken reports whether another floor of the dormitory already uses the name
func (r *FloorRepository) NameTaken(dormitoryID uint, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Floor{}).
		Where("dormitory_id = ? AND name = ? AND id <> ?", dormitoryID, name, excludeID).
		Count(&count).Error
	return count > 0, err
}

// CountRooms counts the rooms on a floor
func (r *FloorRepository) CountRooms(floorID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Room{}).Where("floor_id = ?", floorID).Count(&count).Error
	return count, err
}

// DormitoryExists reports whether floors can be attached to the dormitory
func (r *FloorRepository) DormitoryExists(dormitoryID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Dormitory{}).Where("id = ?", dormitoryID).Count(&count).Error
	return count > 0, err
}

// CountStudentsNotOfGender counts students on the floor whose gender differs from gender
func (r *FloorRepository) CountStudentsNotOfGender(floorID uint, gender models.StudentGender) (int64, error) {
	var count int64
	err := r.db.Model(&models.Student{}).
		Where("floor_id = ? AND gender <> ?", floorID, gender).
		Count(&count).Error
	return count, err
}
