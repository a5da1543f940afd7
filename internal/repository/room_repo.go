package repository

import (
	"dormitory-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepo(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *RoomRepository) WithTx(tx *gorm.DB) *RoomRepository {
	return &RoomRepository{db: tx}
}

// RoomFilter narrows room listings
type RoomFilter struct {
	FloorID     uint
	DormitoryID uint
	Status      models.RoomStatus
	Gender      models.Gender
	HasFreeBed  bool
}

// GetAllRooms retrieves the rooms visible to the scope
func (r *RoomRepository) GetAllRooms(scope Scope, filter RoomFilter, page Page) ([]models.Room, int64, error) {
	query := r.db.Model(&models.Room{}).Scopes(scope.Rooms())
	if filter.FloorID != 0 {
		query = query.Where("rooms.floor_id = ?", filter.FloorID)
	}
	if filter.DormitoryID != 0 {
		floors := subquery(r.db).Model(&models.Floor{}).Select("id").Where("dormitory_id = ?", filter.DormitoryID)
		query = query.Where("rooms.floor_id IN (?)", floors)
	}
	if filter.Status != "" {
		query = query.Where("rooms.status = ?", filter.Status)
	}
	if filter.Gender != "" {
		query = query.Where("rooms.gender = ?", filter.Gender)
	}
	if filter.HasFreeBed {
		query = query.Where("rooms.current_occupancy < rooms.capacity")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rooms []models.Room
	err := query.Scopes(page.apply).
		Preload("Floor").
		Order("rooms.floor_id ASC, rooms.name ASC").
		Find(&rooms).Error
	return rooms, total, err
}

// GetRoom retrieves a room visible to the scope
func (r *RoomRepository) GetRoom(scope Scope, id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.Scopes(scope.Rooms()).
		Preload("Floor").
		Where("rooms.id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, translate(err, "room")
	}
	return &room, nil
}

// GetRoomByID retrieves a room by ID regardless of scope
func (r *RoomRepository) GetRoomByID(id uint) (*models.Room, error) {
	var room models.Room
	if err := r.db.Preload("Floor").First(&room, id).Error; err != nil {
		return nil, translate(err, "room")
	}
	return &room, nil
}

// LockRoom reads a room with a row lock held until the transaction ends
func (r *RoomRepository) LockRoom(id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Preload("Floor").
		First(&room, id).Error
	if err != nil {
		return nil, translate(err, "room")
	}
	return &room, nil
}

// CreateRoom creates a new room
func (r *RoomRepository) CreateRoom(room *models.Room) error {
	return r.db.Create(room).Error
}

// UpdateRoom applies the given column updates
func (r *RoomRepository) UpdateRoom(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Room{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteRoom permanently deletes a room
func (r *RoomRepository) DeleteRoom(id uint) error {
	return r.db.Delete(&models.Room{}, id).Error
}

// NameTaken reports whether another room on the floor already uses the name
func (r *RoomRepository) NameTaken(floorID uint, name string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Room{}).
		Where("floor_id = ? AND name = ? AND id <> ?", floorID, name, excludeID).
		Count(&count).Error
	return count > 0, err
}

// CountStudents counts the students assigned to the room
func (r *RoomRepository) CountStudents(roomID uint) (int, error) {
	var count int64
	err := r.db.Model(&models.Student{}).Where("room_id = ?", roomID).Count(&count).Error
	return int(count), err
}

// SetOccupancy stores the cached occupancy counter and status
func (r *RoomRepository) SetOccupancy(roomID uint, occupancy int, status models.RoomStatus) error {
	return r.db.Model(&models.Room{}).Where("id = ?", roomID).
		Updates(map[string]interface{}{
			"current_occupancy": occupancy,
			"status":            status,
		}).Error
}

// ReserveBed increments the occupancy counter only while it is below capacity.
// It reports false when the room is already full.
func (r *RoomRepository) ReserveBed(roomID uint) (bool, error) {
	result := r.db.Model(&models.Room{}).
		Where("id = ? AND current_occupancy < capacity", roomID).
		Update("current_occupancy", gorm.Expr("current_occupancy + 1"))
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListAllRoomIDs returns the IDs of every room
func (r *RoomRepository) ListAllRoomIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Room{}).Order("id ASC").Pluck("id", &ids).Error
	return ids, err
}
