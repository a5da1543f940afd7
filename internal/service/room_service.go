package service

import (
	"errors"
	"fmt"
	"strings"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"

	"gorm.io/gorm"
)

type RoomService struct {
	db         *gorm.DB
	roomRepo   *repository.RoomRepository
	floorRepo  *repository.FloorRepository
	auditRepo  *repository.AuditRepository
	reconciler *Reconciler
}

func NewRoomService(
	db *gorm.DB,
	roomRepo *repository.RoomRepository,
	floorRepo *repository.FloorRepository,
	auditRepo *repository.AuditRepository,
	reconciler *Reconciler,
) *RoomService {
	return &RoomService{
		db:         db,
		roomRepo:   roomRepo,
		floorRepo:  floorRepo,
		auditRepo:  auditRepo,
		reconciler: reconciler,
	}
}

// RoomInput carries the writable fields of a room; occupancy and status are derived
type RoomInput struct {
	FloorID  *uint          `json:"floor_id"`
	Name     *string        `json:"name" binding:"omitempty,min=1,max=120"`
	Capacity *int           `json:"capacity" binding:"omitempty,min=1"`
	Gender   *models.Gender `json:"gender" binding:"omitempty,oneof=male female"`
}

// GetRooms lists the rooms visible to the caller
func (s *RoomService) GetRooms(scope repository.Scope, filter repository.RoomFilter, page repository.Page) ([]models.Room, int64, error) {
	return s.roomRepo.GetAllRooms(scope, filter, page)
}

// GetRoom returns one room visible to the caller
func (s *RoomService) GetRoom(scope repository.Scope, id uint) (*models.Room, error) {
	return s.roomRepo.GetRoom(scope, id)
}

// CreateRoom creates an empty room on a floor of the caller's dormitory
func (s *RoomService) CreateRoom(scope repository.Scope, in RoomInput, actorID uint) (*models.Room, error) {
	if err := requireManager(scope); err != nil {
		return nil, err
	}
	if in.FloorID == nil || in.Name == nil || in.Capacity == nil {
		return nil, invalidf("floor_id, name and capacity are required")
	}

	floor, err := s.floorRepo.GetFloor(scope, *in.FloorID)
	if err != nil {
		return nil, err
	}

	room := &models.Room{
		FloorID:  floor.ID,
		Name:     strings.TrimSpace(*in.Name),
		Capacity: *in.Capacity,
		Gender:   floor.Gender,
		Status:   models.RoomAvailable,
	}
	if in.Gender != nil {
		room.Gender = *in.Gender
	}
	if room.Name == "" {
		return nil, invalidf("name is required")
	}
	if room.Capacity < 1 {
		return nil, invalidf("capacity must be at least 1")
	}

	taken, err := s.roomRepo.NameTaken(room.FloorID, room.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("room %q: %w", room.Name, ErrDuplicateName)
	}

	if err := s.roomRepo.CreateRoom(room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	audit(s.auditRepo, actorID, "room_created",
		fmt.Sprintf("Room %s created on floor %d", room.Name, room.FloorID),
		map[string]interface{}{"room_id": room.ID, "capacity": room.Capacity})

	return s.roomRepo.GetRoomByID(room.ID)
}

// UpdateRoom renames a room or changes its capacity or gender. Capacity may not drop
// below the number of students living there; the status is re-derived afterwards.
func (s *RoomService) UpdateRoom(scope repository.Scope, id uint, in RoomInput, actorID uint) (*models.Room, error) {
	if err := requireManager(scope); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		rooms := s.roomRepo.WithTx(tx)

		room, err := rooms.GetRoom(scope, id)
		if err != nil {
			return err
		}
		occupancy, err := rooms.CountStudents(room.ID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.FloorID != nil && *in.FloorID != room.FloorID {
			return invalidf("a room cannot be moved to another floor")
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return invalidf("name is required")
			}
			taken, err := rooms.NameTaken(room.FloorID, name, room.ID)
			if err != nil {
				return err
			}
			if taken {
				return fmt.Errorf("room %q: %w", name, ErrDuplicateName)
			}
			updates["name"] = name
		}
		if in.Capacity != nil {
			if *in.Capacity < 1 {
				return invalidf("capacity must be at least 1")
			}
			if *in.Capacity < occupancy {
				return ErrCapacityTooSmall
			}
			updates["capacity"] = *in.Capacity
		}
		if in.Gender != nil && *in.Gender != room.Gender {
			if occupancy > 0 {
				return invalidf("cannot change the gender of an occupied room")
			}
			updates["gender"] = *in.Gender
		}

		if len(updates) > 0 {
			if err := rooms.UpdateRoom(room.ID, updates); err != nil {
				return fmt.Errorf("failed to update room: %w", err)
			}
		}
		return s.reconciler.RefreshRoom(tx, room.ID)
	})
	if err != nil {
		return nil, err
	}

	audit(s.auditRepo, actorID, "room_updated", fmt.Sprintf("Room %d updated", id), in)
	return s.roomRepo.GetRoomByID(id)
}

// DeleteRoom deletes an empty room
func (s *RoomService) DeleteRoom(scope repository.Scope, id uint, actorID uint) error {
	if err := requireManager(scope); err != nil {
		return err
	}

	room, err := s.roomRepo.GetRoom(scope, id)
	if err != nil {
		return err
	}
	occupancy, err := s.roomRepo.CountStudents(room.ID)
	if err != nil {
		return err
	}
	if occupancy > 0 {
		return ErrRoomNotEmpty
	}

	if err := s.roomRepo.DeleteRoom(room.ID); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	audit(s.auditRepo, actorID, "room_deleted", fmt.Sprintf("Room %s deleted", room.Name), nil)
	return nil
}

type FloorService struct {
	floorRepo *repository.FloorRepository
	auditRepo *repository.AuditRepository
}

func NewFloorService(floorRepo *repository.FloorRepository, auditRepo *repository.AuditRepository) *FloorService {
	return &FloorService{
		floorRepo: floorRepo,
		auditRepo: auditRepo,
	}
}

// FloorInput carries the writable fields of a floor
type FloorInput struct {
	DormitoryID *uint          `json:"dormitory_id"`
	Name        *string        `json:"name" binding:"omitempty,min=1,max=120"`
	Gender      *models.Gender `json:"gender" binding:"omitempty,oneof=male female"`
}

// GetFloors lists the floors visible to the caller
func (s *FloorService) GetFloors(scope repository.Scope, dormitoryID uint) ([]models.Floor, error) {
	return s.floorRepo.GetAllFloors(scope, dormitoryID)
}

// GetFloor returns one floor visible to the caller
func (s *FloorService) GetFloor(scope repository.Scope, id uint) (*models.Floor, error) {
	return s.floorRepo.GetFloor(scope, id)
}

// CreateFloor adds a floor to the caller's dormitory
func (s *FloorService) CreateFloor(scope repository.Scope, in FloorInput, actorID uint) (*models.Floor, error) {
	dormitoryID, err := targetDormitory(scope, in.DormitoryID, s.floorRepo)
	if err != nil {
		return nil, err
	}
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		return nil, invalidf("name is required")
	}

	floor := &models.Floor{
		DormitoryID: dormitoryID,
		Name:        strings.TrimSpace(*in.Name),
		Gender:      models.GenderMale,
	}
	if in.Gender != nil {
		floor.Gender = *in.Gender
	}

	taken, err := s.floorRepo.NameTaken(dormitoryID, floor.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("floor %q: %w", floor.Name, ErrDuplicateName)
	}

	if err := s.floorRepo.CreateFloor(floor); err != nil {
		return nil, fmt.Errorf("failed to create floor: %w", err)
	}

	audit(s.auditRepo, actorID, "floor_created",
		fmt.Sprintf("Floor %s created in dormitory %d", floor.Name, dormitoryID), nil)
	return floor, nil
}

// UpdateFloor renames a floor or changes its gender
func (s *FloorService) UpdateFloor(scope repository.Scope, id uint, in FloorInput, actorID uint) (*models.Floor, error) {
	if err := requireManager(scope); err != nil {
		return nil, err
	}

	floor, err := s.floorRepo.GetFloor(scope, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, invalidf("name is required")
		}
		taken, err := s.floorRepo.NameTaken(floor.DormitoryID, name, floor.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("floor %q: %w", name, ErrDuplicateName)
		}
		updates["name"] = name
	}
	if in.Gender != nil && *in.Gender != floor.Gender {
		mismatched, err := s.floorRepo.CountStudentsNotOfGender(floor.ID, in.Gender.StudentGender())
		if err != nil {
			return nil, err
		}
		if mismatched > 0 {
			return nil, invalidf("floor %d still has students of the other gender", floor.ID)
		}
		updates["gender"] = *in.Gender
	}

	if len(updates) > 0 {
		if err := s.floorRepo.UpdateFloor(floor.ID, updates); err != nil {
			return nil, fmt.Errorf("failed to update floor: %w", err)
		}
	}

	audit(s.auditRepo, actorID, "floor_updated", fmt.Sprintf("Floor %d updated", id), in)
	return s.floorRepo.GetFloorByID(floor.ID)
}

// DeleteFloor deletes a floor that has no rooms
func (s *FloorService) DeleteFloor(scope repository.Scope, id uint, actorID uint) error {
	if err := requireManager(scope); err != nil {
		return err
	}

	floor, err := s.floorRepo.GetFloor(scope, id)
	if err != nil {
		return err
	}
	rooms, err := s.floorRepo.CountRooms(floor.ID)
	if err != nil {
		return err
	}
	if rooms > 0 {
		return invalidf("floor still has %d rooms", rooms)
	}

	if err := s.floorRepo.DeleteFloor(floor.ID); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return invalidf("floor is still referenced")
		}
		return fmt.Errorf("failed to delete floor: %w", err)
	}

	audit(s.auditRepo, actorID, "floor_deleted", fmt.Sprintf("Floor %s deleted", floor.Name), nil)
	return nil
}
