package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"

	"gorm.io/gorm"
)

type StudentService struct {
	db          *gorm.DB
	studentRepo *repository.StudentRepository
	roomRepo    *repository.RoomRepository
	floorRepo   *repository.FloorRepository
	paymentRepo *repository.PaymentRepository
	auditRepo   *repository.AuditRepository
	reconciler  *Reconciler
}

func NewStudentService(
	db *gorm.DB,
	studentRepo *repository.StudentRepository,
	roomRepo *repository.RoomRepository,
	floorRepo *repository.FloorRepository,
	paymentRepo *repository.PaymentRepository,
	auditRepo *repository.AuditRepository,
	reconciler *Reconciler,
) *StudentService {
	return &StudentService{
		db:          db,
		studentRepo: studentRepo,
		roomRepo:    roomRepo,
		floorRepo:   floorRepo,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		reconciler:  reconciler,
	}
}

// StudentInput carries the writable fields of a student.
// Nil means "leave unchanged"; for FloorID and RoomID a zero value clears the assignment.
type StudentInput struct {
	DormitoryID     *uint                   `json:"dormitory_id"`
	UserID          *uint                   `json:"user_id"`
	FloorID         *uint                   `json:"floor_id"`
	RoomID          *uint                   `json:"room_id"`
	Name            *string                 `json:"name" binding:"omitempty,min=1,max=120"`
	LastName        *string                 `json:"last_name" binding:"omitempty,max=120"`
	MiddleName      *string                 `json:"middle_name" binding:"omitempty,max=120"`
	ProvinceID      *uint                   `json:"province_id"`
	DistrictID      *uint                   `json:"district_id"`
	Faculty         *string                 `json:"faculty" binding:"omitempty,max=120"`
	Direction       *string                 `json:"direction" binding:"omitempty,max=120"`
	Passport        *string                 `json:"passport" binding:"omitempty,passport"`
	Group           *string                 `json:"group" binding:"omitempty,max=120"`
	Course          *string                 `json:"course" binding:"omitempty,oneof=1-kurs 2-kurs 3-kurs 4-kurs 5-kurs"`
	Gender          *models.StudentGender   `json:"gender" binding:"omitempty,oneof=Erkak Ayol"`
	Phone           *string                 `json:"phone" binding:"omitempty,max=20"`
	Picture         *string                 `json:"picture" binding:"omitempty,max=255"`
	Privilege       *bool                   `json:"privilege"`
	AcceptedDate    *time.Time              `json:"accepted_date"`
	PlacementStatus *models.PlacementStatus `json:"placement_status" binding:"omitempty,oneof='Qabul qilindi' Joylashdi"`
}

func optionalID(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}

func (in *StudentInput) applyTo(st *models.Student) {
	if in.UserID != nil {
		st.UserID = optionalID(in.UserID)
	}
	if in.FloorID != nil {
		st.FloorID = optionalID(in.FloorID)
	}
	if in.RoomID != nil {
		st.RoomID = optionalID(in.RoomID)
	}
	if in.Name != nil {
		st.Name = strings.TrimSpace(*in.Name)
	}
	if in.LastName != nil {
		st.LastName = *in.LastName
	}
	if in.MiddleName != nil {
		st.MiddleName = *in.MiddleName
	}
	if in.ProvinceID != nil {
		st.ProvinceID = optionalID(in.ProvinceID)
	}
	if in.DistrictID != nil {
		st.DistrictID = optionalID(in.DistrictID)
	}
	if in.Faculty != nil {
		st.Faculty = *in.Faculty
	}
	if in.Direction != nil {
		st.Direction = *in.Direction
	}
	if in.Passport != nil {
		if p := strings.ToUpper(strings.TrimSpace(*in.Passport)); p != "" {
			st.Passport = &p
		} else {
			st.Passport = nil
		}
	}
	if in.Group != nil {
		st.Group = *in.Group
	}
	if in.Course != nil {
		st.Course = *in.Course
	}
	if in.Gender != nil {
		st.Gender = *in.Gender
	}
	if in.Phone != nil {
		st.Phone = *in.Phone
	}
	if in.Picture != nil {
		st.Picture = *in.Picture
	}
	if in.Privilege != nil {
		st.Privilege = *in.Privilege
	}
	if in.AcceptedDate != nil {
		st.AcceptedDate = models.NewDate(*in.AcceptedDate)
	}
	if in.PlacementStatus != nil {
		st.PlacementStatus = *in.PlacementStatus
	}
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func idOrZero(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}

// GetStudents lists the students visible to the caller
func (s *StudentService) GetStudents(scope repository.Scope, filter repository.StudentFilter, page repository.Page) ([]models.Student, int64, error) {
	return s.studentRepo.GetAllStudents(scope, filter, page)
}

// GetStudent returns one student visible to the caller
func (s *StudentService) GetStudent(scope repository.Scope, id uint) (*models.Student, error) {
	return s.studentRepo.GetStudent(scope, id)
}

// MyStudent returns the student record of the calling user together with its payments
func (s *StudentService) MyStudent(userID uint) (*models.Student, error) {
	student, err := s.studentRepo.GetStudentByUserID(userID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.ListByStudent(student.ID)
	if err != nil {
		return nil, err
	}
	student.Payments = payments
	return student, nil
}

// CreateStudent registers a student. When a room is given the bed is reserved
// atomically and the placement becomes Joylashdi.
func (s *StudentService) CreateStudent(scope repository.Scope, in StudentInput, actorID uint) (*models.Student, error) {
	dormitoryID, err := targetDormitory(scope, in.DormitoryID, s.floorRepo)
	if err != nil {
		return nil, err
	}

	student := &models.Student{
		DormitoryID:     dormitoryID,
		Course:          models.Courses[0],
		Gender:          models.StudentMale,
		AcceptedDate:    models.NewDate(s.reconciler.Today()),
		PlacementStatus: models.PlacementReceived,
		Status:          models.StudentNotEvaluated,
	}
	in.applyTo(student)

	if student.Name == "" {
		return nil, invalidf("name is required")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.checkPassport(tx, student.Passport, 0); err != nil {
			return err
		}
		if err := s.checkPlacement(tx, student, nil); err != nil {
			return err
		}

		if err := s.studentRepo.WithTx(tx).CreateStudent(student); err != nil {
			return fmt.Errorf("failed to create student: %w", err)
		}

		if err := s.reconciler.RefreshRooms(tx, idOrZero(student.RoomID)); err != nil {
			return err
		}
		status, _, err := s.reconciler.RefreshStudentStatus(tx, student.ID)
		if err != nil {
			return err
		}
		student.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	audit(s.auditRepo, actorID, "student_created",
		fmt.Sprintf("Student %s created in dormitory %d", student.Name, student.DormitoryID),
		map[string]interface{}{"student_id": student.ID, "room_id": student.RoomID})

	return s.studentRepo.GetStudent(scope, student.ID)
}

// UpdateStudent applies a partial update. Moving to another room reserves a bed there
// and both the old and the new room are recounted.
func (s *StudentService) UpdateStudent(scope repository.Scope, id uint, in StudentInput, actorID uint) (*models.Student, error) {
	if err := requireManager(scope); err != nil {
		return nil, err
	}

	var oldRoomID uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		students := s.studentRepo.WithTx(tx)

		existing, err := students.GetStudent(scope, id)
		if err != nil {
			return err
		}
		// only plain columns are written back
		student := *existing
		student.Floor, student.Room, student.Province, student.District = nil, nil, nil, nil
		previous := student

		in.applyTo(&student)
		student.DormitoryID = existing.DormitoryID
		oldRoomID = idOrZero(previous.RoomID)

		if student.Name == "" {
			return invalidf("name is required")
		}
		if err := s.checkPassport(tx, student.Passport, student.ID); err != nil {
			return err
		}
		if err := s.checkPlacement(tx, &student, &previous); err != nil {
			return err
		}

		if err := students.SaveStudent(&student); err != nil {
			return fmt.Errorf("failed to update student: %w", err)
		}

		if err := s.reconciler.RefreshRooms(tx, oldRoomID, idOrZero(student.RoomID)); err != nil {
			return err
		}
		_, _, err = s.reconciler.RefreshStudentStatus(tx, student.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	audit(s.auditRepo, actorID, "student_updated", fmt.Sprintf("Student %d updated", id), in)

	return s.studentRepo.GetStudent(scope, id)
}

// DeleteStudent removes a student and recounts the room it occupied
func (s *StudentService) DeleteStudent(scope repository.Scope, id uint, actorID uint) error {
	if err := requireManager(scope); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		students := s.studentRepo.WithTx(tx)

		student, err := students.GetStudent(scope, id)
		if err != nil {
			return err
		}
		if err := students.DeleteStudent(student.ID); err != nil {
			return fmt.Errorf("failed to delete student: %w", err)
		}
		return s.reconciler.RefreshRooms(tx, idOrZero(student.RoomID))
	})
	if err != nil {
		return err
	}

	audit(s.auditRepo, actorID, "student_deleted", fmt.Sprintf("Student %d deleted", id), nil)
	return nil
}

func (s *StudentService) checkPassport(tx *gorm.DB, passport *string, excludeID uint) error {
	if passport == nil {
		return nil
	}
	taken, err := s.studentRepo.WithTx(tx).PassportTaken(*passport, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return ErrDuplicatePassport
	}
	return nil
}

// checkPlacement validates the floor and room of a student and reserves a bed
// when the room changes. previous is nil on create.
func (s *StudentService) checkPlacement(tx *gorm.DB, student *models.Student, previous *models.Student) error {
	roomChanged := previous == nil || !sameID(previous.RoomID, student.RoomID)
	genderChanged := previous != nil && previous.Gender != student.Gender

	if student.RoomID == nil {
		// leaving the floor unset keeps whatever was there; a new floor must be valid
		if student.FloorID != nil && (previous == nil || !sameID(previous.FloorID, student.FloorID)) {
			return s.checkFloor(tx, student)
		}
		return nil
	}

	// a student with a bed is always placed, whatever the request says
	student.PlacementStatus = models.PlacementPlaced

	if !roomChanged && !genderChanged && sameID(previous.FloorID, student.FloorID) {
		return nil
	}

	rooms := s.roomRepo.WithTx(tx)
	room, err := rooms.LockRoom(*student.RoomID)
	if errors.Is(err, repository.ErrNotFound) {
		return invalidf("room %d does not exist", *student.RoomID)
	}
	if err != nil {
		return err
	}

	if room.Floor == nil || room.Floor.DormitoryID != student.DormitoryID {
		return invalidf("room %d does not belong to the dormitory", room.ID)
	}
	// an inherited floor follows the room, an explicitly chosen one must match it
	floorChanged := previous == nil || !sameID(previous.FloorID, student.FloorID)
	if student.FloorID != nil && *student.FloorID != room.FloorID && floorChanged {
		return invalidf("room %d is not on floor %d", room.ID, *student.FloorID)
	}
	floorID := room.FloorID
	student.FloorID = &floorID

	if student.Gender.RoomGender() != room.Gender {
		return ErrGenderMismatch
	}
	if !roomChanged {
		return nil
	}

	// the cached counter may have drifted; reserve against the real count
	actual, err := rooms.CountStudents(room.ID)
	if err != nil {
		return err
	}
	if actual != room.CurrentOccupancy {
		if err := rooms.SetOccupancy(room.ID, actual, models.ComputeRoomStatus(actual, room.Capacity)); err != nil {
			return err
		}
	}

	reserved, err := rooms.ReserveBed(room.ID)
	if err != nil {
		return fmt.Errorf("failed to reserve bed in room %d: %w", room.ID, err)
	}
	if !reserved {
		return ErrRoomFull
	}
	return nil
}

func (s *StudentService) checkFloor(tx *gorm.DB, student *models.Student) error {
	floor, err := s.floorRepo.WithTx(tx).GetFloorByID(*student.FloorID)
	if errors.Is(err, repository.ErrNotFound) {
		return invalidf("floor %d does not exist", *student.FloorID)
	}
	if err != nil {
		return err
	}
	if floor.DormitoryID != student.DormitoryID {
		return invalidf("floor %d does not belong to the dormitory", floor.ID)
	}
	if student.Gender.RoomGender() != floor.Gender {
		return ErrGenderMismatch
	}
	return nil
}
