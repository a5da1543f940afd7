package repository

import (
	"strings"

	"dormitory-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StudentRepository struct {
	db *gorm.DB
}

func NewStudentRepo(db *gorm.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *StudentRepository) WithTx(tx *gorm.DB) *StudentRepository {
	return &StudentRepository{db: tx}
}

// StudentFilter narrows student listings
type StudentFilter struct {
	DormitoryID     uint
	FloorID         uint
	RoomID          uint
	Faculty         string
	Course          string
	Gender          models.StudentGender
	Status          models.StudentStatus
	PlacementStatus models.PlacementStatus
	Name            string
	LastName        string
	Search          string
	// MaxPayment keeps students whose approved payments sum to less than this amount
	MaxPayment *int64
}

func (f StudentFilter) apply(db *gorm.DB) *gorm.DB {
	if f.DormitoryID != 0 {
		db = db.Where("students.dormitory_id = ?", f.DormitoryID)
	}
	if f.FloorID != 0 {
		db = db.Where("students.floor_id = ?", f.FloorID)
	}
	if f.RoomID != 0 {
		db = db.Where("students.room_id = ?", f.RoomID)
	}
	if f.Faculty != "" {
		db = db.Where("students.faculty = ?", f.Faculty)
	}
	if f.Course != "" {
		db = db.Where("students.course = ?", f.Course)
	}
	if f.Gender != "" {
		db = db.Where("students.gender = ?", f.Gender)
	}
	if f.Status != "" {
		db = db.Where("students.status = ?", f.Status)
	}
	if f.PlacementStatus != "" {
		db = db.Where("students.placement_status = ?", f.PlacementStatus)
	}
	if f.Name != "" {
		db = db.Where("LOWER(students.name) LIKE ?", "%"+strings.ToLower(f.Name)+"%")
	}
	if f.LastName != "" {
		db = db.Where("LOWER(students.last_name) LIKE ?", "%"+strings.ToLower(f.LastName)+"%")
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		db = db.Where("students.name LIKE ? OR students.last_name LIKE ? OR students.passport LIKE ?", like, like, like)
	}
	if f.MaxPayment != nil {
		paid := subquery(db).Model(&models.Payment{}).
			Select("COALESCE(SUM(payments.amount), 0)").
			Where("payments.student_id = students.id AND payments.status = ?", models.PaymentApproved)
		db = db.Where("(?) < ?", paid, *f.MaxPayment)
	}
	return db
}

// GetAllStudents retrieves the students visible to the scope
func (r *StudentRepository) GetAllStudents(scope Scope, filter StudentFilter, page Page) ([]models.Student, int64, error) {
	query := r.db.Model(&models.Student{}).Scopes(scope.Students(), filter.apply)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var students []models.Student
	err := query.Scopes(page.apply).
		Preload("Floor").
		Preload("Room").
		Order("students.id DESC").
		Find(&students).Error
	return students, total, err
}

// GetStudent retrieves a student visible to the scope
func (r *StudentRepository) GetStudent(scope Scope, id uint) (*models.Student, error) {
	var student models.Student
	err := r.db.Scopes(scope.Students()).
		Preload("Floor").
		Preload("Room").
		Preload("Province").
		Preload("District").
		Where("students.id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, translate(err, "student")
	}
	return &student, nil
}

// GetStudentByID retrieves a student regardless of scope
func (r *StudentRepository) GetStudentByID(id uint) (*models.Student, error) {
	var student models.Student
	if err := r.db.First(&student, id).Error; err != nil {
		return nil, translate(err, "student")
	}
	return &student, nil
}

// GetStudentByUserID retrieves the student record linked to a user account
func (r *StudentRepository) GetStudentByUserID(userID uint) (*models.Student, error) {
	var student models.Student
	err := r.db.Preload("Dormitory").
		Preload("Floor").
		Preload("Room").
		Where("user_id = ?", userID).
		First(&student).Error
	if err != nil {
		return nil, translate(err, "student")
	}
	return &student, nil
}

// GetStudentByPassport retrieves a student by passport
func (r *StudentRepository) GetStudentByPassport(passport string) (*models.Student, error) {
	var student models.Student
	if err := r.db.Where("passport = ?", passport).First(&student).Error; err != nil {
		return nil, translate(err, "student")
	}
	return &student, nil
}

// PassportTaken reports whether another student already uses the passport
func (r *StudentRepository) PassportTaken(passport string, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Student{}).
		Where("passport = ? AND id <> ?", passport, excludeID).
		Count(&count).Error
	return count > 0, err
}

// CreateStudent creates a new student
func (r *StudentRepository) CreateStudent(student *models.Student) error {
	return r.db.Create(student).Error
}

// SaveStudent writes every column of the student, zero values included
func (r *StudentRepository) SaveStudent(student *models.Student) error {
	return r.db.Select("*").Omit("CreatedAt", clause.Associations).Updates(student).Error
}

// DeleteStudent permanently deletes a student
func (r *StudentRepository) DeleteStudent(id uint) error {
	return r.db.Delete(&models.Student{}, id).Error
}

// UpdateStatus stores a recomputed debt label
func (r *StudentRepository) UpdateStatus(id uint, status models.StudentStatus) error {
	return r.db.Model(&models.Student{}).Where("id = ?", id).Update("status", status).Error
}

// CountByDormitory counts the students of a dormitory
func (r *StudentRepository) CountByDormitory(dormitoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Student{}).Where("dormitory_id = ?", dormitoryID).Count(&count).Error
	return count, err
}

// ListStudentsOnFloor returns the students living on a floor
func (r *StudentRepository) ListStudentsOnFloor(floorID uint) ([]models.Student, error) {
	var students []models.Student
	err := r.db.Where("floor_id = ?", floorID).Order("name ASC").Find(&students).Error
	return students, err
}

// ListStudentIDsAfter returns up to limit student IDs greater than afterID, ascending
func (r *StudentRepository) ListStudentIDsAfter(afterID uint, limit int) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Student{}).
		Where("id > ?", afterID).
		Order("id ASC").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// ListUserIDsByDormitory returns the user accounts linked to students of a dormitory
func (r *StudentRepository) ListUserIDsByDormitory(dormitoryID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Student{}).
		Where("dormitory_id = ? AND user_id IS NOT NULL", dormitoryID).
		Distinct().
		Pluck("user_id", &ids).Error
	return ids, err
}

// UserInDormitory reports whether the user account belongs to a student of the dormitory
func (r *StudentRepository) UserInDormitory(userID, dormitoryID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Student{}).
		Where("user_id = ? AND dormitory_id = ?", userID, dormitoryID).
		Count(&count).Error
	return count > 0, err
}
