package repository

import (
	"dormitory-backend/internal/models"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepo(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// GetTasksByUser lists the tasks of a user, newest first
func (r *TaskRepository) GetTasksByUser(userID uint, status models.TaskStatus) ([]models.Task, error) {
	query := r.db.Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var tasks []models.Task
	err := query.Order("id DESC").Find(&tasks).Error
	return tasks, err
}

// GetTask retrieves a task owned by the user
func (r *TaskRepository) GetTask(userID, id uint) (*models.Task, error) {
	var task models.Task
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&task).Error; err != nil {
		return nil, translate(err, "task")
	}
	return &task, nil
}

// CreateTask creates a new task
func (r *TaskRepository) CreateTask(task *models.Task) error {
	return r.db.Create(task).Error
}

// UpdateTask applies the given column updates to a task owned by the user
func (r *TaskRepository) UpdateTask(userID, id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Task{}).Where("id = ? AND user_id = ?", id, userID).Updates(updates).Error
}

// DeleteTask deletes a task owned by the user
func (r *TaskRepository) DeleteTask(userID, id uint) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Task{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "task")
	}
	return nil
}

type ApartmentRepository struct {
	db *gorm.DB
}

func NewApartmentRepo(db *gorm.DB) *ApartmentRepository {
	return &ApartmentRepository{db: db}
}

// ApartmentFilter narrows apartment listings
type ApartmentFilter struct {
	LandlordID uint
	ProvinceID uint
	DistrictID uint
	ActiveOnly bool
	MaxPrice   int64
}

// GetAllApartments lists apartments matching the filter
func (r *ApartmentRepository) GetAllApartments(filter ApartmentFilter, page Page) ([]models.Apartment, int64, error) {
	query := r.db.Model(&models.Apartment{})
	if filter.LandlordID != 0 {
		query = query.Where("landlord_id = ?", filter.LandlordID)
	}
	if filter.ProvinceID != 0 {
		query = query.Where("province_id = ?", filter.ProvinceID)
	}
	if filter.DistrictID != 0 {
		query = query.Where("district_id = ?", filter.DistrictID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var apartments []models.Apartment
	err := query.Scopes(page.apply).Order("id DESC").Find(&apartments).Error
	return apartments, total, err
}

// GetApartmentByID retrieves an apartment
func (r *ApartmentRepository) GetApartmentByID(id uint) (*models.Apartment, error) {
	var apartment models.Apartment
	if err := r.db.First(&apartment, id).Error; err != nil {
		return nil, translate(err, "apartment")
	}
	return &apartment, nil
}

// CreateApartment creates a new apartment
func (r *ApartmentRepository) CreateApartment(apartment *models.Apartment) error {
	return r.db.Create(apartment).Error
}

// UpdateApartment applies the given column updates
func (r *ApartmentRepository) UpdateApartment(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Apartment{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteApartment permanently deletes an apartment
func (r *ApartmentRepository) DeleteApartment(id uint) error {
	return r.db.Delete(&models.Apartment{}, id).Error
}
