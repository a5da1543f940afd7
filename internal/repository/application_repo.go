package repository

import (
	"dormitory-backend/internal/models"

	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *ApplicationRepository) WithTx(tx *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: tx}
}

// ApplicationFilter narrows application listings
type ApplicationFilter struct {
	Status models.ApplicationStatus
	Search string
}

// GetAllApplications retrieves the applications visible to the scope, newest first
func (r *ApplicationRepository) GetAllApplications(scope Scope, filter ApplicationFilter, page Page) ([]models.Application, int64, error) {
	query := r.db.Model(&models.Application{}).Scopes(scope.Applications())
	if filter.Status != "" {
		query = query.Where("applications.status = ?", filter.Status)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("applications.name LIKE ? OR applications.passport LIKE ? OR applications.phone LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var applications []models.Application
	err := query.Scopes(page.apply).
		Preload("Dormitory").
		Order("applications.id DESC").
		Find(&applications).Error
	return applications, total, err
}

// GetApplication retrieves an application visible to the scope
func (r *ApplicationRepository) GetApplication(scope Scope, id uint) (*models.Application, error) {
	var application models.Application
	err := r.db.Scopes(scope.Applications()).
		Preload("Dormitory").
		Preload("Room").
		Where("applications.id = ?", id).
		First(&application).Error
	if err != nil {
		return nil, translate(err, "application")
	}
	return &application, nil
}

// LatestByPassport returns the newest application carrying the passport
func (r *ApplicationRepository) LatestByPassport(passport string) (*models.Application, error) {
	var application models.Application
	err := r.db.Where("passport = ?", passport).Order("id DESC").First(&application).Error
	if err != nil {
		return nil, translate(err, "application")
	}
	return &application, nil
}

// HasPending reports whether the passport already has a pending application in the dormitory
func (r *ApplicationRepository) HasPending(dormitoryID uint, passport string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Application{}).
		Where("dormitory_id = ? AND passport = ? AND status = ?", dormitoryID, passport, models.ApplicationPending).
		Count(&count).Error
	return count > 0, err
}

// CreateApplication creates a new application
func (r *ApplicationRepository) CreateApplication(application *models.Application) error {
	return r.db.Create(application).Error
}

// UpdateApplication applies the given column updates
func (r *ApplicationRepository) UpdateApplication(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Application{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteApplication permanently deletes an application
func (r *ApplicationRepository) DeleteApplication(id uint) error {
	return r.db.Delete(&models.Application{}, id).Error
}

// CountByStatus groups the applications of a dormitory (0 means every dormitory) by status
func (r *ApplicationRepository) CountByStatus(dormitoryID uint) (map[models.ApplicationStatus]int64, error) {
	var rows []struct {
		Status models.ApplicationStatus
		Count  int64
	}
	query := r.db.Model(&models.Application{}).Select("status, COUNT(*) AS count")
	if dormitoryID != 0 {
		query = query.Where("dormitory_id = ?", dormitoryID)
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.ApplicationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
