package repository

import (
	"dormitory-backend/internal/models"

	"gorm.io/gorm"
)

type DormitoryRepository struct {
	db *gorm.DB
}

func NewDormitoryRepo(db *gorm.DB) *DormitoryRepository {
	return &DormitoryRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *DormitoryRepository) WithTx(tx *gorm.DB) *DormitoryRepository {
	return &DormitoryRepository{db: tx}
}

// DormitoryFilter narrows dormitory listings
type DormitoryFilter struct {
	UniversityID uint
	ActiveOnly   bool
	Search       string
}

// GetAllDormitories lists dormitories with their university, amenities and images
func (r *DormitoryRepository) GetAllDormitories(filter DormitoryFilter, page Page) ([]models.Dormitory, int64, error) {
	query := r.db.Model(&models.Dormitory{})
	if filter.UniversityID != 0 {
		query = query.Where("university_id = ?", filter.UniversityID)
	}
	if filter.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR address LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var dormitories []models.Dormitory
	err := query.Scopes(page.apply).
		Preload("University").
		Preload("Amenities").
		Preload("Images").
		Order("id ASC").
		Find(&dormitories).Error
	return dormitories, total, err
}

// GetDormitoryByID retrieves a dormitory with its relations
func (r *DormitoryRepository) GetDormitoryByID(id uint) (*models.Dormitory, error) {
	var dormitory models.Dormitory
	err := r.db.Preload("University").
		Preload("Amenities").
		Preload("Images").
		First(&dormitory, id).Error
	if err != nil {
		return nil, translate(err, "dormitory")
	}
	return &dormitory, nil
}

// GetDormitoryByAdminID retrieves the dormitory administered by a user
func (r *DormitoryRepository) GetDormitoryByAdminID(adminID uint) (*models.Dormitory, error) {
	var dormitory models.Dormitory
	if err := r.db.Where("admin_id = ?", adminID).First(&dormitory).Error; err != nil {
		return nil, translate(err, "dormitory")
	}
	return &dormitory, nil
}

// AdminTaken reports whether the user already administers another dormitory
func (r *DormitoryRepository) AdminTaken(adminID uint, excludeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Dormitory{}).
		Where("admin_id = ? AND id <> ?", adminID, excludeID).
		Count(&count).Error
	return count > 0, err
}

// CreateDormitory creates a new dormitory together with its amenity links
func (r *DormitoryRepository) CreateDormitory(dormitory *models.Dormitory) error {
	return r.db.Create(dormitory).Error
}

// UpdateDormitory applies the given column updates
func (r *DormitoryRepository) UpdateDormitory(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Dormitory{}).Where("id = ?", id).Updates(updates).Error
}

// ReplaceAmenities sets the amenity links of a dormitory
func (r *DormitoryRepository) ReplaceAmenities(dormitory *models.Dormitory, amenities []models.Amenity) error {
	return r.db.Model(dormitory).Association("Amenities").Replace(amenities)
}

// DeleteDormitory removes a dormitory along with its amenity links and images
func (r *DormitoryRepository) DeleteDormitory(dormitory *models.Dormitory) error {
	if err := r.db.Model(dormitory).Association("Amenities").Clear(); err != nil {
		return err
	}
	if err := r.db.Where("dormitory_id = ?", dormitory.ID).Delete(&models.DormitoryImage{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.Dormitory{}, dormitory.ID).Error
}

// AddImage attaches an image path to a dormitory
func (r *DormitoryRepository) AddImage(image *models.DormitoryImage) error {
	return r.db.Create(image).Error
}

// DeleteImage removes an image of a dormitory
func (r *DormitoryRepository) DeleteImage(dormitoryID, imageID uint) error {
	result := r.db.Where("id = ? AND dormitory_id = ?", imageID, dormitoryID).Delete(&models.DormitoryImage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "image")
	}
	return nil
}

// CountFloors counts the floors of a dormitory
func (r *DormitoryRepository) CountFloors(dormitoryID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Floor{}).Where("dormitory_id = ?", dormitoryID).Count(&count).Error
	return count, err
}
