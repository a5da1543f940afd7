package repository

import (
	"dormitory-backend/internal/models"

	"gorm.io/gorm"
)

// CatalogRepository serves the reference tables: universities, amenities, provinces and districts
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetAllUniversities lists universities by name
func (r *CatalogRepository) GetAllUniversities() ([]models.University, error) {
	var universities []models.University
	err := r.db.Order("name ASC").Find(&universities).Error
	return universities, err
}

// GetUniversityByID retrieves a university
func (r *CatalogRepository) GetUniversityByID(id uint) (*models.University, error) {
	var university models.University
	if err := r.db.First(&university, id).Error; err != nil {
		return nil, translate(err, "university")
	}
	return &university, nil
}

// CreateUniversity creates a new university
func (r *CatalogRepository) CreateUniversity(university *models.University) error {
	return r.db.Create(university).Error
}

// UpdateUniversity applies the given column updates
func (r *CatalogRepository) UpdateUniversity(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.University{}).Where("id = ?", id).Updates(updates).Error
}

// DeleteUniversity permanently deletes a university
func (r *CatalogRepository) DeleteUniversity(id uint) error {
	return r.db.Delete(&models.University{}, id).Error
}

// CountDormitories counts the dormitories attached to a university
func (r *CatalogRepository) CountDormitories(universityID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Dormitory{}).Where("university_id = ?", universityID).Count(&count).Error
	return count, err
}

// GetAllAmenities lists amenities, optionally only the active ones
func (r *CatalogRepository) GetAllAmenities(activeOnly bool) ([]models.Amenity, error) {
	query := r.db.Model(&models.Amenity{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	var amenities []models.Amenity
	err := query.Order("name ASC").Find(&amenities).Error
	return amenities, err
}

// GetAmenitiesByIDs loads the amenities with the given IDs
func (r *CatalogRepository) GetAmenitiesByIDs(ids []uint) ([]models.Amenity, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var amenities []models.Amenity
	err := r.db.Where("id IN ?", ids).Find(&amenities).Error
	return amenities, err
}

// CreateAmenity creates a new amenity
func (r *CatalogRepository) CreateAmenity(amenity *models.Amenity) error {
	return r.db.Create(amenity).Error
}

// UpdateAmenity applies the given column updates
func (r *CatalogRepository) UpdateAmenity(id uint, updates map[string]interface{}) error {
	result := r.db.Model(&models.Amenity{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "amenity")
	}
	return nil
}

// DeleteAmenity deletes an amenity and its dormitory links
func (r *CatalogRepository) DeleteAmenity(id uint) error {
	if err := r.db.Exec("DELETE FROM dormitory_amenities WHERE amenity_id = ?", id).Error; err != nil {
		return err
	}
	result := r.db.Delete(&models.Amenity{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "amenity")
	}
	return nil
}

// GetAllProvinces lists provinces by name
func (r *CatalogRepository) GetAllProvinces() ([]models.Province, error) {
	var provinces []models.Province
	err := r.db.Order("name ASC").Find(&provinces).Error
	return provinces, err
}

// GetDistricts lists districts, optionally of one province
func (r *CatalogRepository) GetDistricts(provinceID uint) ([]models.District, error) {
	query := r.db.Model(&models.District{})
	if provinceID != 0 {
		query = query.Where("province_id = ?", provinceID)
	}
	var districts []models.District
	err := query.Order("name ASC").Find(&districts).Error
	return districts, err
}

// CreateProvince creates a new province
func (r *CatalogRepository) CreateProvince(province *models.Province) error {
	return r.db.Create(province).Error
}

// CreateDistrict creates a new district
func (r *CatalogRepository) CreateDistrict(district *models.District) error {
	return r.db.Create(district).Error
}

// DistrictInProvince reports whether the district belongs to the province
func (r *CatalogRepository) DistrictInProvince(districtID, provinceID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.District{}).
		Where("id = ? AND province_id = ?", districtID, provinceID).
		Count(&count).Error
	return count > 0, err
}
