package service

import (
	"fmt"
	"strings"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
)

// CatalogService manages universities, amenities and the location directory
type CatalogService struct {
	catalogRepo *repository.CatalogRepository
	auditRepo   *repository.AuditRepository
}

func NewCatalogService(catalogRepo *repository.CatalogRepository, auditRepo *repository.AuditRepository) *CatalogService {
	return &CatalogService{
		catalogRepo: catalogRepo,
		auditRepo:   auditRepo,
	}
}

type UniversityInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=120"`
	Address     *string `json:"address" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
	Contact     *string `json:"contact"`
	Logo        *string `json:"logo" binding:"omitempty,max=255"`
}

type AmenityInput struct {
	Name     string `json:"name" binding:"required,max=120"`
	IsActive *bool  `json:"is_active"`
}

type DistrictInput struct {
	Name       string `json:"name" binding:"required,max=255"`
	ProvinceID uint   `json:"province_id" binding:"required"`
}

func superAdminOnly(scope repository.Scope) error {
	if !scope.IsSuperAdmin() {
		return forbiddenf("superadmin access required")
	}
	return nil
}

func (s *CatalogService) GetUniversities() ([]models.University, error) {
	return s.catalogRepo.GetAllUniversities()
}

func (s *CatalogService) GetUniversity(id uint) (*models.University, error) {
	return s.catalogRepo.GetUniversityByID(id)
}

// CreateUniversity adds a university (superadmin only)
func (s *CatalogService) CreateUniversity(scope repository.Scope, in UniversityInput, actorID uint) (*models.University, error) {
	if err := superAdminOnly(scope); err != nil {
		return nil, err
	}
	if in.Name == nil || in.Address == nil {
		return nil, invalidf("name and address are required")
	}

	university := &models.University{
		Name:    strings.TrimSpace(*in.Name),
		Address: strings.TrimSpace(*in.Address),
	}
	if in.Description != nil {
		university.Description = *in.Description
	}
	if in.Contact != nil {
		university.Contact = *in.Contact
	}
	if in.Logo != nil {
		university.Logo = *in.Logo
	}

	if err := s.catalogRepo.CreateUniversity(university); err != nil {
		return nil, fmt.Errorf("failed to create university: %w", err)
	}
	audit(s.auditRepo, actorID, "university_created", fmt.Sprintf("University %s created", university.Name), nil)
	return university, nil
}

// UpdateUniversity changes a university (superadmin only)
func (s *CatalogService) UpdateUniversity(scope repository.Scope, id uint, in UniversityInput) (*models.University, error) {
	if err := superAdminOnly(scope); err != nil {
		return nil, err
	}
	if _, err := s.catalogRepo.GetUniversityByID(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		updates["address"] = strings.TrimSpace(*in.Address)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Contact != nil {
		updates["contact"] = *in.Contact
	}
	if in.Logo != nil {
		updates["logo"] = *in.Logo
	}
	if len(updates) > 0 {
		if err := s.catalogRepo.UpdateUniversity(id, updates); err != nil {
			return nil, fmt.Errorf("failed to update university: %w", err)
		}
	}
	return s.catalogRepo.GetUniversityByID(id)
}

// DeleteUniversity removes a university no dormitory refers to (superadmin only)
func (s *CatalogService) DeleteUniversity(scope repository.Scope, id uint, actorID uint) error {
	if err := superAdminOnly(scope); err != nil {
		return err
	}
	university, err := s.catalogRepo.GetUniversityByID(id)
	if err != nil {
		return err
	}
	count, err := s.catalogRepo.CountDormitories(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return invalidf("university still has %d dormitories", count)
	}
	if err := s.catalogRepo.DeleteUniversity(id); err != nil {
		return fmt.Errorf("failed to delete university: %w", err)
	}
	audit(s.auditRepo, actorID, "university_deleted", fmt.Sprintf("University %s deleted", university.Name), nil)
	return nil
}

func (s *CatalogService) GetAmenities(activeOnly bool) ([]models.Amenity, error) {
	return s.catalogRepo.GetAllAmenities(activeOnly)
}

// CreateAmenity adds an amenity (superadmin only)
func (s *CatalogService) CreateAmenity(scope repository.Scope, in AmenityInput) (*models.Amenity, error) {
	if err := superAdminOnly(scope); err != nil {
		return nil, err
	}
	amenity := &models.Amenity{Name: strings.TrimSpace(in.Name), IsActive: true}
	if amenity.Name == "" {
		return nil, invalidf("name is required")
	}
	if err := s.catalogRepo.CreateAmenity(amenity); err != nil {
		return nil, fmt.Errorf("failed to create amenity: %w", err)
	}
	if in.IsActive != nil && !*in.IsActive {
		if err := s.catalogRepo.UpdateAmenity(amenity.ID, map[string]interface{}{"is_active": false}); err != nil {
			return nil, err
		}
		amenity.IsActive = false
	}
	return amenity, nil
}

// SetAmenityActive toggles whether an amenity is offered (superadmin only)
func (s *CatalogService) SetAmenityActive(scope repository.Scope, id uint, active bool) error {
	if err := superAdminOnly(scope); err != nil {
		return err
	}
	return s.catalogRepo.UpdateAmenity(id, map[string]interface{}{"is_active": active})
}

// DeleteAmenity removes an amenity and detaches it from dormitories (superadmin only)
func (s *CatalogService) DeleteAmenity(scope repository.Scope, id uint) error {
	if err := superAdminOnly(scope); err != nil {
		return err
	}
	return s.catalogRepo.DeleteAmenity(id)
}

func (s *CatalogService) GetProvinces() ([]models.Province, error) {
	return s.catalogRepo.GetAllProvinces()
}

func (s *CatalogService) GetDistricts(provinceID uint) ([]models.District, error) {
	return s.catalogRepo.GetDistricts(provinceID)
}

// CreateProvince adds a province (superadmin only)
func (s *CatalogService) CreateProvince(scope repository.Scope, name string) (*models.Province, error) {
	if err := superAdminOnly(scope); err != nil {
		return nil, err
	}
	province := &models.Province{Name: strings.TrimSpace(name)}
	if province.Name == "" {
		return nil, invalidf("name is required")
	}
	if err := s.catalogRepo.CreateProvince(province); err != nil {
		return nil, fmt.Errorf("failed to create province: %w", err)
	}
	return province, nil
}

// CreateDistrict adds a district to a province (superadmin only)
func (s *CatalogService) CreateDistrict(scope repository.Scope, in DistrictInput) (*models.District, error) {
	if err := superAdminOnly(scope); err != nil {
		return nil, err
	}
	provinces, err := s.catalogRepo.GetAllProvinces()
	if err != nil {
		return nil, err
	}
	found := false
	for _, p := range provinces {
		if p.ID == in.ProvinceID {
			found = true
			break
		}
	}
	if !found {
		return nil, invalidf("province %d does not exist", in.ProvinceID)
	}

	district := &models.District{Name: strings.TrimSpace(in.Name), ProvinceID: in.ProvinceID}
	if err := s.catalogRepo.CreateDistrict(district); err != nil {
		return nil, fmt.Errorf("failed to create district: %w", err)
	}
	return district, nil
}

// CheckLocation validates that a district, when given, lies in the province
func (s *CatalogService) CheckLocation(provinceID, districtID *uint) error {
	if districtID == nil || *districtID == 0 {
		return nil
	}
	if provinceID == nil || *provinceID == 0 {
		return invalidf("province_id is required with district_id")
	}
	ok, err := s.catalogRepo.DistrictInProvince(*districtID, *provinceID)
	if err != nil {
		return err
	}
	if !ok {
		return invalidf("district %d is not in province %d", *districtID, *provinceID)
	}
	return nil
}
