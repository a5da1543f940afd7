package service

import (
	"fmt"
	"strings"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
)

// ApartmentService publishes rental listings of landlords
type ApartmentService struct {
	apartmentRepo *repository.ApartmentRepository
	catalog       *CatalogService
}

func NewApartmentService(apartmentRepo *repository.ApartmentRepository, catalog *CatalogService) *ApartmentService {
	return &ApartmentService{
		apartmentRepo: apartmentRepo,
		catalog:       catalog,
	}
}

type ApartmentInput struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=255"`
	Address     *string `json:"address" binding:"omitempty,min=1,max=255"`
	ProvinceID  *uint   `json:"province_id"`
	DistrictID  *uint   `json:"district_id"`
	RoomsCount  *int    `json:"rooms_count" binding:"omitempty,min=1"`
	Price       *int64  `json:"price" binding:"omitempty,min=0"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// GetApartments lists listings; anonymous and non-landlord callers see active ones only
func (s *ApartmentService) GetApartments(filter repository.ApartmentFilter, page repository.Page) ([]models.Apartment, int64, error) {
	return s.apartmentRepo.GetAllApartments(filter, page)
}

func (s *ApartmentService) GetApartment(id uint) (*models.Apartment, error) {
	return s.apartmentRepo.GetApartmentByID(id)
}

// CreateApartment publishes a listing owned by the calling landlord
func (s *ApartmentService) CreateApartment(scope repository.Scope, in ApartmentInput) (*models.Apartment, error) {
	if scope.Role != models.RoleLandlord {
		return nil, forbiddenf("only landlords can publish apartments")
	}
	if in.Title == nil || in.Address == nil || in.Price == nil {
		return nil, invalidf("title, address and price are required")
	}
	if err := s.catalog.CheckLocation(in.ProvinceID, in.DistrictID); err != nil {
		return nil, err
	}

	apartment := &models.Apartment{
		LandlordID: scope.UserID,
		Title:      strings.TrimSpace(*in.Title),
		Address:    strings.TrimSpace(*in.Address),
		ProvinceID: in.ProvinceID,
		DistrictID: in.DistrictID,
		RoomsCount: 1,
		Price:      *in.Price,
		IsActive:   true,
	}
	if in.RoomsCount != nil {
		apartment.RoomsCount = *in.RoomsCount
	}
	if in.Description != nil {
		apartment.Description = *in.Description
	}

	if err := s.apartmentRepo.CreateApartment(apartment); err != nil {
		return nil, fmt.Errorf("failed to create apartment: %w", err)
	}
	if in.IsActive != nil && !*in.IsActive {
		if err := s.apartmentRepo.UpdateApartment(apartment.ID, map[string]interface{}{"is_active": false}); err != nil {
			return nil, err
		}
		apartment.IsActive = false
	}
	return apartment, nil
}

// UpdateApartment changes a listing of the calling landlord
func (s *ApartmentService) UpdateApartment(scope repository.Scope, id uint, in ApartmentInput) (*models.Apartment, error) {
	apartment, err := s.owned(scope, id)
	if err != nil {
		return nil, err
	}

	province, district := apartment.ProvinceID, apartment.DistrictID
	if in.ProvinceID != nil {
		province = in.ProvinceID
	}
	if in.DistrictID != nil {
		district = in.DistrictID
	}
	if err := s.catalog.CheckLocation(province, district); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Address != nil {
		updates["address"] = strings.TrimSpace(*in.Address)
	}
	if in.ProvinceID != nil {
		updates["province_id"] = *in.ProvinceID
	}
	if in.DistrictID != nil {
		updates["district_id"] = *in.DistrictID
	}
	if in.RoomsCount != nil {
		updates["rooms_count"] = *in.RoomsCount
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if len(updates) > 0 {
		if err := s.apartmentRepo.UpdateApartment(id, updates); err != nil {
			return nil, fmt.Errorf("failed to update apartment: %w", err)
		}
	}
	return s.apartmentRepo.GetApartmentByID(id)
}

// DeleteApartment removes a listing of the calling landlord; a superadmin may remove any
func (s *ApartmentService) DeleteApartment(scope repository.Scope, id uint) error {
	if _, err := s.owned(scope, id); err != nil {
		return err
	}
	return s.apartmentRepo.DeleteApartment(id)
}

func (s *ApartmentService) owned(scope repository.Scope, id uint) (*models.Apartment, error) {
	apartment, err := s.apartmentRepo.GetApartmentByID(id)
	if err != nil {
		return nil, err
	}
	if !scope.IsSuperAdmin() && apartment.LandlordID != scope.UserID {
		return nil, forbiddenf("apartment %d belongs to another landlord", id)
	}
	return apartment, nil
}
