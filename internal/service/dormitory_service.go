package service

import (
	"errors"
	"fmt"
	"strings"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"

	"gorm.io/gorm"
)

type DormitoryService struct {
	db            *gorm.DB
	dormitoryRepo *repository.DormitoryRepository
	catalogRepo   *repository.CatalogRepository
	userRepo      *repository.UserRepository
	studentRepo   *repository.StudentRepository
	auditRepo     *repository.AuditRepository
}

func NewDormitoryService(
	db *gorm.DB,
	dormitoryRepo *repository.DormitoryRepository,
	catalogRepo *repository.CatalogRepository,
	userRepo *repository.UserRepository,
	studentRepo *repository.StudentRepository,
	auditRepo *repository.AuditRepository,
) *DormitoryService {
	return &DormitoryService{
		db:            db,
		dormitoryRepo: dormitoryRepo,
		catalogRepo:   catalogRepo,
		userRepo:      userRepo,
		studentRepo:   studentRepo,
		auditRepo:     auditRepo,
	}
}

// DormitoryInput carries the writable fields of a dormitory
type DormitoryInput struct {
	Name         *string  `json:"name" binding:"omitempty,min=1,max=120"`
	Address      *string  `json:"address" binding:"omitempty,min=1,max=255"`
	UniversityID *uint    `json:"university_id"`
	AdminID      *uint    `json:"admin_id"`
	Description  *string  `json:"description"`
	MonthPrice   *int     `json:"month_price" binding:"omitempty,min=0"`
	YearPrice    *int     `json:"year_price" binding:"omitempty,min=0"`
	Latitude     *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude    *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Rating       *int     `json:"rating" binding:"omitempty,min=1,max=5"`
	IsActive     *bool    `json:"is_active"`
	AmenityIDs   []uint   `json:"amenity_ids"`
}

// GetDormitories lists dormitories; the public listing only shows active ones
func (s *DormitoryService) GetDormitories(filter repository.DormitoryFilter, page repository.Page) ([]models.Dormitory, int64, error) {
	return s.dormitoryRepo.GetAllDormitories(filter, page)
}

// GetDormitory returns a dormitory with its amenities and images
func (s *DormitoryService) GetDormitory(id uint) (*models.Dormitory, error) {
	return s.dormitoryRepo.GetDormitoryByID(id)
}

// CreateDormitory creates a dormitory and hands it to an admin user (superadmin only)
func (s *DormitoryService) CreateDormitory(scope repository.Scope, in DormitoryInput, actorID uint) (*models.Dormitory, error) {
	if !scope.IsSuperAdmin() {
		return nil, forbiddenf("only a superadmin can create dormitories")
	}
	if in.Name == nil || in.Address == nil || in.UniversityID == nil || in.AdminID == nil {
		return nil, invalidf("name, address, university_id and admin_id are required")
	}

	if err := s.checkUniversity(*in.UniversityID); err != nil {
		return nil, err
	}
	if err := s.checkAdmin(*in.AdminID, 0); err != nil {
		return nil, err
	}
	amenities, err := s.amenities(in.AmenityIDs)
	if err != nil {
		return nil, err
	}

	dormitory := &models.Dormitory{
		Name:         strings.TrimSpace(*in.Name),
		Address:      strings.TrimSpace(*in.Address),
		UniversityID: *in.UniversityID,
		AdminID:      *in.AdminID,
		MonthPrice:   in.MonthPrice,
		YearPrice:    in.YearPrice,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		Rating:       in.Rating,
		IsActive:     true,
		Amenities:    amenities,
	}
	if in.Description != nil {
		dormitory.Description = *in.Description
	}
	if in.IsActive != nil {
		dormitory.IsActive = *in.IsActive
	}

	if err := s.dormitoryRepo.CreateDormitory(dormitory); err != nil {
		return nil, fmt.Errorf("failed to create dormitory: %w", err)
	}
	if in.IsActive != nil && !*in.IsActive {
		// a false bool is a zero value and would have been replaced by the column default
		if err := s.dormitoryRepo.UpdateDormitory(dormitory.ID, map[string]interface{}{"is_active": false}); err != nil {
			return nil, err
		}
	}

	audit(s.auditRepo, actorID, "dormitory_created",
		fmt.Sprintf("Dormitory %s created for admin %d", dormitory.Name, dormitory.AdminID), nil)
	return s.dormitoryRepo.GetDormitoryByID(dormitory.ID)
}

// UpdateDormitory changes a dormitory; its own admin may edit everything but the owner
func (s *DormitoryService) UpdateDormitory(scope repository.Scope, id uint, in DormitoryInput, actorID uint) (*models.Dormitory, error) {
	if err := canManageDormitory(scope, id); err != nil {
		return nil, err
	}

	dormitory, err := s.dormitoryRepo.GetDormitoryByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		updates["address"] = strings.TrimSpace(*in.Address)
	}
	if in.UniversityID != nil {
		if err := s.checkUniversity(*in.UniversityID); err != nil {
			return nil, err
		}
		updates["university_id"] = *in.UniversityID
	}
	if in.AdminID != nil && *in.AdminID != dormitory.AdminID {
		if !scope.IsSuperAdmin() {
			return nil, forbiddenf("only a superadmin can hand a dormitory to another admin")
		}
		if err := s.checkAdmin(*in.AdminID, dormitory.ID); err != nil {
			return nil, err
		}
		updates["admin_id"] = *in.AdminID
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.MonthPrice != nil {
		updates["month_price"] = *in.MonthPrice
	}
	if in.YearPrice != nil {
		updates["year_price"] = *in.YearPrice
	}
	if in.Latitude != nil {
		updates["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		updates["longitude"] = *in.Longitude
	}
	if in.Rating != nil {
		updates["rating"] = *in.Rating
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		dormitories := s.dormitoryRepo.WithTx(tx)
		if len(updates) > 0 {
			if err := dormitories.UpdateDormitory(dormitory.ID, updates); err != nil {
				return fmt.Errorf("failed to update dormitory: %w", err)
			}
		}
		if in.AmenityIDs != nil {
			amenities, err := s.amenities(in.AmenityIDs)
			if err != nil {
				return err
			}
			return dormitories.ReplaceAmenities(dormitory, amenities)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	audit(s.auditRepo, actorID, "dormitory_updated", fmt.Sprintf("Dormitory %d updated", id), nil)
	return s.dormitoryRepo.GetDormitoryByID(id)
}

// DeleteDormitory removes an empty dormitory (superadmin only)
func (s *DormitoryService) DeleteDormitory(scope repository.Scope, id uint, actorID uint) error {
	if !scope.IsSuperAdmin() {
		return forbiddenf("only a superadmin can delete dormitories")
	}

	dormitory, err := s.dormitoryRepo.GetDormitoryByID(id)
	if err != nil {
		return err
	}
	floors, err := s.dormitoryRepo.CountFloors(id)
	if err != nil {
		return err
	}
	students, err := s.studentRepo.CountByDormitory(id)
	if err != nil {
		return err
	}
	if floors > 0 || students > 0 {
		return invalidf("dormitory still has %d floors and %d students", floors, students)
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		return s.dormitoryRepo.WithTx(tx).DeleteDormitory(dormitory)
	})
	if err != nil {
		return fmt.Errorf("failed to delete dormitory: %w", err)
	}

	audit(s.auditRepo, actorID, "dormitory_deleted", fmt.Sprintf("Dormitory %s deleted", dormitory.Name), nil)
	return nil
}

// AddImage attaches a stored image path to a dormitory
func (s *DormitoryService) AddImage(scope repository.Scope, id uint, path string) (*models.DormitoryImage, error) {
	if err := canManageDormitory(scope, id); err != nil {
		return nil, err
	}
	if _, err := s.dormitoryRepo.GetDormitoryByID(id); err != nil {
		return nil, err
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, invalidf("path is required")
	}
	image := &models.DormitoryImage{DormitoryID: id, Path: path}
	if err := s.dormitoryRepo.AddImage(image); err != nil {
		return nil, fmt.Errorf("failed to add image: %w", err)
	}
	return image, nil
}

// DeleteImage detaches an image from a dormitory
func (s *DormitoryService) DeleteImage(scope repository.Scope, id, imageID uint) error {
	if err := canManageDormitory(scope, id); err != nil {
		return err
	}
	return s.dormitoryRepo.DeleteImage(id, imageID)
}

func (s *DormitoryService) checkUniversity(id uint) error {
	_, err := s.catalogRepo.GetUniversityByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return invalidf("university %d does not exist", id)
	}
	return err
}

// checkAdmin makes sure the user is an admin without another dormitory
func (s *DormitoryService) checkAdmin(userID, dormitoryID uint) error {
	user, err := s.userRepo.GetUserByID(userID)
	if errors.Is(err, repository.ErrNotFound) {
		return invalidf("user %d does not exist", userID)
	}
	if err != nil {
		return err
	}
	if user.Role != models.RoleAdmin {
		return invalidf("user %s is not an admin", user.Username)
	}
	taken, err := s.dormitoryRepo.AdminTaken(userID, dormitoryID)
	if err != nil {
		return err
	}
	if taken {
		return invalidf("user %s already administers a dormitory", user.Username)
	}
	return nil
}

func (s *DormitoryService) amenities(ids []uint) ([]models.Amenity, error) {
	amenities, err := s.catalogRepo.GetAmenitiesByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(amenities) != len(uniqueIDs(ids)) {
		return nil, invalidf("unknown amenity in %v", ids)
	}
	return amenities, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
