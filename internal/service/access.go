package service

import (
	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
)

// requireManager allows superadmins and admins that own a dormitory
func requireManager(scope repository.Scope) error {
	switch {
	case scope.IsSuperAdmin(), scope.IsDormitoryAdmin():
		return nil
	case scope.Role == models.RoleAdmin:
		return ErrNoDormitory
	default:
		return forbiddenf("only dormitory admins can do this")
	}
}

// targetDormitory picks the dormitory new records are created in:
// the caller's own one, or the requested one for a superadmin
func targetDormitory(scope repository.Scope, requested *uint, floors *repository.FloorRepository) (uint, error) {
	if err := requireManager(scope); err != nil {
		return 0, err
	}
	if scope.IsDormitoryAdmin() {
		return scope.DormitoryID, nil
	}
	if requested == nil || *requested == 0 {
		return 0, invalidf("dormitory_id is required")
	}
	exists, err := floors.DormitoryExists(*requested)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, invalidf("dormitory %d does not exist", *requested)
	}
	return *requested, nil
}

// canManageDormitory reports whether the caller may write inside the dormitory
func canManageDormitory(scope repository.Scope, dormitoryID uint) error {
	if err := requireManager(scope); err != nil {
		return err
	}
	if scope.IsSuperAdmin() || scope.DormitoryID == dormitoryID {
		return nil
	}
	return forbiddenf("dormitory %d is managed by another admin", dormitoryID)
}
