package service

import (
	"errors"
	"fmt"
	"strings"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
	"dormitory-backend/pkg/utils"
)

// UserService manages accounts on behalf of administrators and of users themselves
type UserService struct {
	userRepo      *repository.UserRepository
	dormitoryRepo *repository.DormitoryRepository
	studentRepo   *repository.StudentRepository
	auditRepo     *repository.AuditRepository
}

func NewUserService(
	userRepo *repository.UserRepository,
	dormitoryRepo *repository.DormitoryRepository,
	studentRepo *repository.StudentRepository,
	auditRepo *repository.AuditRepository,
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		dormitoryRepo: dormitoryRepo,
		studentRepo:   studentRepo,
		auditRepo:     auditRepo,
	}
}

type CreateUserInput struct {
	Username  string      `json:"username" binding:"required,min=3,max=50"`
	Password  string      `json:"password" binding:"required,min=6"`
	Role      models.Role `json:"role" binding:"omitempty,oneof=superadmin admin student landlord"`
	FirstName string      `json:"first_name" binding:"max=120"`
	LastName  string      `json:"last_name" binding:"max=120"`
	Email     string      `json:"email" binding:"omitempty,email"`
	Phone     string      `json:"phone" binding:"max=20"`
}

// ProfileInput carries the fields a user may change; Role and IsActive are
// honoured for superadmins only
type ProfileInput struct {
	FirstName *string      `json:"first_name" binding:"omitempty,max=120"`
	LastName  *string      `json:"last_name" binding:"omitempty,max=120"`
	Email     *string      `json:"email" binding:"omitempty,email"`
	Phone     *string      `json:"phone" binding:"omitempty,max=20"`
	Password  *string      `json:"password" binding:"omitempty,min=6"`
	Role      *models.Role `json:"role" binding:"omitempty,oneof=superadmin admin student landlord"`
	IsActive  *bool        `json:"is_active"`
}

// GetUsers lists accounts (superadmin only)
func (s *UserService) GetUsers(scope repository.Scope, filter repository.UserFilter, page repository.Page) ([]models.User, int64, error) {
	if err := superAdminOnly(scope); err != nil {
		return nil, 0, err
	}
	return s.userRepo.ListUsers(filter, page)
}

// GetUser returns an account; users may always read their own
func (s *UserService) GetUser(scope repository.Scope, id uint) (*models.User, error) {
	if id != scope.UserID && !scope.IsSuperAdmin() {
		return nil, forbiddenf("you can only view your own account")
	}
	return s.userRepo.GetUserByID(id)
}

// CreateUser creates an account. A superadmin may create any role, a
// dormitory admin creates student accounts only.
func (s *UserService) CreateUser(scope repository.Scope, in CreateUserInput, actorID uint) (*models.User, error) {
	role := in.Role
	if role == "" {
		role = models.RoleStudent
	}
	if !role.Valid() {
		return nil, invalidf("unknown role %q", role)
	}

	switch {
	case scope.IsSuperAdmin():
	case scope.Role == models.RoleAdmin:
		if err := requireManager(scope); err != nil {
			return nil, err
		}
		if role != models.RoleStudent {
			return nil, forbiddenf("dormitory admins can only create student accounts")
		}
	default:
		return nil, forbiddenf("you cannot create accounts")
	}

	username := strings.TrimSpace(in.Username)
	if _, err := s.userRepo.FindUserByUsername(username); err == nil {
		return nil, invalidf("username already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		IsActive:     true,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	audit(s.auditRepo, actorID, "user_created",
		fmt.Sprintf("User %s created with role %s", user.Username, user.Role), nil)
	return user, nil
}

// UpdateUser changes an account. Users edit their own profile; a superadmin
// edits anyone and may also change role and activation.
func (s *UserService) UpdateUser(scope repository.Scope, id uint, in ProfileInput, actorID uint) (*models.User, error) {
	if id != scope.UserID && !scope.IsSuperAdmin() {
		return nil, forbiddenf("you can only update your own account")
	}
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = *in.FirstName
	}
	if in.LastName != nil {
		updates["last_name"] = *in.LastName
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.Phone != nil {
		updates["phone"] = *in.Phone
	}
	if in.Password != nil {
		hash, err := utils.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updates["password_hash"] = hash
	}
	if in.Role != nil && *in.Role != user.Role {
		if !scope.IsSuperAdmin() {
			return nil, forbiddenf("only a superadmin can change roles")
		}
		if !in.Role.Valid() {
			return nil, invalidf("unknown role %q", *in.Role)
		}
		if user.Role == models.RoleAdmin {
			if err := s.checkNotAdministering(user); err != nil {
				return nil, err
			}
		}
		updates["role"] = *in.Role
	}
	if in.IsActive != nil && *in.IsActive != user.IsActive {
		if !scope.IsSuperAdmin() {
			return nil, forbiddenf("only a superadmin can change account activation")
		}
		updates["is_active"] = *in.IsActive
	}

	if len(updates) == 0 {
		return user, nil
	}
	if err := s.userRepo.UpdateUser(id, updates); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if in.Password != nil || (in.IsActive != nil && !*in.IsActive) {
		if err := s.userRepo.RevokeUserRefreshTokens(id); err != nil {
			return nil, err
		}
	}

	audit(s.auditRepo, actorID, "user_updated", fmt.Sprintf("User %s updated", user.Username), nil)
	return s.userRepo.GetUserByID(id)
}

// DeleteUser removes an account (superadmin only). Admins who still run a
// dormitory and users linked to a student record are kept.
func (s *UserService) DeleteUser(scope repository.Scope, id uint, actorID uint) error {
	if err := superAdminOnly(scope); err != nil {
		return err
	}
	if id == scope.UserID {
		return invalidf("you cannot delete your own account")
	}
	user, err := s.userRepo.GetUserByID(id)
	if err != nil {
		return err
	}
	if err := s.checkNotAdministering(user); err != nil {
		return err
	}
	if _, err := s.studentRepo.GetStudentByUserID(id); err == nil {
		return invalidf("user %s is linked to a student record", user.Username)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	if err := s.userRepo.DeleteUser(id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	audit(s.auditRepo, actorID, "user_deleted", fmt.Sprintf("User %s deleted", user.Username), nil)
	return nil
}

func (s *UserService) checkNotAdministering(user *models.User) error {
	dormitory, err := s.dormitoryRepo.GetDormitoryByAdminID(user.ID)
	if err == nil {
		return invalidf("user %s still administers dormitory %s", user.Username, dormitory.Name)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}
