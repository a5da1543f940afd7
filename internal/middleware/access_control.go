package middleware

import (
	"errors"
	"net/http"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const contextScope = "scope"

// AccessControlMiddleware resolves what part of the data the caller may touch
type AccessControlMiddleware struct {
	dormitoryRepo *repository.DormitoryRepository
	leaderRepo    *repository.FloorLeaderRepository
}

// NewAccessControlMiddleware creates a new access control middleware
func NewAccessControlMiddleware(
	dormitoryRepo *repository.DormitoryRepository,
	leaderRepo *repository.FloorLeaderRepository,
) *AccessControlMiddleware {
	return &AccessControlMiddleware{
		dormitoryRepo: dormitoryRepo,
		leaderRepo:    leaderRepo,
	}
}

// ResolveScope builds the repository scope of the authenticated caller.
// An admin without a dormitory gets a scope without one and is refused by
// the services that need it. Students leading a floor get that floor.
func (m *AccessControlMiddleware) ResolveScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := CurrentUserID(c)
		if !ok {
			utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
			c.Abort()
			return
		}
		role, _ := CurrentRole(c)

		scope := repository.Scope{UserID: userID, Role: role}

		switch role {
		case models.RoleAdmin:
			dormitory, err := m.dormitoryRepo.GetDormitoryByAdminID(userID)
			switch {
			case err == nil:
				scope.DormitoryID = dormitory.ID
			case !errors.Is(err, repository.ErrNotFound):
				utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to verify access")
				c.Abort()
				return
			}
		case models.RoleStudent:
			leader, err := m.leaderRepo.GetByUserID(userID)
			switch {
			case err == nil:
				scope.FloorID = leader.FloorID
				if leader.Floor != nil {
					scope.DormitoryID = leader.Floor.DormitoryID
				}
			case !errors.Is(err, repository.ErrNotFound):
				utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to verify access")
				c.Abort()
				return
			}
		}

		c.Set(contextScope, scope)
		c.Next()
	}
}

// ScopeFrom returns the scope stored by ResolveScope. Outside of it the
// caller is treated as an anonymous student, which sees nothing.
func ScopeFrom(c *gin.Context) repository.Scope {
	if v, ok := c.Get(contextScope); ok {
		if scope, ok := v.(repository.Scope); ok {
			return scope
		}
	}
	return repository.Scope{Role: models.RoleStudent}
}
