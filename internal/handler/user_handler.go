package handler

import (
	"strings"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/service"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	filter := repository.UserFilter{
		Role:   models.Role(c.Query("role")),
		Search: strings.TrimSpace(c.Query("search")),
	}
	page := pageFrom(c)

	users, total, err := h.userService.GetUsers(scopeOf(c), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	listResponse(c, users, total, page)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.GetUser(scopeOf(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, user)
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var in service.CreateUserInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.userService.CreateUser(scopeOf(c), in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, user)
}

func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	h.update(c, id)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.DeleteUser(scopeOf(c), id, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "User deleted successfully")
}

// Me returns the caller's own account together with the resolved scope
func (h *UserHandler) Me(c *gin.Context) {
	scope := scopeOf(c)
	user, err := h.userService.GetUser(scope, scope.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"user":         user,
		"dormitory_id": scope.DormitoryID,
		"floor_id":     scope.FloorID,
	})
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	h.update(c, actorID(c))
}

func (h *UserHandler) update(c *gin.Context, id uint) {
	var in service.ProfileInput
	if !bindJSON(c, &in) {
		return
	}
	user, err := h.userService.UpdateUser(scopeOf(c), id, in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, user)
}
