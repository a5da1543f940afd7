package handler

import (
	"strings"

	"dormitory-backend/internal/middleware"
	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/service"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type DormitoryHandler struct {
	dormitoryService *service.DormitoryService
}

func NewDormitoryHandler(dormitoryService *service.DormitoryService) *DormitoryHandler {
	return &DormitoryHandler{dormitoryService: dormitoryService}
}

type imageRequest struct {
	Path string `json:"path" binding:"required,max=255"`
}

// GetAllDormitories is public; only a signed-in superadmin sees inactive dormitories
func (h *DormitoryHandler) GetAllDormitories(c *gin.Context) {
	role, _ := middleware.CurrentRole(c)
	filter := repository.DormitoryFilter{
		UniversityID: queryUint(c, "university_id"),
		ActiveOnly:   role != models.RoleSuperAdmin,
		Search:       strings.TrimSpace(c.Query("search")),
	}
	page := pageFrom(c)

	dormitories, total, err := h.dormitoryService.GetDormitories(filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	listResponse(c, dormitories, total, page)
}

func (h *DormitoryHandler) GetDormitory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	dormitory, err := h.dormitoryService.GetDormitory(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, dormitory)
}

func (h *DormitoryHandler) CreateDormitory(c *gin.Context) {
	var in service.DormitoryInput
	if !bindJSON(c, &in) {
		return
	}
	dormitory, err := h.dormitoryService.CreateDormitory(scopeOf(c), in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, dormitory)
}

func (h *DormitoryHandler) UpdateDormitory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.DormitoryInput
	if !bindJSON(c, &in) {
		return
	}
	dormitory, err := h.dormitoryService.UpdateDormitory(scopeOf(c), id, in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, dormitory)
}

func (h *DormitoryHandler) DeleteDormitory(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.dormitoryService.DeleteDormitory(scopeOf(c), id, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Dormitory deleted successfully")
}

// AddImage records an already uploaded image path for a dormitory
func (h *DormitoryHandler) AddImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req imageRequest
	if !bindJSON(c, &req) {
		return
	}
	image, err := h.dormitoryService.AddImage(scopeOf(c), id, req.Path)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, image)
}

func (h *DormitoryHandler) DeleteImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	imageID, ok := pathID(c, "image_id")
	if !ok {
		return
	}
	if err := h.dormitoryService.DeleteImage(scopeOf(c), id, imageID); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Image deleted successfully")
}
