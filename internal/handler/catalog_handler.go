package handler

import (
	"dormitory-backend/internal/service"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// CatalogHandler serves universities, amenities and the location directory
type CatalogHandler struct {
	catalogService *service.CatalogService
}

func NewCatalogHandler(catalogService *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

type provinceRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

type amenityStateRequest struct {
	IsActive bool `json:"is_active"`
}

func (h *CatalogHandler) GetUniversities(c *gin.Context) {
	universities, err := h.catalogService.GetUniversities()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, universities)
}

func (h *CatalogHandler) GetUniversity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	university, err := h.catalogService.GetUniversity(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, university)
}

func (h *CatalogHandler) CreateUniversity(c *gin.Context) {
	var in service.UniversityInput
	if !bindJSON(c, &in) {
		return
	}
	university, err := h.catalogService.CreateUniversity(scopeOf(c), in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, university)
}

func (h *CatalogHandler) UpdateUniversity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.UniversityInput
	if !bindJSON(c, &in) {
		return
	}
	university, err := h.catalogService.UpdateUniversity(scopeOf(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, university)
}

func (h *CatalogHandler) DeleteUniversity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteUniversity(scopeOf(c), id, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "University deleted successfully")
}

// GetAmenities lists active amenities; ?all=true includes disabled ones
func (h *CatalogHandler) GetAmenities(c *gin.Context) {
	amenities, err := h.catalogService.GetAmenities(!queryBool(c, "all"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, amenities)
}

func (h *CatalogHandler) CreateAmenity(c *gin.Context) {
	var in service.AmenityInput
	if !bindJSON(c, &in) {
		return
	}
	amenity, err := h.catalogService.CreateAmenity(scopeOf(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, amenity)
}

func (h *CatalogHandler) SetAmenityActive(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req amenityStateRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.catalogService.SetAmenityActive(scopeOf(c), id, req.IsActive); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Amenity updated successfully")
}

func (h *CatalogHandler) DeleteAmenity(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.catalogService.DeleteAmenity(scopeOf(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Amenity deleted successfully")
}

func (h *CatalogHandler) GetProvinces(c *gin.Context) {
	provinces, err := h.catalogService.GetProvinces()
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, provinces)
}

// GetDistricts lists districts, optionally of one province
func (h *CatalogHandler) GetDistricts(c *gin.Context) {
	districts, err := h.catalogService.GetDistricts(queryUint(c, "province_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, districts)
}

func (h *CatalogHandler) CreateProvince(c *gin.Context) {
	var req provinceRequest
	if !bindJSON(c, &req) {
		return
	}
	province, err := h.catalogService.CreateProvince(scopeOf(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, province)
}

func (h *CatalogHandler) CreateDistrict(c *gin.Context) {
	var in service.DistrictInput
	if !bindJSON(c, &in) {
		return
	}
	district, err := h.catalogService.CreateDistrict(scopeOf(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, district)
}
