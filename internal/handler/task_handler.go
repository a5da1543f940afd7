package handler

import (
	"dormitory-backend/internal/middleware"
	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/service"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) GetTasks(c *gin.Context) {
	tasks, err := h.taskService.GetTasks(actorID(c), models.TaskStatus(c.Query("status")))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, tasks)
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	task, err := h.taskService.GetTask(actorID(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, task)
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	var in service.TaskInput
	if !bindJSON(c, &in) {
		return
	}
	task, err := h.taskService.CreateTask(actorID(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, task)
}

func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.TaskInput
	if !bindJSON(c, &in) {
		return
	}
	task, err := h.taskService.UpdateTask(actorID(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, task)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.taskService.DeleteTask(actorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Task deleted successfully")
}

type ApartmentHandler struct {
	apartmentService *service.ApartmentService
}

func NewApartmentHandler(apartmentService *service.ApartmentService) *ApartmentHandler {
	return &ApartmentHandler{apartmentService: apartmentService}
}

// GetApartments is public. ?mine=true lets a landlord see all of their own listings.
func (h *ApartmentHandler) GetApartments(c *gin.Context) {
	filter := repository.ApartmentFilter{
		ProvinceID: queryUint(c, "province_id"),
		DistrictID: queryUint(c, "district_id"),
		ActiveOnly: true,
	}
	if maxPrice := queryInt64(c, "max_price"); maxPrice != nil {
		filter.MaxPrice = *maxPrice
	}
	if role, _ := middleware.CurrentRole(c); role == models.RoleLandlord && queryBool(c, "mine") {
		filter.LandlordID = actorID(c)
		filter.ActiveOnly = false
	}
	page := pageFrom(c)

	apartments, total, err := h.apartmentService.GetApartments(filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	listResponse(c, apartments, total, page)
}

func (h *ApartmentHandler) GetApartment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	apartment, err := h.apartmentService.GetApartment(id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, apartment)
}

func (h *ApartmentHandler) CreateApartment(c *gin.Context) {
	var in service.ApartmentInput
	if !bindJSON(c, &in) {
		return
	}
	apartment, err := h.apartmentService.CreateApartment(scopeOf(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, apartment)
}

func (h *ApartmentHandler) UpdateApartment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.ApartmentInput
	if !bindJSON(c, &in) {
		return
	}
	apartment, err := h.apartmentService.UpdateApartment(scopeOf(c), id, in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, apartment)
}

func (h *ApartmentHandler) DeleteApartment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.apartmentService.DeleteApartment(scopeOf(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Apartment deleted successfully")
}
