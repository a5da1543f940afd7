package handler

import (
	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/service"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	roomService  *service.RoomService
	floorService *service.FloorService
}

func NewRoomHandler(roomService *service.RoomService, floorService *service.FloorService) *RoomHandler {
	return &RoomHandler{
		roomService:  roomService,
		floorService: floorService,
	}
}

// GetAllRooms lists the rooms visible to the caller
func (h *RoomHandler) GetAllRooms(c *gin.Context) {
	filter := repository.RoomFilter{
		FloorID:     queryUint(c, "floor_id"),
		DormitoryID: queryUint(c, "dormitory_id"),
		Status:      models.RoomStatus(c.Query("status")),
		Gender:      models.Gender(c.Query("gender")),
		HasFreeBed:  queryBool(c, "has_free_bed"),
	}
	page := pageFrom(c)

	rooms, total, err := h.roomService.GetRooms(scopeOf(c), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	listResponse(c, rooms, total, page)
}

// GetRoom retrieves a specific room by ID
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	room, err := h.roomService.GetRoom(scopeOf(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, room)
}

// CreateRoom creates an empty room on a floor
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var in service.RoomInput
	if !bindJSON(c, &in) {
		return
	}
	room, err := h.roomService.CreateRoom(scopeOf(c), in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, room)
}

// UpdateRoom updates an existing room
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.RoomInput
	if !bindJSON(c, &in) {
		return
	}
	room, err := h.roomService.UpdateRoom(scopeOf(c), id, in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, room)
}

// DeleteRoom deletes an empty room
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.roomService.DeleteRoom(scopeOf(c), id, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Room deleted successfully")
}

// GetAllFloors lists the floors visible to the caller
func (h *RoomHandler) GetAllFloors(c *gin.Context) {
	floors, err := h.floorService.GetFloors(scopeOf(c), queryUint(c, "dormitory_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, floors)
}

func (h *RoomHandler) GetFloor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	floor, err := h.floorService.GetFloor(scopeOf(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, floor)
}

func (h *RoomHandler) CreateFloor(c *gin.Context) {
	var in service.FloorInput
	if !bindJSON(c, &in) {
		return
	}
	floor, err := h.floorService.CreateFloor(scopeOf(c), in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, floor)
}

func (h *RoomHandler) UpdateFloor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.FloorInput
	if !bindJSON(c, &in) {
		return
	}
	floor, err := h.floorService.UpdateFloor(scopeOf(c), id, in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, floor)
}

func (h *RoomHandler) DeleteFloor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.floorService.DeleteFloor(scopeOf(c), id, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Floor deleted successfully")
}
