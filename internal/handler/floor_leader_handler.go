package handler

import (
	"dormitory-backend/internal/service"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// FloorLeaderHandler serves floor leadership, roll calls and fee collections
type FloorLeaderHandler struct {
	leaderService *service.FloorLeaderService
}

func NewFloorLeaderHandler(leaderService *service.FloorLeaderService) *FloorLeaderHandler {
	return &FloorLeaderHandler{leaderService: leaderService}
}

type collectionMarkRequest struct {
	StudentID uint `json:"student_id" binding:"required"`
	Paid      bool `json:"paid"`
}

func (h *FloorLeaderHandler) ListLeaders(c *gin.Context) {
	leaders, err := h.leaderService.ListLeaders(scopeOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, leaders)
}

func (h *FloorLeaderHandler) AssignLeader(c *gin.Context) {
	var in service.LeaderInput
	if !bindJSON(c, &in) {
		return
	}
	leader, err := h.leaderService.AssignLeader(scopeOf(c), in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, leader)
}

func (h *FloorLeaderHandler) RemoveLeader(c *gin.Context) {
	floorID, ok := pathID(c, "floor_id")
	if !ok {
		return
	}
	if err := h.leaderService.RemoveLeader(scopeOf(c), floorID, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Floor leader removed")
}

func (h *FloorLeaderHandler) RecordAttendance(c *gin.Context) {
	var in service.AttendanceInput
	if !bindJSON(c, &in) {
		return
	}
	session, err := h.leaderService.RecordAttendance(scopeOf(c), in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, session)
}

func (h *FloorLeaderHandler) ListAttendance(c *gin.Context) {
	page := pageFrom(c)
	sessions, total, err := h.leaderService.ListAttendance(scopeOf(c), queryUint(c, "floor_id"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	listResponse(c, sessions, total, page)
}

func (h *FloorLeaderHandler) CreateCollection(c *gin.Context) {
	var in service.CollectionInput
	if !bindJSON(c, &in) {
		return
	}
	collection, err := h.leaderService.CreateCollection(scopeOf(c), in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, collection)
}

func (h *FloorLeaderHandler) ListCollections(c *gin.Context) {
	page := pageFrom(c)
	collections, total, err := h.leaderService.ListCollections(scopeOf(c), queryUint(c, "floor_id"), page)
	if err != nil {
		respondError(c, err)
		return
	}
	listResponse(c, collections, total, page)
}

func (h *FloorLeaderHandler) GetCollection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	collection, err := h.leaderService.GetCollection(scopeOf(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, collection)
}

// MarkCollection records a student's payment of a collection
func (h *FloorLeaderHandler) MarkCollection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req collectionMarkRequest
	if !bindJSON(c, &req) {
		return
	}
	collection, err := h.leaderService.MarkCollection(scopeOf(c), id, req.StudentID, req.Paid)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, collection)
}

func (h *FloorLeaderHandler) DeleteCollection(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.leaderService.DeleteCollection(scopeOf(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Collection deleted successfully")
}
