package handler

import (
	"strings"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/service"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type StudentHandler struct {
	studentService *service.StudentService
}

func NewStudentHandler(studentService *service.StudentService) *StudentHandler {
	return &StudentHandler{studentService: studentService}
}

// GetAllStudents lists the students visible to the caller
func (h *StudentHandler) GetAllStudents(c *gin.Context) {
	filter := repository.StudentFilter{
		DormitoryID:     queryUint(c, "dormitory_id"),
		FloorID:         queryUint(c, "floor_id"),
		RoomID:          queryUint(c, "room_id"),
		Faculty:         c.Query("faculty"),
		Course:          c.Query("course"),
		Gender:          models.StudentGender(c.Query("gender")),
		Status:          models.StudentStatus(c.Query("status")),
		PlacementStatus: models.PlacementStatus(c.Query("placement_status")),
		Name:            strings.TrimSpace(c.Query("name")),
		LastName:        strings.TrimSpace(c.Query("last_name")),
		Search:          strings.TrimSpace(c.Query("search")),
		MaxPayment:      queryInt64(c, "max_payment"),
	}
	page := pageFrom(c)

	students, total, err := h.studentService.GetStudents(scopeOf(c), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	listResponse(c, students, total, page)
}

func (h *StudentHandler) GetStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	student, err := h.studentService.GetStudent(scopeOf(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, student)
}

// MyStudent returns the student record linked to the caller
func (h *StudentHandler) MyStudent(c *gin.Context) {
	student, err := h.studentService.MyStudent(actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, student)
}

func (h *StudentHandler) CreateStudent(c *gin.Context) {
	var in service.StudentInput
	if !bindJSON(c, &in) {
		return
	}
	student, err := h.studentService.CreateStudent(scopeOf(c), in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, student)
}

func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.StudentInput
	if !bindJSON(c, &in) {
		return
	}
	student, err := h.studentService.UpdateStudent(scopeOf(c), id, in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, student)
}

func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.studentService.DeleteStudent(scopeOf(c), id, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Student deleted successfully")
}
