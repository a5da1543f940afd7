package handler

import (
	"io"
	"net/http"
	"strings"
	"time"

	"dormitory-backend/internal/middleware"
	"dormitory-backend/internal/models"
	"dormitory-backend/internal/realtime"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/service"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const streamKeepAlive = 25 * time.Second

type ApplicationHandler struct {
	applicationService *service.ApplicationService
	hub                *realtime.Hub
}

func NewApplicationHandler(applicationService *service.ApplicationService, hub *realtime.Hub) *ApplicationHandler {
	return &ApplicationHandler{
		applicationService: applicationService,
		hub:                hub,
	}
}

// SubmitApplication accepts an application from anyone; a signed-in applicant is linked to it
func (h *ApplicationHandler) SubmitApplication(c *gin.Context) {
	var in service.ApplicationInput
	if !bindJSON(c, &in) {
		return
	}

	var userID *uint
	if id, ok := middleware.CurrentUserID(c); ok {
		userID = &id
	}

	application, err := h.applicationService.SubmitApplication(in, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, application)
}

func (h *ApplicationHandler) GetAllApplications(c *gin.Context) {
	filter := repository.ApplicationFilter{
		Status: models.ApplicationStatus(strings.ToUpper(c.Query("status"))),
		Search: strings.TrimSpace(c.Query("search")),
	}
	page := pageFrom(c)

	applications, total, err := h.applicationService.GetApplications(scopeOf(c), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	listResponse(c, applications, total, page)
}

func (h *ApplicationHandler) GetApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	application, err := h.applicationService.GetApplication(scopeOf(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, application)
}

// DecideApplication sets the status of an application
func (h *ApplicationHandler) DecideApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in service.ApplicationDecision
	if !bindJSON(c, &in) {
		return
	}
	application, err := h.applicationService.DecideApplication(scopeOf(c), id, in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, application)
}

func (h *ApplicationHandler) DeleteApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.applicationService.DeleteApplication(scopeOf(c), id, actorID(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Application deleted successfully")
}

func (h *ApplicationHandler) MyApplications(c *gin.Context) {
	page := pageFrom(c)
	applications, total, err := h.applicationService.MyApplications(actorID(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	listResponse(c, applications, total, page)
}

func (h *ApplicationHandler) CancelApplication(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.applicationService.CancelApplication(actorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Application cancelled")
}

// Stream pushes new_application events of the caller's dormitory as
// Server-Sent Events until the client goes away. A superadmin listens to
// every dormitory unless dormitory_id is given.
func (h *ApplicationHandler) Stream(c *gin.Context) {
	scope := scopeOf(c)

	var dormitoryID uint
	switch {
	case scope.IsSuperAdmin():
		// absent means realtime.AllDormitories
		dormitoryID = queryUint(c, "dormitory_id")
	case scope.IsDormitoryAdmin():
		dormitoryID = scope.DormitoryID
	case scope.Role == models.RoleAdmin:
		respondError(c, service.ErrNoDormitory)
		return
	default:
		utils.ErrorResponse(c, http.StatusForbidden, "Only dormitory admins can listen for applications")
		return
	}

	events, unsubscribe := h.hub.Subscribe(dormitoryID)
	defer unsubscribe()

	ticker := time.NewTicker(streamKeepAlive)
	defer ticker.Stop()

	// lift the server write timeout for this long-lived response
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Header("Cache-Control", "no-cache")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("ready", gin.H{"dormitory_id": dormitoryID})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event.Type, event)
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
			return true
		}
	})
}
