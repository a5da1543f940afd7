package handler

import (
	"dormitory-backend/internal/service"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
}

func NewNotificationHandler(notificationService *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

// CreateNotification sends an announcement and reports how many users received it
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var in service.NotificationInput
	if !bindJSON(c, &in) {
		return
	}
	notification, delivered, err := h.notificationService.CreateNotification(scopeOf(c), in, actorID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.CreatedResponse(c, gin.H{
		"notification": notification,
		"recipients":   delivered,
	})
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	page := pageFrom(c)
	notifications, total, err := h.notificationService.GetNotifications(scopeOf(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	listResponse(c, notifications, total, page)
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notificationService.DeleteNotification(scopeOf(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Notification deleted successfully")
}

// Inbox lists the caller's announcements and personal messages
func (h *NotificationHandler) Inbox(c *gin.Context) {
	inbox, err := h.notificationService.Inbox(actorID(c), queryBool(c, "unread"), pageFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessResponse(c, inbox)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notificationService.MarkRead(actorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Notification marked as read")
}

func (h *NotificationHandler) MarkMessageRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notificationService.MarkMessageRead(actorID(c), id); err != nil {
		respondError(c, err)
		return
	}
	utils.MessageResponse(c, "Message marked as read")
}
