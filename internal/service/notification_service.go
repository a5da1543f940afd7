package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type NotificationService struct {
	db               *gorm.DB
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	studentRepo      *repository.StudentRepository
	auditRepo        *repository.AuditRepository
}

func NewNotificationService(
	db *gorm.DB,
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	studentRepo *repository.StudentRepository,
	auditRepo *repository.AuditRepository,
) *NotificationService {
	return &NotificationService{
		db:               db,
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		studentRepo:      studentRepo,
		auditRepo:        auditRepo,
	}
}

// NotificationInput is an announcement to fan out
type NotificationInput struct {
	Title        string                    `json:"title" binding:"required,max=255"`
	Message      string                    `json:"message" binding:"required"`
	TargetType   models.NotificationTarget `json:"target_type" binding:"required,oneof=all_students all_admins specific_user"`
	TargetUserID *uint                     `json:"target_user_id"`
}

// Inbox is what a user sees: announcements and personal messages
type Inbox struct {
	Notifications []models.UserNotification        `json:"notifications"`
	Messages      []models.ApplicationNotification `json:"messages"`
	Unread        UnreadCounts                     `json:"unread"`
}

type UnreadCounts struct {
	Notifications int64 `json:"notifications"`
	Messages      int64 `json:"messages"`
}

// CreateNotification stores an announcement and delivers it to every recipient
// of the target group. Dormitory admins can only reach their own students.
func (s *NotificationService) CreateNotification(scope repository.Scope, in NotificationInput, actorID uint) (*models.Notification, int, error) {
	if err := requireManager(scope); err != nil {
		return nil, 0, err
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Message) == "" {
		return nil, 0, invalidf("title and message are required")
	}

	recipients, err := s.recipients(scope, in)
	if err != nil {
		return nil, 0, err
	}

	meta, err := json.Marshal(map[string]interface{}{
		"dormitory_id": scope.DormitoryID,
		"recipients":   len(recipients),
	})
	if err != nil {
		return nil, 0, err
	}

	notification := &models.Notification{
		Title:        in.Title,
		Message:      in.Message,
		TargetType:   in.TargetType,
		TargetUserID: in.TargetUserID,
		CreatedByID:  actorID,
		Meta:         datatypes.JSON(meta),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		notifications := s.notificationRepo.WithTx(tx)
		if err := notifications.CreateNotification(notification); err != nil {
			return fmt.Errorf("failed to create notification: %w", err)
		}
		return notifications.Deliver(notification.ID, recipients)
	})
	if err != nil {
		return nil, 0, err
	}

	audit(s.auditRepo, actorID, "notification_sent",
		fmt.Sprintf("Notification %q sent to %d users", notification.Title, len(recipients)), nil)
	return notification, len(recipients), nil
}

func (s *NotificationService) recipients(scope repository.Scope, in NotificationInput) ([]uint, error) {
	switch in.TargetType {
	case models.TargetAllStudents:
		if scope.IsSuperAdmin() {
			return s.userRepo.ListUserIDsByRole(models.RoleStudent)
		}
		return s.studentRepo.ListUserIDsByDormitory(scope.DormitoryID)

	case models.TargetAllAdmins:
		if !scope.IsSuperAdmin() {
			return nil, forbiddenf("only a superadmin can notify all admins")
		}
		return s.userRepo.ListUserIDsByRole(models.RoleAdmin)

	case models.TargetSpecificUser:
		if in.TargetUserID == nil || *in.TargetUserID == 0 {
			return nil, invalidf("target_user_id is required for specific_user")
		}
		if _, err := s.userRepo.GetUserByID(*in.TargetUserID); err != nil {
			return nil, err
		}
		if !scope.IsSuperAdmin() {
			ok, err := s.studentRepo.UserInDormitory(*in.TargetUserID, scope.DormitoryID)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, forbiddenf("user %d does not live in your dormitory", *in.TargetUserID)
			}
		}
		return []uint{*in.TargetUserID}, nil
	}
	return nil, invalidf("unknown target type %q", in.TargetType)
}

// GetNotifications lists announcements; dormitory admins see the ones they sent
func (s *NotificationService) GetNotifications(scope repository.Scope, page repository.Page) ([]models.Notification, int64, error) {
	if err := requireManager(scope); err != nil {
		return nil, 0, err
	}
	createdBy := uint(0)
	if !scope.IsSuperAdmin() {
		createdBy = scope.UserID
	}
	return s.notificationRepo.GetAllNotifications(createdBy, page)
}

// DeleteNotification removes an announcement the caller may manage
func (s *NotificationService) DeleteNotification(scope repository.Scope, id uint) error {
	if err := requireManager(scope); err != nil {
		return err
	}
	notification, err := s.notificationRepo.GetNotification(id)
	if err != nil {
		return err
	}
	if !scope.IsSuperAdmin() && notification.CreatedByID != scope.UserID {
		return forbiddenf("notification %d was sent by someone else", id)
	}
	return s.notificationRepo.DeleteNotification(id)
}

// Inbox returns the caller's announcements and personal messages
func (s *NotificationService) Inbox(userID uint, unreadOnly bool, page repository.Page) (*Inbox, error) {
	notifications, _, err := s.notificationRepo.ListForUser(userID, unreadOnly, page)
	if err != nil {
		return nil, err
	}
	messages, _, err := s.notificationRepo.ListMessages(userID, page)
	if err != nil {
		return nil, err
	}
	unreadNotifications, unreadMessages, err := s.notificationRepo.UnreadCounts(userID)
	if err != nil {
		return nil, err
	}
	return &Inbox{
		Notifications: notifications,
		Messages:      messages,
		Unread:        UnreadCounts{Notifications: unreadNotifications, Messages: unreadMessages},
	}, nil
}

// MarkRead marks one delivered announcement as read
func (s *NotificationService) MarkRead(userID, id uint) error {
	return s.notificationRepo.MarkRead(userID, id)
}

// MarkMessageRead marks one personal message as read
func (s *NotificationService) MarkMessageRead(userID, id uint) error {
	return s.notificationRepo.MarkMessageRead(userID, id)
}

// Notify stores a personal message; failures are logged, not returned
func (s *NotificationService) Notify(userID uint, message string) {
	if userID == 0 {
		return
	}
	msg := &models.ApplicationNotification{UserID: userID, Message: message}
	if err := s.notificationRepo.CreateMessage(msg); err != nil {
		log.Printf("Warning: failed to notify user %d: %v", userID, err)
	}
}
