package service

import (
	"errors"
	"fmt"
	"strings"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/realtime"
	"dormitory-backend/internal/repository"
)

type ApplicationService struct {
	applicationRepo *repository.ApplicationRepository
	dormitoryRepo   *repository.DormitoryRepository
	roomRepo        *repository.RoomRepository
	auditRepo       *repository.AuditRepository
	notifier        *NotificationService
	broadcaster     realtime.Broadcaster
}

func NewApplicationService(
	applicationRepo *repository.ApplicationRepository,
	dormitoryRepo *repository.DormitoryRepository,
	roomRepo *repository.RoomRepository,
	auditRepo *repository.AuditRepository,
	notifier *NotificationService,
	broadcaster realtime.Broadcaster,
) *ApplicationService {
	return &ApplicationService{
		applicationRepo: applicationRepo,
		dormitoryRepo:   dormitoryRepo,
		roomRepo:        roomRepo,
		auditRepo:       auditRepo,
		notifier:        notifier,
		broadcaster:     broadcaster,
	}
}

// ApplicationInput is what an applicant submits
type ApplicationInput struct {
	DormitoryID uint   `json:"dormitory_id" binding:"required"`
	RoomID      *uint  `json:"room_id"`
	Name        string `json:"name" binding:"required,max=255"`
	FIO         string `json:"fio" binding:"max=255"`
	City        string `json:"city" binding:"max=255"`
	Village     string `json:"village" binding:"max=255"`
	University  string `json:"university" binding:"max=255"`
	Phone       string `json:"phone" binding:"required,max=20"`
	Passport    string `json:"passport" binding:"required,passport"`
	Comment     string `json:"comment"`
	Document    string `json:"document" binding:"max=255"`
}

// ApplicationDecision is an admin's answer to an application
type ApplicationDecision struct {
	Status       models.ApplicationStatus `json:"status" binding:"required,oneof=PENDING APPROVED REJECTED"`
	AdminComment *string                  `json:"admin_comment"`
}

// SubmitApplication stores an application, messages the dormitory admin and
// pushes a new_application event to the dormitory's live listeners
func (s *ApplicationService) SubmitApplication(in ApplicationInput, userID *uint) (*models.Application, error) {
	dormitory, err := s.dormitoryRepo.GetDormitoryByID(in.DormitoryID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalidf("dormitory %d does not exist", in.DormitoryID)
	}
	if err != nil {
		return nil, err
	}
	if !dormitory.IsActive {
		return nil, invalidf("dormitory %s is not accepting applications", dormitory.Name)
	}

	passport := strings.ToUpper(strings.TrimSpace(in.Passport))
	pending, err := s.applicationRepo.HasPending(dormitory.ID, passport)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, invalidf("an application with this passport is already pending")
	}

	application := &models.Application{
		UserID:      userID,
		DormitoryID: dormitory.ID,
		Status:      models.ApplicationPending,
		Name:        strings.TrimSpace(in.Name),
		FIO:         in.FIO,
		City:        in.City,
		Village:     in.Village,
		University:  in.University,
		Phone:       in.Phone,
		Passport:    passport,
		Comment:     in.Comment,
		Document:    in.Document,
	}

	if roomID := idOrZero(in.RoomID); roomID != 0 {
		room, err := s.roomRepo.GetRoomByID(roomID)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && (room.Floor == nil || room.Floor.DormitoryID != dormitory.ID)) {
			return nil, invalidf("room %d does not belong to dormitory %d", roomID, dormitory.ID)
		}
		if err != nil {
			return nil, err
		}
		application.RoomID = &room.ID
	}

	if err := s.applicationRepo.CreateApplication(application); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.notifier.Notify(dormitory.AdminID, fmt.Sprintf("New application from %s", application.Name))
	s.broadcaster.Publish(dormitory.ID, realtime.Event{
		Type:          realtime.EventNewApplication,
		ApplicationID: application.ID,
		Name:          application.Name,
		CreatedAt:     application.CreatedAt,
	})

	audit(s.auditRepo, idOrZero(userID), "application_submitted",
		fmt.Sprintf("Application %d submitted to dormitory %d", application.ID, dormitory.ID), nil)
	return application, nil
}

// GetApplications lists the applications visible to the caller
func (s *ApplicationService) GetApplications(scope repository.Scope, filter repository.ApplicationFilter, page repository.Page) ([]models.Application, int64, error) {
	if scope.Role == models.RoleAdmin && !scope.IsDormitoryAdmin() {
		return nil, 0, ErrNoDormitory
	}
	return s.applicationRepo.GetAllApplications(scope, filter, page)
}

// GetApplication returns one application visible to the caller
func (s *ApplicationService) GetApplication(scope repository.Scope, id uint) (*models.Application, error) {
	return s.applicationRepo.GetApplication(scope, id)
}

// DecideApplication sets the status chosen by an admin and tells the applicant
// about approvals and rejections
func (s *ApplicationService) DecideApplication(scope repository.Scope, id uint, in ApplicationDecision, actorID uint) (*models.Application, error) {
	if err := requireManager(scope); err != nil {
		return nil, err
	}

	application, err := s.applicationRepo.GetApplication(scope, id)
	if err != nil {
		return nil, err
	}
	if application.Status == models.ApplicationCancelled {
		return nil, invalidf("application %d was cancelled by the applicant", id)
	}

	updates := map[string]interface{}{"status": in.Status}
	if in.AdminComment != nil {
		updates["admin_comment"] = *in.AdminComment
	}
	if err := s.applicationRepo.UpdateApplication(id, updates); err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}

	if application.Status != in.Status && application.UserID != nil {
		dormitoryName := fmt.Sprintf("#%d", application.DormitoryID)
		if application.Dormitory != nil {
			dormitoryName = application.Dormitory.Name
		}
		switch in.Status {
		case models.ApplicationApproved:
			s.notifier.Notify(*application.UserID, fmt.Sprintf("Your application to %s has been approved", dormitoryName))
		case models.ApplicationRejected:
			s.notifier.Notify(*application.UserID, fmt.Sprintf("Your application to %s has been rejected", dormitoryName))
		}
	}

	audit(s.auditRepo, actorID, "application_decided",
		fmt.Sprintf("Application %d set to %s", id, in.Status), nil)
	return s.applicationRepo.GetApplication(scope, id)
}

// CancelApplication lets applicants withdraw their own pending application
func (s *ApplicationService) CancelApplication(userID, id uint) error {
	scope := repository.Scope{UserID: userID, Role: models.RoleStudent}
	application, err := s.applicationRepo.GetApplication(scope, id)
	if err != nil {
		return err
	}
	if application.Status != models.ApplicationPending {
		return invalidf("only pending applications can be cancelled")
	}
	return s.applicationRepo.UpdateApplication(id, map[string]interface{}{"status": models.ApplicationCancelled})
}

// MyApplications lists the caller's own applications
func (s *ApplicationService) MyApplications(userID uint, page repository.Page) ([]models.Application, int64, error) {
	scope := repository.Scope{UserID: userID, Role: models.RoleStudent}
	return s.applicationRepo.GetAllApplications(scope, repository.ApplicationFilter{}, page)
}

// DeleteApplication removes an application
func (s *ApplicationService) DeleteApplication(scope repository.Scope, id uint, actorID uint) error {
	if err := requireManager(scope); err != nil {
		return err
	}
	application, err := s.applicationRepo.GetApplication(scope, id)
	if err != nil {
		return err
	}
	if err := s.applicationRepo.DeleteApplication(application.ID); err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	audit(s.auditRepo, actorID, "application_deleted", fmt.Sprintf("Application %d deleted", id), nil)
	return nil
}
