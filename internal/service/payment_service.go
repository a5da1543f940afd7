package service

import (
	"errors"
	"fmt"
	"time"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"

	"gorm.io/gorm"
)

type PaymentService struct {
	db              *gorm.DB
	paymentRepo     *repository.PaymentRepository
	studentRepo     *repository.StudentRepository
	applicationRepo *repository.ApplicationRepository
	auditRepo       *repository.AuditRepository
	reconciler      *Reconciler
	notifier        *NotificationService
}

func NewPaymentService(
	db *gorm.DB,
	paymentRepo *repository.PaymentRepository,
	studentRepo *repository.StudentRepository,
	applicationRepo *repository.ApplicationRepository,
	auditRepo *repository.AuditRepository,
	reconciler *Reconciler,
	notifier *NotificationService,
) *PaymentService {
	return &PaymentService{
		db:              db,
		paymentRepo:     paymentRepo,
		studentRepo:     studentRepo,
		applicationRepo: applicationRepo,
		auditRepo:       auditRepo,
		reconciler:      reconciler,
		notifier:        notifier,
	}
}

// PaymentInput carries the writable fields of a payment
type PaymentInput struct {
	StudentID  *uint                 `json:"student_id"`
	Amount     *int64                `json:"amount" binding:"omitempty,gt=0"`
	PaidDate   *time.Time            `json:"paid_date"`
	ValidUntil *time.Time            `json:"valid_until"`
	ClearValid bool                  `json:"clear_valid_until"`
	Method     *models.PaymentMethod `json:"method" binding:"omitempty,oneof=Cash Card"`
	Status     *models.PaymentStatus `json:"status" binding:"omitempty,oneof=APPROVED CANCELLED"`
	Comment    *string               `json:"comment"`
}

// GetPayments lists the payments visible to the caller
func (s *PaymentService) GetPayments(scope repository.Scope, filter repository.PaymentFilter, page repository.Page) ([]models.Payment, int64, error) {
	return s.paymentRepo.GetAllPayments(scope, filter, page)
}

// GetPayment returns one payment visible to the caller
func (s *PaymentService) GetPayment(scope repository.Scope, id uint) (*models.Payment, error) {
	return s.paymentRepo.GetPayment(scope, id)
}

// CreatePayment records a payment for a student of the caller's dormitory and
// re-derives the student's debt status
func (s *PaymentService) CreatePayment(scope repository.Scope, in PaymentInput, actorID uint) (*models.Payment, error) {
	if err := requireManager(scope); err != nil {
		return nil, err
	}
	if in.StudentID == nil || in.Amount == nil {
		return nil, invalidf("student_id and amount are required")
	}
	if *in.Amount <= 0 {
		return nil, invalidf("amount must be positive")
	}

	student, err := s.studentRepo.GetStudent(scope, *in.StudentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalidf("student %d does not exist in your dormitory", *in.StudentID)
	}
	if err != nil {
		return nil, err
	}

	payment := &models.Payment{
		StudentID:   student.ID,
		DormitoryID: student.DormitoryID,
		Amount:      *in.Amount,
		PaidDate:    models.NewDate(s.reconciler.Today()),
		Method:      models.PaymentCash,
		Status:      models.PaymentApproved,
	}
	if in.PaidDate != nil {
		payment.PaidDate = models.NewDate(*in.PaidDate)
	}
	if in.ValidUntil != nil {
		payment.ValidUntil = models.DatePtr(*in.ValidUntil)
	}
	if in.Method != nil {
		payment.Method = *in.Method
	}
	if in.Status != nil {
		payment.Status = *in.Status
	}
	if in.Comment != nil {
		payment.Comment = *in.Comment
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.paymentRepo.WithTx(tx).CreatePayment(payment); err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}
		_, _, err := s.reconciler.RefreshStudentStatus(tx, student.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if payment.Status == models.PaymentApproved {
		s.notifyApproved(student, payment)
	}
	audit(s.auditRepo, actorID, "payment_created",
		fmt.Sprintf("Payment of %d recorded for student %d", payment.Amount, student.ID),
		map[string]interface{}{"payment_id": payment.ID, "status": payment.Status})

	return s.paymentRepo.GetPayment(scope, payment.ID)
}

// UpdatePayment changes a payment and re-derives the student's debt status
func (s *PaymentService) UpdatePayment(scope repository.Scope, id uint, in PaymentInput, actorID uint) (*models.Payment, error) {
	if err := requireManager(scope); err != nil {
		return nil, err
	}

	var (
		student     *models.Student
		newApproval bool
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		payments := s.paymentRepo.WithTx(tx)

		payment, err := payments.GetPayment(scope, id)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.StudentID != nil && *in.StudentID != payment.StudentID {
			return invalidf("a payment cannot be moved to another student")
		}
		if in.Amount != nil {
			if *in.Amount <= 0 {
				return invalidf("amount must be positive")
			}
			updates["amount"] = *in.Amount
		}
		if in.PaidDate != nil {
			updates["paid_date"] = models.NewDate(*in.PaidDate)
		}
		if in.ClearValid {
			updates["valid_until"] = nil
		} else if in.ValidUntil != nil {
			updates["valid_until"] = models.NewDate(*in.ValidUntil)
		}
		if in.Method != nil {
			updates["method"] = *in.Method
		}
		if in.Status != nil {
			updates["status"] = *in.Status
			newApproval = *in.Status == models.PaymentApproved && payment.Status != models.PaymentApproved
		}
		if in.Comment != nil {
			updates["comment"] = *in.Comment
		}

		if len(updates) > 0 {
			if err := payments.UpdatePayment(payment.ID, updates); err != nil {
				return fmt.Errorf("failed to update payment: %w", err)
			}
		}
		if _, _, err := s.reconciler.RefreshStudentStatus(tx, payment.StudentID); err != nil {
			return err
		}

		student, err = s.studentRepo.WithTx(tx).GetStudentByID(payment.StudentID)
		return err
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.paymentRepo.GetPayment(scope, id)
	if err != nil {
		return nil, err
	}
	if newApproval {
		s.notifyApproved(student, updated)
	}
	audit(s.auditRepo, actorID, "payment_updated", fmt.Sprintf("Payment %d updated", id), in)
	return updated, nil
}

// DeletePayment removes a payment and re-derives the student's debt status
func (s *PaymentService) DeletePayment(scope repository.Scope, id uint, actorID uint) error {
	if err := requireManager(scope); err != nil {
		return err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		payments := s.paymentRepo.WithTx(tx)

		payment, err := payments.GetPayment(scope, id)
		if err != nil {
			return err
		}
		if err := payments.DeletePayment(payment.ID); err != nil {
			return fmt.Errorf("failed to delete payment: %w", err)
		}
		_, _, err = s.reconciler.RefreshStudentStatus(tx, payment.StudentID)
		return err
	})
	if err != nil {
		return err
	}

	audit(s.auditRepo, actorID, "payment_deleted", fmt.Sprintf("Payment %d deleted", id), nil)
	return nil
}

// notifyApproved tells the student's account holder that the payment went through.
// The account is the one linked to the student, or else the one that applied with the same passport.
func (s *PaymentService) notifyApproved(student *models.Student, payment *models.Payment) {
	userID := idOrZero(student.UserID)
	if userID == 0 && student.Passport != nil {
		application, err := s.applicationRepo.LatestByPassport(*student.Passport)
		if err == nil {
			userID = idOrZero(application.UserID)
		}
	}
	if userID == 0 {
		return
	}

	message := fmt.Sprintf("Your payment of %d has been approved", payment.Amount)
	if payment.ValidUntil != nil {
		message += fmt.Sprintf(", valid until %s", time.Time(*payment.ValidUntil).Format("2006-01-02"))
	}
	s.notifier.Notify(userID, message)
}
