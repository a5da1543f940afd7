package repository

import (
	"time"

	"dormitory-backend/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepo(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx
func (r *PaymentRepository) WithTx(tx *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: tx}
}

// PaymentFilter narrows payment listings
type PaymentFilter struct {
	StudentID uint
	Status    models.PaymentStatus
	Method    models.PaymentMethod
	From      *time.Time
	To        *time.Time
}

// GetAllPayments retrieves the payments visible to the scope, newest first
func (r *PaymentRepository) GetAllPayments(scope Scope, filter PaymentFilter, page Page) ([]models.Payment, int64, error) {
	query := r.db.Model(&models.Payment{}).Scopes(scope.Payments())
	if filter.StudentID != 0 {
		query = query.Where("payments.student_id = ?", filter.StudentID)
	}
	if filter.Status != "" {
		query = query.Where("payments.status = ?", filter.Status)
	}
	if filter.Method != "" {
		query = query.Where("payments.method = ?", filter.Method)
	}
	if filter.From != nil {
		query = query.Where("payments.paid_date >= ?", models.NewDate(*filter.From))
	}
	if filter.To != nil {
		query = query.Where("payments.paid_date <= ?", models.NewDate(*filter.To))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var payments []models.Payment
	err := query.Scopes(page.apply).
		Preload("Student").
		Order("payments.id DESC").
		Find(&payments).Error
	return payments, total, err
}

// GetPayment retrieves a payment visible to the scope
func (r *PaymentRepository) GetPayment(scope Scope, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Scopes(scope.Payments()).
		Preload("Student").
		Where("payments.id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, translate(err, "payment")
	}
	return &payment, nil
}

// ListByStudent returns every payment of a student
func (r *PaymentRepository) ListByStudent(studentID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := r.db.Where("student_id = ?", studentID).Order("id ASC").Find(&payments).Error
	return payments, err
}

// CreatePayment creates a new payment
func (r *PaymentRepository) CreatePayment(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// UpdatePayment applies the given column updates
func (r *PaymentRepository) UpdatePayment(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Payment{}).Where("id = ?", id).Updates(updates).Error
}

// DeletePayment permanently deletes a payment
func (r *PaymentRepository) DeletePayment(id uint) error {
	return r.db.Delete(&models.Payment{}, id).Error
}

// SumApproved adds up approved payment amounts of a dormitory (0 means every dormitory)
func (r *PaymentRepository) SumApproved(dormitoryID uint, from, to *time.Time) (int64, error) {
	query := r.db.Model(&models.Payment{}).Where("status = ?", models.PaymentApproved)
	if dormitoryID != 0 {
		query = query.Where("dormitory_id = ?", dormitoryID)
	}
	if from != nil {
		query = query.Where("paid_date >= ?", models.NewDate(*from))
	}
	if to != nil {
		query = query.Where("paid_date <= ?", models.NewDate(*to))
	}
	var sum int64
	err := query.Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error
	return sum, err
}
