package service

import (
	"time"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
)

type DashboardService struct {
	dashboardRepo   *repository.DashboardRepository
	paymentRepo     *repository.PaymentRepository
	applicationRepo *repository.ApplicationRepository
}

func NewDashboardService(
	dashboardRepo *repository.DashboardRepository,
	paymentRepo *repository.PaymentRepository,
	applicationRepo *repository.ApplicationRepository,
) *DashboardService {
	return &DashboardService{
		dashboardRepo:   dashboardRepo,
		paymentRepo:     paymentRepo,
		applicationRepo: applicationRepo,
	}
}

// Dashboard is the headline numbers of one dormitory, or of all of them
type Dashboard struct {
	DormitoryID         uint             `json:"dormitory_id"`
	StudentsTotal       int64            `json:"students_total"`
	StudentsByPlacement map[string]int64 `json:"students_by_placement"`
	StudentsByStatus    map[string]int64 `json:"students_by_status"`
	RoomsTotal          int64            `json:"rooms_total"`
	RoomsByStatus       map[string]int64 `json:"rooms_by_status"`
	Capacity            int64            `json:"capacity"`
	Occupied            int64            `json:"occupied"`
	FreeBeds            int64            `json:"free_beds"`
	PaymentsApproved    int64            `json:"payments_approved"`
	PendingApplications int64            `json:"pending_applications"`
}

// GetDashboard aggregates the caller's dormitory. A superadmin picks one with
// dormitoryID or passes nil for every dormitory. The approved payment sum can
// be narrowed to a paid_date range.
func (s *DashboardService) GetDashboard(scope repository.Scope, dormitoryID *uint, from, to *time.Time) (*Dashboard, error) {
	if err := requireManager(scope); err != nil {
		return nil, err
	}
	dormID := scope.DormitoryID
	if scope.IsSuperAdmin() {
		dormID = idOrZero(dormitoryID)
	}

	d := &Dashboard{DormitoryID: dormID}
	var err error

	if d.StudentsByPlacement, err = s.dashboardRepo.StudentsByPlacement(dormID); err != nil {
		return nil, err
	}
	for _, n := range d.StudentsByPlacement {
		d.StudentsTotal += n
	}
	if d.StudentsByStatus, err = s.dashboardRepo.StudentsByStatus(dormID); err != nil {
		return nil, err
	}
	if d.RoomsByStatus, err = s.dashboardRepo.RoomsByStatus(dormID); err != nil {
		return nil, err
	}
	for _, n := range d.RoomsByStatus {
		d.RoomsTotal += n
	}
	if d.Capacity, d.Occupied, err = s.dashboardRepo.Capacity(dormID); err != nil {
		return nil, err
	}
	d.FreeBeds = d.Capacity - d.Occupied
	if d.PaymentsApproved, err = s.paymentRepo.SumApproved(dormID, from, to); err != nil {
		return nil, err
	}

	byStatus, err := s.applicationRepo.CountByStatus(dormID)
	if err != nil {
		return nil, err
	}
	d.PendingApplications = byStatus[models.ApplicationPending]

	return d, nil
}
