package service

import (
	"testing"
	"time"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/testutil"
)

// fixedNow is noon so day arithmetic never crosses midnight
var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	*testutil.Fixture

	users         *repository.UserRepository
	rooms         *repository.RoomRepository
	students      *repository.StudentRepository
	payments      *repository.PaymentRepository
	applications  *repository.ApplicationRepository
	notifications *repository.NotificationRepository
	leaders       *repository.FloorLeaderRepository

	reconciler    *Reconciler
	studentSvc    *StudentService
	roomSvc       *RoomService
	floorSvc      *FloorService
	paymentSvc    *PaymentService
	notifySvc     *NotificationService
	leaderSvc     *FloorLeaderService
	dashboardSvc  *DashboardService
	userSvc       *UserService
	dormitorySvc  *DormitoryService
	catalogSvc    *CatalogService
	taskSvc       *TaskService
	apartmentSvc  *ApartmentService
	authSvc       *AuthService
	adminScope    repository.Scope
	rootScope     repository.Scope
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	f := testutil.NewFixture(t)
	db := f.DB

	e := &testEnv{
		Fixture:       f,
		users:         repository.NewUserRepo(db),
		rooms:         repository.NewRoomRepo(db),
		students:      repository.NewStudentRepo(db),
		payments:      repository.NewPaymentRepo(db),
		applications:  repository.NewApplicationRepo(db),
		notifications: repository.NewNotificationRepo(db),
		leaders:       repository.NewFloorLeaderRepo(db),
	}
	auditRepo := repository.NewAuditRepo(db)
	floors := repository.NewFloorRepo(db)
	dormitories := repository.NewDormitoryRepo(db)
	catalog := repository.NewCatalogRepo(db)

	e.reconciler = NewReconciler(db, e.rooms, e.students, e.payments, time.UTC)
	e.reconciler.SetClock(func() time.Time { return fixedNow })

	e.notifySvc = NewNotificationService(db, e.notifications, e.users, e.students, auditRepo)
	e.studentSvc = NewStudentService(db, e.students, e.rooms, floors, e.payments, auditRepo, e.reconciler)
	e.roomSvc = NewRoomService(db, e.rooms, floors, auditRepo, e.reconciler)
	e.floorSvc = NewFloorService(floors, auditRepo)
	e.paymentSvc = NewPaymentService(db, e.payments, e.students, e.applications, auditRepo, e.reconciler, e.notifySvc)
	e.leaderSvc = NewFloorLeaderService(db, e.leaders, floors, e.students, e.users, auditRepo, e.reconciler)
	e.dashboardSvc = NewDashboardService(repository.NewDashboardRepo(db), e.payments, e.applications)
	e.userSvc = NewUserService(e.users, dormitories, e.students, auditRepo)
	e.dormitorySvc = NewDormitoryService(db, dormitories, catalog, e.users, e.students, auditRepo)
	e.catalogSvc = NewCatalogService(catalog, auditRepo)
	e.taskSvc = NewTaskService(repository.NewTaskRepo(db))
	e.apartmentSvc = NewApartmentService(repository.NewApartmentRepo(db), e.catalogSvc)
	e.authSvc = NewAuthService(e.users, auditRepo)

	e.adminScope = repository.Scope{UserID: f.Admin.ID, Role: models.RoleAdmin, DormitoryID: f.Dormitory.ID}
	e.rootScope = repository.Scope{UserID: f.SuperAdmin.ID, Role: models.RoleSuperAdmin}
	return e
}

func ptr[T any](v T) *T { return &v }

// placeStudent creates a student through the service, in the room when one is given
func (e *testEnv) placeStudent(t *testing.T, name string, room *models.Room) *models.Student {
	t.Helper()
	in := StudentInput{Name: ptr(name)}
	if room != nil {
		in.RoomID = ptr(room.ID)
		if room.Gender == models.GenderFemale {
			in.Gender = ptr(models.StudentFemale)
		}
	}
	student, err := e.studentSvc.CreateStudent(e.adminScope, in, e.Admin.ID)
	if err != nil {
		t.Fatalf("placeStudent(%s) failed: %v", name, err)
	}
	return student
}

func (e *testEnv) pay(t *testing.T, student *models.Student, validUntil *time.Time, status models.PaymentStatus) *models.Payment {
	t.Helper()
	payment, err := e.paymentSvc.CreatePayment(e.adminScope, PaymentInput{
		StudentID:  ptr(student.ID),
		Amount:     ptr(int64(500000)),
		ValidUntil: validUntil,
		Status:     ptr(status),
	}, e.Admin.ID)
	if err != nil {
		t.Fatalf("pay() failed: %v", err)
	}
	return payment
}

func (e *testEnv) studentStatus(t *testing.T, id uint) models.StudentStatus {
	t.Helper()
	student, err := e.students.GetStudentByID(id)
	if err != nil {
		t.Fatalf("GetStudentByID(%d) failed: %v", id, err)
	}
	return student.Status
}

func days(n int) *time.Time {
	t := fixedNow.AddDate(0, 0, n)
	return &t
}
