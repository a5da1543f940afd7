package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"

	"gorm.io/gorm"
)

// FloorLeaderService covers what happens on a single floor: who leads it,
// evening roll calls and small fee collections
type FloorLeaderService struct {
	db          *gorm.DB
	leaderRepo  *repository.FloorLeaderRepository
	floorRepo   *repository.FloorRepository
	studentRepo *repository.StudentRepository
	userRepo    *repository.UserRepository
	auditRepo   *repository.AuditRepository
	reconciler  *Reconciler
}

func NewFloorLeaderService(
	db *gorm.DB,
	leaderRepo *repository.FloorLeaderRepository,
	floorRepo *repository.FloorRepository,
	studentRepo *repository.StudentRepository,
	userRepo *repository.UserRepository,
	auditRepo *repository.AuditRepository,
	reconciler *Reconciler,
) *FloorLeaderService {
	return &FloorLeaderService{
		db:          db,
		leaderRepo:  leaderRepo,
		floorRepo:   floorRepo,
		studentRepo: studentRepo,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		reconciler:  reconciler,
	}
}

type LeaderInput struct {
	FloorID uint `json:"floor_id" binding:"required"`
	UserID  uint `json:"user_id" binding:"required"`
}

type AttendanceMark struct {
	StudentID uint                    `json:"student_id" binding:"required"`
	Status    models.AttendanceStatus `json:"status" binding:"required,oneof=present absent excused"`
}

type AttendanceInput struct {
	FloorID uint             `json:"floor_id"`
	Date    *time.Time       `json:"date"`
	Marks   []AttendanceMark `json:"marks" binding:"required,min=1,dive"`
}

type CollectionInput struct {
	FloorID     uint       `json:"floor_id"`
	Title       string     `json:"title" binding:"required,max=255"`
	Description string     `json:"description"`
	Amount      int64      `json:"amount" binding:"required,gt=0"`
	Deadline    *time.Time `json:"deadline"`
}

// CollectionSummary is a collection with its progress
type CollectionSummary struct {
	models.Collection
	PaidCount  int   `json:"paid_count"`
	TotalCount int   `json:"total_count"`
	Collected  int64 `json:"collected"`
}

func summarize(c models.Collection) CollectionSummary {
	summary := CollectionSummary{Collection: c, TotalCount: len(c.Records)}
	for _, r := range c.Records {
		if r.Paid {
			summary.PaidCount++
			summary.Collected += c.Amount
		}
	}
	return summary
}

// ListLeaders lists the floor leaders of the caller's dormitory
func (s *FloorLeaderService) ListLeaders(scope repository.Scope) ([]models.FloorLeader, error) {
	if err := requireManager(scope); err != nil {
		return nil, err
	}
	return s.leaderRepo.ListByDormitory(scope.DormitoryID)
}

// AssignLeader makes a student who lives on the floor its leader
func (s *FloorLeaderService) AssignLeader(scope repository.Scope, in LeaderInput, actorID uint) (*models.FloorLeader, error) {
	if err := requireManager(scope); err != nil {
		return nil, err
	}
	floor, err := s.floorRepo.GetFloor(scope, in.FloorID)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(in.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, invalidf("user %d does not exist", in.UserID)
	}
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleStudent {
		return nil, invalidf("user %s is not a student", user.Username)
	}

	student, err := s.studentRepo.GetStudentByUserID(user.ID)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && !sameID(student.FloorID, &floor.ID)) {
		return nil, invalidf("user %s does not live on floor %s", user.Username, floor.Name)
	}
	if err != nil {
		return nil, err
	}

	if current, err := s.leaderRepo.GetByUserID(user.ID); err == nil && current.FloorID != floor.ID {
		return nil, invalidf("user %s already leads another floor", user.Username)
	}

	leader := &models.FloorLeader{FloorID: floor.ID, UserID: user.ID}
	if err := s.leaderRepo.Assign(leader); err != nil {
		return nil, fmt.Errorf("failed to assign floor leader: %w", err)
	}

	audit(s.auditRepo, actorID, "floor_leader_assigned",
		fmt.Sprintf("User %s leads floor %s", user.Username, floor.Name), nil)
	return s.leaderRepo.GetByFloorID(floor.ID)
}

// RemoveLeader takes the leadership of a floor away
func (s *FloorLeaderService) RemoveLeader(scope repository.Scope, floorID uint, actorID uint) error {
	if err := requireManager(scope); err != nil {
		return err
	}
	if _, err := s.floorRepo.GetFloor(scope, floorID); err != nil {
		return err
	}
	if err := s.leaderRepo.Remove(floorID); err != nil {
		return err
	}
	audit(s.auditRepo, actorID, "floor_leader_removed", fmt.Sprintf("Floor %d has no leader", floorID), nil)
	return nil
}

// floorFor resolves the floor an attendance or collection request acts on.
// Leaders always act on their own floor; managers name one of theirs.
func (s *FloorLeaderService) floorFor(scope repository.Scope, requested uint) (*models.Floor, error) {
	if scope.IsSuperAdmin() || scope.IsDormitoryAdmin() {
		if requested == 0 {
			return nil, invalidf("floor_id is required")
		}
		return s.floorRepo.GetFloor(scope, requested)
	}
	if !scope.IsFloorLeader() {
		return nil, forbiddenf("floor leader access required")
	}
	if requested != 0 && requested != scope.FloorID {
		return nil, forbiddenf("you lead floor %d only", scope.FloorID)
	}
	return s.floorRepo.GetFloorByID(scope.FloorID)
}

// RecordAttendance stores the roll call of a floor for a day; marking the same
// day again overwrites the earlier marks
func (s *FloorLeaderService) RecordAttendance(scope repository.Scope, in AttendanceInput, actorID uint) (*models.AttendanceSession, error) {
	floor, err := s.floorFor(scope, in.FloorID)
	if err != nil {
		return nil, err
	}

	day := s.reconciler.Today()
	if in.Date != nil {
		day = *in.Date
	}

	residents, err := s.studentRepo.ListStudentsOnFloor(floor.ID)
	if err != nil {
		return nil, err
	}
	onFloor := make(map[uint]bool, len(residents))
	for _, st := range residents {
		onFloor[st.ID] = true
	}

	var sessionID uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		leaders := s.leaderRepo.WithTx(tx)

		session, err := leaders.GetSession(floor.ID, day)
		if errors.Is(err, repository.ErrNotFound) {
			session = &models.AttendanceSession{FloorID: floor.ID, Date: models.NewDate(day), CreatedByID: actorID}
			err = leaders.CreateSession(session)
		}
		if err != nil {
			return err
		}
		sessionID = session.ID

		records := make([]models.AttendanceRecord, 0, len(in.Marks))
		for _, mark := range in.Marks {
			if !onFloor[mark.StudentID] {
				return invalidf("student %d does not live on floor %s", mark.StudentID, floor.Name)
			}
			records = append(records, models.AttendanceRecord{
				SessionID: session.ID,
				StudentID: mark.StudentID,
				Status:    mark.Status,
			})
		}
		return leaders.UpsertRecords(records)
	})
	if err != nil {
		return nil, err
	}

	return s.leaderRepo.GetSessionByID(sessionID)
}

// ListAttendance lists the roll calls of a floor
func (s *FloorLeaderService) ListAttendance(scope repository.Scope, floorID uint, page repository.Page) ([]models.AttendanceSession, int64, error) {
	floor, err := s.floorFor(scope, floorID)
	if err != nil {
		return nil, 0, err
	}
	return s.leaderRepo.ListSessions(floor.ID, page)
}

// CreateCollection opens a fee collection with an unpaid record for every resident of the floor
func (s *FloorLeaderService) CreateCollection(scope repository.Scope, in CollectionInput, actorID uint) (*CollectionSummary, error) {
	floor, err := s.floorFor(scope, in.FloorID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, invalidf("title is required")
	}
	if in.Amount <= 0 {
		return nil, invalidf("amount must be positive")
	}

	residents, err := s.studentRepo.ListStudentsOnFloor(floor.ID)
	if err != nil {
		return nil, err
	}

	collection := &models.Collection{
		FloorID:     floor.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Amount:      in.Amount,
		CreatedByID: actorID,
	}
	if in.Deadline != nil {
		collection.Deadline = models.DatePtr(*in.Deadline)
	}
	for _, st := range residents {
		collection.Records = append(collection.Records, models.CollectionRecord{StudentID: st.ID})
	}

	if err := s.leaderRepo.CreateCollection(collection); err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	created, err := s.leaderRepo.GetCollection(collection.ID)
	if err != nil {
		return nil, err
	}
	summary := summarize(*created)
	return &summary, nil
}

// ListCollections lists the collections of a floor with their progress
func (s *FloorLeaderService) ListCollections(scope repository.Scope, floorID uint, page repository.Page) ([]CollectionSummary, int64, error) {
	floor, err := s.floorFor(scope, floorID)
	if err != nil {
		return nil, 0, err
	}
	collections, total, err := s.leaderRepo.ListCollections(floor.ID, page)
	if err != nil {
		return nil, 0, err
	}
	summaries := make([]CollectionSummary, 0, len(collections))
	for _, c := range collections {
		summaries = append(summaries, summarize(c))
	}
	return summaries, total, nil
}

// GetCollection returns one collection of a floor the caller may see
func (s *FloorLeaderService) GetCollection(scope repository.Scope, id uint) (*CollectionSummary, error) {
	collection, err := s.leaderRepo.GetCollection(id)
	if err != nil {
		return nil, err
	}
	if _, err := s.floorFor(scope, collection.FloorID); err != nil {
		return nil, err
	}
	summary := summarize(*collection)
	return &summary, nil
}

// MarkCollection records whether a student has paid a collection
func (s *FloorLeaderService) MarkCollection(scope repository.Scope, id, studentID uint, paid bool) (*CollectionSummary, error) {
	if _, err := s.GetCollection(scope, id); err != nil {
		return nil, err
	}

	var at *time.Time
	if paid {
		now := time.Now().UTC()
		at = &now
	}
	if err := s.leaderRepo.SetCollectionPaid(id, studentID, paid, at); err != nil {
		return nil, err
	}
	return s.GetCollection(scope, id)
}

// DeleteCollection removes a collection
func (s *FloorLeaderService) DeleteCollection(scope repository.Scope, id uint) error {
	if _, err := s.GetCollection(scope, id); err != nil {
		return err
	}
	return s.leaderRepo.DeleteCollection(id)
}
