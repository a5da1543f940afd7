package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"

	"gorm.io/gorm"
)

const sweepBatchSize = 200

// Reconciler is the only place that writes derived fields:
// room occupancy/status and student debt status.
// Every method accepts the transaction the caller is running in; nil means no transaction.
type Reconciler struct {
	db          *gorm.DB
	roomRepo    *repository.RoomRepository
	studentRepo *repository.StudentRepository
	paymentRepo *repository.PaymentRepository
	location    *time.Location
	now         func() time.Time
}

func NewReconciler(
	db *gorm.DB,
	roomRepo *repository.RoomRepository,
	studentRepo *repository.StudentRepository,
	paymentRepo *repository.PaymentRepository,
	location *time.Location,
) *Reconciler {
	if location == nil {
		location = time.UTC
	}
	return &Reconciler{
		db:          db,
		roomRepo:    roomRepo,
		studentRepo: studentRepo,
		paymentRepo: paymentRepo,
		location:    location,
		now:         time.Now,
	}
}

// SetClock overrides the wall clock, used by tests
func (r *Reconciler) SetClock(now func() time.Time) {
	r.now = now
}

// Today is the current time in the configured calendar
func (r *Reconciler) Today() time.Time {
	return r.now().In(r.location)
}

func (r *Reconciler) conn(tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return r.db
	}
	return tx
}

// RefreshRoom recounts the students of a room and stores occupancy and status
// when they differ from what is cached. A room that no longer exists is skipped.
func (r *Reconciler) RefreshRoom(tx *gorm.DB, roomID uint) error {
	rooms := r.roomRepo.WithTx(r.conn(tx))

	room, err := rooms.GetRoomByID(roomID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	occupancy, err := rooms.CountStudents(roomID)
	if err != nil {
		return fmt.Errorf("failed to count students of room %d: %w", roomID, err)
	}

	status := models.ComputeRoomStatus(occupancy, room.Capacity)
	if occupancy == room.CurrentOccupancy && status == room.Status {
		return nil
	}
	return rooms.SetOccupancy(roomID, occupancy, status)
}

// RefreshRooms refreshes every distinct non-zero room ID once
func (r *Reconciler) RefreshRooms(tx *gorm.DB, roomIDs ...uint) error {
	seen := make(map[uint]bool, len(roomIDs))
	for _, id := range roomIDs {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		if err := r.RefreshRoom(tx, id); err != nil {
			return err
		}
	}
	return nil
}

// RefreshStudentStatus re-derives the debt status of a student and stores it on change.
// It returns the current status and whether it was rewritten.
func (r *Reconciler) RefreshStudentStatus(tx *gorm.DB, studentID uint) (models.StudentStatus, bool, error) {
	db := r.conn(tx)
	students := r.studentRepo.WithTx(db)

	student, err := students.GetStudentByID(studentID)
	if err != nil {
		return "", false, err
	}

	payments, err := r.paymentRepo.WithTx(db).ListByStudent(studentID)
	if err != nil {
		return "", false, fmt.Errorf("failed to load payments of student %d: %w", studentID, err)
	}

	status := models.ComputeStudentStatus(student.PlacementStatus, payments, r.Today())
	if status == student.Status {
		return status, false, nil
	}
	if err := students.UpdateStatus(studentID, status); err != nil {
		return "", false, err
	}
	return status, true, nil
}

// SweepStudentStatuses re-derives the status of every student in batches.
// Payments expire without any write, so this is what turns Haqdor into Qarzdor.
func (r *Reconciler) SweepStudentStatuses(ctx context.Context) (checked, changed int, err error) {
	var afterID uint
	for {
		if err := ctx.Err(); err != nil {
			return checked, changed, err
		}

		ids, err := r.studentRepo.ListStudentIDsAfter(afterID, sweepBatchSize)
		if err != nil {
			return checked, changed, err
		}
		if len(ids) == 0 {
			return checked, changed, nil
		}

		for _, id := range ids {
			_, updated, err := r.RefreshStudentStatus(nil, id)
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			if err != nil {
				return checked, changed, err
			}
			checked++
			if updated {
				changed++
			}
		}
		afterID = ids[len(ids)-1]
	}
}

// ReconcileAllRooms recounts every room; used at startup to repair drift
func (r *Reconciler) ReconcileAllRooms(ctx context.Context) error {
	ids, err := r.roomRepo.ListAllRoomIDs()
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.RefreshRoom(nil, id); err != nil {
			return err
		}
	}
	return nil
}
