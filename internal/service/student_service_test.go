package service

import (
	"context"
	"testing"
	"time"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomFillsUpAndRejectsOverflow(t *testing.T) {
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "1", models.GenderMale)
	room := e.CreateRoom(t, floor, "101", 2)

	e.placeStudent(t, "Aziz", &room)
	room = e.Reload(t, room)
	assert.Equal(t, 1, room.CurrentOccupancy)
	assert.Equal(t, models.RoomPartiallyOccupied, room.Status)

	e.placeStudent(t, "Bekzod", &room)
	room = e.Reload(t, room)
	assert.Equal(t, 2, room.CurrentOccupancy)
	assert.Equal(t, models.RoomFullyOccupied, room.Status)

	_, err := e.studentSvc.CreateStudent(e.adminScope, StudentInput{Name: ptr("Davron"), RoomID: ptr(room.ID)}, e.Admin.ID)
	assert.ErrorIs(t, err, ErrRoomFull)
	assert.ErrorIs(t, err, ErrInvalid)

	room = e.Reload(t, room)
	assert.Equal(t, 2, room.CurrentOccupancy)
	assert.Equal(t, models.RoomFullyOccupied, room.Status)
}

func TestPlacementDrivesStudentStatus(t *testing.T) {
	e := newTestEnv(t)

	student := e.placeStudent(t, "Aziz", nil)
	assert.Equal(t, models.PlacementReceived, student.PlacementStatus)
	assert.Equal(t, models.StudentNotEvaluated, student.Status)

	placed := models.PlacementPlaced
	updated, err := e.studentSvc.UpdateStudent(e.adminScope, student.ID, StudentInput{PlacementStatus: &placed}, e.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StudentDebtor, updated.Status)
}

func TestLatestValidUntilGovernsStatus(t *testing.T) {
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "1", models.GenderMale)
	room := e.CreateRoom(t, floor, "101", 2)
	student := e.placeStudent(t, "Aziz", &room)
	assert.Equal(t, models.StudentDebtor, student.Status)

	e.pay(t, student, days(30), models.PaymentApproved)
	assert.Equal(t, models.StudentPaidUp, e.studentStatus(t, student.ID))

	e.pay(t, student, days(-1), models.PaymentApproved)
	assert.Equal(t, models.StudentPaidUp, e.studentStatus(t, student.ID))
}

func TestPaymentCoverage(t *testing.T) {
	tests := []struct {
		name     string
		until    int
		nilUntil bool
		status   models.PaymentStatus
		want     models.StudentStatus
	}{
		{name: "covers today", until: 0, status: models.PaymentApproved, want: models.StudentPaidUp},
		{name: "expired yesterday", until: -1, status: models.PaymentApproved, want: models.StudentDebtor},
		{name: "cancelled payment", until: 30, status: models.PaymentCancelled, want: models.StudentDebtor},
		{name: "approved without valid_until", nilUntil: true, status: models.PaymentApproved, want: models.StudentDebtor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t)
			floor := e.CreateFloor(t, "1", models.GenderMale)
			room := e.CreateRoom(t, floor, "101", 1)
			student := e.placeStudent(t, "Aziz", &room)

			until := days(tt.until)
			if tt.nilUntil {
				until = nil
			}
			e.pay(t, student, until, tt.status)
			assert.Equal(t, tt.want, e.studentStatus(t, student.ID))
		})
	}
}

func TestMoveStudentRecountsBothRooms(t *testing.T) {
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "1", models.GenderMale)
	roomA := e.CreateRoom(t, floor, "A", 3)
	roomB := e.CreateRoom(t, floor, "B", 2)

	mover := e.placeStudent(t, "S1", &roomA)
	e.placeStudent(t, "S2", &roomA)
	e.placeStudent(t, "S3", &roomA)
	e.placeStudent(t, "S4", &roomB)
	require.Equal(t, models.RoomFullyOccupied, e.Reload(t, roomA).Status)

	moved, err := e.studentSvc.UpdateStudent(e.adminScope, mover.ID, StudentInput{RoomID: ptr(roomB.ID)}, e.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, roomB.ID, *moved.RoomID)

	roomA = e.Reload(t, roomA)
	assert.Equal(t, 2, roomA.CurrentOccupancy)
	assert.Equal(t, models.RoomPartiallyOccupied, roomA.Status)

	roomB = e.Reload(t, roomB)
	assert.Equal(t, 2, roomB.CurrentOccupancy)
	assert.Equal(t, models.RoomFullyOccupied, roomB.Status)
}

func TestUnassignAndDeleteFreeTheBed(t *testing.T) {
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "1", models.GenderMale)
	room := e.CreateRoom(t, floor, "101", 2)
	first := e.placeStudent(t, "Aziz", &room)
	second := e.placeStudent(t, "Bekzod", &room)

	_, err := e.studentSvc.UpdateStudent(e.adminScope, first.ID, StudentInput{RoomID: ptr(uint(0))}, e.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, e.Reload(t, room).CurrentOccupancy)

	require.NoError(t, e.studentSvc.DeleteStudent(e.adminScope, second.ID, e.Admin.ID))
	room = e.Reload(t, room)
	assert.Equal(t, 0, room.CurrentOccupancy)
	assert.Equal(t, models.RoomAvailable, room.Status)
}

func TestCreateStudentValidation(t *testing.T) {
	e := newTestEnv(t)
	maleFloor := e.CreateFloor(t, "1", models.GenderMale)
	femaleFloor := e.CreateFloor(t, "2", models.GenderFemale)
	femaleRoom := e.CreateRoom(t, femaleFloor, "201", 2)

	other := e.CreateFloor(t, "3", models.GenderMale)
	otherRoom := e.CreateRoom(t, other, "301", 2)

	_, err := e.studentSvc.CreateStudent(e.adminScope, StudentInput{Name: ptr("First"), Passport: ptr("aa1234567")}, e.Admin.ID)
	require.NoError(t, err)

	tests := []struct {
		name string
		in   StudentInput
		want error
	}{
		{name: "missing name", in: StudentInput{}, want: ErrInvalid},
		{name: "gender mismatch", in: StudentInput{Name: ptr("Aziz"), RoomID: ptr(femaleRoom.ID)}, want: ErrGenderMismatch},
		{name: "unknown room", in: StudentInput{Name: ptr("Aziz"), RoomID: ptr(uint(9999))}, want: ErrInvalid},
		{name: "room on another floor", in: StudentInput{Name: ptr("Aziz"), FloorID: ptr(maleFloor.ID), RoomID: ptr(otherRoom.ID)}, want: ErrInvalid},
		{name: "duplicate passport", in: StudentInput{Name: ptr("Aziz"), Passport: ptr("AA1234567")}, want: ErrDuplicatePassport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.studentSvc.CreateStudent(e.adminScope, tt.in, e.Admin.ID)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	assert.Equal(t, 0, e.Reload(t, femaleRoom).CurrentOccupancy)
	assert.Equal(t, 0, e.Reload(t, otherRoom).CurrentOccupancy)
}

func TestStudentsAreScopedToTheirDormitory(t *testing.T) {
	e := newTestEnv(t)
	student := e.placeStudent(t, "Aziz", nil)

	stranger := repository.Scope{UserID: 999, Role: models.RoleAdmin, DormitoryID: e.Dormitory.ID + 100}
	_, err := e.studentSvc.GetStudent(stranger, student.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = e.studentSvc.DeleteStudent(stranger, student.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	lost := repository.Scope{UserID: 999, Role: models.RoleAdmin}
	_, err = e.studentSvc.CreateStudent(lost, StudentInput{Name: ptr("X")}, 999)
	assert.ErrorIs(t, err, ErrNoDormitory)

	got, err := e.studentSvc.GetStudent(e.rootScope, student.ID)
	require.NoError(t, err)
	assert.Equal(t, "Aziz", got.Name)
}

func TestSweepTurnsExpiredPaymentsIntoDebt(t *testing.T) {
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "1", models.GenderMale)
	room := e.CreateRoom(t, floor, "101", 2)
	student := e.placeStudent(t, "Aziz", &room)
	e.placeStudent(t, "Bekzod", &room)
	e.pay(t, student, days(1), models.PaymentApproved)
	require.Equal(t, models.StudentPaidUp, e.studentStatus(t, student.ID))

	checked, changed, err := e.reconciler.SweepStudentStatuses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, checked)
	assert.Equal(t, 0, changed)

	e.reconciler.SetClock(func() time.Time { return fixedNow.AddDate(0, 0, 2) })
	checked, changed, err = e.reconciler.SweepStudentStatuses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, checked)
	assert.Equal(t, 1, changed)
	assert.Equal(t, models.StudentDebtor, e.studentStatus(t, student.ID))
}

func TestReconcileAllRoomsRepairsDrift(t *testing.T) {
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "1", models.GenderMale)
	room := e.CreateRoom(t, floor, "101", 2)
	e.placeStudent(t, "Aziz", &room)

	require.NoError(t, e.rooms.SetOccupancy(room.ID, 2, models.RoomFullyOccupied))
	require.NoError(t, e.reconciler.ReconcileAllRooms(context.Background()))

	room = e.Reload(t, room)
	assert.Equal(t, 1, room.CurrentOccupancy)
	assert.Equal(t, models.RoomPartiallyOccupied, room.Status)
}

func TestAssignmentReservesAgainstRealCount(t *testing.T) {
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "1", models.GenderMale)
	room := e.CreateRoom(t, floor, "101", 1)

	// a stale counter claims the room is full
	require.NoError(t, e.rooms.SetOccupancy(room.ID, 1, models.RoomFullyOccupied))

	e.placeStudent(t, "Aziz", &room)
	room = e.Reload(t, room)
	assert.Equal(t, 1, room.CurrentOccupancy)
	assert.Equal(t, models.RoomFullyOccupied, room.Status)
}

func TestRoomedStudentStaysPlaced(t *testing.T) {
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "1", models.GenderMale)
	room := e.CreateRoom(t, floor, "101", 2)
	student := e.placeStudent(t, "Aziz", &room)
	require.Equal(t, models.StudentDebtor, student.Status)

	received := models.PlacementReceived
	updated, err := e.studentSvc.UpdateStudent(e.adminScope, student.ID, StudentInput{PlacementStatus: &received}, e.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PlacementPlaced, updated.PlacementStatus)
	assert.Equal(t, models.StudentDebtor, updated.Status)
	assert.Equal(t, 1, e.Reload(t, room).CurrentOccupancy)
}

func TestSuperAdminNeedsAnExistingDormitory(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.studentSvc.CreateStudent(e.rootScope, StudentInput{Name: ptr("Aziz"), DormitoryID: ptr(uint(9999))}, e.SuperAdmin.ID)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = e.floorSvc.CreateFloor(e.rootScope, FloorInput{Name: ptr("1"), DormitoryID: ptr(uint(9999))}, e.SuperAdmin.ID)
	assert.ErrorIs(t, err, ErrInvalid)

	student, err := e.studentSvc.CreateStudent(e.rootScope, StudentInput{Name: ptr("Aziz"), DormitoryID: ptr(e.Dormitory.ID)}, e.SuperAdmin.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Dormitory.ID, student.DormitoryID)
}
