package service

import (
	"testing"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type floorWorld struct {
	*testEnv
	floor    models.Floor
	leader   models.User
	resident *models.Student
	neighbor *models.Student
	scope    repository.Scope
}

func newFloorWorld(t *testing.T) *floorWorld {
	t.Helper()
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "1", models.GenderMale)
	room := e.CreateRoom(t, floor, "101", 3)

	leader := testutil.CreateUser(t, e.DB, "leader", models.RoleStudent)
	resident, err := e.studentSvc.CreateStudent(e.adminScope, StudentInput{Name: ptr("Leader"), UserID: ptr(leader.ID), RoomID: ptr(room.ID)}, e.Admin.ID)
	require.NoError(t, err)
	neighbor := e.placeStudent(t, "Neighbor", &room)

	_, err = e.leaderSvc.AssignLeader(e.adminScope, LeaderInput{FloorID: floor.ID, UserID: leader.ID}, e.Admin.ID)
	require.NoError(t, err)

	return &floorWorld{
		testEnv:  e,
		floor:    floor,
		leader:   leader,
		resident: resident,
		neighbor: neighbor,
		scope:    repository.Scope{UserID: leader.ID, Role: models.RoleStudent, FloorID: floor.ID, DormitoryID: e.Dormitory.ID},
	}
}

func TestAssignLeaderRules(t *testing.T) {
	w := newFloorWorld(t)
	otherFloor := w.CreateFloor(t, "2", models.GenderMale)
	homeless := testutil.CreateUser(t, w.DB, "homeless", models.RoleStudent)

	tests := []struct {
		name string
		in   LeaderInput
		want error
	}{
		{name: "admin user", in: LeaderInput{FloorID: w.floor.ID, UserID: w.Admin.ID}, want: ErrInvalid},
		{name: "student without record", in: LeaderInput{FloorID: w.floor.ID, UserID: homeless.ID}, want: ErrInvalid},
		{name: "lives elsewhere", in: LeaderInput{FloorID: otherFloor.ID, UserID: w.leader.ID}, want: ErrInvalid},
		{name: "unknown user", in: LeaderInput{FloorID: w.floor.ID, UserID: 9999}, want: ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := w.leaderSvc.AssignLeader(w.adminScope, tt.in, w.Admin.ID)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	leaders, err := w.leaderSvc.ListLeaders(w.adminScope)
	require.NoError(t, err)
	require.Len(t, leaders, 1)
	assert.Equal(t, w.leader.ID, leaders[0].UserID)

	require.NoError(t, w.leaderSvc.RemoveLeader(w.adminScope, w.floor.ID, w.Admin.ID))
	leaders, err = w.leaderSvc.ListLeaders(w.adminScope)
	require.NoError(t, err)
	assert.Empty(t, leaders)
}

func TestRecordAttendanceOverwritesSameDay(t *testing.T) {
	w := newFloorWorld(t)

	session, err := w.leaderSvc.RecordAttendance(w.scope, AttendanceInput{Marks: []AttendanceMark{
		{StudentID: w.resident.ID, Status: models.AttendancePresent},
		{StudentID: w.neighbor.ID, Status: models.AttendanceAbsent},
	}}, w.leader.ID)
	require.NoError(t, err)
	assert.Len(t, session.Records, 2)

	again, err := w.leaderSvc.RecordAttendance(w.scope, AttendanceInput{Marks: []AttendanceMark{
		{StudentID: w.neighbor.ID, Status: models.AttendanceExcused},
	}}, w.leader.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, again.ID)

	marks := map[uint]models.AttendanceStatus{}
	for _, r := range again.Records {
		marks[r.StudentID] = r.Status
	}
	assert.Equal(t, models.AttendancePresent, marks[w.resident.ID])
	assert.Equal(t, models.AttendanceExcused, marks[w.neighbor.ID])

	sessions, total, err := w.leaderSvc.ListAttendance(w.scope, 0, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, sessions, 1)
}

func TestRecordAttendanceRejections(t *testing.T) {
	w := newFloorWorld(t)
	stranger := w.placeStudent(t, "Stranger", nil)
	otherFloor := w.CreateFloor(t, "2", models.GenderMale)

	_, err := w.leaderSvc.RecordAttendance(w.scope, AttendanceInput{Marks: []AttendanceMark{
		{StudentID: stranger.ID, Status: models.AttendancePresent},
	}}, w.leader.ID)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = w.leaderSvc.RecordAttendance(w.scope, AttendanceInput{FloorID: otherFloor.ID, Marks: []AttendanceMark{
		{StudentID: w.resident.ID, Status: models.AttendancePresent},
	}}, w.leader.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	plain := repository.Scope{UserID: 5, Role: models.RoleStudent}
	_, _, err = w.leaderSvc.ListAttendance(plain, 0, repository.Page{})
	assert.ErrorIs(t, err, ErrForbidden)

	_, _, err = w.leaderSvc.ListAttendance(w.adminScope, 0, repository.Page{})
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestCollectionProgress(t *testing.T) {
	w := newFloorWorld(t)

	created, err := w.leaderSvc.CreateCollection(w.scope, CollectionInput{Title: "Curtains", Amount: 20000}, w.leader.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, created.TotalCount)
	assert.Equal(t, 0, created.PaidCount)

	summary, err := w.leaderSvc.MarkCollection(w.scope, created.ID, w.neighbor.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.PaidCount)
	assert.Equal(t, int64(20000), summary.Collected)

	summary, err = w.leaderSvc.MarkCollection(w.scope, created.ID, w.neighbor.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.PaidCount)

	_, err = w.leaderSvc.MarkCollection(w.scope, created.ID, 9999, true)
	assert.ErrorIs(t, err, ErrNotFound)

	// the dormitory admin sees the same collection through the floor
	list, total, err := w.leaderSvc.ListCollections(w.adminScope, w.floor.ID, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, created.ID, list[0].ID)

	_, err = w.leaderSvc.CreateCollection(w.scope, CollectionInput{Title: " ", Amount: 1}, w.leader.ID)
	assert.ErrorIs(t, err, ErrInvalid)

	require.NoError(t, w.leaderSvc.DeleteCollection(w.scope, created.ID))
	_, err = w.leaderSvc.GetCollection(w.scope, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
