package service

import (
	"testing"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomInheritsFloorGender(t *testing.T) {
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "2", models.GenderFemale)

	room, err := e.roomSvc.CreateRoom(e.adminScope, RoomInput{FloorID: ptr(floor.ID), Name: ptr(" 201 "), Capacity: ptr(3)}, e.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "201", room.Name)
	assert.Equal(t, models.GenderFemale, room.Gender)
	assert.Equal(t, models.RoomAvailable, room.Status)
	assert.Equal(t, 0, room.CurrentOccupancy)

	_, err = e.roomSvc.CreateRoom(e.adminScope, RoomInput{FloorID: ptr(floor.ID), Name: ptr("201"), Capacity: ptr(2)}, e.Admin.ID)
	assert.ErrorIs(t, err, ErrDuplicateName)

	_, err = e.roomSvc.CreateRoom(e.adminScope, RoomInput{FloorID: ptr(floor.ID), Name: ptr("202")}, e.Admin.ID)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestUpdateRoomCapacity(t *testing.T) {
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "1", models.GenderMale)
	room := e.CreateRoom(t, floor, "101", 2)
	e.placeStudent(t, "Aziz", &room)
	e.placeStudent(t, "Bekzod", &room)

	_, err := e.roomSvc.UpdateRoom(e.adminScope, room.ID, RoomInput{Capacity: ptr(1)}, e.Admin.ID)
	assert.ErrorIs(t, err, ErrCapacityTooSmall)

	updated, err := e.roomSvc.UpdateRoom(e.adminScope, room.ID, RoomInput{Capacity: ptr(4)}, e.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.Capacity)
	assert.Equal(t, 2, updated.CurrentOccupancy)
	assert.Equal(t, models.RoomPartiallyOccupied, updated.Status)

	female := models.GenderFemale
	_, err = e.roomSvc.UpdateRoom(e.adminScope, room.ID, RoomInput{Gender: &female}, e.Admin.ID)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = e.roomSvc.UpdateRoom(e.adminScope, room.ID, RoomInput{FloorID: ptr(floor.ID + 1)}, e.Admin.ID)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestDeleteRoomRequiresItEmpty(t *testing.T) {
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "1", models.GenderMale)
	room := e.CreateRoom(t, floor, "101", 2)
	student := e.placeStudent(t, "Aziz", &room)

	err := e.roomSvc.DeleteRoom(e.adminScope, room.ID, e.Admin.ID)
	assert.ErrorIs(t, err, ErrRoomNotEmpty)

	require.NoError(t, e.studentSvc.DeleteStudent(e.adminScope, student.ID, e.Admin.ID))
	require.NoError(t, e.roomSvc.DeleteRoom(e.adminScope, room.ID, e.Admin.ID))

	_, err = e.roomSvc.GetRoom(e.adminScope, room.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRoomAccessByRole(t *testing.T) {
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "1", models.GenderMale)
	room := e.CreateRoom(t, floor, "101", 2)

	tests := []struct {
		name    string
		scope   repository.Scope
		wantErr error
	}{
		{name: "superadmin", scope: e.rootScope},
		{name: "own admin", scope: e.adminScope},
		{name: "floor leader", scope: repository.Scope{UserID: 50, Role: models.RoleStudent, FloorID: floor.ID, DormitoryID: e.Dormitory.ID}},
		{name: "other admin", scope: repository.Scope{UserID: 51, Role: models.RoleAdmin, DormitoryID: e.Dormitory.ID + 1}, wantErr: ErrNotFound},
		{name: "student", scope: repository.Scope{UserID: 52, Role: models.RoleStudent}, wantErr: ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.roomSvc.GetRoom(tt.scope, room.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, room.ID, got.ID)
		})
	}

	_, err := e.roomSvc.CreateRoom(repository.Scope{UserID: 52, Role: models.RoleStudent}, RoomInput{FloorID: ptr(floor.ID), Name: ptr("x"), Capacity: ptr(1)}, 52)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestFloorLifecycle(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.floorSvc.CreateFloor(e.rootScope, FloorInput{Name: ptr("1")}, e.SuperAdmin.ID)
	assert.ErrorIs(t, err, ErrInvalid, "superadmin must name the dormitory")

	floor, err := e.floorSvc.CreateFloor(e.adminScope, FloorInput{Name: ptr("1")}, e.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Dormitory.ID, floor.DormitoryID)
	assert.Equal(t, models.GenderMale, floor.Gender)

	_, err = e.floorSvc.CreateFloor(e.adminScope, FloorInput{Name: ptr("1")}, e.Admin.ID)
	assert.ErrorIs(t, err, ErrDuplicateName)

	female := models.GenderFemale
	updated, err := e.floorSvc.UpdateFloor(e.adminScope, floor.ID, FloorInput{Name: ptr("First"), Gender: &female}, e.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", updated.Name)
	assert.Equal(t, models.GenderFemale, updated.Gender)

	e.CreateRoom(t, *updated, "101", 2)
	assert.ErrorIs(t, e.floorSvc.DeleteFloor(e.adminScope, floor.ID, e.Admin.ID), ErrInvalid)
}

func TestFloorGenderFollowsItsStudents(t *testing.T) {
	e := newTestEnv(t)
	floor := e.CreateFloor(t, "1", models.GenderMale)
	room := e.CreateRoom(t, floor, "101", 2)
	student := e.placeStudent(t, "Aziz", &room)

	female := models.GenderFemale
	_, err := e.floorSvc.UpdateFloor(e.adminScope, floor.ID, FloorInput{Gender: &female}, e.Admin.ID)
	assert.ErrorIs(t, err, ErrInvalid)

	require.NoError(t, e.studentSvc.DeleteStudent(e.adminScope, student.ID, e.Admin.ID))
	updated, err := e.floorSvc.UpdateFloor(e.adminScope, floor.ID, FloorInput{Gender: &female}, e.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GenderFemale, updated.Gender)
}
