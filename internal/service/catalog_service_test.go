package service

import (
	"testing"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDormitoryLifecycle(t *testing.T) {
	e := newTestEnv(t)
	newAdmin := testutil.CreateUser(t, e.DB, "admin2", models.RoleAdmin)
	wifi, err := e.catalogSvc.CreateAmenity(e.rootScope, AmenityInput{Name: "Wi-Fi"})
	require.NoError(t, err)

	in := DormitoryInput{
		Name:         ptr("Dorm 2"),
		Address:      ptr("Chilonzor 1"),
		UniversityID: ptr(e.University.ID),
		AdminID:      ptr(newAdmin.ID),
		IsActive:     ptr(false),
		AmenityIDs:   []uint{wifi.ID, wifi.ID},
	}

	_, err = e.dormitorySvc.CreateDormitory(e.adminScope, in, e.Admin.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	taken := in
	taken.AdminID = ptr(e.Admin.ID)
	_, err = e.dormitorySvc.CreateDormitory(e.rootScope, taken, e.SuperAdmin.ID)
	assert.ErrorIs(t, err, ErrInvalid, "admin already runs a dormitory")

	unknownAmenity := in
	unknownAmenity.AmenityIDs = []uint{9999}
	_, err = e.dormitorySvc.CreateDormitory(e.rootScope, unknownAmenity, e.SuperAdmin.ID)
	assert.ErrorIs(t, err, ErrInvalid)

	dormitory, err := e.dormitorySvc.CreateDormitory(e.rootScope, in, e.SuperAdmin.ID)
	require.NoError(t, err)
	assert.False(t, dormitory.IsActive)
	assert.Len(t, dormitory.Amenities, 1)

	// its own admin edits it but cannot hand it over
	ownScope := repository.Scope{UserID: newAdmin.ID, Role: models.RoleAdmin, DormitoryID: dormitory.ID}
	updated, err := e.dormitorySvc.UpdateDormitory(ownScope, dormitory.ID, DormitoryInput{Name: ptr("Dorm Two"), IsActive: ptr(true)}, newAdmin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dorm Two", updated.Name)
	assert.True(t, updated.IsActive)

	_, err = e.dormitorySvc.UpdateDormitory(ownScope, dormitory.ID, DormitoryInput{AdminID: ptr(e.Admin.ID)}, newAdmin.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = e.dormitorySvc.UpdateDormitory(e.adminScope, dormitory.ID, DormitoryInput{Name: ptr("Mine")}, e.Admin.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	image, err := e.dormitorySvc.AddImage(ownScope, dormitory.ID, "dorms/2/front.jpg")
	require.NoError(t, err)
	require.NoError(t, e.dormitorySvc.DeleteImage(ownScope, dormitory.ID, image.ID))

	// a dormitory with floors stays
	e.CreateFloor(t, "1", models.GenderMale)
	assert.ErrorIs(t, e.dormitorySvc.DeleteDormitory(e.rootScope, e.Dormitory.ID, e.SuperAdmin.ID), ErrInvalid)
	require.NoError(t, e.dormitorySvc.DeleteDormitory(e.rootScope, dormitory.ID, e.SuperAdmin.ID))
	_, err = e.dormitorySvc.GetDormitory(dormitory.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogIsSuperAdminOnly(t *testing.T) {
	e := newTestEnv(t)

	_, err := e.catalogSvc.CreateUniversity(e.adminScope, UniversityInput{Name: ptr("NUU"), Address: ptr("x")}, e.Admin.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = e.catalogSvc.CreateProvince(e.adminScope, "Toshkent")
	assert.ErrorIs(t, err, ErrForbidden)

	province, err := e.catalogSvc.CreateProvince(e.rootScope, " Toshkent ")
	require.NoError(t, err)
	assert.Equal(t, "Toshkent", province.Name)

	_, err = e.catalogSvc.CreateDistrict(e.rootScope, DistrictInput{Name: "Yunusobod", ProvinceID: 9999})
	assert.ErrorIs(t, err, ErrInvalid)
	district, err := e.catalogSvc.CreateDistrict(e.rootScope, DistrictInput{Name: "Yunusobod", ProvinceID: province.ID})
	require.NoError(t, err)

	assert.NoError(t, e.catalogSvc.CheckLocation(&province.ID, &district.ID))
	assert.NoError(t, e.catalogSvc.CheckLocation(nil, nil))
	assert.ErrorIs(t, e.catalogSvc.CheckLocation(nil, &district.ID), ErrInvalid)
	assert.ErrorIs(t, e.catalogSvc.CheckLocation(ptr(province.ID+1), &district.ID), ErrInvalid)

	districts, err := e.catalogSvc.GetDistricts(province.ID)
	require.NoError(t, err)
	assert.Len(t, districts, 1)
}

func TestApartmentOwnership(t *testing.T) {
	e := newTestEnv(t)
	owner := testutil.CreateUser(t, e.DB, "owner", models.RoleLandlord)
	rival := testutil.CreateUser(t, e.DB, "rival", models.RoleLandlord)
	ownerScope := repository.Scope{UserID: owner.ID, Role: models.RoleLandlord}
	rivalScope := repository.Scope{UserID: rival.ID, Role: models.RoleLandlord}

	in := ApartmentInput{Title: ptr("2 rooms near TATU"), Address: ptr("Amir Temur 10"), Price: ptr(int64(3000000)), IsActive: ptr(false)}

	_, err := e.apartmentSvc.CreateApartment(e.adminScope, in)
	assert.ErrorIs(t, err, ErrForbidden)

	apartment, err := e.apartmentSvc.CreateApartment(ownerScope, in)
	require.NoError(t, err)
	assert.Equal(t, 1, apartment.RoomsCount)
	assert.False(t, apartment.IsActive)

	active, total, err := e.apartmentSvc.GetApartments(repository.ApartmentFilter{ActiveOnly: true}, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, active)

	_, err = e.apartmentSvc.UpdateApartment(rivalScope, apartment.ID, ApartmentInput{Price: ptr(int64(1))})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := e.apartmentSvc.UpdateApartment(ownerScope, apartment.ID, ApartmentInput{IsActive: ptr(true), RoomsCount: ptr(2)})
	require.NoError(t, err)
	assert.True(t, updated.IsActive)
	assert.Equal(t, 2, updated.RoomsCount)

	assert.ErrorIs(t, e.apartmentSvc.DeleteApartment(rivalScope, apartment.ID), ErrForbidden)
	require.NoError(t, e.apartmentSvc.DeleteApartment(e.rootScope, apartment.ID))
}

func TestTasksArePrivate(t *testing.T) {
	e := newTestEnv(t)

	task, err := e.taskSvc.CreateTask(e.Admin.ID, TaskInput{Title: ptr("Order mattresses")})
	require.NoError(t, err)
	assert.Equal(t, models.TaskPending, task.Status)

	_, err = e.taskSvc.CreateTask(e.Admin.ID, TaskInput{Title: ptr("  ")})
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = e.taskSvc.GetTask(e.SuperAdmin.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	done := models.TaskCompleted
	updated, err := e.taskSvc.UpdateTask(e.Admin.ID, task.ID, TaskInput{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, models.TaskCompleted, updated.Status)

	pending, err := e.taskSvc.GetTasks(e.Admin.ID, models.TaskPending)
	require.NoError(t, err)
	assert.Empty(t, pending)

	assert.ErrorIs(t, e.taskSvc.DeleteTask(e.SuperAdmin.ID, task.ID), ErrNotFound)
	require.NoError(t, e.taskSvc.DeleteTask(e.Admin.ID, task.ID))
}
