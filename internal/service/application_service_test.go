package service

import (
	"testing"

	"dormitory-backend/internal/models"
	"dormitory-backend/internal/realtime"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newApplicationService(e *testEnv, broadcaster realtime.Broadcaster) *ApplicationService {
	return NewApplicationService(
		e.applications,
		repository.NewDormitoryRepo(e.DB),
		e.rooms,
		repository.NewAuditRepo(e.DB),
		e.notifySvc,
		broadcaster,
	)
}

func applicationInput(dormitoryID uint) ApplicationInput {
	return ApplicationInput{
		DormitoryID: dormitoryID,
		Name:        "Aziz Karimov",
		Phone:       "+998901234567",
		Passport:    "ab1234567",
	}
}

func TestSubmitApplicationPublishesEvent(t *testing.T) {
	e := newTestEnv(t)
	ctrl := gomock.NewController(t)
	broadcaster := realtime.NewMockBroadcaster(ctrl)
	svc := newApplicationService(e, broadcaster)

	var published realtime.Event
	broadcaster.EXPECT().
		Publish(e.Dormitory.ID, gomock.Any()).
		Do(func(_ uint, event realtime.Event) { published = event }).
		Times(1)

	application, err := svc.SubmitApplication(applicationInput(e.Dormitory.ID), nil)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationPending, application.Status)
	assert.Equal(t, "AB1234567", application.Passport)

	assert.Equal(t, realtime.EventNewApplication, published.Type)
	assert.Equal(t, application.ID, published.ApplicationID)
	assert.Equal(t, "Aziz Karimov", published.Name)

	inbox, err := e.notifySvc.Inbox(e.Admin.ID, false, repository.Page{})
	require.NoError(t, err)
	require.Len(t, inbox.Messages, 1)
	assert.Contains(t, inbox.Messages[0].Message, "Aziz Karimov")
}

func TestSubmitApplicationRejections(t *testing.T) {
	e := newTestEnv(t)
	ctrl := gomock.NewController(t)
	broadcaster := realtime.NewMockBroadcaster(ctrl)
	svc := newApplicationService(e, broadcaster)

	broadcaster.EXPECT().Publish(gomock.Any(), gomock.Any()).Times(1)
	_, err := svc.SubmitApplication(applicationInput(e.Dormitory.ID), nil)
	require.NoError(t, err)

	closed := models.Dormitory{Name: "Closed", Address: "x", UniversityID: e.University.ID, AdminID: e.SuperAdmin.ID}
	require.NoError(t, e.DB.Create(&closed).Error)
	require.NoError(t, e.DB.Model(&closed).Update("is_active", false).Error)

	otherFloor := models.Floor{DormitoryID: closed.ID, Name: "1", Gender: models.GenderMale}
	require.NoError(t, e.DB.Create(&otherFloor).Error)
	otherRoom := models.Room{FloorID: otherFloor.ID, Name: "1", Capacity: 1, Status: models.RoomAvailable, Gender: models.GenderMale}
	require.NoError(t, e.DB.Create(&otherRoom).Error)

	withForeignRoom := applicationInput(e.Dormitory.ID)
	withForeignRoom.Passport = "AB7654321"
	withForeignRoom.RoomID = &otherRoom.ID

	tests := []struct {
		name string
		in   ApplicationInput
	}{
		{name: "pending duplicate", in: applicationInput(e.Dormitory.ID)},
		{name: "unknown dormitory", in: applicationInput(9999)},
		{name: "inactive dormitory", in: applicationInput(closed.ID)},
		{name: "room of another dormitory", in: withForeignRoom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitApplication(tt.in, nil)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestDecideApplicationNotifiesApplicant(t *testing.T) {
	e := newTestEnv(t)
	ctrl := gomock.NewController(t)
	broadcaster := realtime.NewMockBroadcaster(ctrl)
	broadcaster.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()
	svc := newApplicationService(e, broadcaster)

	applicant := testutil.CreateUser(t, e.DB, "applicant", models.RoleStudent)
	application, err := svc.SubmitApplication(applicationInput(e.Dormitory.ID), &applicant.ID)
	require.NoError(t, err)

	decided, err := svc.DecideApplication(e.adminScope, application.ID, ApplicationDecision{
		Status:       models.ApplicationApproved,
		AdminComment: ptr("welcome"),
	}, e.Admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationApproved, decided.Status)
	assert.Equal(t, "welcome", decided.AdminComment)

	// deciding the same status again sends nothing new
	_, err = svc.DecideApplication(e.adminScope, application.ID, ApplicationDecision{Status: models.ApplicationApproved}, e.Admin.ID)
	require.NoError(t, err)

	inbox, err := e.notifySvc.Inbox(applicant.ID, false, repository.Page{})
	require.NoError(t, err)
	require.Len(t, inbox.Messages, 1)
	assert.Contains(t, inbox.Messages[0].Message, "approved")

	mine, total, err := svc.MyApplications(applicant.ID, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, application.ID, mine[0].ID)
}

func TestCancelApplication(t *testing.T) {
	e := newTestEnv(t)
	ctrl := gomock.NewController(t)
	broadcaster := realtime.NewMockBroadcaster(ctrl)
	broadcaster.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()
	svc := newApplicationService(e, broadcaster)

	applicant := testutil.CreateUser(t, e.DB, "applicant", models.RoleStudent)
	stranger := testutil.CreateUser(t, e.DB, "stranger", models.RoleStudent)
	application, err := svc.SubmitApplication(applicationInput(e.Dormitory.ID), &applicant.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CancelApplication(stranger.ID, application.ID), ErrNotFound)
	require.NoError(t, svc.CancelApplication(applicant.ID, application.ID))
	assert.ErrorIs(t, svc.CancelApplication(applicant.ID, application.ID), ErrInvalid)

	_, err = svc.DecideApplication(e.adminScope, application.ID, ApplicationDecision{Status: models.ApplicationApproved}, e.Admin.ID)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestApplicationsVisibleToOwnAdminOnly(t *testing.T) {
	e := newTestEnv(t)
	ctrl := gomock.NewController(t)
	broadcaster := realtime.NewMockBroadcaster(ctrl)
	broadcaster.EXPECT().Publish(gomock.Any(), gomock.Any()).AnyTimes()
	svc := newApplicationService(e, broadcaster)

	application, err := svc.SubmitApplication(applicationInput(e.Dormitory.ID), nil)
	require.NoError(t, err)

	list, total, err := svc.GetApplications(e.adminScope, repository.ApplicationFilter{}, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, application.ID, list[0].ID)

	other := repository.Scope{UserID: 77, Role: models.RoleAdmin, DormitoryID: e.Dormitory.ID + 1}
	_, total, err = svc.GetApplications(other, repository.ApplicationFilter{}, repository.Page{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)

	_, _, err = svc.GetApplications(repository.Scope{UserID: 78, Role: models.RoleAdmin}, repository.ApplicationFilter{}, repository.Page{})
	assert.ErrorIs(t, err, ErrNoDormitory)

	assert.ErrorIs(t, svc.DeleteApplication(other, application.ID, 77), ErrNotFound)
	require.NoError(t, svc.DeleteApplication(e.adminScope, application.ID, e.Admin.ID))
}
