package handler

import (
	"dormitory-backend/internal/middleware"
	"dormitory-backend/internal/models"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Handlers bundles every HTTP handler of the API
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Catalog      *CatalogHandler
	Dormitory    *DormitoryHandler
	Room         *RoomHandler
	Student      *StudentHandler
	Payment      *PaymentHandler
	Application  *ApplicationHandler
	Notification *NotificationHandler
	FloorLeader  *FloorLeaderHandler
	Dashboard    *DashboardHandler
	Task         *TaskHandler
	Apartment    *ApartmentHandler
}

// RegisterRoutes wires the API onto r. Public routes identify the caller when
// a token is sent; everything else requires one and runs with a resolved scope.
func RegisterRoutes(r *gin.Engine, h *Handlers, access *middleware.AccessControlMiddleware) {
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": "dormitory-backend",
		})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", h.Auth.Logout)
	}

	public := r.Group("/", middleware.OptionalAuth())
	{
		public.GET("/provinces", h.Catalog.GetProvinces)
		public.GET("/districts", h.Catalog.GetDistricts)
		public.GET("/universities", h.Catalog.GetUniversities)
		public.GET("/universities/:id", h.Catalog.GetUniversity)
		public.GET("/amenities", h.Catalog.GetAmenities)
		public.GET("/dormitories", h.Dormitory.GetAllDormitories)
		public.GET("/dormitories/:id", h.Dormitory.GetDormitory)
		public.GET("/apartments", h.Apartment.GetApartments)
		public.GET("/apartments/:id", h.Apartment.GetApartment)
		public.POST("/applications", h.Application.SubmitApplication)
	}

	api := r.Group("/", middleware.AuthMiddleware(), access.ResolveScope())

	me := api.Group("/me")
	{
		me.GET("", h.User.Me)
		me.PATCH("", h.User.UpdateMe)
		me.GET("/student", h.Student.MyStudent)
		me.GET("/payments", h.Payment.MyPayments)
		me.GET("/notifications", h.Notification.Inbox)
		me.POST("/notifications/:id/read", h.Notification.MarkRead)
		me.POST("/messages/:id/read", h.Notification.MarkMessageRead)
		me.GET("/applications", h.Application.MyApplications)
		me.POST("/applications/:id/cancel", h.Application.CancelApplication)
	}

	users := api.Group("/users")
	{
		users.GET("", h.User.GetUsers)
		users.POST("", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin), h.User.CreateUser)
		users.GET("/:id", h.User.GetUser)
		users.PATCH("/:id", h.User.UpdateUser)
		users.DELETE("/:id", h.User.DeleteUser)
	}

	superadmin := api.Group("/", middleware.RequireRoles(models.RoleSuperAdmin))
	{
		superadmin.POST("/universities", h.Catalog.CreateUniversity)
		superadmin.PATCH("/universities/:id", h.Catalog.UpdateUniversity)
		superadmin.DELETE("/universities/:id", h.Catalog.DeleteUniversity)
		superadmin.POST("/amenities", h.Catalog.CreateAmenity)
		superadmin.PATCH("/amenities/:id", h.Catalog.SetAmenityActive)
		superadmin.DELETE("/amenities/:id", h.Catalog.DeleteAmenity)
		superadmin.POST("/provinces", h.Catalog.CreateProvince)
		superadmin.POST("/districts", h.Catalog.CreateDistrict)
		superadmin.POST("/dormitories", h.Dormitory.CreateDormitory)
		superadmin.DELETE("/dormitories/:id", h.Dormitory.DeleteDormitory)
	}

	managers := api.Group("/", middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin))
	{
		managers.PATCH("/dormitories/:id", h.Dormitory.UpdateDormitory)
		managers.POST("/dormitories/:id/images", h.Dormitory.AddImage)
		managers.DELETE("/dormitories/:id/images/:image_id", h.Dormitory.DeleteImage)

		managers.POST("/floors", h.Room.CreateFloor)
		managers.PATCH("/floors/:id", h.Room.UpdateFloor)
		managers.DELETE("/floors/:id", h.Room.DeleteFloor)
		managers.POST("/rooms", h.Room.CreateRoom)
		managers.PATCH("/rooms/:id", h.Room.UpdateRoom)
		managers.DELETE("/rooms/:id", h.Room.DeleteRoom)

		managers.POST("/students", h.Student.CreateStudent)
		managers.PATCH("/students/:id", h.Student.UpdateStudent)
		managers.DELETE("/students/:id", h.Student.DeleteStudent)

		managers.POST("/payments", h.Payment.CreatePayment)
		managers.PATCH("/payments/:id", h.Payment.UpdatePayment)
		managers.DELETE("/payments/:id", h.Payment.DeletePayment)

		managers.GET("/applications", h.Application.GetAllApplications)
		managers.GET("/applications/stream", h.Application.Stream)
		managers.GET("/applications/:id", h.Application.GetApplication)
		managers.PATCH("/applications/:id", h.Application.DecideApplication)
		managers.DELETE("/applications/:id", h.Application.DeleteApplication)

		managers.GET("/notifications", h.Notification.GetNotifications)
		managers.POST("/notifications", h.Notification.CreateNotification)
		managers.DELETE("/notifications/:id", h.Notification.DeleteNotification)

		managers.GET("/floor-leaders", h.FloorLeader.ListLeaders)
		managers.POST("/floor-leaders", h.FloorLeader.AssignLeader)
		managers.DELETE("/floor-leaders/:floor_id", h.FloorLeader.RemoveLeader)

		managers.GET("/dashboard", h.Dashboard.GetDashboard)
		managers.GET("/tasks", h.Task.GetTasks)
		managers.POST("/tasks", h.Task.CreateTask)
		managers.GET("/tasks/:id", h.Task.GetTask)
		managers.PATCH("/tasks/:id", h.Task.UpdateTask)
		managers.DELETE("/tasks/:id", h.Task.DeleteTask)
	}

	// readable by managers and floor leaders; the scope narrows what each sees
	api.GET("/floors", h.Room.GetAllFloors)
	api.GET("/floors/:id", h.Room.GetFloor)
	api.GET("/rooms", h.Room.GetAllRooms)
	api.GET("/rooms/:id", h.Room.GetRoom)
	api.GET("/students", h.Student.GetAllStudents)
	api.GET("/students/:id", h.Student.GetStudent)
	api.GET("/payments", h.Payment.GetAllPayments)
	api.GET("/payments/:id", h.Payment.GetPayment)

	floor := api.Group("/")
	{
		floor.GET("/attendance", h.FloorLeader.ListAttendance)
		floor.POST("/attendance", h.FloorLeader.RecordAttendance)
		floor.GET("/collections", h.FloorLeader.ListCollections)
		floor.POST("/collections", h.FloorLeader.CreateCollection)
		floor.GET("/collections/:id", h.FloorLeader.GetCollection)
		floor.POST("/collections/:id/mark", h.FloorLeader.MarkCollection)
		floor.DELETE("/collections/:id", h.FloorLeader.DeleteCollection)
	}

	landlords := api.Group("/apartments", middleware.RequireRoles(models.RoleLandlord, models.RoleSuperAdmin))
	{
		landlords.POST("", h.Apartment.CreateApartment)
		landlords.PATCH("/:id", h.Apartment.UpdateApartment)
		landlords.DELETE("/:id", h.Apartment.DeleteApartment)
	}
}
