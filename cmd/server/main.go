package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dormitory-backend/internal/config"
	"dormitory-backend/internal/database"
	"dormitory-backend/internal/handler"
	"dormitory-backend/internal/middleware"
	"dormitory-backend/internal/realtime"
	"dormitory-backend/internal/repository"
	"dormitory-backend/internal/service"
	"dormitory-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	hubBuffer       = 16
	shutdownTimeout = 15 * time.Second
)

func main() {
	// 1. Load configuration
	cfg := config.LoadConfig()
	log.Println("Configuration loaded successfully")

	// 2. Initialize JWT utilities with config
	utils.InitJWT(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	if err := utils.RegisterValidators(); err != nil {
		log.Fatalf("Failed to register validators: %v", err)
	}

	// 3. Initialize database connection, schema and bootstrap account
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	if err := database.Seed(db, cfg.Seed); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// 4. Initialize repositories
	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)
	catalogRepo := repository.NewCatalogRepo(db)
	dormitoryRepo := repository.NewDormitoryRepo(db)
	floorRepo := repository.NewFloorRepo(db)
	roomRepo := repository.NewRoomRepo(db)
	studentRepo := repository.NewStudentRepo(db)
	paymentRepo := repository.NewPaymentRepo(db)
	applicationRepo := repository.NewApplicationRepo(db)
	notificationRepo := repository.NewNotificationRepo(db)
	leaderRepo := repository.NewFloorLeaderRepo(db)
	dashboardRepo := repository.NewDashboardRepo(db)
	taskRepo := repository.NewTaskRepo(db)
	apartmentRepo := repository.NewApartmentRepo(db)

	// 5. Initialize services
	hub := realtime.NewHub(hubBuffer)
	reconciler := service.NewReconciler(db, roomRepo, studentRepo, paymentRepo, cfg.Location)

	authService := service.NewAuthService(userRepo, auditRepo)
	userService := service.NewUserService(userRepo, dormitoryRepo, studentRepo, auditRepo)
	catalogService := service.NewCatalogService(catalogRepo, auditRepo)
	dormitoryService := service.NewDormitoryService(db, dormitoryRepo, catalogRepo, userRepo, studentRepo, auditRepo)
	floorService := service.NewFloorService(floorRepo, auditRepo)
	roomService := service.NewRoomService(db, roomRepo, floorRepo, auditRepo, reconciler)
	studentService := service.NewStudentService(db, studentRepo, roomRepo, floorRepo, paymentRepo, auditRepo, reconciler)
	notificationService := service.NewNotificationService(db, notificationRepo, userRepo, studentRepo, auditRepo)
	paymentService := service.NewPaymentService(db, paymentRepo, studentRepo, applicationRepo, auditRepo, reconciler, notificationService)
	applicationService := service.NewApplicationService(applicationRepo, dormitoryRepo, roomRepo, auditRepo, notificationService, hub)
	leaderService := service.NewFloorLeaderService(db, leaderRepo, floorRepo, studentRepo, userRepo, auditRepo, reconciler)
	dashboardService := service.NewDashboardService(dashboardRepo, paymentRepo, applicationRepo)
	taskService := service.NewTaskService(taskRepo)
	apartmentService := service.NewApartmentService(apartmentRepo, catalogService)

	// 6. Start the debtor sweep
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := reconciler.ReconcileAllRooms(ctx); err != nil {
		log.Printf("Warning: Failed to reconcile room occupancy: %v", err)
	}
	sweep := service.NewSweepService(reconciler, cfg.Sweep.Schedule, cfg.Sweep.OnStart, cfg.Location)
	if err := sweep.Start(ctx); err != nil {
		log.Fatalf("Failed to start debt sweep: %v", err)
	}

	// 7. Setup Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// 8. Setup Gin router
	r := gin.Default()
	r.Use(middleware.CORS(cfg))

	// 9. Register handlers and routes
	access := middleware.NewAccessControlMiddleware(dormitoryRepo, leaderRepo)
	handler.RegisterRoutes(r, &handler.Handlers{
		Auth:         handler.NewAuthHandler(authService, cfg.Server.GinMode == gin.ReleaseMode),
		User:         handler.NewUserHandler(userService),
		Catalog:      handler.NewCatalogHandler(catalogService),
		Dormitory:    handler.NewDormitoryHandler(dormitoryService),
		Room:         handler.NewRoomHandler(roomService, floorService),
		Student:      handler.NewStudentHandler(studentService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Application:  handler.NewApplicationHandler(applicationService, hub),
		Notification: handler.NewNotificationHandler(notificationService),
		FloorLeader:  handler.NewFloorLeaderHandler(leaderService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
		Task:         handler.NewTaskHandler(taskService),
		Apartment:    handler.NewApartmentHandler(apartmentService),
	}, access)

	// 10. Start the server and shut it down gracefully
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	// Shutdown waits for open connections, so event streams are ended first
	srv.RegisterOnShutdown(hub.Close)

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()
	sweep.Stop()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
