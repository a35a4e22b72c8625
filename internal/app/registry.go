package app

import (
	"database/sql"
	"net/http"

	"github.com/Bdavid117/sioma-app/internal/attendance"
	"github.com/Bdavid117/sioma-app/internal/biometric"
	"github.com/Bdavid117/sioma-app/internal/device"
	"github.com/Bdavid117/sioma-app/internal/messaging/kafka"
	"github.com/Bdavid117/sioma-app/internal/middleware"
	"github.com/Bdavid117/sioma-app/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	workerRepo := worker.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	deviceRepo := device.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Adapters ---
	encoder := biometric.NewFromEnv()

	// --- Services ---
	workerService := worker.NewServiceWithOutbox(db, workerRepo, encoder, outboxRepo, rdb)
	attendanceService := attendance.NewServiceWithOutbox(attendanceRepo, workerRepo, outboxRepo)
	deviceService := device.NewService(deviceRepo)

	// --- Handlers ---
	workerHandler := worker.NewHandler(workerService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	deviceHandler := device.NewHandler(deviceService)

	// --- Routes Registration ---
	router.Use(middleware.RequestID())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		worker.RegisterRoutes(api, workerHandler)
		attendance.RegisterRoutes(api, attendanceHandler, rdb)
		device.RegisterRoutes(api, deviceHandler)
	}

	return nil
}
