package app

import (
	"database/sql"

	"go-ems/internal/dashboard"
	"go-ems/internal/department"
	"go-ems/internal/deptcheck"
	"go-ems/internal/employee"
	"go-ems/internal/leave"
	"go-ems/internal/messaging/kafka"
	"go-ems/internal/payslip"
	"go-ems/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	counterRepo := counter.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	payslipRepo := payslip.NewRepository(gormDB)
	dashboardRepo := dashboard.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Consistency checking ---
	// Setiap kali referensi departemen tidak beres: log + counter Redis.
	issueCounters := deptcheck.NewRedisCounterObserver(rdb)
	observer := deptcheck.MultiObserver{
		deptcheck.NewZapObserver(logger),
		issueCounters,
	}
	resolver := deptcheck.NewResolver(department.NewLookup(departmentRepo), observer)

	// --- Services ---
	departmentService := department.NewService(db, departmentRepo, rdb)
	employeeService := employee.NewServiceWithOutbox(
		db, employeeRepo, counterRepo, outboxRepo, rdb, resolver,
	)
	payslipService := payslip.NewServiceWithOutbox(
		db, payslipRepo, counterRepo, outboxRepo, resolver,
	)
	leaveService := leave.NewServiceWithOutbox(db, leaveRepo, outboxRepo)
	dashboardService := dashboard.NewService(dashboardRepo, rdb, issueCounters)

	// --- Handlers ---
	departmentHandler := department.NewHandler(departmentService)
	employeeHandler := employee.NewHandler(employeeService, rdb)
	payslipHandler := payslip.NewHandler(payslipService, rdb)
	leaveHandler := leave.NewHandler(leaveService)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		department.RegisterRoutes(api, departmentHandler)
		employee.RegisterRoutes(api, employeeHandler, rdb, logger)
		payslip.RegisterRoutes(api, payslipHandler, rdb, logger)
		leave.RegisterRoutes(api, leaveHandler, logger)
		dashboard.RegisterRoutes(api, dashboardHandler, logger)
	}

	return nil
}
