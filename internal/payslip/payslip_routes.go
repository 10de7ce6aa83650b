package payslip

import (
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rdb *redis.Client,
	logger *zap.Logger,
) {
	payslips := r.Group("/payslips")
	payslips.Use(middleware.ContextLogger(logger))
	{
		payslips.GET("",
			middleware.RateLimitByIP(3, 10),
			handler.GetAll,
		)

		payslips.GET("/export",
			middleware.RateLimitByIP(0.5, 2), // Full-period join, hold it back
			handler.ExportRegister,
		)

		payslips.GET("/:id",
			middleware.RateLimitByIP(3, 10),
			handler.GetById,
		)

		payslips.GET("/:id/pdf",
			middleware.RateLimitByIP(1, 3),
			handler.DownloadPDF,
		)

		payslips.POST("",
			middleware.RateLimitByIP(0.5, 2),
			middleware.Idempotency(rdb),
			handler.Generate,
		)
	}

	// Per-employee history hangs off the employees resource.
	r.GET("/employees/:id/payslips",
		middleware.ContextLogger(logger),
		middleware.RateLimitByIP(3, 10),
		handler.GetByEmployee,
	)
}
