package leave

import (
	"go-ems/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	logger *zap.Logger,
) {
	leaves := r.Group("/leaves")
	leaves.Use(middleware.ContextLogger(logger))
	{
		leaves.GET("",
			middleware.RateLimitByIP(3, 10),
			handler.GetAll,
		)

		leaves.GET("/:id",
			middleware.RateLimitByIP(3, 10),
			handler.GetById,
		)

		leaves.POST("",
			middleware.RateLimitByIP(0.5, 2),
			handler.Apply,
		)

		leaves.PATCH("/:id/approve",
			middleware.RateLimitByIP(0.5, 2),
			handler.Approve,
		)

		leaves.PATCH("/:id/reject",
			middleware.RateLimitByIP(0.5, 2),
			handler.Reject,
		)

		leaves.PATCH("/:id/cancel",
			middleware.RateLimitByIP(0.5, 2),
			handler.Cancel,
		)
	}
}
