package worker

import (
	"github.com/Bdavid117/sioma-app/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	workers := r.Group("/workers")
	{
		workers.GET("", h.GetAll)
		workers.GET("/options", h.GetOptions)
		workers.GET("/:id", h.GetById)
		workers.POST("", h.Create)
		workers.PUT("/ext/:ext_id", h.UpdateByExternalID)
		workers.POST("/bulk_upsert",
			middleware.DeviceAuth(),
			middleware.RateLimitByDevice(rate.Limit(2), 5),
			h.BulkUpsert,
		)
	}
}
