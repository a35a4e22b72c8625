package attendance

import (
	"github.com/Bdavid117/sioma-app/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, rdb *redis.Client) {
	r.GET("/attendance", h.Query)

	sync := r.Group("/sync")
	sync.Use(middleware.DeviceAuth())
	sync.Use(middleware.RateLimitByDevice(rate.Limit(2), 5))
	if rdb != nil {
		sync.Use(middleware.Idempotency(rdb))
	}
	{
		sync.POST("", h.Sync)
	}
}
