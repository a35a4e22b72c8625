package device

import (
	"github.com/Bdavid117/sioma-app/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	devices := r.Group("/devices")
	devices.Use(middleware.RateLimitByIP(rate.Limit(1), 3))
	{
		devices.POST("", h.Register)
		devices.POST("/token", h.Token)
	}
}
