package middleware

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const idempotencyTTL = 24 * time.Hour

type bodyCaptureWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyCaptureWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// Idempotency lets disconnected devices retry a batch POST safely: the same
// Idempotency-Key replays the stored response instead of re-running the
// sync and double-appending rows.
func Idempotency(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		deviceID := c.GetString("device_id")
		cacheKey := fmt.Sprintf("idemp:%s:%s:%s", c.FullPath(), deviceID, idempKey)
		lockKey := cacheKey + ":lock"

		if cached, err := rdb.Get(c.Request.Context(), cacheKey).Result(); err == nil {
			c.Header("Idempotency-Replayed", "true")
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			c.Abort()
			return
		}

		// SetNX lock with a short expiry so a crashed request releases itself
		isNew, _ := rdb.SetNX(c.Request.Context(), lockKey, "locked", 30*time.Second).Result()
		if !isNew {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"code":    "PROCESSING",
				"message": "A previous submission with this key is still being processed",
			})
			return
		}

		writer := &bodyCaptureWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer

		c.Next()

		if c.Writer.Status() == http.StatusOK {
			rdb.Set(c.Request.Context(), cacheKey, writer.body.String(), idempotencyTTL)
		}
		rdb.Del(c.Request.Context(), lockKey)
	}
}
