package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	deviceerrors "github.com/Bdavid117/sioma-app/internal/device/errors"
	"github.com/Bdavid117/sioma-app/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// DeviceAuth validates the bearer token issued to a sync device and exposes
// its id as "device_id" on the gin context.
func DeviceAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			errObj := deviceerrors.ErrInvalidToken
			if err != nil && strings.Contains(err.Error(), "expired") {
				errObj = deviceerrors.ErrTokenExpired
			}
			response.Error(c, errObj.HTTPStatus, errObj.Code, errObj.Message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		deviceID, ok := claims["device_id"].(string)
		if !ok || deviceID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Device ID not found in token", nil)
			c.Abort()
			return
		}

		c.Set("device_id", deviceID)

		c.Next()
	}
}
