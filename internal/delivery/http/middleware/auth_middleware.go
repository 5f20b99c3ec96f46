package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"go-jobpilot-backend/config"
	"go-jobpilot-backend/internal/delivery/http/response"
	"go-jobpilot-backend/internal/domain"
	"go-jobpilot-backend/pkg/logger"
)

// AuthMiddleware validates the service token the dispatcher signs for each
// forwarded command. Claims: sub (platform user id), name (display name),
// admin (bool). On success the user record is upserted and the identity is
// placed both in gin keys and in the request context, so usecases can read
// it without a gin dependency.
func AuthMiddleware(cfg *config.Config, authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "Authorization header required", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			if cfg.ServiceJWTSecret == "" {
				return nil, fmt.Errorf("SERVICE_JWT_SECRET is not configured")
			}
			return []byte(cfg.ServiceJWTSecret), nil
		})
		if err != nil || !token.Valid {
			logger.Log.Warn("service token validation failed", "error", err)
			response.Error(c, http.StatusUnauthorized, "Invalid service token", nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "Invalid claims", nil)
			c.Abort()
			return
		}

		// sub is numeric; JSON numbers decode as float64.
		subFloat, ok := claims["sub"].(float64)
		if !ok || subFloat <= 0 {
			response.Error(c, http.StatusUnauthorized, "Missing or invalid sub claim", nil)
			c.Abort()
			return
		}
		userID := int64(subFloat)
		username, _ := claims["name"].(string)
		isAdmin, _ := claims["admin"].(bool)

		if err := authUC.EnsureUser(c.Request.Context(), userID, username); err != nil {
			response.Error(c, http.StatusInternalServerError, "Failed to resolve user", nil)
			c.Abort()
			return
		}

		c.Set(string(domain.KeyUserID), userID)
		c.Set(string(domain.KeyUserName), username)
		c.Set(string(domain.KeyIsAdmin), isAdmin)

		ctx := c.Request.Context()
		ctx = context.WithValue(ctx, domain.KeyUserID, userID)
		ctx = context.WithValue(ctx, domain.KeyUserName, username)
		ctx = context.WithValue(ctx, domain.KeyIsAdmin, isAdmin)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
