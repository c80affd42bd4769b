package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "user-directory-service/pkg/errors"
	"user-directory-service/pkg/logger"
)

// Recovery turns a panic into an internal-error envelope without exposing the panic value.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if p := recover(); p != nil {
				logger.WithContext(c.Request.Context(), log).Error("panic recovered",
					zap.Any("panic", p),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"category": string(apperrors.CategoryInternalError),
					"message":  apperrors.InternalMessage,
					"path":     []string{c.Request.URL.Path},
				})
			}
		}()
		c.Next()
	}
}
