package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-directory-service/internal/adapter/resolver"
	apperrors "user-directory-service/pkg/errors"
	"user-directory-service/pkg/logger"
)

// OperationHandler exposes the operation resolver over HTTP.
type OperationHandler struct {
	resolver *resolver.Resolver
	log      *zap.Logger
}

// NewOperationHandler creates a new OperationHandler instance
func NewOperationHandler(r *resolver.Resolver, log *zap.Logger) *OperationHandler {
	return &OperationHandler{resolver: r, log: log}
}

// badRequest answers requests that never reach the resolver.
func badRequest(c *gin.Context, err error) {
	cl := apperrors.Classify(err)
	c.JSON(http.StatusBadRequest, resolver.Response{
		Errors: []resolver.ErrorEntry{{
			Category: string(cl.Category),
			Message:  cl.Message,
			Path:     []string{},
		}},
	})
}

// Execute handles POST /graphql. Operation failures are reported in the
// envelope with HTTP 200; only an unreadable body is a 400.
func (h *OperationHandler) Execute(c *gin.Context) {
	var req resolver.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.WithContext(c.Request.Context(), h.log).Warn("invalid operation request", zap.Error(err))
		badRequest(c, apperrors.NewArgumentError("body", "must be a JSON operation request"))
		return
	}

	c.JSON(http.StatusOK, h.resolver.Execute(c.Request.Context(), req))
}

// Query handles GET /graphql?operation=<name>&arguments=<json>. Only queries
// may be executed this way.
func (h *OperationHandler) Query(c *gin.Context) {
	req := resolver.Request{Operation: c.Query("operation")}

	kind, err := h.resolver.Kind(req.Operation)
	if err == nil && kind != resolver.KindQuery {
		badRequest(c, apperrors.NewArgumentError("operation", "mutations require POST"))
		return
	}

	if raw := c.Query("arguments"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Arguments); err != nil {
			badRequest(c, apperrors.NewArgumentError("arguments", "must be a JSON object"))
			return
		}
	}

	c.JSON(http.StatusOK, h.resolver.Execute(c.Request.Context(), req))
}
