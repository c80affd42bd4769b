package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-directory-service/internal/adapter/resolver"
	domain "user-directory-service/internal/domain/user"
	"user-directory-service/internal/usecase/user"
	apperrors "user-directory-service/pkg/errors"
	"user-directory-service/pkg/logger"
)

// UserHandler handles REST requests for user operations
type UserHandler struct {
	uc  user.Usecase
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(uc user.Usecase, log *zap.Logger) *UserHandler {
	return &UserHandler{
		uc:  uc,
		log: log,
	}
}

// UserRequest represents the HTTP request body for creating or replacing a user
type UserRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (r UserRequest) toInput() user.UserInput {
	return user.UserInput{
		Name:    r.Name,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

// ListUsersResponse represents the HTTP response for listing users
type ListUsersResponse struct {
	Users []resolver.UserView `json:"users"`
	Total int                 `json:"total"`
}

// handleError writes the error envelope with the status of its category.
func (h *UserHandler) handleError(c *gin.Context, err error) {
	cl := apperrors.Classify(err)
	log := logger.WithContext(c.Request.Context(), h.log)
	if cl.Category == apperrors.CategoryInternalError {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		log.Warn("request rejected", zap.String("path", c.FullPath()), zap.String("reason", cl.Message))
	}

	c.JSON(cl.Category.HTTPStatus(), resolver.ErrorEntry{
		Category: string(cl.Category),
		Message:  cl.Message,
		Path:     []string{c.Request.Method + " " + c.FullPath()},
	})
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewArgumentError("id", "must be an integer")
	}
	return id, nil
}

func optionalQuery(c *gin.Context, key string) *string {
	if v, ok := c.GetQuery(key); ok {
		return &v
	}
	return nil
}

// ListUsers handles GET /v1/users. Any of the name, email and phone query
// parameters turns the listing into a search.
func (h *UserHandler) ListUsers(c *gin.Context) {
	criteria := domain.SearchCriteria{
		Name:  optionalQuery(c, "name"),
		Email: optionalQuery(c, "email"),
		Phone: optionalQuery(c, "phone"),
	}

	var (
		users []domain.User
		err   error
	)
	if criteria.Empty() {
		users, err = h.uc.ListUsers(c.Request.Context())
	} else {
		users, err = h.uc.SearchUsers(c.Request.Context(), criteria)
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListUsersResponse{
		Users: resolver.NewUserViews(users),
		Total: len(users),
	})
}

// CountUsers handles GET /v1/users/count
func (h *UserHandler) CountUsers(c *gin.Context) {
	n, err := h.uc.CountUsers(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

// GetUser handles GET /v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	u, err := h.uc.GetUser(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolver.NewUserView(u))
}

// CreateUser handles POST /v1/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, apperrors.NewArgumentError("body", "must be a JSON user object"))
		return
	}

	u, err := h.uc.CreateUser(c.Request.Context(), req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resolver.NewUserView(u))
}

// UpdateUser handles PUT /v1/users/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, apperrors.NewArgumentError("body", "must be a JSON user object"))
		return
	}

	u, err := h.uc.UpdateUser(c.Request.Context(), id, req.toInput())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resolver.NewUserView(u))
}

// DeleteUser handles DELETE /v1/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	deleted, err := h.uc.DeleteUser(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
