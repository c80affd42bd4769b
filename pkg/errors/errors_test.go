package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantCategory Category
		wantMessage  string
	}{
		{
			name:         "not found includes id",
			err:          NewNotFoundError("User", 9999),
			wantCategory: CategoryNotFound,
			wantMessage:  "User not found with id: 9999",
		},
		{
			name:         "duplicate email includes email",
			err:          NewDuplicateEmailError("test@example.com"),
			wantCategory: CategoryBadRequest,
			wantMessage:  "Email already exists: test@example.com",
		},
		{
			name: "validation joins every message",
			err: NewValidationError(
				FieldViolation{Field: "Name", Message: "Name is required"},
				FieldViolation{Field: "Email", Message: "Email must be valid"},
			),
			wantCategory: CategoryBadRequest,
			wantMessage:  "Validation failed: Name is required; Email must be valid",
		},
		{
			name:         "argument error",
			err:          NewArgumentError("id", "is required"),
			wantCategory: CategoryBadRequest,
			wantMessage:  "Invalid argument: id is required",
		},
		{
			name:         "internal error hides cause",
			err:          NewInternalError("failed to count users", errors.New("dial tcp 10.0.0.1:5432: refused")),
			wantCategory: CategoryInternalError,
			wantMessage:  InternalMessage,
		},
		{
			name:         "plain error is internal",
			err:          errors.New("sql: database is closed"),
			wantCategory: CategoryInternalError,
			wantMessage:  InternalMessage,
		},
		{
			name:         "context cancellation is internal",
			err:          context.Canceled,
			wantCategory: CategoryInternalError,
			wantMessage:  InternalMessage,
		},
		{
			name:         "wrapped not found is still not found",
			err:          fmt.Errorf("resolver: %w", NewNotFoundError("User", 3)),
			wantCategory: CategoryNotFound,
			wantMessage:  "User not found with id: 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.Equal(t, tt.wantMessage, got.Message)
		})
	}
}

func TestClassify_InternalNeverLeaksCause(t *testing.T) {
	err := NewInternalError("failed to save user", errors.New("password authentication failed for user \"postgres\""))

	got := Classify(err)

	assert.NotContains(t, got.Message, "postgres")
	assert.Contains(t, err.Error(), "postgres")
}

func TestCategory_HTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, CategoryNotFound.HTTPStatus())
	assert.Equal(t, http.StatusBadRequest, CategoryBadRequest.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, CategoryInternalError.HTTPStatus())
	assert.Equal(t, http.StatusInternalServerError, Category("unknown").HTTPStatus())
}

func TestGRPCStatus(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{NewNotFoundError("User", 1), codes.NotFound},
		{NewDuplicateEmailError("a@b.co"), codes.AlreadyExists},
		{NewValidationError(FieldViolation{Field: "Name", Message: "Name is required"}), codes.InvalidArgument},
		{NewArgumentError("id", "is required"), codes.InvalidArgument},
		{NewInternalError("boom", errors.New("secret")), codes.Internal},
	}

	for _, tt := range tests {
		st, ok := status.FromError(tt.err)
		assert.True(t, ok)
		assert.Equal(t, tt.code, st.Code())
		assert.NotContains(t, st.Message(), "secret")
	}
}

func TestValidationError_Messages(t *testing.T) {
	err := NewValidationError(
		FieldViolation{Field: "Phone", Message: "Phone number cannot exceed 15 characters"},
	)

	assert.Equal(t, []string{"Phone number cannot exceed 15 characters"}, err.Messages())
	assert.Equal(t, CategoryBadRequest, err.Category())
}
