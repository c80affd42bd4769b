package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Category is the caller-visible classification of a failed operation.
type Category string

const (
	CategoryNotFound      Category = "not-found"
	CategoryBadRequest    Category = "bad-request"
	CategoryInternalError Category = "internal-error"
)

// InternalMessage is the only message ever returned to callers for unclassified failures.
const InternalMessage = "Internal server error occurred"

// DomainError is implemented by every classified failure kind. The set is closed:
// only types declared in this package can satisfy it.
type DomainError interface {
	error
	Category() Category
	domainError()
}

// NotFoundError represents a referenced resource that does not exist.
type NotFoundError struct {
	Resource string
	ID       int64
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %d", e.Resource, e.ID)
}

func (e *NotFoundError) Category() Category { return CategoryNotFound }
func (e *NotFoundError) domainError()       {}

// GRPCStatus returns the gRPC status for this error
func (e *NotFoundError) GRPCStatus() *status.Status {
	return status.New(codes.NotFound, e.Error())
}

// DuplicateEmailError represents a violation of the email uniqueness invariant.
type DuplicateEmailError struct {
	Email string
}

// NewDuplicateEmailError creates a new duplicate email error
func NewDuplicateEmailError(email string) *DuplicateEmailError {
	return &DuplicateEmailError{Email: email}
}

// Error implements the error interface
func (e *DuplicateEmailError) Error() string {
	return "Email already exists: " + e.Email
}

func (e *DuplicateEmailError) Category() Category { return CategoryBadRequest }
func (e *DuplicateEmailError) domainError()       {}

// GRPCStatus returns the gRPC status for this error
func (e *DuplicateEmailError) GRPCStatus() *status.Status {
	return status.New(codes.AlreadyExists, e.Error())
}

// FieldViolation is a single failed constraint on an input field.
type FieldViolation struct {
	Field   string
	Message string
}

// ValidationError carries every violated field of an input, not just the first.
type ValidationError struct {
	Violations []FieldViolation
}

// NewValidationError creates a new validation error
func NewValidationError(violations ...FieldViolation) *ValidationError {
	return &ValidationError{Violations: violations}
}

// Messages returns the violation messages in reporting order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return msgs
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return "Validation failed: " + strings.Join(e.Messages(), "; ")
}

func (e *ValidationError) Category() Category { return CategoryBadRequest }
func (e *ValidationError) domainError()       {}

// GRPCStatus returns the gRPC status for this error
func (e *ValidationError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// ArgumentError is raised by the API layer when a caller omits a required argument
// or supplies one of the wrong shape.
type ArgumentError struct {
	Argument string
	Reason   string
}

// NewArgumentError creates a new argument error
func NewArgumentError(argument, reason string) *ArgumentError {
	return &ArgumentError{Argument: argument, Reason: reason}
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	return fmt.Sprintf("Invalid argument: %s %s", e.Argument, e.Reason)
}

func (e *ArgumentError) Category() Category { return CategoryBadRequest }
func (e *ArgumentError) domainError()       {}

// GRPCStatus returns the gRPC status for this error
func (e *ArgumentError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Error())
}

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

func (e *InternalError) Category() Category { return CategoryInternalError }
func (e *InternalError) domainError()       {}

// GRPCStatus never exposes the wrapped cause.
func (e *InternalError) GRPCStatus() *status.Status {
	return status.New(codes.Internal, InternalMessage)
}

// Classification is the caller-visible outcome of a failure.
type Classification struct {
	Category Category
	Message  string
}

// Classify maps any error onto a caller-visible category and message.
// Kinds are checked most specific first; everything unknown becomes an
// internal error whose cause is not echoed.
func Classify(err error) Classification {
	var de DomainError
	if !errors.As(err, &de) {
		return Classification{Category: CategoryInternalError, Message: InternalMessage}
	}

	switch e := de.(type) {
	case *NotFoundError:
		return Classification{Category: CategoryNotFound, Message: e.Error()}
	case *DuplicateEmailError:
		return Classification{Category: CategoryBadRequest, Message: e.Error()}
	case *ValidationError:
		return Classification{Category: CategoryBadRequest, Message: e.Error()}
	case *ArgumentError:
		return Classification{Category: CategoryBadRequest, Message: e.Error()}
	case *InternalError:
		return Classification{Category: CategoryInternalError, Message: InternalMessage}
	default:
		panic(fmt.Sprintf("errors: unclassified domain error %T", de))
	}
}

// HTTPStatus returns the HTTP status code for a category.
func (c Category) HTTPStatus() int {
	switch c {
	case CategoryNotFound:
		return http.StatusNotFound
	case CategoryBadRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// GRPCStatuser interface for errors that can provide gRPC status
type GRPCStatuser interface {
	GRPCStatus() *status.Status
}
