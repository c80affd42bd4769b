package user

import (
	"context"

	domain "user-directory-service/internal/domain/user"
)

// Usecase defines the interface for user business logic operations.
type Usecase interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	SearchUsersByName(ctx context.Context, fragment string) ([]domain.User, error)
	SearchUsers(ctx context.Context, criteria domain.SearchCriteria) ([]domain.User, error)
	CountUsers(ctx context.Context) (int64, error)
	UserExists(ctx context.Context, id int64) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, in UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, in UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) (bool, error)
}
