package user

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	domain "user-directory-service/internal/domain/user"
	apperrors "user-directory-service/pkg/errors"
)

// Repository defines the interface for user data access operations.
// Lookups return (nil, nil) when nothing matches. Save creates the user when
// ID is zero and assigns the new ID; otherwise it replaces the stored user.
type Repository interface {
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByNameContaining(ctx context.Context, fragment string) ([]domain.User, error)
	SearchByCriteria(ctx context.Context, criteria domain.SearchCriteria) ([]domain.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, u *domain.User) error
	DeleteByID(ctx context.Context, id int64) error
}

// resourceName is used in not-found messages.
const resourceName = "User"

// Service implements the business logic for user management operations.
// It holds no mutable state; all state lives behind the Repository.
type Service struct {
	repo     Repository
	log      *zap.Logger
	clock    clockwork.Clock
	validate *validator.Validate
}

var _ Usecase = (*Service)(nil)

// New creates a new Service with the provided repository, logger and clock.
func New(r Repository, log *zap.Logger, clock clockwork.Clock) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{repo: r, log: log, clock: clock, validate: newValidator()}
}

// storageError wraps a repository failure unless it is already classified.
func storageError(message string, err error) error {
	var de apperrors.DomainError
	if errors.As(err, &de) {
		return err
	}
	return apperrors.NewInternalError(message, err)
}

// ListUsers returns every user in storage order.
func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.log.Error("failed to list users", zap.Error(err))
		return nil, storageError("failed to list users", err)
	}
	return users, nil
}

// GetUser returns the user with the given id or a NotFoundError.
func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get user", zap.Int64("id", id), zap.Error(err))
		return nil, storageError("failed to get user", err)
	}
	if u == nil {
		s.log.Debug("user not found", zap.Int64("id", id))
		return nil, apperrors.NewNotFoundError(resourceName, id)
	}
	return u, nil
}

// GetUserByEmail returns (nil, nil) when no user has the email.
func (s *Service) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("failed to get user by email", zap.String("email", email), zap.Error(err))
		return nil, storageError("failed to get user by email", err)
	}
	return u, nil
}

// SearchUsersByName performs a case-insensitive substring match on name.
func (s *Service) SearchUsersByName(ctx context.Context, fragment string) ([]domain.User, error) {
	users, err := s.repo.FindByNameContaining(ctx, fragment)
	if err != nil {
		s.log.Error("failed to search users by name", zap.String("name", fragment), zap.Error(err))
		return nil, storageError("failed to search users by name", err)
	}
	return users, nil
}

// SearchUsers applies only the criteria that are supplied.
func (s *Service) SearchUsers(ctx context.Context, criteria domain.SearchCriteria) ([]domain.User, error) {
	users, err := s.repo.SearchByCriteria(ctx, criteria)
	if err != nil {
		s.log.Error("failed to search users", zap.Error(err))
		return nil, storageError("failed to search users", err)
	}
	return users, nil
}

// CountUsers returns the total number of users.
func (s *Service) CountUsers(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		s.log.Error("failed to count users", zap.Error(err))
		return 0, storageError("failed to count users", err)
	}
	return n, nil
}

// UserExists reports whether a user with the id exists.
func (s *Service) UserExists(ctx context.Context, id int64) (bool, error) {
	ok, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		s.log.Error("failed to check user existence", zap.Int64("id", id), zap.Error(err))
		return false, storageError("failed to check user existence", err)
	}
	return ok, nil
}

// EmailExists reports whether the exact email is taken.
func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	ok, err := s.repo.ExistsByEmail(ctx, email)
	if err != nil {
		s.log.Error("failed to check email existence", zap.String("email", email), zap.Error(err))
		return false, storageError("failed to check email existence", err)
	}
	return ok, nil
}

// CreateUser creates a new user after validating the input and checking email uniqueness.
// The uniqueness check and the insert are separate storage calls; the storage
// unique index is the backstop for concurrent creates.
func (s *Service) CreateUser(ctx context.Context, in UserInput) (*domain.User, error) {
	s.log.Info("creating user", zap.String("name", in.Name), zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		err = formatValidationError(err)
		s.log.Warn("validate failed", zap.Error(err))
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, in.Email)
	if err != nil {
		s.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, storageError("failed to validate email uniqueness", err)
	}
	if exists {
		s.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, apperrors.NewDuplicateEmailError(in.Email)
	}

	now := s.clock.Now().UTC()
	u := &domain.User{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, u); err != nil {
		s.log.Error("failed to create user", zap.String("email", in.Email), zap.Error(err))
		return nil, storageError("failed to create user", err)
	}

	s.log.Info("user created", zap.Int64("id", u.ID))
	return u, nil
}

// UpdateUser replaces all mutable fields of an existing user. Uniqueness is
// re-checked only when the email changes.
func (s *Service) UpdateUser(ctx context.Context, id int64, in UserInput) (*domain.User, error) {
	s.log.Info("updating user", zap.Int64("id", id), zap.String("name", in.Name), zap.String("email", in.Email))

	if err := s.validate.Struct(in); err != nil {
		err = formatValidationError(err)
		s.log.Warn("validate failed", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}

	existing, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Email != in.Email {
		taken, err := s.repo.ExistsByEmail(ctx, in.Email)
		if err != nil {
			s.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
			return nil, storageError("failed to validate email uniqueness", err)
		}
		if taken {
			s.log.Warn("email already exists", zap.String("email", in.Email), zap.Int64("id", id))
			return nil, apperrors.NewDuplicateEmailError(in.Email)
		}
	}

	existing.Name = in.Name
	existing.Email = in.Email
	existing.Phone = in.Phone
	existing.Address = in.Address
	existing.UpdatedAt = s.clock.Now().UTC()

	if err := s.repo.Save(ctx, existing); err != nil {
		s.log.Error("failed to update user", zap.Int64("id", id), zap.Error(err))
		return nil, storageError("failed to update user", err)
	}

	return existing, nil
}

// DeleteUser removes a user permanently. Deleting an absent user is a NotFoundError,
// including a retry after a successful delete.
func (s *Service) DeleteUser(ctx context.Context, id int64) (bool, error) {
	s.log.Info("deleting user", zap.Int64("id", id))

	exists, err := s.repo.ExistsByID(ctx, id)
	if err != nil {
		s.log.Error("failed to check user existence", zap.Int64("id", id), zap.Error(err))
		return false, storageError("failed to delete user", err)
	}
	if !exists {
		s.log.Warn("delete of unknown user", zap.Int64("id", id))
		return false, apperrors.NewNotFoundError(resourceName, id)
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		s.log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return false, storageError("failed to delete user", err)
	}

	return true, nil
}
