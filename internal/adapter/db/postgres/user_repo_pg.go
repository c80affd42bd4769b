package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-directory-service/internal/domain/user"
	apperrors "user-directory-service/pkg/errors"
	"user-directory-service/pkg/security"
)

// UserRepoPG implements the user Repository using GORM. It runs against
// PostgreSQL in production and SQLite for local development and tests.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations

	// foldInGo is set for SQLite, whose LOWER() and LIKE fold ASCII only.
	foldInGo bool
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log, foldInGo: db.Dialector.Name() == "sqlite"}
}

// UserSchema represents the database schema for the users table.
// The unique index on email is the source of truth for the uniqueness invariant.
type UserSchema struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:100;not null"`
	Email     string    `gorm:"size:255;not null;uniqueIndex:idx_users_email"`
	Phone     *string   `gorm:"size:15"`
	Address   *string   `gorm:"size:500"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

const (
	nameContains  = `LOWER(name) LIKE LOWER(?) ESCAPE '` + security.LikeEscapeChar + `'`
	emailContains = `LOWER(email) LIKE LOWER(?) ESCAPE '` + security.LikeEscapeChar + `'`
	phoneContains = `phone LIKE ? ESCAPE '` + security.LikeEscapeChar + `'`

	// instr is case-sensitive and takes the fragment literally.
	sqlitePhoneContains = `instr(phone, ?) > 0`
)

// containsFold reports whether s contains fragment under Unicode case folding.
func containsFold(s, fragment string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(fragment))
}

// filterFold keeps the users whose field contains fragment, ignoring case.
func filterFold(users []user.User, fragment string, field func(user.User) string) []user.User {
	out := make([]user.User, 0, len(users))
	for _, u := range users {
		if containsFold(field(u), fragment) {
			out = append(out, u)
		}
	}
	return out
}

func userName(u user.User) string  { return u.Name }
func userEmail(u user.User) string { return u.Email }

func toSchema(u *user.User) UserSchema {
	return UserSchema{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toDomain(m UserSchema) user.User {
	return user.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Phone:     m.Phone,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toDomainList(models []UserSchema) []user.User {
	users := make([]user.User, len(models))
	for i, m := range models {
		users[i] = toDomain(m)
	}
	return users
}

// isUniqueViolation recognises unique constraint failures from both dialects.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "SQLSTATE 23505")
}

// FindAll returns every user ordered by id.
func (r *UserRepoPG) FindAll(ctx context.Context) ([]user.User, error) {
	var models []UserSchema
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to list users from db", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return toDomainList(models), nil
}

// FindByID retrieves a user by id. It returns (nil, nil) when the user does not exist.
func (r *UserRepoPG) FindByID(ctx context.Context, id int64) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found", zap.Int64("id", id))
			return nil, nil
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.Int64("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	u := toDomain(model)
	return &u, nil
}

// FindByEmail retrieves a user by exact email. It returns (nil, nil) when nothing matches.
func (r *UserRepoPG) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	u := toDomain(model)
	return &u, nil
}

// FindByNameContaining performs a case-insensitive substring match on name.
func (r *UserRepoPG) FindByNameContaining(ctx context.Context, fragment string) ([]user.User, error) {
	q := r.db.WithContext(ctx)
	if !r.foldInGo {
		q = q.Where(nameContains, security.ContainsPattern(fragment))
	}

	var models []UserSchema
	if err := q.Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to search users by name", zap.Error(err), zap.String("name", fragment))
		return nil, fmt.Errorf("failed to search users by name: %w", err)
	}

	users := toDomainList(models)
	if r.foldInGo {
		users = filterFold(users, fragment, userName)
	}
	return users, nil
}

// SearchByCriteria applies each supplied criterion as an independent substring
// filter. Name and email match case-insensitively, phone case-sensitively.
// On SQLite name and email are matched in Go so non-ASCII letters fold too.
func (r *UserRepoPG) SearchByCriteria(ctx context.Context, criteria user.SearchCriteria) ([]user.User, error) {
	q := r.db.WithContext(ctx)
	if r.foldInGo {
		if criteria.Phone != nil {
			q = q.Where(sqlitePhoneContains, *criteria.Phone)
		}
	} else {
		if criteria.Name != nil {
			q = q.Where(nameContains, security.ContainsPattern(*criteria.Name))
		}
		if criteria.Email != nil {
			q = q.Where(emailContains, security.ContainsPattern(*criteria.Email))
		}
		if criteria.Phone != nil {
			q = q.Where(phoneContains, security.ContainsPattern(*criteria.Phone))
		}
	}

	var models []UserSchema
	if err := q.Order("id").Find(&models).Error; err != nil {
		r.log.Error("failed to search users", zap.Error(err))
		return nil, fmt.Errorf("failed to search users: %w", err)
	}

	users := toDomainList(models)
	if r.foldInGo {
		if criteria.Name != nil {
			users = filterFold(users, *criteria.Name, userName)
		}
		if criteria.Email != nil {
			users = filterFold(users, *criteria.Email, userEmail)
		}
	}
	return users, nil
}

func (r *UserRepoPG) exists(ctx context.Context, query string, arg any) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Where(query, arg).Limit(1).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ExistsByID reports whether a user with the id exists.
func (r *UserRepoPG) ExistsByID(ctx context.Context, id int64) (bool, error) {
	ok, err := r.exists(ctx, "id = ?", id)
	if err != nil {
		r.log.Error("failed to check user existence", zap.Error(err), zap.Int64("id", id))
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return ok, nil
}

// ExistsByEmail reports whether the exact email is stored.
func (r *UserRepoPG) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ok, err := r.exists(ctx, "email = ?", email)
	if err != nil {
		r.log.Error("failed to check email existence", zap.Error(err), zap.String("email", email))
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return ok, nil
}

// Count returns the total number of users.
func (r *UserRepoPG) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&UserSchema{}).Count(&n).Error; err != nil {
		r.log.Error("failed to count users", zap.Error(err))
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

// Save inserts the user when its ID is zero and replaces the stored row otherwise.
// Unique index violations are reported as DuplicateEmailError.
func (r *UserRepoPG) Save(ctx context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}
	if u.ID == 0 {
		return r.create(ctx, u)
	}
	return r.update(ctx, u)
}

func (r *UserRepoPG) create(ctx context.Context, u *user.User) error {
	model := toSchema(u)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("unique constraint rejected user", zap.String("email", u.Email))
			return apperrors.NewDuplicateEmailError(u.Email)
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = model.ID
	r.log.Info("user created in db", zap.Int64("id", model.ID))
	return nil
}

func (r *UserRepoPG) update(ctx context.Context, u *user.User) error {
	model := toSchema(u)
	result := r.db.WithContext(ctx).
		Model(&UserSchema{ID: u.ID}).
		Select("name", "email", "phone", "address", "updated_at").
		Updates(&model)
	if err := result.Error; err != nil {
		if isUniqueViolation(err) {
			r.log.Warn("unique constraint rejected user update", zap.Int64("id", u.ID), zap.String("email", u.Email))
			return apperrors.NewDuplicateEmailError(u.Email)
		}
		r.log.Error("failed to update user in db", zap.Error(err), zap.Int64("id", u.ID))
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("User", u.ID)
	}

	r.log.Info("user updated in db", zap.Int64("id", u.ID))
	return nil
}

// DeleteByID removes a user permanently.
func (r *UserRepoPG) DeleteByID(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&UserSchema{}, id)
	if err := result.Error; err != nil {
		r.log.Error("failed to delete user in db", zap.Error(err), zap.Int64("id", id))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("User", id)
	}

	r.log.Info("user deleted in db", zap.Int64("id", id))
	return nil
}
