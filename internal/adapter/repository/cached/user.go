package cached

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"user-directory-service/internal/adapter/cache"
	domain "user-directory-service/internal/domain/user"
	"user-directory-service/internal/usecase/user"
)

// CachedUserRepository implements user.Repository with caching support.
// It wraps a persistent repository (DB) and a cache implementation. Only
// lookups by id are cached; searches always read the database.
type CachedUserRepository struct {
	dbRepo user.Repository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

var _ user.Repository = (*CachedUserRepository)(nil)

// NewCachedUserRepository creates a new instance of CachedUserRepository.
// A nil cache makes every call go straight to the database.
func NewCachedUserRepository(dbRepo user.Repository, cache cache.UserCache, log *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  cache,
		log:    log,
	}
}

func (r *CachedUserRepository) fromCache(ctx context.Context, id int64) *domain.User {
	if r.cache == nil {
		return nil
	}
	u, err := r.cache.Get(ctx, id)
	if err != nil {
		r.log.Warn("cache get error, falling back to database", zap.Int64("id", id), zap.Error(err))
		return nil
	}
	return u
}

func (r *CachedUserRepository) invalidate(ctx context.Context, id int64, reason string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, id); err != nil {
		r.log.Warn("failed to invalidate cache after "+reason, zap.Int64("id", id), zap.Error(err))
	}
}

// FindByID retrieves a user by ID using Cache-Aside pattern.
func (r *CachedUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	if u := r.fromCache(ctx, id); u != nil {
		r.log.Debug("user retrieved from cache", zap.Int64("id", id))
		return u, nil
	}

	// Cache miss or cache disabled - use single-flight to prevent stampede
	result, err, _ := r.group.Do(cache.Key(id), func() (any, error) {
		// Another request may have populated the cache while we were waiting
		if u := r.fromCache(ctx, id); u != nil {
			return u, nil
		}

		u, err := r.dbRepo.FindByID(ctx, id)
		if err != nil || u == nil {
			return u, err
		}

		if r.cache != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.Int64("id", id), zap.Error(err))
			}
		}
		return u, nil
	})
	if err != nil {
		return nil, err
	}

	u, _ := result.(*domain.User)
	if u == nil {
		return nil, nil
	}
	// Callers may mutate the result; never hand out the shared singleflight value
	cp := *u
	return &cp, nil
}

// ExistsByID answers from the cache when the user is cached.
func (r *CachedUserRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if u := r.fromCache(ctx, id); u != nil {
		return true, nil
	}
	return r.dbRepo.ExistsByID(ctx, id)
}

// Save writes the user to the DB and invalidates the cache on update.
func (r *CachedUserRepository) Save(ctx context.Context, u *domain.User) error {
	isUpdate := u != nil && u.ID != 0
	if err := r.dbRepo.Save(ctx, u); err != nil {
		return err
	}
	if isUpdate {
		r.invalidate(ctx, u.ID, "update")
	}
	return nil
}

// DeleteByID deletes the user from DB and invalidates the cache.
func (r *CachedUserRepository) DeleteByID(ctx context.Context, id int64) error {
	if err := r.dbRepo.DeleteByID(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id, "delete")
	return nil
}

// FindAll delegates to the DB repository.
func (r *CachedUserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	return r.dbRepo.FindAll(ctx)
}

// FindByEmail delegates to the DB repository.
func (r *CachedUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.dbRepo.FindByEmail(ctx, email)
}

// FindByNameContaining delegates to the DB repository.
func (r *CachedUserRepository) FindByNameContaining(ctx context.Context, fragment string) ([]domain.User, error) {
	return r.dbRepo.FindByNameContaining(ctx, fragment)
}

// SearchByCriteria delegates to the DB repository.
func (r *CachedUserRepository) SearchByCriteria(ctx context.Context, criteria domain.SearchCriteria) ([]domain.User, error) {
	return r.dbRepo.SearchByCriteria(ctx, criteria)
}

// ExistsByEmail delegates to the DB repository.
func (r *CachedUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.dbRepo.ExistsByEmail(ctx, email)
}

// Count delegates to the DB repository.
func (r *CachedUserRepository) Count(ctx context.Context) (int64, error) {
	return r.dbRepo.Count(ctx)
}
