package cached

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-directory-service/internal/adapter/cache"
	"user-directory-service/internal/adapter/db/postgres"
	"user-directory-service/internal/adapter/db/postgres/pgtest"
	domain "user-directory-service/internal/domain/user"
)

// countingRepo counts FindByID calls on top of a real repository.
type countingRepo struct {
	*postgres.UserRepoPG
	mu    sync.Mutex
	calls int
}

func (r *countingRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	return r.UserRepoPG.FindByID(ctx, id)
}

func (r *countingRepo) findCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func setup(t *testing.T) (*CachedUserRepository, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	log := zaptest.NewLogger(t)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	db := &countingRepo{UserRepoPG: postgres.NewUserRepoPG(pgtest.NewDB(t), log)}
	repo := NewCachedUserRepository(db, cache.NewRedisUserCache(client, time.Minute, log), log)
	return repo, db, mr
}

func saveUser(t *testing.T, repo *CachedUserRepository, name, email string) *domain.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	u := &domain.User{Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Save(context.Background(), u))
	return u
}

func TestCachedUserRepository_FindByID_CachesResult(t *testing.T) {
	repo, db, mr := setup(t)
	ctx := context.Background()
	u := saveUser(t, repo, "John Doe", "john@example.com")

	first, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, mr.Exists(cache.Key(u.ID)))

	second, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Email, second.Email)
	assert.Equal(t, 1, db.findCalls())
}

func TestCachedUserRepository_FindByID_MissIsNotCached(t *testing.T) {
	repo, db, mr := setup(t)

	got, err := repo.FindByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists(cache.Key(42)))
	assert.Equal(t, 1, db.findCalls())
}

func TestCachedUserRepository_FindByID_Singleflight(t *testing.T) {
	repo, db, _ := setup(t)
	u := saveUser(t, repo, "John Doe", "john@example.com")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := repo.FindByID(context.Background(), u.ID)
			assert.NoError(t, err)
			assert.NotNil(t, got)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, db.findCalls(), 20)
	assert.GreaterOrEqual(t, db.findCalls(), 1)
}

func TestCachedUserRepository_UpdateInvalidates(t *testing.T) {
	repo, _, mr := setup(t)
	ctx := context.Background()
	u := saveUser(t, repo, "John Doe", "john@example.com")

	_, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.Key(u.ID)))

	u.Name = "Johnny"
	require.NoError(t, repo.Save(ctx, u))
	assert.False(t, mr.Exists(cache.Key(u.ID)))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Johnny", got.Name)
}

func TestCachedUserRepository_DeleteInvalidates(t *testing.T) {
	repo, _, mr := setup(t)
	ctx := context.Background()
	u := saveUser(t, repo, "John Doe", "john@example.com")

	_, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)

	require.NoError(t, repo.DeleteByID(ctx, u.ID))
	assert.False(t, mr.Exists(cache.Key(u.ID)))

	exists, err := repo.ExistsByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCachedUserRepository_RedisDownFallsBackToDB(t *testing.T) {
	repo, _, mr := setup(t)
	ctx := context.Background()
	u := saveUser(t, repo, "John Doe", "john@example.com")

	mr.Close()

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", got.Email)

	exists, err := repo.ExistsByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.DeleteByID(ctx, u.ID))
}

func TestCachedUserRepository_NilCache(t *testing.T) {
	log := zaptest.NewLogger(t)
	repo := NewCachedUserRepository(postgres.NewUserRepoPG(pgtest.NewDB(t), log), nil, log)
	ctx := context.Background()

	u := saveUser(t, repo, "John Doe", "john@example.com")

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockCache) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func TestCachedUserRepository_FailedSaveKeepsCache(t *testing.T) {
	log := zaptest.NewLogger(t)
	c := new(mockCache)
	repo := NewCachedUserRepository(postgres.NewUserRepoPG(pgtest.NewDB(t), log), c, log)

	err := repo.Save(context.Background(), &domain.User{ID: 99, Name: "Ghost", Email: "ghost@example.com"})

	assert.Error(t, err)
	c.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCachedUserRepository_CacheSetErrorIgnored(t *testing.T) {
	log := zaptest.NewLogger(t)
	c := new(mockCache)
	db := postgres.NewUserRepoPG(pgtest.NewDB(t), log)
	repo := NewCachedUserRepository(db, c, log)
	ctx := context.Background()

	u := &domain.User{Name: "John Doe", Email: "john@example.com"}
	require.NoError(t, db.Save(ctx, u))

	c.On("Get", mock.Anything, u.ID).Return(nil, nil)
	c.On("Set", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	got, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	c.AssertExpectations(t)
}
