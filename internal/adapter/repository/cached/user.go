package cached

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Ivanildsdev/myrecipebook/internal/adapter/cache"
	domain "github.com/Ivanildsdev/myrecipebook/internal/domain/user"
	"github.com/Ivanildsdev/myrecipebook/internal/usecase/user"
)

// CachedUserRepository implements user.ReadRepository with caching on the
// identifier lookup, the query the authorization gate runs on every
// protected request. The remaining lookups feed uniqueness and credential
// checks and always go to the database.
type CachedUserRepository struct {
	dbRepo user.ReadRepository
	cache  cache.UserCache
	log    *zap.Logger
	group  singleflight.Group
}

// NewCachedUserRepository creates a new instance of CachedUserRepository.
func NewCachedUserRepository(dbRepo user.ReadRepository, userCache cache.UserCache, log *zap.Logger) user.ReadRepository {
	return &CachedUserRepository{
		dbRepo: dbRepo,
		cache:  userCache,
		log:    log,
	}
}

// FindActiveByIdentifier resolves an identifier using the cache-aside
// pattern, with single-flight so a burst of requests for one identity makes
// a single database query.
func (r *CachedUserRepository) FindActiveByIdentifier(ctx context.Context, identifier uuid.UUID) (*domain.User, error) {
	cachedUser, err := r.cache.Get(ctx, identifier)
	if err != nil {
		r.log.Warn("cache get error, falling back to database", zap.String("identifier", identifier.String()), zap.Error(err))
	} else if cachedUser != nil {
		return cachedUser, nil
	}

	result, err, _ := r.group.Do(identifier.String(), func() (any, error) {
		// Double-check in case another request populated the cache while
		// we were waiting.
		if cachedUser, err := r.cache.Get(ctx, identifier); err == nil && cachedUser != nil {
			return cachedUser, nil
		}

		u, err := r.dbRepo.FindActiveByIdentifier(ctx, identifier)
		if err != nil {
			return nil, err
		}

		// Absent identities are not cached; a rejected token retried in a
		// loop is cheap to re-check and a fresh registration must be
		// visible immediately.
		if u != nil {
			if err := r.cache.Set(ctx, u); err != nil {
				r.log.Warn("failed to cache user", zap.String("identifier", identifier.String()), zap.Error(err))
			}
		}

		return u, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*domain.User), nil
}

// ExistsActiveWithEmail delegates to the DB repository.
func (r *CachedUserRepository) ExistsActiveWithEmail(ctx context.Context, email string) (bool, error) {
	return r.dbRepo.ExistsActiveWithEmail(ctx, email)
}

// FindByEmailAndPasswordHash delegates to the DB repository.
func (r *CachedUserRepository) FindByEmailAndPasswordHash(ctx context.Context, email, passwordHash string) (*domain.User, error) {
	return r.dbRepo.FindByEmailAndPasswordHash(ctx, email, passwordHash)
}

// FindByID delegates to the DB repository.
func (r *CachedUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.dbRepo.FindByID(ctx, id)
}
