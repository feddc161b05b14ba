package stores

import (
	"context"
	"time"

	"github.com/RushabhMehta2005/todo-auth/models"
	"github.com/patrickmn/go-cache"
)

// CachedUserStore keeps recently seen users in memory so repeated sign-ins
// skip the database. Users are never updated or deleted, so entries only
// expire. Misses are not cached.
type CachedUserStore struct {
	UserStore
	cache *cache.Cache
}

func NewCachedUserStore(inner UserStore, ttl time.Duration) *CachedUserStore {
	return &CachedUserStore{
		UserStore: inner,
		cache:     cache.New(ttl, 2*ttl),
	}
}

func (s *CachedUserStore) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	cacheKey := "username:" + username

	if cached, found := s.cache.Get(cacheKey); found {
		if user, ok := cached.(models.User); ok {
			return &user, nil
		}
	}

	user, err := s.UserStore.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	s.cache.Set(cacheKey, *user, cache.DefaultExpiration)
	return user, nil
}
