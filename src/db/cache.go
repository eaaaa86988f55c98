package db

import (
	"ledger-server/src/models"

	"github.com/dgraph-io/ristretto"
)

// UserCache keeps recently authenticated users so the auth middleware does not
// hit the database on every request. A nil *UserCache is a valid no-op cache.
type UserCache struct {
	cache *ristretto.Cache
}

func NewUserCache(maxItems int64) (*UserCache, error) {
	if maxItems <= 0 {
		return nil, nil
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        maxItems * 10, // number of keys to track frequency of
		MaxCost:            maxItems,
		BufferItems:        64, // number of keys per Get buffer
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}
	return &UserCache{cache: cache}, nil
}

func userCacheKey(id string) string {
	return "user:" + id
}

func (c *UserCache) Get(id string) (*models.User, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.cache.Get(userCacheKey(id))
	if !ok {
		return nil, false
	}
	user, ok := v.(models.User)
	if !ok {
		return nil, false
	}
	return &user, true
}

func (c *UserCache) Set(user *models.User) {
	if c == nil || user == nil {
		return
	}
	c.cache.Set(userCacheKey(user.ID), *user, 1)
}

// Del evicts the user and waits for pending writes, so a Set queued before
// the delete cannot resurrect the entry.
func (c *UserCache) Del(id string) {
	if c == nil {
		return
	}
	c.cache.Del(userCacheKey(id))
	c.cache.Wait()
}

// Wait blocks until buffered writes are applied.
func (c *UserCache) Wait() {
	if c == nil {
		return
	}
	c.cache.Wait()
}

func (c *UserCache) Close() {
	if c == nil {
		return
	}
	c.cache.Close()
}
