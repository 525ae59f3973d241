package join

import (
	"context"
	"time"

	"github.com/wonny/proptier/internal/contracts"
	"github.com/wonny/proptier/pkg/logger"
	"github.com/wonny/proptier/pkg/redis"
)

// IndexStore is the key-value store behind the area index cache
// *redis.Cache satisfies it.
type IndexStore interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

var _ IndexStore = (*redis.Cache)(nil)

// IndexCache caches the deduplicated postcode index keyed by lookup file hash
type IndexCache struct {
	store  IndexStore
	ttl    time.Duration
	logger *logger.Logger
}

// NewIndexCache creates an area index cache
func NewIndexCache(store IndexStore, ttl time.Duration, log *logger.Logger) *IndexCache {
	return &IndexCache{
		store:  store,
		ttl:    ttl,
		logger: log.WithStage(string(contracts.StageJoin)),
	}
}

// Load returns the cached index for lookupSHA256, or reads links and caches the result
// Store failures are logged and never fail the run.
func (c *IndexCache) Load(ctx context.Context, lookupSHA256 string, read func(context.Context) ([]contracts.AreaLink, error)) (*AreaIndex, bool, error) {
	key := redis.AreaIndexKey(lookupSHA256)

	var cached AreaIndex
	found, err := c.store.Get(ctx, key, &cached)
	if err != nil {
		c.logger.WithError(err).Warn("Area index cache read failed, parsing lookup file")
	}
	if found && err == nil && cached.Areas != nil {
		c.logger.WithField("postcodes", cached.Len()).Info("Area index loaded from cache")
		return &cached, true, nil
	}

	links, err := read(ctx)
	if err != nil {
		return nil, false, err
	}
	idx := BuildAreaIndex(links)

	if err := c.store.Set(ctx, key, idx, c.ttl); err != nil {
		c.logger.WithError(err).Warn("Area index cache write failed")
	}
	return idx, false, nil
}
