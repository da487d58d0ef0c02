package cache

import (
	"fmt"

	"github.com/weiawesome/wes-io-live/spellcheck-service/internal/config"
)

// New creates the Store selected by cfg.Driver.
func New(cfg config.CacheConfig, redisCfg config.RedisConfig) (Store, error) {
	switch cfg.Driver {
	case "memory":
		return NewMemoryStore(), nil
	case "redis", "":
		store, err := NewRedisStore(redisCfg, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", cfg.Driver)
	}
}
