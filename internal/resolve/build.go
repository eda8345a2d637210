package resolve

import (
	"fmt"
	"time"

	"logrelay/internal/config"
)

// FromConfig builds a Resolver from the resolve section of config.
// Returns nil if no resolvers are configured; docker sources then fall
// back to a plain inspect.
func FromConfig(cfg config.ResolveConfig) (Resolver, error) {
	var resolvers []Resolver

	if len(cfg.Names) > 0 {
		resolvers = append(resolvers, NewStaticResolver(cfg.Names))
	}

	if cfg.Docker {
		dr, err := NewDockerResolver()
		if err != nil {
			return nil, fmt.Errorf("resolve: docker: %w", err)
		}
		resolvers = append(resolvers, dr)
	}

	if len(resolvers) == 0 {
		return nil, nil
	}

	var r Resolver
	if len(resolvers) == 1 {
		r = resolvers[0]
	} else {
		r = NewChain(resolvers...)
	}

	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return NewCachingResolver(r, ttl, cfg.Cache.MaxSize), nil
}
