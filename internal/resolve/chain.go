package resolve

import "context"

// ChainResolver tries each resolver in order, returning the first success.
type ChainResolver struct {
	resolvers []Resolver
}

// NewChain creates a ChainResolver from the given resolvers.
func NewChain(resolvers ...Resolver) *ChainResolver {
	return &ChainResolver{resolvers: resolvers}
}

func (c *ChainResolver) Resolve(ctx context.Context, ref string) (string, bool) {
	for _, r := range c.resolvers {
		if name, ok := r.Resolve(ctx, ref); ok {
			return name, true
		}
	}
	return "", false
}
