package resolve

import "context"

// Resolver maps a container reference (ID or short ID) to the container's
// canonical name, the form attribution reduces to a service identity.
type Resolver interface {
	Resolve(ctx context.Context, ref string) (name string, ok bool)
}
