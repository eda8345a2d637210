package resolve

import (
	"context"
	"path"
	"strings"
)

// StaticResolver resolves container references from a fixed map defined
// in config. Keys support wildcard patterns like "taskflows-worker-*",
// which lets one entry cover every replica of a scaled service.
type StaticResolver struct {
	exact     map[string]string // lowercase ref → container name
	wildcards []wildcard
}

type wildcard struct {
	pattern string
	name    string
}

// NewStaticResolver builds a StaticResolver from the config map.
func NewStaticResolver(m map[string]string) *StaticResolver {
	r := &StaticResolver{
		exact: make(map[string]string, len(m)),
	}
	for ref, name := range m {
		lower := strings.ToLower(ref)
		if strings.Contains(lower, "*") {
			r.wildcards = append(r.wildcards, wildcard{pattern: lower, name: name})
		} else {
			r.exact[lower] = name
		}
	}
	return r
}

func (r *StaticResolver) Resolve(_ context.Context, ref string) (string, bool) {
	lower := strings.ToLower(ref)

	if name, ok := r.exact[lower]; ok {
		return name, true
	}

	for _, w := range r.wildcards {
		if matched, _ := path.Match(w.pattern, lower); matched {
			return w.name, true
		}
	}

	return "", false
}
