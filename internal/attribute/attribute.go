package attribute

import (
	"strings"

	"logrelay/internal/record"
)

// Kind classifies the origin of an attributed record.
type Kind string

const (
	KindService   Kind = "service"
	KindContainer Kind = "container"
)

// Identity is the canonical service a record belongs to.
type Identity struct {
	Name string
	Kind Kind
}

const (
	unitSuffix       = ".service"
	syslogDockerTag  = "docker."
	runtimeSuffixLen = 12 // hex id the runtime appends to container names
)

// Attributor derives canonical service names from the host's naming
// conventions: systemd units named "<prefix>-<name>.service" and docker
// containers named "<prefix>-<name>-<12 hex>". Stripping is single-pass;
// applying it to an already-stripped name changes nothing.
type Attributor struct {
	Prefix string
}

func New(prefix string) *Attributor {
	return &Attributor{Prefix: prefix}
}

// Attribute classifies the record's origin from its source fields. ok is
// false when no naming convention matches; such records do not belong to a
// managed service and the caller must drop them.
func (a *Attributor) Attribute(fields map[string]string) (Identity, bool) {
	if unit := fields[record.FieldUnit]; unit != "" {
		if name, ok := a.unitName(unit); ok {
			return Identity{Name: name, Kind: KindService}, true
		}
	}

	if id := fields[record.FieldSyslogID]; strings.HasPrefix(id, syslogDockerTag) {
		name := strings.TrimPrefix(id, syslogDockerTag)
		return Identity{Name: a.containerName(name), Kind: KindContainer}, true
	}

	if cname, ok := fields[record.FieldContainer]; ok {
		name := strings.TrimPrefix(cname, "/")
		return Identity{Name: a.containerName(name), Kind: KindContainer}, true
	}

	return Identity{}, false
}

// unitName matches "<prefix>-<name>.service". Units without the prefix are
// unrelated system units, not ours.
func (a *Attributor) unitName(unit string) (string, bool) {
	name, ok := strings.CutSuffix(unit, unitSuffix)
	if !ok {
		return "", false
	}
	name, ok = strings.CutPrefix(name, a.Prefix+"-")
	if !ok {
		return "", false
	}
	// An empty remainder is still a valid (if unhelpful) service name.
	return name, true
}

// containerName strips the leading "<prefix>-" token and the trailing
// "-<12 hex>" id the runtime appends. Each strip happens at most once.
func (a *Attributor) containerName(name string) string {
	name = strings.TrimPrefix(name, a.Prefix+"-")
	if n := len(name) - (runtimeSuffixLen + 1); n >= 0 && name[n] == '-' && isHex(name[n+1:]) {
		name = name[:n]
	}
	return name
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
