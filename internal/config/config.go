package config

import "time"

type Config struct {
	Attribution AttributionConfig       `yaml:"attribution"`
	Extract     ExtractConfig           `yaml:"extract"`
	Sequencer   SequencerConfig         `yaml:"sequencer"`
	Sources     map[string]SourceConfig `yaml:"sources"`
	Resolve     ResolveConfig           `yaml:"resolve"`
	Sink        SinkConfig              `yaml:"sink"`
	Metrics     MetricsConfig           `yaml:"metrics"`
}

type AttributionConfig struct {
	// Prefix is the app-name token stripped from unit and container
	// names, e.g. "taskflows" for units named taskflows-<name>.service.
	Prefix string `yaml:"prefix"`
}

type ExtractConfig struct {
	Mode   string `yaml:"mode"`   // full | scan
	Decode string `yaml:"decode"` // none | unicode | ansi
}

type SequencerConfig struct {
	// Capacity caps the number of services with tracked ordering state.
	Capacity int `yaml:"capacity"`
}

type SourceConfig struct {
	Type        string `yaml:"type"` // journal | stdin | docker
	Path        string `yaml:"path,omitempty"`
	ContainerID string `yaml:"container_id,omitempty"`
	Name        string `yaml:"name,omitempty"`
}

type ResolveConfig struct {
	// Names maps container references to canonical names without asking
	// the daemon. Keys support wildcard patterns like "worker-*".
	Names  map[string]string  `yaml:"names,omitempty"`
	Docker bool               `yaml:"docker,omitempty"`
	Cache  ResolveCacheConfig `yaml:"cache,omitempty"`
}

type ResolveCacheConfig struct {
	TTL     time.Duration `yaml:"ttl,omitempty"`
	MaxSize int           `yaml:"max_size,omitempty"`
}

type SinkConfig struct {
	Type          string        `yaml:"type"` // loki | stdout
	URL           string        `yaml:"url,omitempty"`
	TenantID      string        `yaml:"tenant_id,omitempty"`
	BatchSize     int           `yaml:"batch_size,omitempty"`
	FlushInterval time.Duration `yaml:"flush_interval,omitempty"`
	Pretty        bool          `yaml:"pretty,omitempty"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}
