package config

import "fmt"

func (c *Config) Validate() error {
	if c.Attribution.Prefix == "" {
		return fmt.Errorf("attribution: prefix is required")
	}

	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one source is required")
	}

	for name, s := range c.Sources {
		switch s.Type {
		case "journal":
			if s.Path == "" {
				return fmt.Errorf("source [%s]: journal source needs a path", name)
			}
		case "stdin":
		case "docker":
			if s.ContainerID == "" {
				return fmt.Errorf("source [%s]: docker source needs a container_id", name)
			}
		default:
			return fmt.Errorf("source [%s]: unknown type '%s'", name, s.Type)
		}
	}

	switch c.Sink.Type {
	case "loki":
		if c.Sink.URL == "" {
			return fmt.Errorf("sink: loki sink needs a url")
		}
	case "stdout", "":
	default:
		return fmt.Errorf("sink: unknown type '%s'", c.Sink.Type)
	}

	if c.Resolve.Cache.TTL < 0 {
		return fmt.Errorf("resolve: cache ttl must not be negative")
	}

	if c.Sequencer.Capacity < 0 {
		return fmt.Errorf("sequencer: capacity must not be negative")
	}

	switch c.Extract.Mode {
	case "", "full", "scan":
	default:
		return fmt.Errorf("extract: unknown mode '%s'", c.Extract.Mode)
	}
	switch c.Extract.Decode {
	case "", "none", "unicode", "ansi":
	default:
		return fmt.Errorf("extract: unknown decode mode '%s'", c.Extract.Decode)
	}

	return nil
}
