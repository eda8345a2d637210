package sequence

import "logrelay/internal/record"

const (
	microsPerSecond = 1_000_000
	nanosPerMicro   = 1_000
	nanosPerSecond  = 1_000_000_000
)

// Sequencer expands microsecond source timestamps into nanosecond
// timestamps that increase strictly within each service stream, which is
// what the downstream store's per-stream ordering depends on.
type Sequencer struct {
	cache *Cache
}

func New(cache *Cache) *Sequencer {
	return &Sequencer{cache: cache}
}

// Next returns the timestamp for the next record of service. Microseconds
// expand to nanoseconds by zero-padding, never by inventing precision.
// Records repeating the previous microsecond value are nudged forward by a
// per-service tie-break offset, carrying into the seconds field when the
// nanosecond range overflows. Monotonicity holds per service and only
// forward: a genuinely earlier source timestamp passes through unchanged.
func (s *Sequencer) Next(service string, us int64) record.Timestamp {
	sec := us / microsPerSecond
	nsec := (us % microsPerSecond) * nanosPerMicro

	st := s.cache.Touch(service)
	if st.LastMicros == us {
		st.Offset++
		nsec += st.Offset
		if nsec >= nanosPerSecond {
			sec++
			nsec -= nanosPerSecond
		}
	} else {
		st.LastMicros = us
		st.Offset = 0
	}

	return record.Timestamp{Sec: sec, Nsec: nsec}
}

// Tracked returns the number of services currently holding ordering state.
func (s *Sequencer) Tracked() int {
	return s.cache.Len()
}
