package pipeline

import (
	"strconv"
	"time"

	"logrelay/internal/attribute"
	"logrelay/internal/extract"
	"logrelay/internal/metrics"
	"logrelay/internal/record"
	"logrelay/internal/sequence"
)

// Drop reasons counted by the metrics set.
const (
	DropEmpty        = "empty"
	DropUnattributed = "unattributed"
)

// Processor normalizes one raw record at a time: attribute the origin,
// extract label fields, assign a per-service monotonic timestamp. It owns
// the sequencer state and must only be driven from a single goroutine.
type Processor struct {
	Attributor *attribute.Attributor
	Extractor  *extract.Extractor
	Sequencer  *sequence.Sequencer
	Metrics    *metrics.Set // optional
}

// Process runs one record through the pipeline. ok is false when the
// record is dropped; dropping is deliberate filtering (noise and
// cardinality control), not an error. The call is total: no input makes
// it panic or block.
func (p *Processor) Process(raw record.Raw) (record.Normalized, bool) {
	if p.Metrics != nil {
		p.Metrics.Records.WithLabelValues(raw.Source).Inc()
	}

	if raw.Message == "" {
		p.drop(DropEmpty)
		return record.Normalized{}, false
	}

	id, ok := p.Attributor.Attribute(raw.Fields)
	if !ok {
		p.drop(DropUnattributed)
		return record.Normalized{}, false
	}

	fields, message, _ := p.Extractor.Extract(raw.Message)

	n := record.Normalized{
		Message:     message,
		ServiceName: id.Name,
		SourceKind:  string(id.Kind),
		Level:       fields.Level,
		Environment: fields.Environment,
		Logger:      fields.Logger,
		App:         fields.App,
		Timestamp:   p.timestamp(id.Name, raw),
	}
	return n, true
}

// timestamp sequences the source's microsecond timestamp. A record with no
// usable microsecond value falls back to its wall-clock time and skips
// sequencing, foregoing the monotonicity guarantee for that record only.
func (p *Processor) timestamp(service string, raw record.Raw) record.Timestamp {
	us, err := strconv.ParseInt(raw.Fields[record.FieldRealtimeTS], 10, 64)
	if err != nil {
		t := raw.Time
		if t.IsZero() {
			t = time.Now()
		}
		return record.Timestamp{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
	}

	ts := p.Sequencer.Next(service, us)
	if p.Metrics != nil {
		p.Metrics.Tracked.Set(float64(p.Sequencer.Tracked()))
	}
	return ts
}

func (p *Processor) drop(reason string) {
	if p.Metrics != nil {
		p.Metrics.Dropped.WithLabelValues(reason).Inc()
	}
}
