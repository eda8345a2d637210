package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"logrelay/internal/attribute"
	"logrelay/internal/extract"
	"logrelay/internal/record"
	"logrelay/internal/sequence"
)

type sliceSource struct {
	records []record.Raw
}

func (s *sliceSource) Run(ctx context.Context, out chan<- record.Raw) error {
	for _, r := range s.records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case out <- r:
		}
	}
	return nil
}

type collectSink struct {
	got []record.Normalized
}

func (s *collectSink) Run(ctx context.Context, in <-chan record.Normalized) error {
	for n := range in {
		s.got = append(s.got, n)
	}
	return nil
}

type failingSource struct{}

func (failingSource) Run(ctx context.Context, out chan<- record.Raw) error {
	return errors.New("source broke")
}

func testProcessor() *Processor {
	return &Processor{
		Attributor: &attribute.Attributor{Prefix: "taskflows"},
		Extractor:  &extract.Extractor{},
		Sequencer:  sequence.New(sequence.NewCache(0)),
	}
}

func serviceRaw(unit, msg, us string) record.Raw {
	return record.Raw{
		Message: msg,
		Fields: map[string]string{
			record.FieldUnit:       unit,
			record.FieldRealtimeTS: us,
		},
		Source: "journal",
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	src := &sliceSource{records: []record.Raw{
		serviceRaw("taskflows-api.service", "one", "1700000000000001"),
		serviceRaw("nginx.service", "dropped", "1700000000000002"),
		serviceRaw("taskflows-api.service", "two", "1700000000000003"),
	}}
	sink := &collectSink{}

	p := &Pipeline{
		Sources:   []Source{src},
		Processor: testProcessor(),
		Sink:      sink,
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if len(sink.got) != 2 {
		t.Fatalf("expected 2 normalized records, got %d", len(sink.got))
	}
	if sink.got[0].Message != "one" || sink.got[1].Message != "two" {
		t.Errorf("records out of order or wrong: %+v", sink.got)
	}
	if sink.got[0].ServiceName != "api" {
		t.Errorf("service name: got %q", sink.got[0].ServiceName)
	}
	if !sink.got[0].Timestamp.Before(sink.got[1].Timestamp) {
		t.Errorf("timestamps not increasing: %+v then %+v", sink.got[0].Timestamp, sink.got[1].Timestamp)
	}
}

func TestPipeline_MergesSources(t *testing.T) {
	a := &sliceSource{records: []record.Raw{
		serviceRaw("taskflows-api.service", "from-a", "1700000000000001"),
	}}
	b := &sliceSource{records: []record.Raw{
		serviceRaw("taskflows-worker.service", "from-b", "1700000000000002"),
	}}
	sink := &collectSink{}

	p := &Pipeline{
		Sources:   []Source{a, b},
		Processor: testProcessor(),
		Sink:      sink,
	}

	if err := p.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(sink.got) != 2 {
		t.Fatalf("expected records from both sources, got %d", len(sink.got))
	}
}

func TestPipeline_SourceErrorStopsRun(t *testing.T) {
	p := &Pipeline{
		Sources:   []Source{failingSource{}},
		Processor: testProcessor(),
		Sink:      &collectSink{},
	}

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected the source error to surface")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after source failure")
	}
}

func TestPipeline_RequiresWiring(t *testing.T) {
	cases := []struct {
		name string
		p    Pipeline
	}{
		{"no sources", Pipeline{Processor: testProcessor(), Sink: &collectSink{}}},
		{"no processor", Pipeline{Sources: []Source{&sliceSource{}}, Sink: &collectSink{}}},
		{"no sink", Pipeline{Sources: []Source{&sliceSource{}}, Processor: testProcessor()}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.p.Run(context.Background()); err == nil {
				t.Error("expected a wiring error")
			}
		})
	}
}
