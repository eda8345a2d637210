package sinks

import (
	"context"
	"encoding/json"
	"os"

	"logrelay/internal/record"
)

type StdoutSink struct {
	Pretty bool
}

func (s *StdoutSink) Run(ctx context.Context, in <-chan record.Normalized) error {
	encoder := json.NewEncoder(os.Stdout)
	if s.Pretty {
		encoder.SetIndent("", "  ")
	}

	for n := range in {
		if err := encoder.Encode(n); err != nil {
			return err
		}
	}

	return nil
}
