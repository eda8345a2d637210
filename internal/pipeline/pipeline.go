package pipeline

import (
	"context"
	"fmt"
	"log"
	"sync"

	"logrelay/internal/record"
)

type Source interface {
	Run(ctx context.Context, out chan<- record.Raw) error
}

type Sink interface {
	Run(ctx context.Context, in <-chan record.Normalized) error
}

// Pipeline fans raw records from all sources into a single processing
// goroutine and hands the surviving normalized records to the sink.
type Pipeline struct {
	Sources   []Source
	Processor *Processor
	Sink      Sink
}

func (p *Pipeline) Run(ctx context.Context) error {
	if len(p.Sources) == 0 {
		return fmt.Errorf("pipeline: no sources provided")
	}
	if p.Processor == nil {
		return fmt.Errorf("pipeline: no processor provided")
	}
	if p.Sink == nil {
		return fmt.Errorf("pipeline: no sink provided")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	rawChan := make(chan record.Raw, 100)
	outChan := make(chan record.Normalized, 100)
	errCh := make(chan error, 8)

	var wg sync.WaitGroup
	for _, src := range p.Sources {
		s := src
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Run(ctx, rawChan); err != nil && err != context.Canceled {
				select {
				case errCh <- err:
				default:
				}
				cancel()
			}
		}()
	}
	go func() {
		wg.Wait()
		close(rawChan)
	}()

	// One goroutine drives Process: the sequencer cache is mutated on
	// every record and is not safe for concurrent use.
	go func() {
		defer close(outChan)
		for {
			select {
			case <-ctx.Done():
				return
			case raw, ok := <-rawChan:
				if !ok {
					return
				}
				n, ok := p.Processor.Process(raw)
				if !ok {
					continue
				}
				select {
				case outChan <- n:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	sinkErr := p.Sink.Run(ctx, outChan)
	if sinkErr != nil && sinkErr != context.Canceled {
		select {
		case errCh <- sinkErr:
		default:
		}
		cancel()
	}

	select {
	case err := <-errCh:
		if err != nil && err != context.Canceled {
			log.Printf("pipeline stopped with error: %v", err)
			return err
		}
	default:
	}
	return sinkErr
}
