package app

import (
	"context"
	"fmt"
	"log"

	"logrelay/internal/attribute"
	"logrelay/internal/config"
	"logrelay/internal/extract"
	"logrelay/internal/metrics"
	"logrelay/internal/pipeline"
	"logrelay/internal/resolve"
	"logrelay/internal/sequence"
	"logrelay/internal/sinks"
	"logrelay/internal/sources"
)

type App struct {
	cfg *config.Config
}

func New(cfg *config.Config) *App {
	return &App{cfg: cfg}
}

func (a *App) Run(ctx context.Context) error {
	log.Println("logrelay starting")

	set := metrics.New()

	cache := sequence.NewCache(a.cfg.Sequencer.Capacity)
	cache.OnEvict = func(string) { set.Evictions.Inc() }

	proc := &pipeline.Processor{
		Attributor: &attribute.Attributor{Prefix: a.cfg.Attribution.Prefix},
		Extractor: &extract.Extractor{
			Mode:   extract.Mode(a.cfg.Extract.Mode),
			Decode: extract.DecodeMode(a.cfg.Extract.Decode),
		},
		Sequencer: sequence.New(cache),
		Metrics:   set,
	}

	resolver, err := resolve.FromConfig(a.cfg.Resolve)
	if err != nil {
		return err
	}

	srcs, err := buildSources(a.cfg.Sources, resolver)
	if err != nil {
		return err
	}

	sink := buildSink(a.cfg.Sink, set)

	if addr := a.cfg.Metrics.Addr; addr != "" {
		go func() {
			if err := set.Serve(ctx, addr); err != nil {
				log.Printf("metrics server error: %v", err)
			}
		}()
	}

	p := &pipeline.Pipeline{
		Sources:   srcs,
		Processor: proc,
		Sink:      sink,
	}

	err = p.Run(ctx)

	log.Println("logrelay stopped")
	return err
}

func buildSources(cfgs map[string]config.SourceConfig, resolver resolve.Resolver) ([]pipeline.Source, error) {
	var srcs []pipeline.Source
	for name, sc := range cfgs {
		switch sc.Type {
		case "journal":
			srcs = append(srcs, &sources.JournalSource{Path: sc.Path})
		case "stdin":
			srcs = append(srcs, &sources.StdinSource{})
		case "docker":
			srcs = append(srcs, &sources.DockerSource{ContainerID: sc.ContainerID, Name: sc.Name, Resolver: resolver})
		default:
			return nil, fmt.Errorf("source %q: unknown type %q", name, sc.Type)
		}
	}
	return srcs, nil
}

func buildSink(sc config.SinkConfig, set *metrics.Set) pipeline.Sink {
	if sc.Type == "loki" {
		return &sinks.LokiSink{
			URL:           sc.URL,
			TenantID:      sc.TenantID,
			BatchSize:     sc.BatchSize,
			FlushInterval: sc.FlushInterval,
			Metrics:       set,
		}
	}
	return &sinks.StdoutSink{Pretty: sc.Pretty}
}
