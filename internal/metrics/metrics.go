package metrics

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Set bundles the process's prometheus collectors behind one registry.
type Set struct {
	Records    *prometheus.CounterVec
	Dropped    *prometheus.CounterVec
	Pushed     prometheus.Counter
	PushErrors prometheus.Counter
	Evictions  prometheus.Counter
	Tracked    prometheus.Gauge

	reg *prometheus.Registry
}

func New() *Set {
	s := &Set{
		Records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logrelay",
			Name:      "records_total",
			Help:      "Raw records received, by source",
		}, []string{"source"}),
		Dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "logrelay",
			Name:      "dropped_total",
			Help:      "Records dropped before emit, by reason",
		}, []string{"reason"}),
		Pushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "logrelay",
			Name:      "pushed_total",
			Help:      "Normalized records pushed to the store",
		}),
		PushErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "logrelay",
			Name:      "push_errors_total",
			Help:      "Failed store push requests",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "logrelay",
			Name:      "evictions_total",
			Help:      "Service ordering states evicted from the LRU cache",
		}),
		Tracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "logrelay",
			Name:      "tracked_services",
			Help:      "Services currently holding ordering state",
		}),
		reg: prometheus.NewRegistry(),
	}
	s.reg.MustRegister(s.Records, s.Dropped, s.Pushed, s.PushErrors, s.Evictions, s.Tracked)
	return s
}

// Handler serves the set's registry in the prometheus text format.
func (s *Set) Handler() http.Handler {
	return promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is canceled.
func (s *Set) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutCtx)
	}()

	log.Printf("metrics listening on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
