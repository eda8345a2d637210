package sinks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"logrelay/internal/record"
)

func normalized(service, level, env, msg string, ts record.Timestamp) record.Normalized {
	return record.Normalized{
		Message:     msg,
		ServiceName: service,
		SourceKind:  "service",
		Level:       level,
		Environment: env,
		Timestamp:   ts,
	}
}

// ── payload shape ────────────────────────────────────────────────────────────

func TestBuildPayload_GroupsByLabels(t *testing.T) {
	batch := []record.Normalized{
		normalized("api", "INFO", "prod", "one", record.Timestamp{Sec: 1700000000, Nsec: 123456000}),
		normalized("api", "ERROR", "prod", "two", record.Timestamp{Sec: 1700000000, Nsec: 123457000}),
		normalized("api", "INFO", "prod", "three", record.Timestamp{Sec: 1700000001, Nsec: 0}),
	}

	payload := buildPayload(batch)

	if len(payload.Streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(payload.Streams))
	}

	info := payload.Streams[0]
	if info.Stream["service_name"] != "api" || info.Stream["level"] != "INFO" || info.Stream["environment"] != "prod" {
		t.Errorf("unexpected labels: %v", info.Stream)
	}
	if len(info.Values) != 2 {
		t.Fatalf("expected 2 values in INFO stream, got %d", len(info.Values))
	}
	if info.Values[0][0] != "1700000000123456000" {
		t.Errorf("expected ns string timestamp, got %q", info.Values[0][0])
	}
	if info.Values[0][1] != "one" || info.Values[1][1] != "three" {
		t.Errorf("arrival order not preserved: %v", info.Values)
	}

	if payload.Streams[1].Values[0][1] != "two" {
		t.Errorf("ERROR stream missing its record: %v", payload.Streams[1].Values)
	}
}

func TestBuildPayload_OmitsEmptyLabels(t *testing.T) {
	payload := buildPayload([]record.Normalized{
		normalized("worker", "", "", "plain", record.Timestamp{Sec: 1, Nsec: 0}),
	})

	lbls := payload.Streams[0].Stream
	if len(lbls) != 1 || lbls["service_name"] != "worker" {
		t.Errorf("expected only service_name label, got %v", lbls)
	}
}

// ── push ─────────────────────────────────────────────────────────────────────

func TestLokiSink_Push(t *testing.T) {
	type received struct {
		path   string
		tenant string
		body   lokiPayload
	}
	got := make(chan received, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload lokiPayload
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("bad payload: %v", err)
		}
		got <- received{path: r.URL.Path, tenant: r.Header.Get("X-Scope-OrgID"), body: payload}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := &LokiSink{URL: srv.URL, TenantID: "team-a", BatchSize: 2}

	in := make(chan record.Normalized)
	done := make(chan error, 1)
	go func() { done <- sink.Run(context.Background(), in) }()

	in <- normalized("api", "INFO", "prod", "hello", record.Timestamp{Sec: 1700000000, Nsec: 500})
	in <- normalized("api", "INFO", "prod", "world", record.Timestamp{Sec: 1700000000, Nsec: 600})
	close(in)

	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	select {
	case r := <-got:
		if r.path != "/loki/api/v1/push" {
			t.Errorf("unexpected path %q", r.path)
		}
		if r.tenant != "team-a" {
			t.Errorf("unexpected tenant %q", r.tenant)
		}
		if len(r.body.Streams) != 1 || len(r.body.Streams[0].Values) != 2 {
			t.Errorf("unexpected payload: %+v", r.body)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server never received a push")
	}
}

func TestLokiSink_FlushesRemainderOnClose(t *testing.T) {
	pushes := make(chan int, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload lokiPayload
		_ = json.Unmarshal(body, &payload)
		total := 0
		for _, s := range payload.Streams {
			total += len(s.Values)
		}
		pushes <- total
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := &LokiSink{URL: srv.URL, BatchSize: 100, FlushInterval: time.Hour}

	in := make(chan record.Normalized, 1)
	in <- normalized("api", "INFO", "", "leftover", record.Timestamp{Sec: 1, Nsec: 0})
	close(in)

	if err := sink.Run(context.Background(), in); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	select {
	case n := <-pushes:
		if n != 1 {
			t.Errorf("expected 1 record in final flush, got %d", n)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("final flush never arrived")
	}
}

func TestLokiSink_PushErrorDoesNotStopRun(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := &LokiSink{URL: srv.URL, BatchSize: 1}

	in := make(chan record.Normalized, 2)
	in <- normalized("api", "INFO", "", "a", record.Timestamp{Sec: 1, Nsec: 0})
	in <- normalized("api", "INFO", "", "b", record.Timestamp{Sec: 2, Nsec: 0})
	close(in)

	if err := sink.Run(context.Background(), in); err != nil {
		t.Fatalf("Run should survive push failures, got %v", err)
	}
}
