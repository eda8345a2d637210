package sinks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"logrelay/internal/metrics"
	"logrelay/internal/record"
)

const pushPath = "/loki/api/v1/push"

// LokiSink batches normalized records and pushes them to Loki as
// label-indexed streams. Only the fixed label set {service_name, level,
// environment} is ever sent; the store's cardinality control depends on
// that set staying closed.
type LokiSink struct {
	URL           string
	TenantID      string
	BatchSize     int
	FlushInterval time.Duration
	Client        *http.Client // optional
	Metrics       *metrics.Set // optional
}

func (s *LokiSink) Run(ctx context.Context, in <-chan record.Normalized) error {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	size := s.BatchSize
	if size <= 0 {
		size = 100
	}
	interval := s.FlushInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}

	batch := make([]record.Normalized, 0, size)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	flush := func(ctx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := s.push(ctx, client, batch); err != nil {
			// One failed push drops one batch; the stream as a whole
			// keeps flowing.
			log.Printf("loki push error: %v", err)
			if s.Metrics != nil {
				s.Metrics.PushErrors.Inc()
			}
		} else if s.Metrics != nil {
			s.Metrics.Pushed.Add(float64(len(batch)))
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			// Last chance for the tail of the stream; the canceled run
			// context can no longer carry a request.
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			flush(flushCtx)
			cancel()
			return ctx.Err()
		case n, ok := <-in:
			if !ok {
				flush(ctx)
				return nil
			}
			batch = append(batch, n)
			if len(batch) >= size {
				flush(ctx)
			}
		case <-ticker.C:
			flush(ctx)
		}
	}
}

type lokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][2]string       `json:"values"`
}

type lokiPayload struct {
	Streams []lokiStream `json:"streams"`
}

func (s *LokiSink) push(ctx context.Context, client *http.Client, batch []record.Normalized) error {
	payload := buildPayload(batch)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL+pushPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.TenantID != "" {
		req.Header.Set("X-Scope-OrgID", s.TenantID)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("loki push failed http %d", resp.StatusCode)
	}
	return nil
}

// buildPayload groups a batch by label set, keeping arrival order within
// each stream so the sequencer's per-service ordering survives the wire.
func buildPayload(batch []record.Normalized) lokiPayload {
	var payload lokiPayload
	index := make(map[string]int)

	for _, n := range batch {
		lbls := map[string]string{"service_name": n.ServiceName}
		if n.Level != "" {
			lbls["level"] = n.Level
		}
		if n.Environment != "" {
			lbls["environment"] = n.Environment
		}

		key := n.ServiceName + "\x00" + n.Level + "\x00" + n.Environment
		i, ok := index[key]
		if !ok {
			i = len(payload.Streams)
			index[key] = i
			payload.Streams = append(payload.Streams, lokiStream{Stream: lbls})
		}

		// Loki expects ns timestamps as decimal strings.
		payload.Streams[i].Values = append(payload.Streams[i].Values, [2]string{
			strconv.FormatInt(n.Timestamp.UnixNano(), 10),
			n.Message,
		})
	}
	return payload
}
