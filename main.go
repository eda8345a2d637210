// One-shot filter mode: read journald JSON-export lines on stdin,
// normalize them, and either print the result or POST each record to an
// HTTP endpoint. The full daemon lives in cmd/logrelay.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"logrelay/internal/attribute"
	"logrelay/internal/extract"
	"logrelay/internal/pipeline"
	"logrelay/internal/sequence"
	"logrelay/internal/sources"
)

func main() {
	prefix := flag.String("prefix", "taskflows", "app-name prefix stripped from unit and container names")
	mode := flag.String("mode", "full", "structured extraction mode: full, scan")
	decode := flag.String("decode", "none", "escape decoding for plain text: none, unicode, ansi")
	capacity := flag.Int("capacity", sequence.DefaultCapacity, "max services with tracked ordering state")
	endpoint := flag.String("endpoint", "", "POST each normalized record here instead of printing")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	proc := &pipeline.Processor{
		Attributor: &attribute.Attributor{Prefix: *prefix},
		Extractor: &extract.Extractor{
			Mode:   extract.Mode(*mode),
			Decode: extract.DecodeMode(*decode),
		},
		Sequencer: sequence.New(sequence.NewCache(*capacity)),
	}

	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			log.Println("context canceled, exiting")
			return
		default:
		}

		raw, ok := sources.ParseJournalLine(scanner.Text(), "stdin")
		if !ok {
			continue
		}

		n, ok := proc.Process(raw)
		if !ok {
			continue
		}

		if *endpoint == "" {
			fmt.Printf("%d.%09d [%s] (%s) %s\n",
				n.Timestamp.Sec,
				n.Timestamp.Nsec,
				n.ServiceName,
				n.Level,
				n.Message,
			)
			continue
		}

		body, err := json.Marshal(n)
		if err != nil {
			log.Printf("marshal error: %v", err)
			continue
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, *endpoint, bytes.NewReader(body))
		if err != nil {
			log.Printf("new request error: %v", err)
			continue
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("send error: %v", err)
			continue
		}
		_ = resp.Body.Close()
	}

	if err := scanner.Err(); err != nil {
		log.Printf("scanner error: %v", err)
	}
}
