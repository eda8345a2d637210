package sources

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"time"

	"github.com/hpcloud/tail"

	"logrelay/internal/record"
)

// JournalSource tails a journald JSON-export file (journalctl -o json
// redirected to disk) and emits one raw record per line.
type JournalSource struct {
	Path string
}

func (js *JournalSource) Run(ctx context.Context, out chan<- record.Raw) error {
	t, err := tail.TailFile(js.Path, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
	})
	if err != nil {
		return err
	}

	log.Printf("journal source started for path: %s", js.Path)

	for {
		select {
		case <-ctx.Done():
			log.Printf("journal source stopping for path: %s", js.Path)
			t.Stop()
			return nil
		case line, ok := <-t.Lines:
			if !ok {
				return nil
			}
			if line.Err != nil {
				log.Printf("tail line error: %v", line.Err)
				continue
			}

			raw, ok := ParseJournalLine(line.Text, "journal")
			if !ok {
				continue
			}

			select {
			case <-ctx.Done():
				return nil
			case out <- raw:
			}
		}
	}
}

// ParseJournalLine converts one journald JSON-export line into a raw
// record. Journald emits every field as a string; numeric values are
// stringified, and non-scalar values (binary payloads, repeated fields)
// are ignored.
func ParseJournalLine(line string, sourceName string) (record.Raw, bool) {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return record.Raw{}, false
	}

	fields := make(map[string]string, len(raw))
	for k, v := range raw {
		switch s := v.(type) {
		case string:
			fields[k] = s
		case float64:
			fields[k] = strconv.FormatFloat(s, 'f', -1, 64)
		}
	}

	return record.Raw{
		Message: fields[record.FieldMessage],
		Fields:  fields,
		Source:  sourceName,
		Time:    time.Now(),
	}, true
}
