package sources

import (
	"bufio"
	"context"
	"os"

	"logrelay/internal/record"
)

// StdinSource reads journald JSON-export lines from stdin, for piping
// `journalctl -o json -f` straight into the process.
type StdinSource struct{}

func (s *StdinSource) Run(ctx context.Context, out chan<- record.Raw) error {
	reader := bufio.NewScanner(os.Stdin)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if !reader.Scan() {
			return reader.Err()
		}

		raw, ok := ParseJournalLine(reader.Text(), "stdin")
		if !ok {
			continue
		}

		select {
		case out <- raw:
		case <-ctx.Done():
			return nil
		}
	}
}
