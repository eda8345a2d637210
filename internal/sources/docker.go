package sources

import (
	"bufio"
	"context"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"logrelay/internal/record"
	"logrelay/internal/resolve"
)

// DockerSource follows one container's log stream through the Docker
// daemon and emits raw records carrying the container_name field, the way
// a push-style log forwarder would.
type DockerSource struct {
	ContainerID string
	Name        string           // container name; resolved when empty
	Resolver    resolve.Resolver // optional; plain inspect when nil
}

func (ds *DockerSource) Run(ctx context.Context, out chan<- record.Raw) error {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return err
	}

	log.Printf("docker source started for container: %s", ds.ContainerID)

	name := ds.Name
	if name == "" && ds.Resolver != nil {
		name, _ = ds.Resolver.Resolve(ctx, ds.ContainerID)
	}
	if name == "" {
		if info, err := cli.ContainerInspect(ctx, ds.ContainerID); err == nil {
			name = strings.TrimPrefix(info.Name, "/")
		} else {
			log.Printf("docker inspect error: %v", err)
			name = ds.ContainerID
		}
	}

	options := container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
		Timestamps: true,
	}

	reader, err := cli.ContainerLogs(ctx, ds.ContainerID, options)
	if err != nil {
		return err
	}
	defer reader.Close()

	stdoutReader, stdoutWriter := io.Pipe()

	go func() {
		_, err := stdcopy.StdCopy(stdoutWriter, stdoutWriter, reader)
		stdoutWriter.CloseWithError(err)
	}()

	scanner := bufio.NewScanner(stdoutReader)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case out <- dockerLine(line, name):
		}
	}

	if err := scanner.Err(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// dockerLine splits the RFC3339Nano timestamp prefix the daemon prepends
// when logs are requested with timestamps, and fills the same source
// fields the journal path uses.
func dockerLine(line, name string) record.Raw {
	fields := map[string]string{record.FieldContainer: name}
	message := line
	at := time.Now()

	if sp := strings.IndexByte(line, ' '); sp > 0 {
		if ts, err := time.Parse(time.RFC3339Nano, line[:sp]); err == nil {
			fields[record.FieldRealtimeTS] = strconv.FormatInt(ts.UnixMicro(), 10)
			message = line[sp+1:]
			at = ts
		}
	}

	return record.Raw{
		Message: message,
		Fields:  fields,
		Source:  "docker",
		Time:    at,
	}
}
