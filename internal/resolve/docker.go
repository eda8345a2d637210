package resolve

import (
	"context"
	"strings"

	"github.com/docker/docker/client"
)

// DockerResolver resolves container references by inspecting the daemon.
// It returns the container name as-is, hash suffix included; stripping
// that down to a service identity is attribution's job, not resolution's.
type DockerResolver struct {
	client *client.Client
}

// NewDockerResolver creates a DockerResolver using the default Docker socket.
func NewDockerResolver() (*DockerResolver, error) {
	c, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, err
	}
	return &DockerResolver{client: c}, nil
}

func (r *DockerResolver) Resolve(ctx context.Context, ref string) (string, bool) {
	info, err := r.client.ContainerInspect(ctx, ref)
	if err != nil {
		return "", false
	}

	name := strings.TrimPrefix(info.Name, "/")
	if name == "" {
		return "", false
	}
	return name, true
}
