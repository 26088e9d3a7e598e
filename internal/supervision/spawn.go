package supervision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/rvarago/northstar/internal/infrastructure/config"
	"github.com/rvarago/northstar/internal/infrastructure/logging"
	"github.com/rvarago/northstar/internal/infrastructure/monitoring"
	"github.com/rvarago/northstar/internal/ipc/pipe"
	"github.com/rvarago/northstar/internal/shared/id"
)

// Inherited descriptor slots in the child. ExtraFiles places entry i at
// descriptor 3+i.
const (
	childReadFd  = 3
	childWriteFd = 4
)

// ErrNotChild is returned by Inherited in a process that was not spawned by
// a Spawner.
var ErrNotChild = errors.New("supervision: process has no inherited channel")

// Spawner creates child processes connected to the supervisor by a duplex
// channel passed through inherited descriptors.
type Spawner struct {
	log      *logging.Logger
	childEnv string
	readBuf  int
}

// NewSpawner creates a spawner.
func NewSpawner(cfg *config.Config, log *logging.Logger) *Spawner {
	return &Spawner{
		log:      log.Named("spawner"),
		childEnv: cfg.Spawn.ChildEnv,
		readBuf:  cfg.Channel.ReadBufferSize,
	}
}

// Child is a spawned process together with the supervisor's side of its
// channel.
type Child struct {
	*Channel

	ID  id.ChildID
	cmd *exec.Cmd
}

// Pid returns the child's process id.
func (c *Child) Pid() int { return c.cmd.Process.Pid }

// Wait reaps the child process. Call after the protocol is done.
func (c *Child) Wait() error { return c.cmd.Wait() }

// Spawn builds a duplex pair, starts name with the remote endpoints as
// descriptors 3 and 4, and returns the child with the local side wrapped in
// a Channel.
//
// The parent's copies of the remote endpoints are closed right after the
// start, so end-of-stream and broken-channel conditions track the child's
// lifetime alone. On any failure every created descriptor is closed.
func (s *Spawner) Spawn(ctx context.Context, name string, args ...string) (*Child, error) {
	local, remote, err := pipe.NewDuplexPair()
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", name, err)
	}

	remoteRead, remoteWrite := remote.Files()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Env = append(os.Environ(), s.childEnv+"=1")
	cmd.ExtraFiles = []*os.File{remoteRead, remoteWrite}
	cmd.Stderr = os.Stderr

	err = cmd.Start()
	monitoring.Default().RecordSpawn(err)
	// Our copies of the child's endpoints are closed in both paths.
	remoteRead.Close()
	remoteWrite.Close()
	if err != nil {
		local.Close()
		return nil, fmt.Errorf("spawn %s: %w", name, err)
	}

	child := &Child{
		Channel: newChannel(local, s.log, s.readBuf),
		ID:      id.NewChildID(),
		cmd:     cmd,
	}
	s.log.Info("child spawned",
		zap.String("child", child.ID.String()),
		zap.Int("pid", child.Pid()),
		zap.String("command", name),
	)
	return child, nil
}

// Inherited adopts the descriptors a Spawner passed into this process and
// returns the child's side of the channel. It fails with ErrNotChild when
// the marker environment variable is absent.
func Inherited(cfg *config.Config, log *logging.Logger) (*Channel, error) {
	if os.Getenv(cfg.Spawn.ChildEnv) == "" {
		return nil, ErrNotChild
	}
	d := pipe.NewDuplexFromEndpoints(
		pipe.NewReadEndpointFromFd(childReadFd),
		pipe.NewWriteEndpointFromFd(childWriteFd),
	)
	return newChannel(d, log, cfg.Channel.ReadBufferSize), nil
}

// IsChild reports whether this process was spawned by a Spawner.
func IsChild(cfg *config.Config) bool {
	return os.Getenv(cfg.Spawn.ChildEnv) != ""
}
