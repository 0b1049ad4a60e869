package lifecycle

import (
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/Komal-kalyanraman/container-monitor/internal/utils"
)

// fakeCommand is a scripted CommandExecutor.
type fakeCommand struct {
	output   []byte
	err      error
	stdout   string
	startErr error
}

func (c *fakeCommand) Start() error { return c.startErr }
func (c *fakeCommand) Wait() error  { return c.err }
func (c *fakeCommand) Output() ([]byte, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.output, nil
}
func (c *fakeCommand) StdoutPipe() (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(c.stdout)), nil
}
func (c *fakeCommand) Kill() error { return nil }
func (c *fakeCommand) Pid() int    { return 1 }

// fakeFactory hands out scripted commands in order and records every
// argv it saw. Once the script runs out it returns failing commands.
type fakeFactory struct {
	mu       sync.Mutex
	commands []*fakeCommand
	calls    [][]string
}

func (f *fakeFactory) Command(name string, args ...string) utils.CommandExecutor {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, append([]string{name}, args...))
	if len(f.commands) == 0 {
		return &fakeCommand{err: errors.New("no scripted command")}
	}
	cmd := f.commands[0]
	f.commands = f.commands[1:]
	return cmd
}

func (f *fakeFactory) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
