package lifecycle

import (
	"bufio"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"al.essio.dev/pkg/shellescape"

	"github.com/Komal-kalyanraman/container-monitor/internal/utils"
)

// NewEventFeed validates the runtime and prepares the feed. Supported
// runtimes are docker and podman; anything else is a configuration
// error surfaced before any subprocess is spawned.
func NewEventFeed(
	runtime string,
	backoff time.Duration,
	queue chan<- string,
	factory utils.CommandFactory,
	logger *slog.Logger,
) (*EventFeed, error) {
	switch runtime {
	case "docker", "podman":
	default:
		return nil, fmt.Errorf("unsupported container runtime: %s", runtime)
	}
	return &EventFeed{
		runtime: runtime,
		backoff: backoff,
		queue:   queue,
		factory: factory,
		logger:  logger,
		done:    make(chan struct{}),
	}, nil
}

// EventFeed runs the runtime's event command as a child process and
// pushes each emitted line onto the coordinator's queue. If the child
// dies the feed restarts it after one refresh interval; the feed itself
// is never fatal.
type EventFeed struct {
	runtime string
	backoff time.Duration
	queue   chan<- string
	factory utils.CommandFactory
	logger  *slog.Logger

	mu       sync.Mutex
	current  utils.CommandExecutor
	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

func (f *EventFeed) Start() {
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.run()
	}()
}

func (f *EventFeed) Stop() {
	f.stopOnce.Do(func() {
		close(f.done)
		f.mu.Lock()
		if f.current != nil {
			_ = f.current.Kill()
		}
		f.mu.Unlock()
	})
	f.wg.Wait()
}

func (f *EventFeed) run() {
	argv := []string{f.runtime, "events", "--format", "{{json .}}", "--since", "0m"}
	f.logger.Info("starting runtime event feed", "command", shellescape.QuoteCommand(argv))

	for {
		select {
		case <-f.done:
			return
		default:
		}

		if err := f.streamOnce(argv); err != nil {
			f.logger.Warn("event feed interrupted, restarting",
				"runtime", f.runtime, "backoff", f.backoff, "err", err)
		}

		select {
		case <-f.done:
			return
		case <-time.After(f.backoff):
		}
	}
}

// streamOnce spawns one child and forwards its stdout lines until the
// child exits or the feed is stopped.
func (f *EventFeed) streamOnce(argv []string) error {
	cmd := f.factory.Command(argv[0], argv[1:]...)
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start event command: %w", err)
	}

	f.mu.Lock()
	f.current = cmd
	f.mu.Unlock()

	scanner := bufio.NewScanner(pipe)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		select {
		case f.queue <- line:
		case <-f.done:
			_ = cmd.Kill()
			_ = cmd.Wait()
			return nil
		}
	}

	f.mu.Lock()
	f.current = nil
	f.mu.Unlock()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("event command exited: %w", err)
	}
	return fmt.Errorf("event stream ended")
}
