package lifecycle

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Komal-kalyanraman/container-monitor/internal/cgroup"
	"github.com/Komal-kalyanraman/container-monitor/internal/pool"
	"github.com/Komal-kalyanraman/container-monitor/internal/store/metrics"
	"github.com/Komal-kalyanraman/container-monitor/internal/telemetry"
	"github.com/Komal-kalyanraman/container-monitor/internal/utils"
)

func NewCoordinator(
	runtime string,
	refreshInterval time.Duration,
	store metrics.StoreHandler,
	workerPool pool.PoolHandler,
	queue <-chan string,
	factory utils.CommandFactory,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		runtime:         runtime,
		refreshInterval: refreshInterval,
		store:           store,
		pool:            workerPool,
		queue:           queue,
		factory:         factory,
		logger:          logger,
		host:            cgroup.NewHostReader(),
		previous:        map[string]struct{}{},
		done:            make(chan struct{}),
	}
}

// Coordinator owns the authoritative live-set. It consumes lifecycle
// events, maintains the limits table, samples host metrics once per
// loop iteration, and reconciles the worker pool's membership against
// the limits table. It is the only caller of Admit and Evict.
//
// The host reader lives here on purpose: its CPU percent is a delta
// against the previous call, so exactly one caller may use it.
type Coordinator struct {
	runtime         string
	refreshInterval time.Duration
	store           metrics.StoreHandler
	pool            pool.PoolHandler
	queue           <-chan string
	factory         utils.CommandFactory
	logger          *slog.Logger
	host            *cgroup.HostReader

	previous map[string]struct{}

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

func (c *Coordinator) Start() {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.run()
	}()
}

// Stop is idempotent and returns once the loop has exited.
func (c *Coordinator) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)
	})
	c.wg.Wait()
}

func (c *Coordinator) run() {
	for {
		c.sampleHost()

		select {
		case <-c.done:
			return
		case line := <-c.queue:
			c.handleEvent(line)
		case <-time.After(c.refreshInterval):
		}

		c.reconcile()
	}
}

func (c *Coordinator) sampleHost() {
	nowMs := time.Now().UnixMilli()
	cpuPct := c.host.CpuPercent()
	memPct := c.host.MemoryPercent()
	if err := c.store.InsertHostSample(nowMs, cpuPct, memPct); err != nil {
		telemetry.RecordStoreWriteFailure()
		c.logger.Error("host sample insert failed", "err", err)
	}
}

func (c *Coordinator) handleEvent(line string) {
	ev, ok := ParseContainerEvent([]byte(line))
	if !ok {
		telemetry.RecordEventProcessed("dropped")
		c.logger.Warn("unparseable runtime event dropped", "line", line)
		return
	}

	switch ev.Status {
	case "create":
		c.handleCreate(ev)
	case "destroy":
		telemetry.RecordEventProcessed("destroy")
		if err := c.store.DeleteContainer(ev.Name); err != nil {
			c.logger.Error("delete container limits failed", "container", ev.Name, "err", err)
		}
	default:
		telemetry.RecordEventProcessed("ignored")
	}
}

// handleCreate records the container's limits. Limits come from the
// event attributes when present, otherwise from an inspect call. A
// failed inspect still records a partial container: sampling clamps the
// missing fields to 0%.
func (c *Coordinator) handleCreate(ev ContainerEvent) {
	telemetry.RecordEventProcessed("create")
	if ev.Name == "" {
		c.logger.Warn("create event without container name dropped", "id", ev.Id)
		return
	}

	limits, complete := limitsFromAttributes(ev.Id, ev.Attributes)
	if !complete {
		inspected, err := InspectLimits(c.factory, c.runtime, ev.Id)
		if err != nil {
			c.logger.Warn("inspect fallback failed, recording partial limits",
				"container", ev.Name, "err", err)
		} else {
			if limits.Cpus == 0 {
				limits.Cpus = inspected.Cpus
			}
			if limits.MemoryMb == 0 {
				limits.MemoryMb = inspected.MemoryMb
			}
			if limits.PidsLimit == 0 {
				limits.PidsLimit = inspected.PidsLimit
			}
		}
	}

	if err := c.store.UpsertContainer(ev.Name, limits); err != nil {
		c.logger.Error("upsert container limits failed", "container", ev.Name, "err", err)
	}
}

// reconcile diffs the limits table against the memoized previous
// snapshot and adjusts pool membership. Admission and eviction flush
// all buffers, so the cadence of this loop bounds how often sampling is
// interrupted.
func (c *Coordinator) reconcile() {
	current := c.store.ListContainers()

	for name := range current {
		if _, ok := c.previous[name]; !ok {
			c.logger.Info("detected new container", "container", name)
			c.pool.Admit(name)
		}
	}
	for name := range c.previous {
		if _, ok := current[name]; !ok {
			c.logger.Info("detected removed container", "container", name)
			c.pool.Evict(name)
		}
	}

	next := make(map[string]struct{}, len(current))
	for name := range current {
		next[name] = struct{}{}
	}
	c.previous = next
}
