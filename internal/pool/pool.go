package pool

import (
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/Komal-kalyanraman/container-monitor/internal/cgroup"
	"github.com/Komal-kalyanraman/container-monitor/internal/store/metrics"
	"github.com/Komal-kalyanraman/container-monitor/internal/telemetry"
)

func NewResourcePool(
	cfg PoolConfig,
	store metrics.StoreHandler,
	limits LimitsSource,
	pathFactory cgroup.PathFactory,
	openProducer ProducerOpener,
	logger *slog.Logger,
) *ResourcePool {
	p := &ResourcePool{
		cfg:          cfg,
		store:        store,
		limits:       limits,
		pathFactory:  pathFactory,
		openProducer: openProducer,
		logger:       logger,
		assignments:  make([][]string, cfg.WorkerCount),
		nameToWorker: map[string]int{},
		last:         map[string]LiveSummary{},
		done:         make(chan struct{}),
	}
	for i := 0; i < cfg.WorkerCount; i++ {
		p.workers = append(p.workers, newWorker(i))
	}
	return p
}

// ResourcePool owns N sampling workers. Each worker exclusively owns a
// disjoint slice of the live containers plus the per-container buffers
// and CPU delta state for them. The pool mutex guards only membership:
// it is held for admit, evict, flush and snapshots (flushes write to the
// store under it), never while a worker samples or drains a full batch.
type ResourcePool struct {
	cfg          PoolConfig
	store        metrics.StoreHandler
	limits       LimitsSource
	pathFactory  cgroup.PathFactory
	openProducer ProducerOpener
	logger       *slog.Logger

	mu           sync.Mutex
	assignments  [][]string
	nameToWorker map[string]int
	workers      []*worker

	lastMu sync.Mutex
	last   map[string]LiveSummary

	shutdown atomic.Bool
	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

func (p *ResourcePool) Start() {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *worker) {
			defer p.wg.Done()
			w.run(p)
		}(w)
	}
}

// Stop signals shutdown, wakes every worker, waits for them to exit and
// flushes whatever buffers remain. Safe to call more than once.
func (p *ResourcePool) Stop() {
	p.stopOnce.Do(func() {
		p.shutdown.Store(true)
		close(p.done)
		p.notifyAll()
		p.wg.Wait()

		// Workers drain their own buffers on exit; this pass only picks
		// up buffers left behind by a worker that died early.
		p.mu.Lock()
		p.flushAllLocked()
		p.mu.Unlock()
	})
}

// Admit binds a container to the least-loaded worker. Unknown limits
// (cache miss) and a full pool both leave the container unadmitted.
func (p *ResourcePool) Admit(name string) {
	limits, ok := p.limits.GetContainer(name)
	if !ok {
		p.logger.Warn("admit skipped, limits not yet known", "container", name)
		return
	}
	paths := p.pathFactory.Paths(limits.Id)

	p.mu.Lock()
	if _, exists := p.nameToWorker[name]; exists {
		p.mu.Unlock()
		return
	}
	p.flushAllLocked()

	target := -1
	minLoad := p.cfg.WorkerCapacity + 1
	for i := range p.assignments {
		if load := len(p.assignments[i]); load < p.cfg.WorkerCapacity && load < minLoad {
			target = i
			minLoad = load
		}
	}
	if target == -1 {
		p.mu.Unlock()
		p.logger.Warn("pool capacity full, container not admitted", "container", name)
		return
	}
	p.assignments[target] = append(p.assignments[target], name)
	p.nameToWorker[name] = target
	p.workers[target].install(name, limits, paths)
	p.mu.Unlock()

	p.logger.Info("container admitted", "container", name, "worker", target)
	p.notifyAll()
}

// Evict unbinds a container, draining its open buffer first.
func (p *ResourcePool) Evict(name string) {
	p.mu.Lock()
	idx, ok := p.nameToWorker[name]
	if !ok {
		p.mu.Unlock()
		return
	}
	p.flushAllLocked()

	list := p.assignments[idx]
	for i, n := range list {
		if n == name {
			p.assignments[idx] = append(list[:i], list[i+1:]...)
			break
		}
	}
	delete(p.nameToWorker, name)
	p.workers[idx].remove(name)
	p.mu.Unlock()

	p.lastMu.Lock()
	delete(p.last, name)
	p.lastMu.Unlock()

	p.logger.Info("container evicted", "container", name, "worker", idx)
	p.notifyAll()
}

// FlushAll drains every worker's buffers into the store. Partial
// buffers produce no summary message.
func (p *ResourcePool) FlushAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.flushAllLocked()
}

func (p *ResourcePool) flushAllLocked() {
	for _, w := range p.workers {
		w.flushBuffers(p)
	}
}

// Assignments returns a copy of the worker index to container list
// mapping.
func (p *ResourcePool) Assignments() map[int][]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[int][]string, len(p.assignments))
	for i, list := range p.assignments {
		out[i] = append([]string(nil), list...)
	}
	return out
}

// LiveSummaries returns the latest batch maxima per container, sorted
// by name.
func (p *ResourcePool) LiveSummaries() []LiveSummary {
	p.lastMu.Lock()
	out := make([]LiveSummary, 0, len(p.last))
	for _, s := range p.last {
		out = append(out, s)
	}
	p.lastMu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (p *ResourcePool) setLast(s LiveSummary) {
	p.lastMu.Lock()
	p.last[s.Name] = s
	p.lastMu.Unlock()
}

func (p *ResourcePool) assignmentSnapshot(workerIndex int) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.assignments[workerIndex]...)
}

func (p *ResourcePool) notifyAll() {
	for _, w := range p.workers {
		w.wake()
	}
}

func (p *ResourcePool) insertBatch(name string, samples []cgroup.Sample, trigger string) {
	if err := p.store.InsertBatch(name, samples); err != nil {
		telemetry.RecordStoreWriteFailure()
		p.logger.Error("batch insert failed, dropping batch",
			"container", name, "samples", len(samples), "err", err)
		return
	}
	telemetry.RecordBatchFlushed(trigger)
}
