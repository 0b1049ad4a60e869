package pool

import (
	"sync"
	"time"

	"github.com/Komal-kalyanraman/container-monitor/internal/cgroup"
	"github.com/Komal-kalyanraman/container-monitor/internal/mq"
	"github.com/Komal-kalyanraman/container-monitor/internal/store/metrics"
	"github.com/Komal-kalyanraman/container-monitor/internal/telemetry"
)

func newWorker(index int) *worker {
	return &worker{
		index:   index,
		limits:  map[string]metrics.ContainerLimits{},
		paths:   map[string]cgroup.ContainerResourcePaths{},
		buffers: map[string][]cgroup.Sample{},
		prevCpu: map[string]cgroup.PrevCpu{},
		notify:  make(chan struct{}, 1),
	}
}

// worker samples the containers assigned to it on a timer. Its local
// maps are guarded by its own mutex: the sampling pass holds it, and so
// do install/remove/flush calls made under the pool mutex. Lock order
// is always pool mutex before worker mutex.
type worker struct {
	index int

	mu      sync.Mutex
	limits  map[string]metrics.ContainerLimits
	paths   map[string]cgroup.ContainerResourcePaths
	buffers map[string][]cgroup.Sample
	prevCpu map[string]cgroup.PrevCpu

	notify   chan struct{}
	producer SummaryProducer
}

func (w *worker) wake() {
	select {
	case w.notify <- struct{}{}:
	default:
	}
}

func (w *worker) install(name string, limits metrics.ContainerLimits, paths cgroup.ContainerResourcePaths) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.limits[name] = limits
	w.paths[name] = paths
}

func (w *worker) remove(name string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.limits, name)
	delete(w.paths, name)
	delete(w.buffers, name)
	delete(w.prevCpu, name)
}

// flushBuffers drains every non-empty buffer into the store without
// emitting summaries. Called under the pool mutex for membership
// changes and shutdown, and by the worker itself on exit.
func (w *worker) flushBuffers(p *ResourcePool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for name, buf := range w.buffers {
		if len(buf) == 0 {
			continue
		}
		p.insertBatch(name, buf, "flush")
		w.buffers[name] = nil
	}
}

// run is the worker loop. A panic kills only this worker: the others
// keep sampling and shutdown still flushes this worker's buffers.
func (w *worker) run(p *ResourcePool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("worker panicked, not restarted", "worker", w.index, "panic", r)
		}
		if w.producer != nil {
			_ = w.producer.Close()
		}
	}()

	for !p.shutdown.Load() {
		if w.producer == nil {
			if producer, err := p.openProducer(); err == nil {
				w.producer = producer
			} else {
				p.logger.Debug("summary queue open failed, will retry", "worker", w.index, "err", err)
			}
		}

		names := p.assignmentSnapshot(w.index)
		if len(names) == 0 {
			w.wait(p, emptyAssignmentWaitMs)
			continue
		}

		for _, name := range names {
			w.sampleOne(p, name)
		}

		w.wait(p, len(names)*p.cfg.SampleIntervalMs)
	}

	w.flushBuffers(p)
}

// sampleOne takes one sample for one container and drains the buffer
// when it reaches the batch size. The drain is one unit: exactly one
// summary message is sent for exactly one stored batch, summary first.
func (w *worker) sampleOne(p *ResourcePool, name string) {
	nowMs := time.Now().UnixMilli()

	w.mu.Lock()
	defer w.mu.Unlock()

	paths, okPaths := w.paths[name]
	limits, okLimits := w.limits[name]
	if !okPaths || !okLimits {
		return
	}

	var prev *cgroup.PrevCpu
	if pc, ok := w.prevCpu[name]; ok {
		prev = &pc
	}
	sample, nextPrev := cgroup.ReadSample(paths, cgroup.Limits{
		CpuCores: limits.Cpus,
		MemoryMb: limits.MemoryMb,
		Pids:     limits.PidsLimit,
	}, prev, nowMs)
	w.prevCpu[name] = nextPrev
	w.buffers[name] = append(w.buffers[name], sample)
	telemetry.RecordSample()

	if len(w.buffers[name]) < p.cfg.BatchSize {
		return
	}

	buf := w.buffers[name]
	var maxCpu, maxMem, maxPid float64
	for _, s := range buf {
		maxCpu = max(maxCpu, s.CpuPct)
		maxMem = max(maxMem, s.MemPct)
		maxPid = max(maxPid, s.PidPct)
	}

	if p.cfg.UiEnabled && w.producer != nil {
		msg := mq.NewSummaryMessage(name, maxCpu, maxMem, maxPid)
		if err := w.producer.Send(msg); err != nil {
			telemetry.RecordSummaryDropped()
			p.logger.Debug("summary message dropped", "container", name, "err", err)
		}
	}
	p.insertBatch(name, buf, "full")
	w.buffers[name] = nil

	p.setLast(LiveSummary{
		Name:        name,
		MaxCpuPct:   maxCpu,
		MaxMemPct:   maxMem,
		MaxPidPct:   maxPid,
		UpdatedAtMs: nowMs,
	})
}

// wait blocks for ms milliseconds or until woken by a membership change
// or shutdown.
func (w *worker) wait(p *ResourcePool, ms int) {
	if ms <= 0 {
		ms = 1
	}
	timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
	defer timer.Stop()
	select {
	case <-w.notify:
	case <-timer.C:
	case <-p.done:
	}
}
