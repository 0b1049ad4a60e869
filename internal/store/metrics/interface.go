package metrics

import "github.com/Komal-kalyanraman/container-monitor/internal/cgroup"

// StoreHandler is the durable store the lifecycle coordinator and the
// worker pool write through. All mutating calls are serialized inside
// the implementation; a store that failed to open becomes inert (writes
// drop, reads return empty) rather than taking the monitor down.
type StoreHandler interface {
	SetupSchema() error
	UpsertContainer(name string, limits ContainerLimits) error
	DeleteContainer(name string) error
	ClearAll() error

	// GetContainer reports ok=false on a cache miss. Callers must treat
	// a miss as "not yet known", never as zero-valued limits.
	GetContainer(name string) (ContainerLimits, bool)
	ListContainers() map[string]ContainerLimits

	InsertBatch(name string, samples []cgroup.Sample) error
	InsertHostSample(tsMs int64, cpuPct, memPct float64) error

	ExportToDir(dir string) error
	Close() error
}
