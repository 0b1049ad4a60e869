package metrics

import (
	"sync"

	"github.com/Komal-kalyanraman/container-monitor/internal/cgroup"
)

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{limits: map[string]ContainerLimits{}}
}

// EmbeddedStore keeps everything in process memory. Selected with
// database=embedded; durable only for the lifetime of the process, but
// it honors the full adapter contract including export.
type EmbeddedStore struct {
	mu     sync.Mutex
	limits map[string]ContainerLimits

	containerSamples []containerRow
	hostSamples      []HostSample
}

type containerRow struct {
	name   string
	sample cgroup.Sample
}

func (s *EmbeddedStore) SetupSchema() error { return nil }

func (s *EmbeddedStore) UpsertContainer(name string, limits ContainerLimits) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits[name] = limits
	return nil
}

func (s *EmbeddedStore) DeleteContainer(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.limits, name)
	return nil
}

func (s *EmbeddedStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = map[string]ContainerLimits{}
	return nil
}

func (s *EmbeddedStore) GetContainer(name string) (ContainerLimits, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	limits, ok := s.limits[name]
	return limits, ok
}

func (s *EmbeddedStore) ListContainers() map[string]ContainerLimits {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[string]ContainerLimits, len(s.limits))
	for name, limits := range s.limits {
		snapshot[name] = limits
	}
	return snapshot
}

func (s *EmbeddedStore) InsertBatch(name string, samples []cgroup.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sample := range samples {
		s.containerSamples = append(s.containerSamples, containerRow{name: name, sample: sample})
	}
	return nil
}

func (s *EmbeddedStore) InsertHostSample(tsMs int64, cpuPct, memPct float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hostSamples = append(s.hostSamples, HostSample{TimestampMs: tsMs, CpuPct: cpuPct, MemPct: memPct})
	return nil
}

// ContainerSamples returns the persisted samples for one container in
// insertion order.
func (s *EmbeddedStore) ContainerSamples(name string) []cgroup.Sample {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []cgroup.Sample
	for _, row := range s.containerSamples {
		if row.name == name {
			out = append(out, row.sample)
		}
	}
	return out
}

// HostSamples returns all persisted host rows in insertion order.
func (s *EmbeddedStore) HostSamples() []HostSample {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]HostSample(nil), s.hostSamples...)
}

func (s *EmbeddedStore) ExportToDir(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	containerRows := func(w rowWriter) error {
		for _, row := range s.containerSamples {
			if err := w.writeContainerRow(row.name, row.sample.TimestampMs,
				row.sample.CpuPct, row.sample.MemPct, row.sample.PidPct); err != nil {
				return err
			}
		}
		return nil
	}
	hostRows := func(w rowWriter) error {
		for _, sample := range s.hostSamples {
			if err := w.writeHostRow(sample.TimestampMs, sample.CpuPct, sample.MemPct); err != nil {
				return err
			}
		}
		return nil
	}
	return exportCsv(dir, containerRows, hostRows)
}

func (s *EmbeddedStore) Close() error { return nil }
