package metrics

// ContainerLimits is one row of the containers table: the declared caps
// a live container is sampled against, keyed by human name. Id is the
// runtime's opaque identifier used to derive cgroup paths.
type ContainerLimits struct {
	Id        string
	Cpus      float64
	MemoryMb  int64
	PidsLimit int64
}

// HostSample is one row of the host_usage table.
type HostSample struct {
	TimestampMs int64
	CpuPct      float64
	MemPct      float64
}

// CSV export file names and headers. The dashboard-side tooling matches
// on these literally.
const (
	ContainerCsvName   = "container_metrics.csv"
	HostCsvName        = "host_usage.csv"
	ContainerCsvHeader = "container_name,timestamp,cpu_usage,memory_usage,pids\n"
	HostCsvHeader      = "timestamp,cpu_usage_percent,memory_usage_percent\n"
)
