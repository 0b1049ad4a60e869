package dashboard

// Row is one rendered dashboard line: a container and the maxima from
// its most recent batch.
type Row struct {
	Name        string
	MaxCpuPct   float64
	MaxMemPct   float64
	MaxPidPct   float64
	UpdatedAtMs int64
}

// Table column names.
const (
	ColContainerName = "Container Name"
	ColMaxCpu        = "Max CPU %"
	ColMaxMem        = "Max Memory %"
	ColMaxPids       = "Max PIDs %"
)
