package pool

// PoolConfig sizes the worker pool.
type PoolConfig struct {
	WorkerCount      int
	WorkerCapacity   int
	BatchSize        int
	SampleIntervalMs int
	UiEnabled        bool
}

// LiveSummary is the monitor-side record of the most recent batch
// maxima for one container, retained for the status API. It mirrors the
// queue message but is never sent anywhere.
type LiveSummary struct {
	Name        string  `json:"name"`
	MaxCpuPct   float64 `json:"max_cpu_pct"`
	MaxMemPct   float64 `json:"max_mem_pct"`
	MaxPidPct   float64 `json:"max_pid_pct"`
	UpdatedAtMs int64   `json:"updated_at_ms"`
}

// emptyAssignmentWaitMs is how long a worker with no containers sleeps
// before re-checking its assignment.
const emptyAssignmentWaitMs = 500
