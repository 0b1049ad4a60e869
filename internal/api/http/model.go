package http

import "github.com/Komal-kalyanraman/container-monitor/internal/pool"

// == health ==
type HealthResponse struct {
	Status string `json:"status"`
	RunId  string `json:"run_id"`
}

// == containers ==
type ContainerEntry struct {
	Name      string  `json:"name"`
	Id        string  `json:"id"`
	Cpus      float64 `json:"cpus"`
	MemoryMb  int64   `json:"memory_mb"`
	PidsLimit int64   `json:"pids_limit"`
}

type ContainersResponse struct {
	Containers []ContainerEntry `json:"containers"`
}

// == assignments ==
type AssignmentsResponse struct {
	Assignments map[int][]string `json:"assignments"`
}

// == live ==
type LiveResponse struct {
	Summaries []pool.LiveSummary `json:"summaries"`
}
