package http

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/Komal-kalyanraman/container-monitor/internal/pool"
	"github.com/Komal-kalyanraman/container-monitor/internal/store/metrics"
)

// StatusSource is what the API reads from the worker pool.
type StatusSource interface {
	Assignments() map[int][]string
	LiveSummaries() []pool.LiveSummary
}

// LimitsLister is what the API reads from the limits store.
type LimitsLister interface {
	ListContainers() map[string]metrics.ContainerLimits
}

func NewRequestHandler(runId string, store LimitsLister, status StatusSource) *RequestHandler {
	return &RequestHandler{
		runId:  runId,
		store:  store,
		status: status,
	}
}

type RequestHandler struct {
	runId  string
	store  LimitsLister
	status StatusSource
}

func (h *RequestHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondJson(w, http.StatusOK, HealthResponse{Status: "ok", RunId: h.runId})
}

func (h *RequestHandler) ListContainers(w http.ResponseWriter, r *http.Request) {
	limits := h.store.ListContainers()
	entries := make([]ContainerEntry, 0, len(limits))
	for name, l := range limits {
		entries = append(entries, ContainerEntry{
			Name:      name,
			Id:        l.Id,
			Cpus:      l.Cpus,
			MemoryMb:  l.MemoryMb,
			PidsLimit: l.PidsLimit,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	respondJson(w, http.StatusOK, ContainersResponse{Containers: entries})
}

func (h *RequestHandler) Assignments(w http.ResponseWriter, r *http.Request) {
	respondJson(w, http.StatusOK, AssignmentsResponse{Assignments: h.status.Assignments()})
}

func respondJson(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
