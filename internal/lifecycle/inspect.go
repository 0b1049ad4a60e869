package lifecycle

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Komal-kalyanraman/container-monitor/internal/store/metrics"
	"github.com/Komal-kalyanraman/container-monitor/internal/utils"
)

const (
	nanoCpusPerCore  = 1e9
	bytesPerMegabyte = 1 << 20
)

type inspectRecord struct {
	HostConfig struct {
		NanoCpus  int64 `json:"NanoCpus"`
		Memory    int64 `json:"Memory"`
		PidsLimit int64 `json:"PidsLimit"`
	} `json:"HostConfig"`
}

// InspectLimits asks the runtime for a container's declared limits.
// Used when a create event does not carry them in its attributes.
func InspectLimits(factory utils.CommandFactory, runtime, id string) (metrics.ContainerLimits, error) {
	out, err := factory.Command(runtime, "inspect", id).Output()
	if err != nil {
		return metrics.ContainerLimits{}, fmt.Errorf("%s inspect %s: %w", runtime, id, err)
	}
	var records []inspectRecord
	if err := json.Unmarshal(out, &records); err != nil {
		return metrics.ContainerLimits{}, fmt.Errorf("parse inspect output: %w", err)
	}
	if len(records) == 0 {
		return metrics.ContainerLimits{}, fmt.Errorf("empty inspect output for %s", id)
	}
	hc := records[0].HostConfig
	return metrics.ContainerLimits{
		Id:        id,
		Cpus:      float64(hc.NanoCpus) / nanoCpusPerCore,
		MemoryMb:  hc.Memory / bytesPerMegabyte,
		PidsLimit: hc.PidsLimit,
	}, nil
}

// limitsFromAttributes reads cpus/memory/pids-limit out of a create
// event's attribute map. Reports whether all three were present.
func limitsFromAttributes(id string, attrs map[string]string) (metrics.ContainerLimits, bool) {
	limits := metrics.ContainerLimits{Id: id}
	complete := true

	if v, err := strconv.ParseFloat(attrs["cpus"], 64); err == nil {
		limits.Cpus = v
	} else {
		complete = false
	}
	if v, err := strconv.ParseInt(attrs["memory"], 10, 64); err == nil {
		limits.MemoryMb = v
	} else {
		complete = false
	}
	if v, err := strconv.ParseInt(attrs["pids-limit"], 10, 64); err == nil {
		limits.PidsLimit = v
	} else {
		complete = false
	}
	return limits, complete
}
