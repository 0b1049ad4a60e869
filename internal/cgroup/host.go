package cgroup

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

func NewHostReader() *HostReader {
	return &HostReader{
		StatPath:    "/proc/stat",
		MeminfoPath: "/proc/meminfo",
	}
}

// HostReader samples whole-host CPU and memory utilization. The CPU
// percent is a delta against the previous call, so a reader value has
// exactly one legitimate caller; the lifecycle coordinator owns the only
// instance in the monitor.
type HostReader struct {
	StatPath    string
	MeminfoPath string

	prevTotal uint64
	prevIdle  uint64
	primed    bool
}

// CpuPercent returns host CPU utilization over the interval since the
// previous call. The first call primes the counters and returns 0.
func (h *HostReader) CpuPercent() float64 {
	total, idle, ok := h.readStat()
	if !ok {
		return 0
	}
	usage := 0.0
	if h.primed && total > h.prevTotal {
		deltaTotal := total - h.prevTotal
		deltaIdle := idle - h.prevIdle
		if deltaIdle > deltaTotal {
			deltaIdle = deltaTotal
		}
		usage = Round2(float64(deltaTotal-deltaIdle) / float64(deltaTotal) * 100)
	}
	h.prevTotal = total
	h.prevIdle = idle
	h.primed = true
	return usage
}

// MemoryPercent returns used memory as a percent of MemTotal, where
// used = MemTotal - MemFree - Buffers - Cached.
func (h *HostReader) MemoryPercent() float64 {
	f, err := os.Open(h.MeminfoPath)
	if err != nil {
		return 0
	}
	defer f.Close()

	var total, free, buffers, cached uint64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total = v
		case "MemFree:":
			free = v
		case "Buffers:":
			buffers = v
		case "Cached:":
			cached = v
		}
	}
	if total == 0 {
		return 0
	}
	used := total - free - buffers - cached
	return Round2(float64(used) / float64(total) * 100)
}

// readStat parses the aggregate "cpu " line: eight counters, idle is
// idle + iowait.
func (h *HostReader) readStat() (total, idle uint64, ok bool) {
	f, err := os.Open(h.StatPath)
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "cpu ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 9 {
			return 0, 0, false
		}
		vals := make([]uint64, 0, 8)
		for _, p := range fields[1:9] {
			v, err := strconv.ParseUint(p, 10, 64)
			if err != nil {
				return 0, 0, false
			}
			vals = append(vals, v)
			total += v
		}
		idle = vals[3] + vals[4]
		return total, idle, true
	}
	return 0, 0, false
}
