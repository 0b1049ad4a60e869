package cgroup

import (
	"math"
	"os"
	"strconv"
	"strings"
)

const (
	nanosecondsPerSecond  = 1e9
	millisecondsPerSecond = 1000.0
	bytesPerMegabyte      = 1 << 20
)

// Round2 rounds to two decimal places, half up (toward positive infinity).
func Round2(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// ReadSample reads the three pseudo-files and produces one Sample
// expressed as percent of the declared limits. A read failure on any
// field yields 0 for that field; a zero limit clamps its field to 0%.
//
// The CPU percent is a delta against prev. On the first sample (nil
// prev) it is 0. The returned PrevCpu must be installed for the next
// call regardless.
func ReadSample(paths ContainerResourcePaths, lim Limits, prev *PrevCpu, nowMs int64) (Sample, PrevCpu) {
	cpuCounterNs := readCpuCounterNs(paths.CpuPath)
	memBytes := readUintFile(paths.MemoryPath)
	pidCount := readUintFile(paths.PidPath)

	s := Sample{TimestampMs: nowMs}

	if lim.MemoryMb > 0 {
		s.MemPct = Round2(float64(memBytes) / float64(lim.MemoryMb*bytesPerMegabyte) * 100)
	}
	if lim.Pids > 0 {
		s.PidPct = Round2(float64(pidCount) / float64(lim.Pids) * 100)
	}
	if prev != nil && lim.CpuCores > 0 {
		deltaMs := nowMs - prev.LastTsMs
		if deltaMs > 0 && cpuCounterNs > prev.LastCpuCounterNs {
			deltaNs := cpuCounterNs - prev.LastCpuCounterNs
			usedSeconds := float64(deltaNs) / nanosecondsPerSecond
			elapsedSeconds := float64(deltaMs) / millisecondsPerSecond
			s.CpuPct = Round2(usedSeconds / elapsedSeconds / lim.CpuCores * 100)
		}
	}
	if s.CpuPct < 0 {
		s.CpuPct = 0
	}

	return s, PrevCpu{LastTsMs: nowMs, LastCpuCounterNs: cpuCounterNs}
}

// readCpuCounterNs returns the cumulative CPU time in nanoseconds. Two
// on-disk formats exist: v1 cpuacct.usage is a bare nanosecond counter,
// v2 cpu.stat is "key value" lines where usage_usec is microseconds.
func readCpuCounterNs(path string) uint64 {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	body := strings.TrimSpace(string(b))
	if v, err := strconv.ParseUint(body, 10, 64); err == nil {
		return v
	}
	for _, line := range strings.Split(body, "\n") {
		fields := strings.Fields(line)
		if len(fields) != 2 || fields[0] != "usage_usec" {
			continue
		}
		v, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			return 0
		}
		return v * 1000
	}
	return 0
}

func readUintFile(path string) uint64 {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(b)), 10, 64)
	if err != nil {
		return 0
	}
	return v
}
