package cgroup

import (
	"os"
	"path/filepath"
	"testing"
)

func stagePaths(t *testing.T, cpu, mem, pid string) ContainerResourcePaths {
	t.Helper()
	dir := t.TempDir()
	paths := ContainerResourcePaths{
		CpuPath:    filepath.Join(dir, "cpuacct.usage"),
		MemoryPath: filepath.Join(dir, "memory.usage_in_bytes"),
		PidPath:    filepath.Join(dir, "pids.current"),
	}
	writeFile(t, paths.CpuPath, cpu)
	writeFile(t, paths.MemoryPath, mem)
	writeFile(t, paths.PidPath, pid)
	return paths
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{10.004, 10.0},
		{10.006, 10.01},
		{0.0, 0.0},
		{99.999, 100.0},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFirstSampleCpuIsZero(t *testing.T) {
	paths := stagePaths(t, "123456789000", "52428800", "100")
	lim := Limits{CpuCores: 1.0, MemoryMb: 100, Pids: 200}

	s, prev := ReadSample(paths, lim, nil, 1000)
	if s.CpuPct != 0 {
		t.Fatalf("first sample cpu = %v, want 0", s.CpuPct)
	}
	if prev.LastCpuCounterNs != 123456789000 || prev.LastTsMs != 1000 {
		t.Fatalf("prev not primed: %+v", prev)
	}
	if s.MemPct != 50.0 {
		t.Fatalf("mem = %v, want 50.00", s.MemPct)
	}
	if s.PidPct != 50.0 {
		t.Fatalf("pid = %v, want 50.00", s.PidPct)
	}
}

func TestCpuDelta(t *testing.T) {
	paths := stagePaths(t, "1000000000", "52428800", "100")
	lim := Limits{CpuCores: 1.0, MemoryMb: 100, Pids: 200}

	_, prev := ReadSample(paths, lim, nil, 1000)

	// 1 ms of cpu time over 10 ms of wall time on a 1-core quota: 10%.
	writeFile(t, paths.CpuPath, "1001000000")
	s, _ := ReadSample(paths, lim, &prev, 1010)
	if s.CpuPct != 10.0 {
		t.Fatalf("cpu = %v, want 10.00", s.CpuPct)
	}
}

func TestCpuDeltaHalfCoreLimit(t *testing.T) {
	paths := stagePaths(t, "0", "0", "0")
	lim := Limits{CpuCores: 0.5, MemoryMb: 100, Pids: 200}

	_, prev := ReadSample(paths, lim, nil, 0)
	writeFile(t, paths.CpuPath, "100000000")
	s, _ := ReadSample(paths, lim, &prev, 100)
	// 0.1 s of cpu over 0.1 s wall against half a core: 200%.
	if s.CpuPct != 200.0 {
		t.Fatalf("cpu = %v, want 200.00", s.CpuPct)
	}
}

func TestCounterRegressionClampsToZero(t *testing.T) {
	paths := stagePaths(t, "2000000000", "0", "0")
	lim := Limits{CpuCores: 1.0, MemoryMb: 100, Pids: 200}

	_, prev := ReadSample(paths, lim, nil, 1000)
	writeFile(t, paths.CpuPath, "1000000000")
	s, next := ReadSample(paths, lim, &prev, 1010)
	if s.CpuPct != 0 {
		t.Fatalf("cpu = %v, want 0 after counter regression", s.CpuPct)
	}
	if next.LastCpuCounterNs != 1000000000 {
		t.Fatalf("prev not updated after regression: %+v", next)
	}
}

func TestZeroLimitsClampFieldsToZero(t *testing.T) {
	paths := stagePaths(t, "1000000000", "52428800", "100")
	s, prev := ReadSample(paths, Limits{}, nil, 1000)
	writeFile(t, paths.CpuPath, "1100000000")
	s2, _ := ReadSample(paths, Limits{}, &prev, 1010)

	for _, sample := range []Sample{s, s2} {
		if sample.CpuPct != 0 || sample.MemPct != 0 || sample.PidPct != 0 {
			t.Fatalf("zero limits must clamp all fields: %+v", sample)
		}
	}
}

func TestMissingFilesYieldZeroFields(t *testing.T) {
	dir := t.TempDir()
	paths := ContainerResourcePaths{
		CpuPath:    filepath.Join(dir, "missing-cpu"),
		MemoryPath: filepath.Join(dir, "missing-mem"),
		PidPath:    filepath.Join(dir, "missing-pid"),
	}
	lim := Limits{CpuCores: 1.0, MemoryMb: 100, Pids: 200}
	s, prev := ReadSample(paths, lim, nil, 1000)
	if s.CpuPct != 0 || s.MemPct != 0 || s.PidPct != 0 {
		t.Fatalf("unreadable files must yield zeros: %+v", s)
	}
	if prev.LastCpuCounterNs != 0 {
		t.Fatalf("prev counter = %d, want 0", prev.LastCpuCounterNs)
	}
}

func TestCpuStatKeyValueFormat(t *testing.T) {
	dir := t.TempDir()
	cpuPath := filepath.Join(dir, "cpu.stat")
	writeFile(t, cpuPath, "usage_usec 1000000\nuser_usec 800000\nsystem_usec 200000\n")
	paths := ContainerResourcePaths{CpuPath: cpuPath}

	_, prev := ReadSample(paths, Limits{CpuCores: 1}, nil, 0)
	if prev.LastCpuCounterNs != 1000000*1000 {
		t.Fatalf("usage_usec not converted to ns: %d", prev.LastCpuCounterNs)
	}
}
