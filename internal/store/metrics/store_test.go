package metrics

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Komal-kalyanraman/container-monitor/internal/cgroup"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSqlite(t *testing.T) *SqliteStore {
	t.Helper()
	s := NewSqliteStore(filepath.Join(t.TempDir(), "metrics.db"), discard())
	require.NoError(t, s.SetupSchema())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSqliteUpsertGetDelete(t *testing.T) {
	s := newTestSqlite(t)

	_, ok := s.GetContainer("alpha")
	assert.False(t, ok, "cache miss must not fabricate limits")

	limits := ContainerLimits{Id: "abc", Cpus: 1.5, MemoryMb: 256, PidsLimit: 100}
	require.NoError(t, s.UpsertContainer("alpha", limits))

	got, ok := s.GetContainer("alpha")
	require.True(t, ok)
	assert.Equal(t, limits, got)

	// last write wins
	limits.Cpus = 2.0
	require.NoError(t, s.UpsertContainer("alpha", limits))
	got, _ = s.GetContainer("alpha")
	assert.Equal(t, 2.0, got.Cpus)

	require.NoError(t, s.DeleteContainer("alpha"))
	_, ok = s.GetContainer("alpha")
	assert.False(t, ok)
}

func TestSqliteListSnapshotIsCopy(t *testing.T) {
	s := newTestSqlite(t)
	require.NoError(t, s.UpsertContainer("alpha", ContainerLimits{Id: "a"}))

	snapshot := s.ListContainers()
	delete(snapshot, "alpha")
	_, ok := s.GetContainer("alpha")
	assert.True(t, ok, "mutating the snapshot must not touch the store")
}

func TestSqliteClearAll(t *testing.T) {
	s := newTestSqlite(t)
	require.NoError(t, s.UpsertContainer("alpha", ContainerLimits{Id: "a"}))
	require.NoError(t, s.UpsertContainer("beta", ContainerLimits{Id: "b"}))
	require.NoError(t, s.ClearAll())
	assert.Empty(t, s.ListContainers())
}

func TestSqliteSetupSchemaIdempotent(t *testing.T) {
	s := newTestSqlite(t)
	require.NoError(t, s.SetupSchema())
	require.NoError(t, s.SetupSchema())
}

func TestSqliteBatchAndExport(t *testing.T) {
	s := newTestSqlite(t)
	samples := []cgroup.Sample{
		{TimestampMs: 1, CpuPct: 0, MemPct: 50, PidPct: 50},
		{TimestampMs: 2, CpuPct: 10, MemPct: 50, PidPct: 50},
		{TimestampMs: 3, CpuPct: 10, MemPct: 50, PidPct: 50},
	}
	require.NoError(t, s.InsertBatch("alpha", samples))
	require.NoError(t, s.InsertHostSample(5, 12.34, 56.78))

	dir := t.TempDir()
	require.NoError(t, s.ExportToDir(dir))
	assertExportFiles(t, dir, 3, 1)
}

func TestInertSqliteStoreNoOps(t *testing.T) {
	// Point the store at a path whose parent cannot be created.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	s := NewSqliteStore(filepath.Join(blocker, "sub", "metrics.db"), discard())

	assert.NoError(t, s.SetupSchema())
	assert.NoError(t, s.UpsertContainer("alpha", ContainerLimits{Id: "a"}))
	_, ok := s.GetContainer("alpha")
	assert.False(t, ok)
	assert.Empty(t, s.ListContainers())
	assert.NoError(t, s.InsertBatch("alpha", []cgroup.Sample{{TimestampMs: 1}}))
	assert.NoError(t, s.InsertHostSample(1, 0, 0))
	assert.NoError(t, s.ExportToDir(t.TempDir()))
	assert.NoError(t, s.Close())
}

func TestEmbeddedStoreContract(t *testing.T) {
	s := NewEmbeddedStore()
	require.NoError(t, s.SetupSchema())

	_, ok := s.GetContainer("alpha")
	assert.False(t, ok)

	limits := ContainerLimits{Id: "abc", Cpus: 1, MemoryMb: 100, PidsLimit: 200}
	require.NoError(t, s.UpsertContainer("alpha", limits))
	got, ok := s.GetContainer("alpha")
	require.True(t, ok)
	assert.Equal(t, limits, got)

	require.NoError(t, s.InsertBatch("alpha", []cgroup.Sample{
		{TimestampMs: 1, CpuPct: 0, MemPct: 50, PidPct: 50},
		{TimestampMs: 2, CpuPct: 10, MemPct: 50, PidPct: 50},
	}))
	assert.Len(t, s.ContainerSamples("alpha"), 2)

	require.NoError(t, s.DeleteContainer("alpha"))
	_, ok = s.GetContainer("alpha")
	assert.False(t, ok)
}

func TestEmbeddedExportHeaders(t *testing.T) {
	s := NewEmbeddedStore()
	require.NoError(t, s.InsertBatch("alpha", []cgroup.Sample{
		{TimestampMs: 10, CpuPct: 1.5, MemPct: 2.25, PidPct: 3},
	}))
	require.NoError(t, s.InsertHostSample(20, 40, 60))

	dir := t.TempDir()
	require.NoError(t, s.ExportToDir(dir))
	assertExportFiles(t, dir, 1, 1)

	body, err := os.ReadFile(filepath.Join(dir, ContainerCsvName))
	require.NoError(t, err)
	lines := strings.Split(string(body), "\n")
	assert.Equal(t, "alpha,10,1.50,2.25,3.00", lines[1])
}

func assertExportFiles(t *testing.T, dir string, containerRows, hostRows int) {
	t.Helper()
	containerBody, err := os.ReadFile(filepath.Join(dir, ContainerCsvName))
	require.NoError(t, err)
	hostBody, err := os.ReadFile(filepath.Join(dir, HostCsvName))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(string(containerBody), ContainerCsvHeader),
		"container csv header mismatch")
	assert.True(t, strings.HasPrefix(string(hostBody), HostCsvHeader),
		"host csv header mismatch")

	countRows := func(body string) int {
		lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
		return len(lines) - 1
	}
	assert.Equal(t, containerRows, countRows(string(containerBody)))
	assert.Equal(t, hostRows, countRows(string(hostBody)))
}
