package metrics

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Komal-kalyanraman/container-monitor/internal/cgroup"
)

// NewSqliteStore opens (or creates) the metrics database. An open
// failure is logged and the store becomes inert: every write is a no-op
// and every read returns empty, so the sampling pipeline keeps running
// without a durable path.
func NewSqliteStore(path string, logger *slog.Logger) *SqliteStore {
	s := &SqliteStore{logger: logger}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Error("create database directory failed, store is inert", "path", path, "err", err)
		return s
	}
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		logger.Error("open database failed, store is inert", "path", path, "err", err)
		return s
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		logger.Error("open database failed, store is inert", "path", path, "err", err)
		return s
	}
	s.db = db
	return s
}

type SqliteStore struct {
	mu     sync.Mutex
	db     *sql.DB // nil when inert
	logger *slog.Logger

	cache       map[string]ContainerLimits
	cacheLoaded bool
}

func (s *SqliteStore) SetupSchema() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS containers (
			name TEXT PRIMARY KEY,
			id TEXT,
			cpus REAL,
			memory REAL,
			pids_limit INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS container_metrics (
			container_name TEXT,
			timestamp INTEGER,
			cpu_usage REAL,
			memory_usage REAL,
			pids INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS host_usage (
			timestamp INTEGER,
			cpu_usage_percent REAL,
			memory_usage_percent REAL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("setup schema: %w", err)
		}
	}
	return nil
}

func (s *SqliteStore) UpsertContainer(name string, limits ContainerLimits) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO containers (name, id, cpus, memory, pids_limit) VALUES (?, ?, ?, ?, ?)`,
		name, limits.Id, limits.Cpus, limits.MemoryMb, limits.PidsLimit,
	)
	if err != nil {
		s.logger.Error("upsert container failed", "name", name, "err", err)
		return err
	}
	if s.cache == nil {
		s.cache = map[string]ContainerLimits{}
	}
	s.cache[name] = limits
	return nil
}

func (s *SqliteStore) DeleteContainer(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	if _, err := s.db.Exec(`DELETE FROM containers WHERE name = ?`, name); err != nil {
		s.logger.Error("delete container failed", "name", name, "err", err)
		return err
	}
	delete(s.cache, name)
	return nil
}

func (s *SqliteStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	if _, err := s.db.Exec(`DELETE FROM containers`); err != nil {
		return err
	}
	s.cache = map[string]ContainerLimits{}
	s.cacheLoaded = true
	return nil
}

func (s *SqliteStore) GetContainer(name string) (ContainerLimits, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadCacheLocked()
	limits, ok := s.cache[name]
	return limits, ok
}

func (s *SqliteStore) ListContainers() map[string]ContainerLimits {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadCacheLocked()
	snapshot := make(map[string]ContainerLimits, len(s.cache))
	for name, limits := range s.cache {
		snapshot[name] = limits
	}
	return snapshot
}

// loadCacheLocked populates the limits cache from the containers table
// on first use. A cold cache and a missing row are distinguishable from
// each other only after this runs, which is why GetContainer never
// fabricates a zero record.
func (s *SqliteStore) loadCacheLocked() {
	if s.cacheLoaded || s.db == nil {
		if s.cache == nil {
			s.cache = map[string]ContainerLimits{}
		}
		return
	}
	s.cache = map[string]ContainerLimits{}
	rows, err := s.db.Query(`SELECT name, id, cpus, memory, pids_limit FROM containers`)
	if err != nil {
		s.logger.Error("load limits cache failed", "err", err)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		var limits ContainerLimits
		if err := rows.Scan(&name, &limits.Id, &limits.Cpus, &limits.MemoryMb, &limits.PidsLimit); err != nil {
			s.logger.Error("scan container row failed", "err", err)
			continue
		}
		s.cache[name] = limits
	}
	s.cacheLoaded = true
}

// InsertBatch appends one container's batch in a single transaction.
func (s *SqliteStore) InsertBatch(name string, samples []cgroup.Sample) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil || len(samples) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	stmt, err := tx.Prepare(
		`INSERT INTO container_metrics (container_name, timestamp, cpu_usage, memory_usage, pids) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()
	for _, sample := range samples {
		if _, err := stmt.Exec(name, sample.TimestampMs, sample.CpuPct, sample.MemPct, sample.PidPct); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert sample: %w", err)
		}
	}
	return tx.Commit()
}

func (s *SqliteStore) InsertHostSample(tsMs int64, cpuPct, memPct float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	_, err := s.db.Exec(
		`INSERT INTO host_usage (timestamp, cpu_usage_percent, memory_usage_percent) VALUES (?, ?, ?)`,
		tsMs, cpuPct, memPct,
	)
	return err
}

func (s *SqliteStore) ExportToDir(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}

	containerRows := func(w rowWriter) error {
		rows, err := s.db.Query(
			`SELECT container_name, timestamp, cpu_usage, memory_usage, pids FROM container_metrics`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var name string
			var ts int64
			var cpu, mem, pids float64
			if err := rows.Scan(&name, &ts, &cpu, &mem, &pids); err != nil {
				return err
			}
			if err := w.writeContainerRow(name, ts, cpu, mem, pids); err != nil {
				return err
			}
		}
		return rows.Err()
	}
	hostRows := func(w rowWriter) error {
		rows, err := s.db.Query(
			`SELECT timestamp, cpu_usage_percent, memory_usage_percent FROM host_usage`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var ts int64
			var cpu, mem float64
			if err := rows.Scan(&ts, &cpu, &mem); err != nil {
				return err
			}
			if err := w.writeHostRow(ts, cpu, mem); err != nil {
				return err
			}
		}
		return rows.Err()
	}
	return exportCsv(dir, containerRows, hostRows)
}

func (s *SqliteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
