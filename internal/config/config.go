package config

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

func NewConfigParser() *ConfigParser {
	return &ConfigParser{params: map[string]string{}}
}

// ConfigParser reads a key=value configuration file. Lines starting with
// '#' and blank lines are ignored; lines without '=' are skipped.
type ConfigParser struct {
	params map[string]string
}

func (p *ConfigParser) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		p.params[strings.TrimSpace(key)] = strings.TrimSpace(val)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	return nil
}

func (p *ConfigParser) Get(key, defaultVal string) string {
	if v, ok := p.params[key]; ok {
		return v
	}
	return defaultVal
}

func (p *ConfigParser) GetInt(key string, defaultVal int) int {
	v, ok := p.params[key]
	if !ok {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

func (p *ConfigParser) GetFloat(key string, defaultVal float64) float64 {
	v, ok := p.params[key]
	if !ok {
		return defaultVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

func (p *ConfigParser) GetBool(key string, defaultVal bool) bool {
	switch p.params[key] {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return defaultVal
}

// ToMonitorConfig resolves every known key against its default.
func (p *ConfigParser) ToMonitorConfig() MonitorConfig {
	return MonitorConfig{
		Runtime:                         p.Get(KeyRuntime, DefaultRuntime),
		Cgroup:                          p.Get(KeyCgroup, DefaultCgroup),
		Database:                        p.Get(KeyDatabase, DefaultDatabase),
		DbPath:                          p.Get(KeyDbPath, DefaultDbPath),
		ResourceSamplingIntervalMs:      p.GetInt(KeyResourceSamplingIntervalMs, DefaultResourceSamplingIntervalMs),
		ContainerEventRefreshIntervalMs: p.GetInt(KeyContainerEventRefreshIntervalMs, DefaultContainerEventRefreshIntervalMs),
		UiEnabled:                       p.GetBool(KeyUiEnabled, DefaultUiEnabled),
		BatchSize:                       p.GetInt(KeyBatchSize, DefaultBatchSize),
		AlertWarning:                    p.GetFloat(KeyAlertWarning, DefaultAlertWarning),
		AlertCritical:                   p.GetFloat(KeyAlertCritical, DefaultAlertCritical),
		AlertViolation:                  p.GetFloat(KeyAlertViolation, DefaultAlertViolation),
		ThreadCount:                     p.GetInt(KeyThreadCount, DefaultThreadCount),
		ThreadCapacity:                  p.GetInt(KeyThreadCapacity, DefaultThreadCapacity),
		FileExportFolderPath:            p.Get(KeyFileExportFolderPath, DefaultFileExportFolderPath),
		UiRefreshIntervalMs:             p.GetInt(KeyUiRefreshIntervalMs, DefaultUiRefreshIntervalMs),
	}
}

// Load parses the configuration file at path. A missing or unreadable
// file is fatal for the caller; malformed values inside an existing file
// only fall back to defaults.
func Load(path string) (MonitorConfig, error) {
	parser := NewConfigParser()
	if err := parser.Load(path); err != nil {
		return MonitorConfig{}, err
	}
	return parser.ToMonitorConfig(), nil
}

// LogEffective writes the resolved configuration at startup.
func LogEffective(logger *slog.Logger, cfg MonitorConfig) {
	logger.Info("container monitor configuration",
		"runtime", cfg.Runtime,
		"cgroup", cfg.Cgroup,
		"database", cfg.Database,
		"db_path", cfg.DbPath,
		"resource_sampling_interval_ms", cfg.ResourceSamplingIntervalMs,
		"container_event_refresh_interval_ms", cfg.ContainerEventRefreshIntervalMs,
		"ui_enabled", cfg.UiEnabled,
		"batch_size", cfg.BatchSize,
		"alert_warning", cfg.AlertWarning,
		"alert_critical", cfg.AlertCritical,
		"alert_violation", cfg.AlertViolation,
		"thread_count", cfg.ThreadCount,
		"thread_capacity", cfg.ThreadCapacity,
		"file_export_folder_path", cfg.FileExportFolderPath,
		"ui_refresh_interval_ms", cfg.UiRefreshIntervalMs,
	)
}
