package config

// MonitorConfig holds every tunable the monitor and the dashboard read
// from parameter.conf. Values absent from the file fall back to the
// documented defaults.
type MonitorConfig struct {
	Runtime                         string
	Cgroup                          string
	Database                        string
	DbPath                          string
	ResourceSamplingIntervalMs      int
	ContainerEventRefreshIntervalMs int
	UiEnabled                       bool
	BatchSize                       int
	AlertWarning                    float64
	AlertCritical                   float64
	AlertViolation                  float64
	ThreadCount                     int
	ThreadCapacity                  int
	FileExportFolderPath            string
	UiRefreshIntervalMs             int
}

const (
	KeyRuntime                         = "runtime"
	KeyCgroup                          = "cgroup"
	KeyDatabase                        = "database"
	KeyDbPath                          = "db_path"
	KeyResourceSamplingIntervalMs      = "resource_sampling_interval_ms"
	KeyContainerEventRefreshIntervalMs = "container_event_refresh_interval_ms"
	KeyUiEnabled                       = "ui_enabled"
	KeyBatchSize                       = "batch_size"
	KeyAlertWarning                    = "alert_warning"
	KeyAlertCritical                   = "alert_critical"
	KeyAlertViolation                  = "alert_violation"
	KeyThreadCount                     = "thread_count"
	KeyThreadCapacity                  = "thread_capacity"
	KeyFileExportFolderPath            = "file_export_folder_path"
	KeyUiRefreshIntervalMs             = "ui_refresh_interval_ms"
)

const (
	DefaultRuntime                         = "docker"
	DefaultCgroup                          = "v2"
	DefaultDatabase                        = "sqlite"
	DefaultDbPath                          = "../../storage/metrics.db"
	DefaultResourceSamplingIntervalMs      = 500
	DefaultContainerEventRefreshIntervalMs = 1000
	DefaultUiEnabled                       = true
	DefaultBatchSize                       = 50
	DefaultAlertWarning                    = 80.0
	DefaultAlertCritical                   = 100.0
	DefaultAlertViolation                  = 100.0
	DefaultThreadCount                     = 5
	DefaultThreadCapacity                  = 10
	DefaultFileExportFolderPath            = "../../storage"
	DefaultUiRefreshIntervalMs             = 2000
)

// Defaults returns the configuration used when every key is absent.
func Defaults() MonitorConfig {
	return MonitorConfig{
		Runtime:                         DefaultRuntime,
		Cgroup:                          DefaultCgroup,
		Database:                        DefaultDatabase,
		DbPath:                          DefaultDbPath,
		ResourceSamplingIntervalMs:      DefaultResourceSamplingIntervalMs,
		ContainerEventRefreshIntervalMs: DefaultContainerEventRefreshIntervalMs,
		UiEnabled:                       DefaultUiEnabled,
		BatchSize:                       DefaultBatchSize,
		AlertWarning:                    DefaultAlertWarning,
		AlertCritical:                   DefaultAlertCritical,
		AlertViolation:                  DefaultAlertViolation,
		ThreadCount:                     DefaultThreadCount,
		ThreadCapacity:                  DefaultThreadCapacity,
		FileExportFolderPath:            DefaultFileExportFolderPath,
		UiRefreshIntervalMs:             DefaultUiRefreshIntervalMs,
	}
}
