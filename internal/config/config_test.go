package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parameter.conf")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.conf"))
	require.Error(t, err)
}

func TestEmptyFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestCommentsAndBlankLinesIgnored(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
# sampling
resource_sampling_interval_ms=250

# not a key value pair
malformed line without equals

runtime=podman
`))
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.ResourceSamplingIntervalMs)
	assert.Equal(t, "podman", cfg.Runtime)
	assert.Equal(t, DefaultBatchSize, cfg.BatchSize)
}

func TestMalformedValuesFallBackToDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
batch_size=many
alert_warning=hot
ui_enabled=maybe
thread_count=3
`))
	require.NoError(t, err)
	assert.Equal(t, DefaultBatchSize, cfg.BatchSize)
	assert.Equal(t, DefaultAlertWarning, cfg.AlertWarning)
	assert.Equal(t, DefaultUiEnabled, cfg.UiEnabled)
	assert.Equal(t, 3, cfg.ThreadCount)
}

func TestBoolForms(t *testing.T) {
	cases := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"false", false},
		{"0", false},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, "ui_enabled="+tc.value+"\n"))
			require.NoError(t, err)
			assert.Equal(t, tc.want, cfg.UiEnabled)
		})
	}
}

func TestFullOverride(t *testing.T) {
	cfg, err := Load(writeConfig(t, `runtime=podman
cgroup=v1
database=embedded
db_path=/tmp/x.db
resource_sampling_interval_ms=100
container_event_refresh_interval_ms=2000
ui_enabled=false
batch_size=7
alert_warning=70.5
alert_critical=90
alert_violation=99.9
thread_count=2
thread_capacity=3
file_export_folder_path=/tmp/export
ui_refresh_interval_ms=500
`))
	require.NoError(t, err)
	assert.Equal(t, MonitorConfig{
		Runtime:                         "podman",
		Cgroup:                          "v1",
		Database:                        "embedded",
		DbPath:                          "/tmp/x.db",
		ResourceSamplingIntervalMs:      100,
		ContainerEventRefreshIntervalMs: 2000,
		UiEnabled:                       false,
		BatchSize:                       7,
		AlertWarning:                    70.5,
		AlertCritical:                   90,
		AlertViolation:                  99.9,
		ThreadCount:                     2,
		ThreadCapacity:                  3,
		FileExportFolderPath:            "/tmp/export",
		UiRefreshIntervalMs:             500,
	}, cfg)
}
