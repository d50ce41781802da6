package tttplot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tttplot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, DefaultLayout(), cfg.Layout)
	assert.Equal(t, []Condition{ParallelCondition(1, false)}, cfg.Single)
	require.Len(t, cfg.Overlays, 1)
	o := cfg.Overlays[0]
	assert.Equal(t, 9, o.Instance)
	require.Len(t, o.Conditions, 4)
	assert.Equal(t, AntsThreadsCondition(9, 16, 16), o.Conditions[3])
	assert.Equal(t, "perl", cfg.Tool.Interpreter)
	assert.Equal(t, "scripts/tttplots.pl", cfg.Tool.Script)
	assert.False(t, cfg.Tool.Strict)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
layout:
  data_dir: runs
  out_dir: runs/out
  plot_dir: runs/plots
  label: ""
tool:
  interpreter: /usr/bin/perl
  strict: true
archive:
  driver: sqlite
  dsn: ttt.db
logging:
  level: debug
single:
  - instance: 2
    mode: parallel
    parallel: true
overlays:
  - instance: 4
    title: Instance 4
    conditions:
      - {instance: 4, mode: ants-threads, ants: 8, threads: 2, legend: "8/2", color: "#ff0000"}
      - {instance: 4, mode: ants-threads, ants: 8, threads: 4}
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, Layout{DataDir: "runs", OutDir: "runs/out", PlotDir: "runs/plots"}, cfg.Layout)
	assert.Equal(t, "/usr/bin/perl", cfg.Tool.Interpreter)
	assert.Equal(t, "scripts/tttplots.pl", cfg.Tool.Script, "unset keys keep their defaults")
	assert.True(t, cfg.Tool.Strict)
	assert.Equal(t, ArchiveSettings{Driver: "sqlite", DSN: "ttt.db"}, cfg.Archive)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []Condition{ParallelCondition(2, true)}, cfg.Single)

	require.Len(t, cfg.Overlays, 1)
	o := cfg.Overlays[0]
	require.Len(t, o.Conditions, 2)
	assert.Equal(t, "8/2", o.Conditions[0].Label())
	assert.Equal(t, "#ff0000", o.Conditions[0].Color)
	assert.Equal(t, "i4_8_ants_4_threads", o.Conditions[1].Name())

	tool := cfg.NewTool()
	assert.Equal(t, "/usr/bin/perl", tool.Interpreter)
	assert.Equal(t, "/bin/sh", tool.Shell)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"bad yaml", "single: [", "cannot parse config"},
		{"unknown mode", "single:\n  - {instance: 1, mode: turbo}\n", `unknown mode "turbo"`},
		{"no ants", "overlays:\n  - instance: 1\n    conditions:\n      - {instance: 1, mode: ants-threads, threads: 2}\n", "ants and threads must be positive"},
		{"empty overlay", "overlays:\n  - instance: 3\n", "overlay for instance 3 has no conditions"},
		{"duplicate legend", "overlays:\n  - instance: 9\n    conditions:\n      - {instance: 9, mode: ants-threads, ants: 2, threads: 2, legend: same}\n      - {instance: 9, mode: ants-threads, ants: 4, threads: 4, legend: same}\n", `overlay for instance 9: legend "same" used twice`},
		{"duplicate condition", "overlays:\n  - instance: 9\n    conditions:\n      - {instance: 9, mode: ants-threads, ants: 2, threads: 2}\n      - {instance: 9, mode: ants-threads, ants: 2, threads: 2}\n", `legend "2 ants, 2 threads" used twice`},
		{"archive driver", "archive:\n  driver: oracle\n", `unknown archive driver "oracle"`},
		{"plot size", "plot:\n  width_cm: 0\n", "plot size must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
