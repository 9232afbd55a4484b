package runner

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	v1 "github.com/msds-io/msds/apis/v1"
	"github.com/msds-io/msds/internal/config"
)

func mustParseTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()

	cfg := config.Default()
	cfg.InputDir = filepath.Join(root, "input")
	cfg.OutputDir = filepath.Join(root, "output")
	return cfg
}

func TestParseJob(t *testing.T) {
	data := []byte(`
kind: PipelineJob
metadata:
  name: nightly
spec:
  sources:
    - id: workdir
      file:
        root: /tmp/data
  steps:
    - id: listing
      source: workdir
      file_scan:
        pattern: "*.json"
`)

	job, err := ParseJob(data)
	require.NoError(t, err)

	assert.Equal(t, "nightly", job.Metadata.Name)
	require.Len(t, job.Spec.Sources, 1)
	require.NotNil(t, job.Spec.Sources[0].File)
	assert.Equal(t, "/tmp/data", job.Spec.Sources[0].File.Root)
	require.Len(t, job.Spec.Steps, 1)
	require.NotNil(t, job.Spec.Steps[0].FileScan)
}

func TestParseJob_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "wrong kind",
			data: "kind: Job\nmetadata:\n  name: x\nspec:\n  steps:\n    - id: a\n      static:\n        value: '1'\n",
		},
		{
			name: "missing name",
			data: "kind: PipelineJob\nspec:\n  steps:\n    - id: a\n      static:\n        value: '1'\n",
		},
		{
			name: "no steps",
			data: "kind: PipelineJob\nmetadata:\n  name: x\nspec: {}\n",
		},
		{
			name: "not yaml",
			data: "{kind: [",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJob([]byte(tt.data))
			require.Error(t, err)
		})
	}
}

func TestRunner_Run_DefaultJob(t *testing.T) {
	cfg := testConfig(t)

	require.NoError(t, os.MkdirAll(cfg.InputDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.InputDir, "sample.json"), []byte(`{"a":1}`), 0o644))

	logger := zap.NewNop()
	registry := BuildRegistry(logger, cfg)
	r := NewRunner(logger, cfg, registry, DefaultJob(cfg))

	summary, err := r.Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, v1.StatusSuccess, summary.Status)
	assert.Equal(t, 1, summary.ProcessedCount)
	assert.Equal(t, []string{"scan"}, summary.Results)
	assert.Equal(t, filepath.Clean(cfg.OutputDir), summary.OutputDir)
	assert.Empty(t, summary.Note)

	scanData, err := os.ReadFile(filepath.Join(cfg.OutputDir, "scan.json"))
	require.NoError(t, err)

	var scan map[string]any
	require.NoError(t, json.Unmarshal(scanData, &scan))
	assert.Equal(t, float64(1), scan["count"])

	summaryData, err := os.ReadFile(filepath.Join(cfg.OutputDir, "processing_summary.json"))
	require.NoError(t, err)

	var written v1.RunSummary
	require.NoError(t, json.Unmarshal(summaryData, &written))
	assert.Equal(t, summary.Status, written.Status)
	assert.Equal(t, summary.ProcessedCount, written.ProcessedCount)
}

func TestRunner_Run_CreatesWorkspace(t *testing.T) {
	cfg := testConfig(t)

	logger := zap.NewNop()
	registry := BuildRegistry(logger, cfg)
	r := NewRunner(logger, cfg, registry, DefaultJob(cfg))

	_, err := r.Run(t.Context())
	require.NoError(t, err)

	for _, dir := range []string{cfg.InputDir, cfg.OutputDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestRunner_Run_NoResults(t *testing.T) {
	cfg := testConfig(t)

	job := &v1.PipelineJob{
		Kind:     "PipelineJob",
		Metadata: v1.Metadata{Name: "empty"},
		Spec:     v1.PipelineJobSpec{},
	}

	logger := zap.NewNop()
	registry := BuildRegistry(logger, cfg)
	r := NewRunner(logger, cfg, registry, job)

	summary, err := r.Run(t.Context())
	require.NoError(t, err)

	assert.Equal(t, v1.StatusInfo, summary.Status)
	assert.Zero(t, summary.ProcessedCount)
	assert.NotEmpty(t, summary.Note)
}

func TestRunner_Run_AllowedEnv(t *testing.T) {
	cfg := testConfig(t)
	t.Setenv("MSDS_TEST_GREETING", "hello")

	job := &v1.PipelineJob{
		Kind:     "PipelineJob",
		Metadata: v1.Metadata{Name: "env"},
		Spec: v1.PipelineJobSpec{
			Steps: []v1.Step{
				{
					ID: "greet",
					Exec: &v1.ExecStep{
						Program: []string{"echo", "${MSDS_TEST_GREETING}"},
						Format:  strPtr("raw"),
					},
				},
			},
		},
	}

	logger := zap.NewNop()
	registry := BuildRegistry(logger, cfg)
	r := NewRunner(logger, cfg, registry, job, WithAllowedEnv([]string{"MSDS_TEST_GREETING"}))

	summary, err := r.Run(t.Context())
	require.NoError(t, err)
	assert.Equal(t, v1.StatusSuccess, summary.Status)
	assert.Equal(t, []string{"greet"}, summary.Results)
}

func TestRunner_Run_UnknownSourceReference(t *testing.T) {
	cfg := testConfig(t)

	job := &v1.PipelineJob{
		Kind:     "PipelineJob",
		Metadata: v1.Metadata{Name: "broken"},
		Spec: v1.PipelineJobSpec{
			Steps: []v1.Step{
				{
					ID:       "scan",
					Source:   strPtr("nowhere"),
					FileScan: &v1.FileScanStep{},
				},
			},
		},
	}

	logger := zap.NewNop()
	registry := BuildRegistry(logger, cfg)
	r := NewRunner(logger, cfg, registry, job)

	_, err := r.Run(t.Context())
	require.Error(t, err)
	assert.ErrorContains(t, err, "unknown source 'nowhere'")
}

func strPtr(s string) *string {
	return &s
}
