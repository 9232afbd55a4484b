package file

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSource(t *testing.T, files map[string]string) *Source {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		dir := filepath.Dir(path)
		if dir != "" {
			require.NoError(t, fs.MkdirAll(dir, 0755))
		}
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}

	source, err := NewSource(Config{Root: "/data"}, WithFs(fs))
	require.NoError(t, err)
	return source
}

func TestNewSource_Validation(t *testing.T) {
	_, err := NewSource(Config{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "root is required")
}

func TestSource_Start(t *testing.T) {
	t.Run("existing root", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("data", 0755))

		source, err := NewSource(Config{Root: "input"}, WithFs(afero.NewBasePathFs(fs, "data")))
		require.NoError(t, err)
		require.NoError(t, source.Start(t.Context()))
	})

	t.Run("missing root", func(t *testing.T) {
		fs := afero.NewMemMapFs()

		source, err := NewSource(Config{Root: "input"}, WithFs(afero.NewBasePathFs(fs, "missing")))
		require.NoError(t, err)

		err = source.Start(t.Context())
		require.Error(t, err)
		assert.ErrorContains(t, err, "does not exist")
	})
}

func TestScanStep(t *testing.T) {
	tests := []struct {
		name      string
		files     map[string]string
		pattern   string
		wantCount int
		wantPaths []string
	}{
		{
			name: "matches all files by default",
			files: map[string]string{
				"a.pdf":        "one",
				"b.pdf":        "two",
				"nested/c.txt": "three",
			},
			pattern:   "",
			wantCount: 3,
			wantPaths: []string{"a.pdf", "b.pdf", "nested/c.txt"},
		},
		{
			name: "filters by pattern",
			files: map[string]string{
				"a.pdf":  "one",
				"b.pdf":  "two",
				"c.json": "{}",
			},
			pattern:   "*.pdf",
			wantCount: 2,
			wantPaths: []string{"a.pdf", "b.pdf"},
		},
		{
			name:      "empty directory",
			files:     nil,
			pattern:   "",
			wantCount: 0,
			wantPaths: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newTestSource(t, tt.files)

			step, err := NewScanStep(source, ScanConfig{Pattern: tt.pattern})
			require.NoError(t, err)

			result, err := step.Resolve(t.Context())
			require.NoError(t, err)

			data, ok := result.Data.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tt.wantCount, data["count"])

			files, _ := data["files"].([]map[string]any)
			var paths []string
			for _, f := range files {
				paths = append(paths, f["path"].(string))
			}
			assert.Equal(t, tt.wantPaths, paths)
		})
	}
}

func TestScanStep_InvalidPattern(t *testing.T) {
	source := newTestSource(t, nil)

	_, err := NewScanStep(source, ScanConfig{Pattern: "[unclosed"})
	require.Error(t, err)
	assert.ErrorContains(t, err, "invalid pattern")
}

func TestReadStep(t *testing.T) {
	tests := []struct {
		name        string
		files       map[string]string
		path        string
		parseAs     *string
		wantData    any
		wantErr     bool
		errContains string
	}{
		{
			name:     "reads plain file",
			files:    map[string]string{"notes.txt": "hello"},
			path:     "notes.txt",
			wantData: map[string]any{"notes.txt": "hello"},
		},
		{
			name:     "auto-parses JSON file",
			files:    map[string]string{"data.json": `{"count": 2}`},
			path:     "data.json",
			wantData: map[string]any{"count": float64(2)},
		},
		{
			name:     "raw overrides JSON parsing",
			files:    map[string]string{"data.json": `{"count": 2}`},
			path:     "data.json",
			parseAs:  lo.ToPtr("raw"),
			wantData: map[string]any{"data.json": `{"count": 2}`},
		},
		{
			name:     "json overrides extension",
			files:    map[string]string{"data.txt": `{"count": 2}`},
			path:     "data.txt",
			parseAs:  lo.ToPtr("json"),
			wantData: map[string]any{"count": float64(2)},
		},
		{
			name:        "missing file",
			files:       nil,
			path:        "missing.txt",
			wantErr:     true,
			errContains: "failed to read",
		},
		{
			name:        "invalid JSON",
			files:       map[string]string{"bad.json": "{nope"},
			path:        "bad.json",
			wantErr:     true,
			errContains: "failed to parse as json",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := newTestSource(t, tt.files)

			step, err := NewReadStep(source, ReadConfig{Path: tt.path, ParseAs: tt.parseAs})
			require.NoError(t, err)

			result, err := step.Resolve(t.Context())
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.errContains)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantData, result.Data)
			assert.Equal(t, tt.path, result.Meta["path"])
		})
	}
}

func TestReadStep_Validation(t *testing.T) {
	source := newTestSource(t, nil)

	_, err := NewReadStep(source, ReadConfig{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "path is required")
}
