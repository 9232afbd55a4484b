package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/msds-io/msds/internal/engine"
	"github.com/spf13/afero"
)

// ScanConfig configures a file_scan step.
type ScanConfig struct {
	// Pattern is a glob matched against file names (default "*").
	Pattern string
}

type scanStep struct {
	source  *Source
	pattern string
}

// NewScanStep lists the files under the source root whose names match the
// configured glob pattern.
func NewScanStep(source *Source, cfg ScanConfig) (engine.Step, error) {
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = "*"
	}

	// Fail early on malformed patterns
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	return &scanStep{source: source, pattern: pattern}, nil
}

func (s *scanStep) Name() string {
	return fmt.Sprintf("%s(%s)", ScanStepKind, s.pattern)
}

func (s *scanStep) Kind() string {
	return ScanStepKind
}

func (s *scanStep) Resolve(ctx context.Context) (engine.Result, error) {
	var files []map[string]any

	err := afero.Walk(s.source.Fs(), ".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if info.IsDir() {
			return nil
		}

		matched, err := filepath.Match(s.pattern, info.Name())
		if err != nil {
			return err
		}
		if !matched {
			return nil
		}

		files = append(files, map[string]any{
			"name":     info.Name(),
			"path":     filepath.ToSlash(path),
			"size":     info.Size(),
			"modified": info.ModTime().UTC(),
		})
		return nil
	})
	if err != nil {
		return engine.Result{}, fmt.Errorf("failed to scan %s: %w", s.source.Name(), err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i]["path"].(string) < files[j]["path"].(string)
	})

	return engine.Result{
		Data: map[string]any{
			"files": files,
			"count": len(files),
		},
		Meta: map[string]string{"pattern": s.pattern},
	}, nil
}

// ReadConfig configures a file_read step.
type ReadConfig struct {
	Path    string
	ParseAs *string
}

type readStep struct {
	source *Source
	config ReadConfig
}

// NewReadStep reads a single file from the source. Files with a .json
// extension are parsed by default; an explicit parse_as wins over the
// extension either way.
func NewReadStep(source *Source, cfg ReadConfig) (engine.Step, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("path is required")
	}

	return &readStep{source: source, config: cfg}, nil
}

func (s *readStep) Name() string {
	return fmt.Sprintf("%s(%s)", ReadStepKind, s.config.Path)
}

func (s *readStep) Kind() string {
	return ReadStepKind
}

func (s *readStep) Resolve(ctx context.Context) (engine.Result, error) {
	data, err := afero.ReadFile(s.source.Fs(), s.config.Path)
	if err != nil {
		return engine.Result{}, fmt.Errorf("failed to read %s: %w", s.config.Path, err)
	}

	meta := map[string]string{"path": s.config.Path}

	parseAs := "raw"
	if strings.HasSuffix(s.config.Path, ".json") {
		parseAs = "json"
	}
	if s.config.ParseAs != nil {
		parseAs = *s.config.ParseAs
	}

	if parseAs == "json" {
		var parsed any
		if err := json.Unmarshal(data, &parsed); err != nil {
			return engine.Result{}, fmt.Errorf("failed to parse as json %s: %w", s.config.Path, err)
		}
		return engine.Result{Data: parsed, Meta: meta}, nil
	}

	return engine.Result{Data: map[string]any{filepath.Base(s.config.Path): string(data)}, Meta: meta}, nil
}
