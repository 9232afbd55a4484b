// Package steps provides pipeline steps that do not depend on a source.
package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/msds-io/msds/internal/engine"
	"github.com/spf13/afero"
)

const StaticStepKind = "static"

type StaticStepConfig struct {
	Filepath *string
	Value    *string
	ParseAs  *string
}

func NewStaticStep(name string, cfg StaticStepConfig) (engine.Step, error) {
	if cfg.Filepath != nil && cfg.Value != nil {
		return nil, fmt.Errorf("both filepath and value are set")
	}

	if cfg.Filepath == nil && cfg.Value == nil {
		return nil, fmt.Errorf("neither filepath nor value are set")
	}

	if cfg.Filepath != nil {
		rootDir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}

		fs := afero.NewBasePathFs(afero.NewOsFs(), rootDir)
		return newStaticFileStep(name, fs, cfg), nil
	}

	return newStaticValueStep(name, *cfg.Value, cfg.ParseAs), nil
}

func newStaticFileStep(name string, fs afero.Fs, cfg StaticStepConfig) engine.Step {
	return engine.StepFunction(name, StaticStepKind, func(ctx context.Context) (engine.Result, error) {
		data, err := afero.ReadFile(fs, *cfg.Filepath)
		if err != nil {
			return engine.Result{}, fmt.Errorf("failed to read filepath %s: %w", *cfg.Filepath, err)
		}

		meta := map[string]string{"filepath": *cfg.Filepath}

		parseAs := "raw"
		if strings.HasSuffix(*cfg.Filepath, ".json") {
			parseAs = "json"
		}
		if cfg.ParseAs != nil {
			parseAs = *cfg.ParseAs
		}

		if parseAs == "json" {
			var parsed any
			if err := json.Unmarshal(data, &parsed); err != nil {
				return engine.Result{}, fmt.Errorf("failed to parse as json %s: %w", *cfg.Filepath, err)
			}
			return engine.Result{Data: parsed, Meta: meta}, nil
		}

		return engine.Result{Data: map[string]any{filepath.Base(*cfg.Filepath): string(data)}, Meta: meta}, nil
	})
}

func newStaticValueStep(name string, value string, parseAs *string) engine.Step {
	return engine.StepFunction(name, StaticStepKind, func(ctx context.Context) (engine.Result, error) {
		if parseAs != nil && *parseAs == "json" {
			var parsed any
			if err := json.Unmarshal([]byte(value), &parsed); err != nil {
				return engine.Result{}, fmt.Errorf("failed to parse as json %s: %w", value, err)
			}
			return engine.Result{Data: parsed}, nil
		}
		return engine.Result{Data: map[string]any{"value": value}}, nil
	})
}
