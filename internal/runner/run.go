// Package runner turns a job document into a configured pipeline, executes
// it, and writes the results and a run summary to the configured sink.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	v1 "github.com/msds-io/msds/apis/v1"
	"github.com/msds-io/msds/internal/config"
	"github.com/msds-io/msds/internal/engine"
	"github.com/msds-io/msds/internal/workspace"
)

const summaryFilename = "processing_summary.json"

// ParseJob decodes and validates a YAML job document.
func ParseJob(data []byte) (*v1.PipelineJob, error) {
	var job v1.PipelineJob
	if err := yaml.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("failed to parse job: %w", err)
	}

	if err := defaultValidator.Struct(&job); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}

	return &job, nil
}

// Runner executes a single job against the configured workspace.
type Runner struct {
	logger     *zap.Logger
	cfg        config.Config
	registry   *engine.Registry
	job        *v1.PipelineJob
	allowedEnv []string
	fs         afero.Fs
}

type RunnerOption func(*Runner)

// WithAllowedEnv names the environment variables the job may reference in
// templates.
func WithAllowedEnv(names []string) RunnerOption {
	return func(r *Runner) {
		r.allowedEnv = names
	}
}

func WithFs(fs afero.Fs) RunnerOption {
	return func(r *Runner) {
		r.fs = fs
	}
}

func NewRunner(logger *zap.Logger, cfg config.Config, registry *engine.Registry, job *v1.PipelineJob, opts ...RunnerOption) *Runner {
	r := &Runner{
		logger:   logger,
		cfg:      cfg,
		registry: registry,
		job:      job,
		fs:       afero.NewOsFs(),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Run executes the job end to end: it prepares the workspace, expands
// templates, starts the sources, runs the pipeline, and writes every result
// plus a summary record through the configured sink.
func (r *Runner) Run(ctx context.Context) (v1.RunSummary, error) {
	layout := workspace.NewLayout(r.cfg.InputDir, r.cfg.OutputDir)
	if err := layout.Ensure(r.fs); err != nil {
		return v1.RunSummary{}, fmt.Errorf("failed to prepare workspace: %w", err)
	}

	pipeline := engine.NewPipeline(r.job.Metadata.Name)

	vars, err := BuildVariables(pipeline.Name(), pipeline.Date(), r.allowedEnv)
	if err != nil {
		return v1.RunSummary{}, err
	}

	if err := ExpandTemplates(r.job, vars); err != nil {
		return v1.RunSummary{}, fmt.Errorf("failed to expand templates: %w", err)
	}

	if err := populatePipeline(ctx, r.registry, r.job, pipeline); err != nil {
		return v1.RunSummary{}, err
	}

	for id, source := range pipeline.Sources() {
		r.logger.Debug("starting source", zap.String("id", id), zap.String("source", source.Name()))
		if err := source.Start(ctx); err != nil {
			return v1.RunSummary{}, fmt.Errorf("failed to start source '%s': %w", id, err)
		}
	}
	defer func() {
		closeCtx := context.WithoutCancel(ctx)
		for id, source := range pipeline.Sources() {
			if err := source.Close(closeCtx); err != nil {
				r.logger.Warn("failed to close source", zap.String("id", id), zap.Error(err))
			}
		}
	}()

	r.logger.Info("running pipeline",
		zap.String("job", pipeline.Name()),
		zap.Int("steps", len(pipeline.Steps())),
	)

	results, err := pipeline.Run(ctx)
	if err != nil {
		return v1.RunSummary{}, err
	}

	bundle, err := buildSink(ctx, r.cfg, pipeline.Name(), r.job.Spec.Output)
	if err != nil {
		return v1.RunSummary{}, err
	}

	encoder := buildEncoder(r.job.Spec.Output)

	summary := r.buildSummary(results, bundle)

	if err := r.writeResults(ctx, bundle, encoder, pipeline, results, summary); err != nil {
		return v1.RunSummary{}, err
	}

	if err := bundle.sink.Close(ctx); err != nil {
		return v1.RunSummary{}, fmt.Errorf("failed to close sink: %w", err)
	}

	r.logger.Info("run complete",
		zap.String("status", string(summary.Status)),
		zap.Int("processed", summary.ProcessedCount),
	)

	return summary, nil
}

func (r *Runner) buildSummary(results map[string]engine.Result, bundle sinkBundle) v1.RunSummary {
	summary := v1.NewRunSummary()
	summary.ProcessedCount = len(results)
	summary.OutputDir = bundle.location

	ids := lo.Keys(results)
	slices.Sort(ids)
	summary.Results = ids

	if len(results) == 0 {
		summary.Status = v1.StatusInfo
		summary.Note = "no results produced, add steps or input data"
	}

	return summary
}

func (r *Runner) writeResults(
	ctx context.Context,
	bundle sinkBundle,
	encoder engine.Encoder,
	pipeline *engine.Pipeline,
	results map[string]engine.Result,
	summary v1.RunSummary,
) error {
	for _, entry := range pipeline.Steps() {
		result, ok := results[entry.ID]
		if !ok {
			continue
		}

		reader, err := encoder.EncodeResult(ctx, result)
		if err != nil {
			return fmt.Errorf("failed to encode result '%s': %w", entry.ID, err)
		}

		filename := bundle.prefix + entry.ID + "." + encoder.FileExtension()
		if err := bundle.sink.Write(ctx, filename, reader); err != nil {
			return fmt.Errorf("failed to write result '%s': %w", entry.ID, err)
		}

		r.logger.Debug("wrote result", zap.String("id", entry.ID), zap.String("file", filename))
	}

	reader, err := encodeSummary(summary)
	if err != nil {
		return err
	}

	if err := bundle.sink.Write(ctx, bundle.prefix+summaryFilename, reader); err != nil {
		return fmt.Errorf("failed to write run summary: %w", err)
	}

	return nil
}

func encodeSummary(summary v1.RunSummary) (*strings.Reader, error) {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode run summary: %w", err)
	}
	return strings.NewReader(string(data) + "\n"), nil
}
