package runner

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/samber/lo"

	v1 "github.com/msds-io/msds/apis/v1"
	"github.com/msds-io/msds/internal/config"
	"github.com/msds-io/msds/internal/engine"
	"github.com/msds-io/msds/internal/engine/archivers"
	"github.com/msds-io/msds/internal/engine/encoders"
	"github.com/msds-io/msds/internal/engine/sinks"
)

// populatePipeline instantiates sources and steps from the job document and
// adds them to the pipeline.
func populatePipeline(ctx context.Context, registry *engine.Registry, job *v1.PipelineJob, pipeline *engine.Pipeline) error {
	for _, sourceSpec := range job.Spec.Sources {
		resolved, err := ResolveSourceSpec(sourceSpec)
		if err != nil {
			return err
		}

		source, err := registry.CreateSource(ctx, resolved.Kind, resolved.Spec)
		if err != nil {
			return fmt.Errorf("failed to create source '%s': %w", sourceSpec.ID, err)
		}

		if err := pipeline.AddSource(sourceSpec.ID, source); err != nil {
			return err
		}
	}

	for _, stepSpec := range job.Spec.Steps {
		resolved, err := ResolveStepSpec(stepSpec)
		if err != nil {
			return err
		}

		var source engine.Source
		if stepSpec.Source != nil {
			var ok bool
			source, ok = pipeline.GetSource(*stepSpec.Source)
			if !ok {
				return fmt.Errorf("step '%s' references unknown source '%s'", stepSpec.ID, *stepSpec.Source)
			}
		}

		step, err := registry.CreateStep(ctx, resolved.Kind, stepSpec.ID, source, resolved.Spec)
		if err != nil {
			return fmt.Errorf("failed to create step '%s': %w", stepSpec.ID, err)
		}

		if err := pipeline.AddStep(stepSpec.ID, step); err != nil {
			return err
		}
	}

	return nil
}

func buildEncoder(output *v1.OutputSpec) engine.Encoder {
	if output != nil && output.Encoding != nil && output.Encoding.JSON != nil {
		return encoders.NewJSONEncoder(output.Encoding.JSON.Indent)
	}

	return encoders.NewJSONEncoder("")
}

// sinkBundle is the assembled output destination: the sink itself, the
// filename prefix for result files, and a human-readable location for the
// run summary.
type sinkBundle struct {
	sink     engine.Sink
	prefix   string
	location string
}

func buildSink(ctx context.Context, cfg config.Config, jobName string, output *v1.OutputSpec) (sinkBundle, error) {
	bundle, err := buildBaseSink(ctx, cfg, output)
	if err != nil {
		return sinkBundle{}, err
	}

	if output == nil || output.Archive == nil {
		return bundle, nil
	}

	if _, ok := bundle.sink.(*sinks.StreamSink); ok {
		return sinkBundle{}, fmt.Errorf("stdout sink cannot be used with archive output")
	}

	archiver, err := archivers.NewTarArchiver(output.Archive.Compression)
	if err != nil {
		return sinkBundle{}, fmt.Errorf("failed to create archiver: %w", err)
	}

	archiveName := output.Archive.Name
	if archiveName == "" {
		archiveName = jobName + archiver.Extension()
	}

	bundle.sink = sinks.NewArchiveSink(bundle.sink, archiver, archiveName)
	return bundle, nil
}

func buildBaseSink(ctx context.Context, cfg config.Config, output *v1.OutputSpec) (sinkBundle, error) {
	if output == nil || output.Sink == nil {
		path := filepath.Clean(cfg.OutputDir)
		sink, err := sinks.NewFilesystemSinkFromPath(path)
		if err != nil {
			return sinkBundle{}, err
		}
		return sinkBundle{sink: sink, location: path}, nil
	}

	spec := output.Sink
	switch {
	case spec.Stdout != nil:
		return sinkBundle{sink: sinks.NewStdoutSink()}, nil

	case spec.Filesystem != nil:
		path := filepath.Clean(lo.FromPtrOr(spec.Filesystem.Path, cfg.OutputDir))
		sink, err := sinks.NewFilesystemSinkFromPath(path)
		if err != nil {
			return sinkBundle{}, err
		}
		return sinkBundle{
			sink:     sink,
			prefix:   lo.FromPtr(spec.Filesystem.Prefix),
			location: path,
		}, nil

	case spec.S3 != nil:
		s3Cfg := sinks.S3Config{
			Bucket:         spec.S3.Bucket,
			Region:         lo.FromPtr(spec.S3.Region),
			Endpoint:       lo.FromPtr(spec.S3.Endpoint),
			Prefix:         lo.FromPtr(spec.S3.Prefix),
			ForcePathStyle: spec.S3.ForcePathStyle,
		}
		if spec.S3.Credentials != nil {
			s3Cfg.AccessKeyID = spec.S3.Credentials.AccessKeyID
			s3Cfg.SecretAccessKey = spec.S3.Credentials.SecretAccessKey
		}

		sink, err := sinks.NewS3Sink(ctx, s3Cfg)
		if err != nil {
			return sinkBundle{}, err
		}
		return sinkBundle{sink: sink, location: "s3://" + spec.S3.Bucket}, nil

	default:
		return sinkBundle{}, fmt.Errorf("output sink declares no type")
	}
}

// DefaultJob is the job executed when no job file is given: scan the input
// directory and write the file listing to the output directory.
func DefaultJob(cfg config.Config) *v1.PipelineJob {
	return &v1.PipelineJob{
		Kind: "PipelineJob",
		Metadata: v1.Metadata{
			Name: "poc",
		},
		Spec: v1.PipelineJobSpec{
			Sources: []v1.Source{
				{
					ID:   "input",
					File: &v1.FileSource{Root: cfg.InputDir},
				},
			},
			Steps: []v1.Step{
				{
					ID:       "scan",
					Source:   lo.ToPtr("input"),
					FileScan: &v1.FileScanStep{},
				},
			},
			Output: &v1.OutputSpec{
				Encoding: &v1.EncodingSpec{
					JSON: &v1.JSONEncodingSpec{Indent: "  "},
				},
				Sink: &v1.SinkSpec{
					Filesystem: &v1.FilesystemSpec{
						Path: lo.ToPtr(cfg.OutputDir),
					},
				},
			},
		},
	}
}
