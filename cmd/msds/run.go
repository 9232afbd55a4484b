package main

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	v1 "github.com/msds-io/msds/apis/v1"
	"github.com/msds-io/msds/internal/config"
	"github.com/msds-io/msds/internal/engine"
	"github.com/msds-io/msds/internal/runner"
)

var runCommand = &cli.Command{
	Name:  "run",
	Usage: "Run a job and write its results to the configured output",
	Flags: []cli.Flag{
		&cli.StringSliceFlag{
			Name:  "allowed-env",
			Usage: "Environment variables allowed in job configuration (can be repeated)",
		},
	},
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name:      "job",
			UsageText: "The job file to run (defaults to scanning the input directory)",
		},
	},
	Action: func(ctx context.Context, command *cli.Command) error {
		logger := getLogger(ctx)

		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}

		injector := runner.BuildContainer(logger, cfg)

		var job *v1.PipelineJob
		if jobFilename := command.StringArg("job"); jobFilename != "" {
			jobFile, name, err := readJobFile(ctx, jobFilename)
			if err != nil {
				return fmt.Errorf("failed to read job file '%s': %w", jobFilename, err)
			}

			job, err = runner.ParseJob(jobFile)
			if err != nil {
				return fmt.Errorf("job file '%s': %w", name, err)
			}
		} else {
			logger.Debug("no job file given, using the default job")
			job = runner.DefaultJob(cfg)
		}

		registry := do.MustInvoke[*engine.Registry](injector)
		r := runner.NewRunner(
			logger.Named("runner"),
			cfg,
			registry,
			job,
			runner.WithAllowedEnv(command.StringSlice("allowed-env")),
		)

		summary, err := r.Run(ctx)
		if err != nil {
			return fmt.Errorf("failed to run job: %w", err)
		}

		logger.Info("job finished",
			zap.String("status", string(summary.Status)),
			zap.Int("processed", summary.ProcessedCount),
			zap.String("output_dir", summary.OutputDir),
		)

		return nil
	},
}
