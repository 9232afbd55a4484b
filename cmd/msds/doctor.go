package main

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/msds-io/msds/internal/config"
	"github.com/msds-io/msds/internal/workspace"
)

var doctorCommand = &cli.Command{
	Name:  "doctor",
	Usage: "Check that the environment and workspace are ready for a run",
	Action: func(ctx context.Context, command *cli.Command) error {
		logger := getLogger(ctx)

		cfg, err := config.FromEnv()
		if err != nil {
			return err
		}

		logger.Debug("configuration loaded",
			zap.String("env", cfg.Env),
			zap.String("input_dir", cfg.InputDir),
			zap.String("output_dir", cfg.OutputDir),
			zap.Duration("data_source_timeout", cfg.DataSourceTimeout),
		)

		layout := workspace.NewLayout(cfg.InputDir, cfg.OutputDir)
		if err := layout.Verify(afero.NewOsFs()); err != nil {
			return fmt.Errorf("workspace check failed: %w", err)
		}

		fmt.Println("✓ configuration is valid")
		fmt.Printf("✓ input directory '%s' exists\n", layout.InputDir)
		fmt.Printf("✓ output directory '%s' exists\n", layout.OutputDir)
		fmt.Printf("✓ assets directory '%s' exists\n", layout.AssetsDir)
		return nil
	},
}
