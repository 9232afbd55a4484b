package steps

import (
	"context"

	v1 "github.com/msds-io/msds/apis/v1"
	"github.com/msds-io/msds/internal/engine"
	"go.uber.org/zap"
)

// Register registers the source-independent step factories with the registry.
func Register(registry *engine.Registry) {
	registry.RegisterStep(
		StaticStepKind,
		engine.NewStepFactoryWithoutSource(StaticStepKind, newStaticStep),
	)
	registry.RegisterStep(
		ExecStepKind,
		engine.NewStepFactoryWithoutSource(ExecStepKind, newExecStep),
	)
}

func newStaticStep(_ context.Context, _ *zap.Logger, id string, spec *v1.StaticStep) (engine.Step, error) {
	return NewStaticStep(id, StaticStepConfig{
		Filepath: spec.Filepath,
		Value:    spec.Value,
		ParseAs:  spec.ParseAs,
	})
}

func newExecStep(_ context.Context, logger *zap.Logger, id string, spec *v1.ExecStep) (engine.Step, error) {
	return NewExecStep(id, logger.Named("exec"), ExecStepConfig{
		Program:    spec.Program,
		Input:      spec.Input,
		WorkingDir: spec.WorkingDir,
		Timeout:    spec.Timeout,
		Format:     spec.Format,
		Env:        spec.Env,
	})
}
