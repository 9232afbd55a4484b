package file

import (
	"context"

	v1 "github.com/msds-io/msds/apis/v1"
	"github.com/msds-io/msds/internal/engine"
	"go.uber.org/zap"
)

// Register registers the file source and step factories with the registry.
func Register(r *engine.Registry) {
	r.RegisterSource(SourceKind, engine.NewSourceFactory(SourceKind, newSource))
	r.RegisterStep(ScanStepKind, engine.NewStepFactory(ScanStepKind, newScanStep))
	r.RegisterStep(ReadStepKind, engine.NewStepFactory(ReadStepKind, newReadStep))
}

func newSource(_ context.Context, _ *zap.Logger, spec *v1.FileSource) (engine.Source, error) {
	return NewSource(Config{Root: spec.Root})
}

func newScanStep(_ context.Context, _ *zap.Logger, id string, source *Source, spec *v1.FileScanStep) (engine.Step, error) {
	return NewScanStep(source, ScanConfig{Pattern: spec.Pattern})
}

func newReadStep(_ context.Context, _ *zap.Logger, id string, source *Source, spec *v1.FileReadStep) (engine.Step, error) {
	return NewReadStep(source, ReadConfig{Path: spec.Path, ParseAs: spec.ParseAs})
}
