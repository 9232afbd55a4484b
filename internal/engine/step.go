package engine

import "context"

// Step produces a single Result when resolved.
type Step interface {
	Named
	Resolve(ctx context.Context) (Result, error)
}

type StepFunc func(ctx context.Context) (Result, error)

type stepFunction struct {
	name string
	kind string
	fn   StepFunc
}

func (s *stepFunction) Name() string { return s.name }
func (s *stepFunction) Kind() string { return s.kind }

func (s *stepFunction) Resolve(ctx context.Context) (Result, error) {
	return s.fn(ctx)
}

// StepFunction wraps a plain function into a Step.
func StepFunction(name string, kind string, fn StepFunc) Step {
	return &stepFunction{name: name, kind: kind, fn: fn}
}
