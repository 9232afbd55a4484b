package engine

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

type SourceFactory func(ctx context.Context, logger *zap.Logger, input any) (Source, error)
type StepFactory func(ctx context.Context, logger *zap.Logger, id string, source Source, input any) (Step, error)

// TypedSourceFactory is a strongly-typed source factory.
// T is the concrete spec type (e.g. *v1.HTTPSource).
type TypedSourceFactory[T any] func(ctx context.Context, logger *zap.Logger, spec T) (Source, error)

// TypedStepFactory is a strongly-typed step factory.
// C is the concrete source type (e.g. *http.Source).
// S is the concrete step spec type (e.g. *v1.HTTPGetStep).
type TypedStepFactory[C Source, S any] func(ctx context.Context, logger *zap.Logger, id string, source C, spec S) (Step, error)

// TypedStepFactoryWithoutSource is a strongly-typed step factory for steps
// that don't require a source (e.g. static, exec).
type TypedStepFactoryWithoutSource[S any] func(ctx context.Context, logger *zap.Logger, id string, spec S) (Step, error)

// NewSourceFactory wraps a typed source factory into a generic SourceFactory.
// It centralizes the unsafe cast from any → T and provides a clear error if the type mismatches.
func NewSourceFactory[T any](kind string, f TypedSourceFactory[T]) SourceFactory {
	return func(ctx context.Context, logger *zap.Logger, input any) (Source, error) {
		spec, ok := input.(T)
		if !ok {
			return nil, fmt.Errorf("invalid source spec for kind %q: %T", kind, input)
		}
		return f(ctx, logger, spec)
	}
}

// NewStepFactory wraps a typed step factory into a generic StepFactory.
// It centralizes the unsafe casts from Source → C and any → S and provides clear errors.
func NewStepFactory[C Source, S any](kind string, f TypedStepFactory[C, S]) StepFactory {
	return func(ctx context.Context, logger *zap.Logger, id string, source Source, input any) (Step, error) {
		if source == nil {
			return nil, fmt.Errorf("step kind %q requires a source, got nil", kind)
		}

		typedSource, ok := source.(C)
		if !ok {
			return nil, fmt.Errorf("invalid source type for step %q with id %s: %T", kind, id, source)
		}

		spec, ok := input.(S)
		if !ok {
			return nil, fmt.Errorf("invalid step spec for kind %q with id %s: %T", kind, id, input)
		}

		return f(ctx, logger, id, typedSource, spec)
	}
}

// NewStepFactoryWithoutSource wraps a typed step factory for steps that don't require a source.
// It centralizes the unsafe cast from any → S and provides a clear error if the type mismatches.
func NewStepFactoryWithoutSource[S any](kind string, f TypedStepFactoryWithoutSource[S]) StepFactory {
	return func(ctx context.Context, logger *zap.Logger, id string, _ Source, input any) (Step, error) {
		spec, ok := input.(S)
		if !ok {
			return nil, fmt.Errorf("invalid step spec for kind %q with id %s: %T", kind, id, input)
		}

		return f(ctx, logger, id, spec)
	}
}

// UnsupportedTypeError is returned when a source or step kind is not registered.
type UnsupportedTypeError struct {
	Category  string   // "source" or "step"
	Kind      string   // the requested kind
	Available []string // registered kinds
}

func (e *UnsupportedTypeError) Error() string {
	if len(e.Available) == 0 {
		return fmt.Sprintf("unsupported %s type %q: no %ss registered", e.Category, e.Kind, e.Category)
	}
	return fmt.Sprintf("unsupported %s type %q (available: %v)", e.Category, e.Kind, e.Available)
}

type Registry struct {
	mu      sync.RWMutex
	sources map[string]SourceFactory
	steps   map[string]StepFactory
	logger  *zap.Logger
}

func NewRegistry(logger *zap.Logger) *Registry {
	return &Registry{
		sources: make(map[string]SourceFactory),
		steps:   make(map[string]StepFactory),
		logger:  logger,
	}
}

func (r *Registry) RegisterSource(kind string, factory SourceFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources[kind] = factory
}

func (r *Registry) RegisterStep(kind string, factory StepFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps[kind] = factory
}

func (r *Registry) CreateSource(ctx context.Context, kind string, spec any) (Source, error) {
	r.mu.RLock()
	factory, ok := r.sources[kind]
	available := r.availableSources()
	r.mu.RUnlock()
	if !ok {
		return nil, &UnsupportedTypeError{Category: "source", Kind: kind, Available: available}
	}
	return factory(ctx, r.logger, spec)
}

func (r *Registry) CreateStep(ctx context.Context, kind string, id string, source Source, spec any) (Step, error) {
	r.mu.RLock()
	factory, ok := r.steps[kind]
	available := r.availableSteps()
	r.mu.RUnlock()
	if !ok {
		return nil, &UnsupportedTypeError{Category: "step", Kind: kind, Available: available}
	}
	return factory(ctx, r.logger, id, source, spec)
}

func (r *Registry) AvailableSources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.availableSources()
}

func (r *Registry) availableSources() []string {
	sources := lo.Keys(r.sources)
	slices.Sort(sources)
	return sources
}

func (r *Registry) AvailableSteps() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.availableSteps()
}

func (r *Registry) availableSteps() []string {
	steps := lo.Keys(r.steps)
	slices.Sort(steps)
	return steps
}
