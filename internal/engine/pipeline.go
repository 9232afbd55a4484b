package engine

import (
	"context"
	"fmt"
	"time"
)

// StepEntry holds a step with its ID for ordered execution.
type StepEntry struct {
	ID   string
	Step Step
}

// Pipeline holds the sources and ordered steps of a single run. Steps execute
// sequentially in declaration order.
type Pipeline struct {
	name    string
	date    time.Time
	sources map[string]Source
	steps   []StepEntry
}

func NewPipeline(name string) *Pipeline {
	return &Pipeline{
		name:    name,
		date:    time.Now().UTC(),
		sources: make(map[string]Source),
		steps:   nil,
	}
}

func (p *Pipeline) AddSource(id string, source Source) error {
	if _, ok := p.sources[id]; ok {
		return fmt.Errorf("source %s already exists", id)
	}

	p.sources[id] = source
	return nil
}

func (p *Pipeline) AddStep(id string, step Step) error {
	for _, entry := range p.steps {
		if entry.ID == id {
			return fmt.Errorf("step %s already exists", id)
		}
	}

	p.steps = append(p.steps, StepEntry{ID: id, Step: step})
	return nil
}

func (p *Pipeline) Name() string {
	return p.name
}

func (p *Pipeline) Date() time.Time {
	return p.date
}

func (p *Pipeline) Sources() map[string]Source {
	return p.sources
}

func (p *Pipeline) Steps() []StepEntry {
	return p.steps
}

func (p *Pipeline) GetSource(id string) (Source, bool) {
	source, ok := p.sources[id]
	if !ok {
		return nil, false
	}
	return source, true
}

func (p *Pipeline) Run(ctx context.Context) (map[string]Result, error) {
	results := make(map[string]Result)

	for _, entry := range p.steps {
		// Check context cancellation before each step
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled while running pipeline at step '%s': %w", entry.ID, err)
		}

		result, err := entry.Step.Resolve(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve step '%s': %w", entry.ID, err)
		}

		result.ID = entry.ID

		results[entry.ID] = result
	}

	return results, nil
}
