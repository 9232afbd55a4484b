package http

import (
	"context"
	"time"

	v1 "github.com/msds-io/msds/apis/v1"
	"github.com/msds-io/msds/internal/engine"
	"go.uber.org/zap"
)

// Register registers the http source and step factories with the registry.
// defaultTimeout applies to sources that do not declare their own timeout
// (it comes from the DATA_SOURCE_TIMEOUT configuration).
func Register(r *engine.Registry, defaultTimeout time.Duration) {
	r.RegisterSource(SourceKind, engine.NewSourceFactory(SourceKind, sourceFactory(defaultTimeout)))
	r.RegisterStep(GetStepKind, engine.NewStepFactory(GetStepKind, newGetStep))
}

func sourceFactory(defaultTimeout time.Duration) engine.TypedSourceFactory[*v1.HTTPSource] {
	return func(_ context.Context, _ *zap.Logger, spec *v1.HTTPSource) (engine.Source, error) {
		cfg := Config{
			BaseURL:  spec.BaseURL,
			Headers:  spec.Headers,
			Timeout:  defaultTimeout,
			Insecure: spec.Insecure,
		}

		if spec.Auth != nil && spec.Auth.Basic != nil {
			cfg.Auth = &AuthConfig{
				Basic: &BasicAuthConfig{
					Username: spec.Auth.Basic.Username,
					Password: spec.Auth.Basic.Password,
					Encoded:  spec.Auth.Basic.Encoded,
				},
			}
		}

		if spec.Timeout != nil {
			cfg.Timeout = time.Duration(*spec.Timeout) * time.Second
		}

		return NewSource(cfg)
	}
}

func newGetStep(_ context.Context, _ *zap.Logger, id string, source *Source, spec *v1.HTTPGetStep) (engine.Step, error) {
	return NewGetStep(source, GetConfig{
		Path:         spec.Path,
		Headers:      spec.Headers,
		Params:       spec.Params,
		ResponseType: spec.ResponseType,
	})
}
