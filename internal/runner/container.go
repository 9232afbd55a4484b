package runner

import (
	"github.com/go-playground/validator/v10"
	"github.com/samber/do/v2"
	"go.uber.org/zap"

	"github.com/msds-io/msds/internal/config"
	"github.com/msds-io/msds/internal/engine"
	"github.com/msds-io/msds/internal/engine/steps"
	filesource "github.com/msds-io/msds/internal/sources/file"
	httpsource "github.com/msds-io/msds/internal/sources/http"
)

var defaultValidator = validator.New(validator.WithRequiredStructEnabled())

// BuildContainer wires the logger, configuration and registry into a DI
// container for the CLI commands.
func BuildContainer(logger *zap.Logger, cfg config.Config) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, logger)
	do.ProvideValue(injector, cfg)
	do.Provide(injector, func(i do.Injector) (*engine.Registry, error) {
		return BuildRegistry(do.MustInvoke[*zap.Logger](i), do.MustInvoke[config.Config](i)), nil
	})

	return injector
}

// BuildRegistry registers every built-in source and step factory.
func BuildRegistry(logger *zap.Logger, cfg config.Config) *engine.Registry {
	registry := engine.NewRegistry(logger)

	filesource.Register(registry)
	httpsource.Register(registry, cfg.DataSourceTimeout)
	steps.Register(registry)

	return registry
}
