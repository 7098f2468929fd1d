//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/etomica/etomica/internal/config"
	"github.com/etomica/etomica/internal/core/simulation"
	"github.com/google/wire"
)

func InitializeSimulation(cfg *config.Config) (*simulation.Simulation, error) {
	wire.Build(ProviderSet)
	return nil, nil
}
