package injector

import (
	"github.com/etomica/etomica/internal/config"
	"github.com/etomica/etomica/internal/core/observability/log"
	"github.com/etomica/etomica/internal/core/simulation"
	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	log.Provide,
	wire.Bind(new(log.Log), new(*log.Logger)),
	ProvideSimulation,
)

// ProvideSimulation builds the simulation described by cfg.
func ProvideSimulation(cfg *config.Config, logger log.Log) (*simulation.Simulation, error) {
	return simulation.Build(cfg, simulation.WithLogger(logger))
}
