//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/catapult/internal/adapters"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/logging"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewDefaultAddressResolver,
		usecase.NewCompileArtifact,
		usecase.NewDeployContract,
		usecase.NewListArtifacts,
		usecase.NewListNetworks,
		usecase.NewFetchCode,

		// App
		NewApp,
	)
	return nil, nil
}
