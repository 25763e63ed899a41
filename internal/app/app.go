package app

import (
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Selector usecase.ArtifactSelector

	// Use cases
	CompileArtifact *usecase.CompileArtifact
	DeployContract  *usecase.DeployContract
	ListArtifacts   *usecase.ListArtifacts
	ListNetworks    *usecase.ListNetworks
	FetchCode       *usecase.FetchCode
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	selector usecase.ArtifactSelector,
	compileArtifact *usecase.CompileArtifact,
	deployContract *usecase.DeployContract,
	listArtifacts *usecase.ListArtifacts,
	listNetworks *usecase.ListNetworks,
	fetchCode *usecase.FetchCode,
) (*App, error) {
	return &App{
		Config:          cfg,
		Selector:        selector,
		CompileArtifact: compileArtifact,
		DeployContract:  deployContract,
		ListArtifacts:   listArtifacts,
		ListNetworks:    listNetworks,
		FetchCode:       fetchCode,
	}, nil
}
