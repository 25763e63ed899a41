package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func TestListArtifacts(t *testing.T) {
	ctx := context.Background()

	t.Run("summaries with unreadable entries", func(t *testing.T) {
		store := new(MockArtifactStore)
		store.On("List", mock.Anything).Return([]string{"Broken", "Greeter"}, nil)
		store.On("Load", mock.Anything, "Broken").Return(nil, errors.New("unexpected end of JSON input"))
		store.On("Load", mock.Anything, "Greeter").Return(greeterArtifact(), nil)

		result, err := usecase.NewListArtifacts(store, discardLogger()).Run(ctx)
		require.NoError(t, err)
		require.Len(t, result.Artifacts, 2)

		assert.Equal(t, "Broken", result.Artifacts[0].Name)
		assert.Error(t, result.Artifacts[0].Error)

		greeter := result.Artifacts[1]
		assert.NoError(t, greeter.Error)
		assert.Equal(t, "Greeter.sol", greeter.SourceName)
		assert.Equal(t, 1, greeter.ABIEntries)
		assert.Equal(t, 5, greeter.BytecodeSize)
		assert.Equal(t, "v0.8.24", greeter.CompilerVersion)
	})

	t.Run("list failure", func(t *testing.T) {
		store := new(MockArtifactStore)
		store.On("List", mock.Anything).Return(nil, errors.New("permission denied"))

		_, err := usecase.NewListArtifacts(store, discardLogger()).Run(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "permission denied")
	})
}

func TestListNetworks(t *testing.T) {
	cfg := &config.RuntimeConfig{
		NetworkName: "local",
		Networks: map[string]config.Network{
			"sepolia": {Name: "sepolia", RPCURL: "https://sepolia.example.org", ChainID: 11155111},
			"local":   {Name: "local", RPCURL: "http://127.0.0.1:8545", ChainID: 31337},
			"mainnet": {Name: "mainnet", ChainID: 1},
		},
	}

	result, err := usecase.NewListNetworks(cfg).Run(context.Background(), usecase.ListNetworksParams{})
	require.NoError(t, err)

	require.Len(t, result.Networks, 3)
	assert.Equal(t, "local", result.Current)
	assert.Equal(t, "local", result.Networks[0].Name)
	assert.True(t, result.Networks[0].Current)
	assert.Equal(t, "mainnet", result.Networks[1].Name)
	assert.Equal(t, domain.KindConfiguration, domain.KindOf(result.Networks[1].Error))
	assert.Equal(t, "sepolia", result.Networks[2].Name)
	assert.False(t, result.Networks[2].Current)
	assert.NoError(t, result.Networks[2].Error)
}
