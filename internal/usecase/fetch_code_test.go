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

func TestFetchCode(t *testing.T) {
	ctx := context.Background()
	cfg := &config.RuntimeConfig{
		NetworkName: "local",
		Network:     &config.Network{Name: "local", RPCURL: "http://127.0.0.1:8545", ChainID: 31337},
	}

	newUseCase := func() (*usecase.FetchCode, *MockChainClient, *MockFileWriter) {
		client := new(MockChainClient)
		writer := new(MockFileWriter)
		return usecase.NewFetchCode(cfg, client, writer, &recordingSink{}, discardLogger()), client, writer
	}

	connected := func(client *MockChainClient) {
		client.On("Connect", mock.Anything, "http://127.0.0.1:8545", uint64(31337)).Return(nil)
		client.On("Close").Return()
	}

	t.Run("checksums the address and returns the code", func(t *testing.T) {
		uc, client, writer := newUseCase()
		connected(client)
		client.On("GetCode", mock.Anything, deployedAddr).Return([]byte{0x60, 0x80}, nil)

		result, err := uc.Run(ctx, usecase.FetchCodeParams{Address: deployedAddrLower})
		require.NoError(t, err)
		assert.Equal(t, deployedAddr, result.Address)
		assert.Equal(t, "0x6080", result.Hex())
		assert.False(t, result.Empty())
		assert.Empty(t, result.Written)
		writer.AssertNotCalled(t, "WriteFile", mock.Anything, mock.Anything, mock.Anything)
		client.AssertExpectations(t)
	})

	t.Run("writes to a file", func(t *testing.T) {
		uc, client, writer := newUseCase()
		connected(client)
		client.On("GetCode", mock.Anything, deployedAddr).Return([]byte{0x60, 0x80}, nil)
		writer.On("WriteFile", mock.Anything, "out/code.hex", []byte("0x6080\n")).Return(nil)

		result, err := uc.Run(ctx, usecase.FetchCodeParams{Address: deployedAddr, OutPath: "out/code.hex"})
		require.NoError(t, err)
		assert.Equal(t, "out/code.hex", result.Written)
		writer.AssertExpectations(t)
	})

	t.Run("no code is not an error", func(t *testing.T) {
		uc, client, writer := newUseCase()
		connected(client)
		client.On("GetCode", mock.Anything, deployedAddr).Return([]byte{}, nil)

		result, err := uc.Run(ctx, usecase.FetchCodeParams{Address: deployedAddr, OutPath: "out/code.hex"})
		require.NoError(t, err)
		assert.True(t, result.Empty())
		writer.AssertNotCalled(t, "WriteFile", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("invalid address fails before connecting", func(t *testing.T) {
		uc, client, _ := newUseCase()

		_, err := uc.Run(ctx, usecase.FetchCodeParams{Address: "0x1234"})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidAddress)
		assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
		client.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("connection failure", func(t *testing.T) {
		uc, client, _ := newUseCase()
		client.On("Connect", mock.Anything, mock.Anything, mock.Anything).Return(&domain.NetworkError{
			Type: domain.NetworkUnreachable,
			Op:   "dial",
			Err:  errors.New("connection refused"),
		})

		_, err := uc.Run(ctx, usecase.FetchCodeParams{Address: deployedAddr})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "[connect]")
		assert.Equal(t, domain.KindNetwork, domain.KindOf(err))
	})
}
