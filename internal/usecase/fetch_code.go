package usecase

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// FetchCodeParams contains parameters for fetching deployed bytecode
type FetchCodeParams struct {
	Address string
	// OutPath, when set, receives the bytecode as a 0x-prefixed hex line
	OutPath string
}

// FetchCodeResult contains the code found at an address
type FetchCodeResult struct {
	Address string
	Network domain.Network
	Code    []byte
	Written string
}

// Empty reports whether the address holds no contract
func (r *FetchCodeResult) Empty() bool {
	return len(r.Code) == 0
}

// Hex returns the code as 0x-prefixed hex
func (r *FetchCodeResult) Hex() string {
	return "0x" + hex.EncodeToString(r.Code)
}

// FetchCode reads the runtime bytecode deployed at an address
type FetchCode struct {
	cfg    *config.RuntimeConfig
	client ChainClient
	writer FileWriter
	sink   ProgressSink
	log    *slog.Logger
}

// NewFetchCode creates a new FetchCode use case
func NewFetchCode(cfg *config.RuntimeConfig, client ChainClient, writer FileWriter, sink ProgressSink, log *slog.Logger) *FetchCode {
	return &FetchCode{
		cfg:    cfg,
		client: client,
		writer: writer,
		sink:   sink,
		log:    log.With("component", "fetch_code"),
	}
}

// Run executes the use case
func (uc *FetchCode) Run(ctx context.Context, params FetchCodeParams) (*FetchCodeResult, error) {
	if !common.IsHexAddress(params.Address) {
		return nil, domain.AtStage(domain.StageConfig, &domain.ConfigurationError{
			Field:  "address",
			Reason: fmt.Sprintf("%q is not a valid address", params.Address),
			Err:    domain.ErrInvalidAddress,
		})
	}
	address := common.HexToAddress(params.Address).Hex()

	network, err := selectedNetwork(uc.cfg)
	if err != nil {
		return nil, domain.AtStage(domain.StageConfig, err)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "connecting",
		Message: fmt.Sprintf("Connecting to %s", network.Name),
		Spinner: true,
	})
	if err := uc.client.Connect(ctx, network.RPCURL, network.ChainID); err != nil {
		return nil, domain.AtStage(domain.StageConnect, err)
	}
	defer uc.client.Close()
	if network.ChainID == 0 {
		network.ChainID = uc.client.ChainID()
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "fetching",
		Message: fmt.Sprintf("Fetching code at %s", address),
		Spinner: true,
	})
	code, err := uc.client.GetCode(ctx, address)
	if err != nil {
		return nil, domain.AtStage(domain.StageVerifyCode, err)
	}

	result := &FetchCodeResult{Address: address, Network: network, Code: code}
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "fetched",
		Message: fmt.Sprintf("Fetched %d bytes", len(code)),
	})

	if params.OutPath != "" && !result.Empty() {
		if err := uc.writer.WriteFile(ctx, params.OutPath, []byte(result.Hex()+"\n")); err != nil {
			return nil, domain.AtStage(domain.StageHandoff, fmt.Errorf("failed to write %s: %w", params.OutPath, err))
		}
		result.Written = params.OutPath
		uc.log.Debug("bytecode written", "path", params.OutPath, "bytes", len(code))
	}

	return result, nil
}
