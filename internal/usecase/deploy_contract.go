package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// DeployContractParams contains parameters for a deployment
type DeployContractParams struct {
	// Name of the stored artifact
	Name string
	// SourcePath is compiled when the artifact is not stored yet
	SourcePath      string
	ContractName    string
	ConstructorArgs []string
	// SkipCodeCheck disables the post-resolution code presence check
	SkipCodeCheck bool
}

// DeployContract orchestrates a single deployment: load or compile the
// artifact, validate configuration, submit, confirm, resolve the address and
// hand off a verification record. Any failing stage aborts the rest.
type DeployContract struct {
	cfg       *config.RuntimeConfig
	store     ArtifactStore
	compile   *CompileArtifact
	encoder   ArgumentEncoder
	client    ChainClient
	resolver  *AddressResolver
	handoff   HandoffWriter
	confirmer Confirmer
	sink      ProgressSink
	log       *slog.Logger
	now       func() time.Time
}

// NewDeployContract creates a new DeployContract use case
func NewDeployContract(
	cfg *config.RuntimeConfig,
	store ArtifactStore,
	compile *CompileArtifact,
	encoder ArgumentEncoder,
	client ChainClient,
	resolver *AddressResolver,
	handoff HandoffWriter,
	confirmer Confirmer,
	sink ProgressSink,
	log *slog.Logger,
) *DeployContract {
	return &DeployContract{
		cfg:       cfg,
		store:     store,
		compile:   compile,
		encoder:   encoder,
		client:    client,
		resolver:  resolver,
		handoff:   handoff,
		confirmer: confirmer,
		sink:      sink,
		log:       log.With("component", "deploy_contract"),
		now:       time.Now,
	}
}

// Run executes the deployment pipeline
func (uc *DeployContract) Run(ctx context.Context, params DeployContractParams) (*domain.DeploymentResult, error) {
	artifact, name, err := uc.loadOrCompile(ctx, params)
	if err != nil {
		return nil, err
	}

	network, err := selectedNetwork(uc.cfg)
	if err != nil {
		return nil, domain.AtStage(domain.StageConfig, err)
	}
	if uc.cfg.Signer == "" {
		return nil, domain.AtStage(domain.StageConfig, &domain.ConfigurationError{
			Field:  uc.cfg.Deploy.SignerEnv,
			Reason: "signer credential is not set",
		})
	}
	signer := domain.Signer(uc.cfg.Signer)

	deployer, err := uc.client.SignerAddress(signer)
	if err != nil {
		return nil, domain.AtStage(domain.StageConfig, &domain.ConfigurationError{
			Field:  uc.cfg.Deploy.SignerEnv,
			Reason: "signer credential is not a valid private key",
			Err:    err,
		})
	}

	encodedArgs, err := uc.encoder.EncodeConstructorArgs(artifact, params.ConstructorArgs)
	if err != nil {
		return nil, domain.AtStage(domain.StageConfig, &domain.ConfigurationError{
			Field:  "constructor arguments",
			Reason: "cannot encode for " + artifact.ContractName,
			Err:    err,
		})
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

	uc.sink.Info(fmt.Sprintf("Network: %s (chain %d)", network.Name, network.ChainID))
	uc.sink.Info(fmt.Sprintf("Deployer: %s", deployer))
	if balance, err := uc.client.Balance(ctx, deployer); err != nil {
		uc.log.Warn("failed to fetch deployer balance", "error", err)
	} else {
		uc.sink.Info(fmt.Sprintf("Balance: %s", balance))
	}

	if err := uc.confirmBroadcast(ctx, network, artifact.ContractName); err != nil {
		return nil, domain.AtStage(domain.StageConfig, err)
	}

	request := &domain.DeploymentRequest{
		Name:            name,
		Artifact:        artifact,
		ConstructorArgs: append([]string(nil), params.ConstructorArgs...),
		Network:         network,
		Signer:          signer,
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "submitting",
		Message: fmt.Sprintf("Deploying %s", artifact.ContractName),
		Spinner: true,
	})
	pending, err := uc.client.Submit(ctx, request)
	if err != nil {
		return nil, domain.AtStage(domain.StageSubmit, err)
	}
	uc.log.Info("deployment transaction sent", "tx_hash", pending.TransactionHash, "nonce", pending.Nonce)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "confirming",
		Message: fmt.Sprintf("Waiting for %s", pending.TransactionHash),
		Spinner: true,
	})
	receipt, err := uc.client.AwaitConfirmation(ctx, pending)
	if err != nil {
		return nil, domain.AtStage(domain.StageConfirm, err)
	}
	if receipt.Status != domain.ReceiptStatusSuccess {
		return nil, domain.AtStage(domain.StageConfirm, &domain.DeploymentError{
			Type:            domain.DeploymentReverted,
			TransactionHash: pending.TransactionHash,
		})
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "resolving",
		Message: "Resolving contract address",
		Spinner: true,
	})
	resolution, err := uc.resolver.Resolve(ctx, pending, receipt)
	if err != nil {
		return nil, domain.AtStage(domain.StageResolve, err)
	}

	if uc.cfg.Deploy.CheckCode && !params.SkipCodeCheck {
		uc.sink.OnProgress(ctx, ProgressEvent{
			Stage:   "verifying",
			Message: fmt.Sprintf("Checking code at %s", resolution.Address),
			Spinner: true,
		})
		code, err := uc.client.GetCode(ctx, resolution.Address)
		if err != nil {
			return nil, domain.AtStage(domain.StageVerifyCode, err)
		}
		if len(code) == 0 {
			return nil, domain.AtStage(domain.StageVerifyCode, &domain.DeploymentError{
				Type:            domain.DeploymentNoCode,
				TransactionHash: pending.TransactionHash,
				Address:         resolution.Address,
			})
		}
	}

	result := &domain.DeploymentResult{
		Name:                   name,
		Contract:               artifact.ContractName,
		SourceName:             artifact.SourceName,
		SourcePath:             artifact.SourcePath,
		Address:                resolution.Address,
		TransactionHash:        pending.TransactionHash,
		Network:                network,
		ConstructorArgs:        request.ConstructorArgs,
		EncodedConstructorArgs: encodedArgs,
		Compiler:               artifact.Compiler,
		ResolvedBy:             resolution.Strategy,
	}
	if receipt.BlockNumber != nil {
		result.BlockNumber = *receipt.BlockNumber
	}

	result.HandoffPath = uc.writeHandoff(ctx, name, result)

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Message: fmt.Sprintf("%s deployed at %s", artifact.ContractName, resolution.Address),
	})

	return result, nil
}

// loadOrCompile returns the stored artifact, compiling only on a store miss
func (uc *DeployContract) loadOrCompile(ctx context.Context, params DeployContractParams) (*domain.CompilationArtifact, string, error) {
	name := artifactName(params)
	if name == "" {
		return nil, "", domain.AtStage(domain.StageConfig, &domain.ConfigurationError{
			Field:  "artifact",
			Reason: "no artifact name or source file given",
		})
	}

	artifact, err := uc.store.Load(ctx, name)
	if err == nil {
		uc.log.Debug("using stored artifact", "name", name)
		return artifact, name, nil
	}
	if !errors.Is(err, domain.ErrNotFound) || params.SourcePath == "" {
		return nil, "", domain.AtStage(domain.StageArtifact, err)
	}

	compiled, err := uc.compile.Run(ctx, CompileArtifactParams{
		SourcePath:   params.SourcePath,
		ContractName: params.ContractName,
		Name:         name,
	})
	if err != nil {
		return nil, "", err
	}
	return compiled.Artifact, compiled.Name, nil
}

// artifactName derives the store key: explicit name, then contract name, then
// the source file name without extension
func artifactName(params DeployContractParams) string {
	switch {
	case params.Name != "":
		return params.Name
	case params.ContractName != "":
		return params.ContractName
	case params.SourcePath != "":
		return strings.TrimSuffix(filepath.Base(params.SourcePath), filepath.Ext(params.SourcePath))
	}
	return ""
}

// selectedNetwork returns the network chosen for this invocation
func selectedNetwork(cfg *config.RuntimeConfig) (domain.Network, error) {
	if cfg.Network == nil {
		if cfg.NetworkName == "" {
			return domain.Network{}, &domain.ConfigurationError{
				Field:  "network",
				Reason: "no network selected (use --network)",
			}
		}
		return domain.Network{}, &domain.ConfigurationError{
			Field:  "network",
			Reason: fmt.Sprintf("unknown network %q", cfg.NetworkName),
		}
	}
	network := cfg.Network
	if strings.TrimSpace(network.RPCURL) == "" {
		return domain.Network{}, &domain.ConfigurationError{
			Field:  "network",
			Reason: fmt.Sprintf("network %q has no RPC endpoint", network.Name),
		}
	}
	return domain.Network{
		Name:        network.Name,
		RPCURL:      network.RPCURL,
		ChainID:     network.ChainID,
		ExplorerURL: network.ExplorerURL,
	}, nil
}

func (uc *DeployContract) confirmBroadcast(ctx context.Context, network domain.Network, contract string) error {
	if network.IsLocal() || uc.cfg.AssumeYes || uc.cfg.NonInteractive || uc.confirmer == nil {
		return nil
	}
	// settle the spinner so the prompt owns the terminal
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "connecting",
		Message: fmt.Sprintf("Connected to %s (chain %d)", network.Name, network.ChainID),
	})
	ok, err := uc.confirmer.Confirm(ctx, fmt.Sprintf("Deploy %s to %s (chain %d)", contract, network.Name, network.ChainID))
	if err != nil {
		return &domain.ConfigurationError{Field: "confirmation", Reason: "prompt failed", Err: err}
	}
	if !ok {
		return &domain.ConfigurationError{Field: "confirmation", Reason: "deployment cancelled by operator"}
	}
	return nil
}

// writeHandoff records the deployment for a verification tool. A failure here
// does not undo a successful deployment, so it is reported and not returned.
func (uc *DeployContract) writeHandoff(ctx context.Context, name string, result *domain.DeploymentResult) string {
	record := &domain.VerificationRecord{
		Contract:               result.Contract,
		SourceName:             result.SourceName,
		SourcePath:             result.SourcePath,
		Address:                result.Address,
		Network:                result.Network.Name,
		ChainID:                result.Network.ChainID,
		ExplorerURL:            result.Network.ExplorerURL,
		ConstructorArgs:        result.ConstructorArgs,
		EncodedConstructorArgs: result.EncodedConstructorArgs,
		TransactionHash:        result.TransactionHash,
		CompilerVersion:        result.Compiler.Version,
		OptimizerEnabled:       result.Compiler.OptimizerEnabled,
		OptimizerRuns:          result.Compiler.OptimizerRuns,
		CreatedAt:              uc.now().UTC(),
	}
	if record.ConstructorArgs == nil {
		record.ConstructorArgs = []string{}
	}

	path, err := uc.handoff.Write(ctx, name, record)
	if err != nil {
		uc.log.Error("failed to write verification record", "error", err)
		uc.sink.Error(domain.AtStage(domain.StageHandoff, err).Error())
		return ""
	}
	return path
}
