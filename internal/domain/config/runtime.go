package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string

	// Context settings
	NetworkName string
	Network     *Network // nil if not specified or unknown
	Networks    map[string]Network

	// Execution settings
	Debug          bool
	NonInteractive bool
	AssumeYes      bool
	Timeout        time.Duration

	// Signer credential, read once from the environment by the provider
	Signer string

	Deploy   DeployConfig
	Compiler CompilerConfig

	// Config source tracking
	ConfigFile string
}

// Network represents network configuration
type Network struct {
	Name        string `toml:"-" json:"name"`
	RPCURL      string `toml:"url" json:"rpcUrl"`
	ChainID     uint64 `toml:"chain_id" json:"chainId"`
	ExplorerURL string `toml:"explorer_url" json:"explorerUrl,omitempty"`
}

// SubmitMode selects how contract creation transactions are sent
type SubmitMode string

const (
	// SubmitModeSignedTx builds and signs the transaction directly
	SubmitModeSignedTx SubmitMode = "signed-tx"
	// SubmitModeBind goes through the abigen style bind.DeployContract path
	SubmitModeBind SubmitMode = "bind"
)

// DeployConfig holds settings for the deployment pipeline
type DeployConfig struct {
	ConfirmationTimeout time.Duration `toml:"confirmation_timeout"`
	PollInterval        time.Duration `toml:"poll_interval"`
	GasLimit            uint64        `toml:"gas_limit"`
	SubmitMode          SubmitMode    `toml:"submit_mode"`
	CheckCode           bool          `toml:"check_code"`
	SignerEnv           string        `toml:"signer_env"`
	HandoffFormat       string        `toml:"handoff_format"`
}

// CompilerConfig holds settings passed to solc
type CompilerConfig struct {
	Solc          string `toml:"solc"`
	EVMVersion    string `toml:"evm_version"`
	Optimizer     bool   `toml:"optimizer"`
	OptimizerRuns int    `toml:"runs"`
	SourcesDir    string `toml:"sources"`
}
