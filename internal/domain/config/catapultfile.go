package config

import "time"

// CatapultFileConfig represents the raw catapult.toml structure
type CatapultFileConfig struct {
	Networks map[string]Network `toml:"networks"`
	Compiler CompilerFileConfig `toml:"compiler"`
	Deploy   DeployFileConfig   `toml:"deploy"`
}

// CompilerFileConfig is the [compiler] section. Pointers distinguish unset
// values from explicit zero values.
type CompilerFileConfig struct {
	Solc          string `toml:"solc"`
	EVMVersion    string `toml:"evm_version"`
	Optimizer     *bool  `toml:"optimizer"`
	OptimizerRuns *int   `toml:"runs"`
	SourcesDir    string `toml:"sources"`
}

// DeployFileConfig is the [deploy] section
type DeployFileConfig struct {
	ConfirmationTimeout *time.Duration `toml:"confirmation_timeout"`
	PollInterval        *time.Duration `toml:"poll_interval"`
	GasLimit            *uint64        `toml:"gas_limit"`
	SubmitMode          string         `toml:"submit_mode"`
	CheckCode           *bool          `toml:"check_code"`
	SignerEnv           string         `toml:"signer_env"`
	HandoffFormat       string         `toml:"handoff_format"`
}

// DefaultDeployConfig returns the deploy settings used when nothing is configured
func DefaultDeployConfig() DeployConfig {
	return DeployConfig{
		ConfirmationTimeout: 5 * time.Minute,
		PollInterval:        2 * time.Second,
		SubmitMode:          SubmitModeSignedTx,
		CheckCode:           true,
		SignerEnv:           "DEPLOYER_PRIVATE_KEY",
		HandoffFormat:       "json",
	}
}

// DefaultCompilerConfig mirrors the usual hardhat settings: optimizer on, 200 runs
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		Solc:          "solc",
		Optimizer:     true,
		OptimizerRuns: 200,
		SourcesDir:    "contracts",
	}
}
