package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// ConfigFileName is the project configuration file
const ConfigFileName = "catapult.toml"

// loadEnvFiles loads .env files from the project root. Variables already
// present in the process environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadCatapultConfig loads and parses catapult.toml if it exists.
// Returns (nil, nil) when catapult.toml does not exist.
func loadCatapultConfig(projectRoot string) (*config.CatapultFileConfig, error) {
	path := filepath.Join(projectRoot, ConfigFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	var cfg config.CatapultFileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	// Expand environment variables in network definitions
	for name, network := range cfg.Networks {
		network.Name = name
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		network.ExplorerURL = os.ExpandEnv(network.ExplorerURL)
		cfg.Networks[name] = network
	}
	cfg.Compiler.Solc = os.ExpandEnv(cfg.Compiler.Solc)

	return &cfg, nil
}

// mergeDeployConfig overlays file values on top of the defaults
func mergeDeployConfig(base config.DeployConfig, file config.DeployFileConfig) config.DeployConfig {
	if file.ConfirmationTimeout != nil {
		base.ConfirmationTimeout = *file.ConfirmationTimeout
	}
	if file.PollInterval != nil {
		base.PollInterval = *file.PollInterval
	}
	if file.GasLimit != nil {
		base.GasLimit = *file.GasLimit
	}
	if file.SubmitMode != "" {
		base.SubmitMode = config.SubmitMode(file.SubmitMode)
	}
	if file.CheckCode != nil {
		base.CheckCode = *file.CheckCode
	}
	if file.SignerEnv != "" {
		base.SignerEnv = file.SignerEnv
	}
	if file.HandoffFormat != "" {
		base.HandoffFormat = file.HandoffFormat
	}
	return base
}

// mergeCompilerConfig overlays file values on top of the defaults
func mergeCompilerConfig(base config.CompilerConfig, file config.CompilerFileConfig) config.CompilerConfig {
	if file.Solc != "" {
		base.Solc = file.Solc
	}
	if file.EVMVersion != "" {
		base.EVMVersion = file.EVMVersion
	}
	if file.Optimizer != nil {
		base.Optimizer = *file.Optimizer
	}
	if file.OptimizerRuns != nil {
		base.OptimizerRuns = *file.OptimizerRuns
	}
	if file.SourcesDir != "" {
		base.SourcesDir = file.SourcesDir
	}
	return base
}
