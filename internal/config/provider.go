package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// flagKeys maps CLI flag names to viper keys where they differ from the
// dash-to-underscore convention
var flagKeys = map[string]string{
	"confirmation-timeout": "deploy.confirmation_timeout",
	"poll-interval":        "deploy.poll_interval",
	"submit-mode":          "deploy.submit_mode",
	"gas-limit":            "deploy.gas_limit",
	"handoff-format":       "deploy.handoff_format",
	"solc":                 "compiler.solc",
	"evm-version":          "compiler.evm_version",
	"optimizer-runs":       "compiler.runs",
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	// Get project root from viper
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			// compile works outside a configured project
			if projectRoot, err = os.Getwd(); err != nil {
				return nil, fmt.Errorf("failed to determine working directory: %w", err)
			}
		}
	}

	loadEnvFiles(projectRoot)

	fileConfig, err := loadCatapultConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	dataDir := v.GetString("data_dir")
	if dataDir == "" {
		dataDir = ".catapult"
	}
	if !filepath.IsAbs(dataDir) {
		dataDir = filepath.Join(projectRoot, dataDir)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        dataDir,
		NetworkName:    v.GetString("network"),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		AssumeYes:      v.GetBool("yes"),
		Timeout:        v.GetDuration("timeout"),
		Deploy:         config.DefaultDeployConfig(),
		Compiler:       config.DefaultCompilerConfig(),
	}

	if fileConfig != nil {
		cfg.ConfigFile = filepath.Join(projectRoot, ConfigFileName)
		cfg.Deploy = mergeDeployConfig(cfg.Deploy, fileConfig.Deploy)
		cfg.Compiler = mergeCompilerConfig(cfg.Compiler, fileConfig.Compiler)
	}
	applyOverrides(v, cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}

	cfg.Networks = resolveNetworks(fileConfig)
	cfg.Network = selectNetwork(cfg.Networks, cfg.NetworkName, v.GetString("rpc_url"), v.GetUint64("chain_id"))

	// The signer is read here and nowhere else
	cfg.Signer = strings.TrimSpace(os.Getenv(cfg.Deploy.SignerEnv))

	return cfg, nil
}

// applyOverrides applies values set through flags or CATAPULT_* env vars
func applyOverrides(v *viper.Viper, cfg *config.RuntimeConfig) {
	if v.IsSet("deploy.confirmation_timeout") {
		cfg.Deploy.ConfirmationTimeout = v.GetDuration("deploy.confirmation_timeout")
	}
	if v.IsSet("deploy.poll_interval") {
		cfg.Deploy.PollInterval = v.GetDuration("deploy.poll_interval")
	}
	if v.IsSet("deploy.gas_limit") {
		cfg.Deploy.GasLimit = v.GetUint64("deploy.gas_limit")
	}
	if v.IsSet("deploy.submit_mode") {
		cfg.Deploy.SubmitMode = config.SubmitMode(v.GetString("deploy.submit_mode"))
	}
	if v.IsSet("deploy.check_code") {
		cfg.Deploy.CheckCode = v.GetBool("deploy.check_code")
	}
	if v.IsSet("deploy.signer_env") {
		cfg.Deploy.SignerEnv = v.GetString("deploy.signer_env")
	}
	if v.IsSet("deploy.handoff_format") {
		cfg.Deploy.HandoffFormat = v.GetString("deploy.handoff_format")
	}
	if v.IsSet("compiler.solc") {
		cfg.Compiler.Solc = v.GetString("compiler.solc")
	}
	if v.IsSet("compiler.evm_version") {
		cfg.Compiler.EVMVersion = v.GetString("compiler.evm_version")
	}
	if v.IsSet("compiler.optimizer") {
		cfg.Compiler.Optimizer = v.GetBool("compiler.optimizer")
	}
	if v.IsSet("compiler.runs") {
		cfg.Compiler.OptimizerRuns = v.GetInt("compiler.runs")
	}
}

func validate(cfg *config.RuntimeConfig) error {
	switch cfg.Deploy.SubmitMode {
	case config.SubmitModeSignedTx, config.SubmitModeBind:
	default:
		return fmt.Errorf("invalid deploy.submit_mode %q (expected %q or %q)",
			cfg.Deploy.SubmitMode, config.SubmitModeSignedTx, config.SubmitModeBind)
	}
	switch cfg.Deploy.HandoffFormat {
	case "json", "yaml":
	default:
		return fmt.Errorf("invalid deploy.handoff_format %q (expected json or yaml)", cfg.Deploy.HandoffFormat)
	}
	if cfg.Deploy.PollInterval <= 0 {
		return fmt.Errorf("deploy.poll_interval must be positive")
	}
	return nil
}

// selectNetwork picks the active network. An explicit RPC URL overrides the
// configured endpoint, or defines an ad-hoc network when the name is unknown.
func selectNetwork(networks map[string]config.Network, name, rpcURL string, chainID uint64) *config.Network {
	network, ok := networks[name]
	if !ok {
		if rpcURL == "" {
			return nil
		}
		if name == "" {
			name = "custom"
		}
		network = config.Network{Name: name}
	}
	if rpcURL != "" {
		network.RPCURL = rpcURL
	}
	if chainID != 0 {
		network.ChainID = chainID
	}
	return &network
}

// FindProjectRoot walks up from the working directory looking for catapult.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a catapult project (%s not found)", ConfigFileName)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("CATAPULT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "30m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(flagKey(f.Name), f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

func flagKey(name string) string {
	if key, ok := flagKeys[name]; ok {
		return key
	}
	return strings.ReplaceAll(name, "-", "_")
}
