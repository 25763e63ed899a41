package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

func writeProjectFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func newTestViper(projectRoot string) *viper.Viper {
	v := viper.New()
	v.Set("project_root", projectRoot)
	return v
}

func TestProviderDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Provider(newTestViper(dir))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, ".catapult"), cfg.DataDir)
	assert.Empty(t, cfg.ConfigFile)
	assert.Equal(t, config.DefaultDeployConfig(), cfg.Deploy)
	assert.Equal(t, config.DefaultCompilerConfig(), cfg.Compiler)
	assert.Nil(t, cfg.Network)
	assert.Contains(t, cfg.Networks, "local")
	assert.Equal(t, "local", cfg.Networks["local"].Name)
}

func TestProviderReadsCatapultToml(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TEST_SEPOLIA_RPC", "https://sepolia.example.org")
	t.Setenv("MY_DEPLOY_KEY", "  0xabc123  ")
	writeProjectFile(t, dir, ConfigFileName, `
[networks.sepolia]
url = "${TEST_SEPOLIA_RPC}"
chain_id = 11155111

[networks.local]
url = "http://127.0.0.1:9545"
chain_id = 31337

[compiler]
solc = "/opt/solc-0.8.24"
optimizer = false
evm_version = "paris"

[deploy]
confirmation_timeout = "90s"
submit_mode = "bind"
check_code = false
signer_env = "MY_DEPLOY_KEY"
handoff_format = "yaml"
`)

	v := newTestViper(dir)
	v.Set("network", "sepolia")

	cfg, err := Provider(v)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.ConfigFile)

	require.NotNil(t, cfg.Network)
	assert.Equal(t, "sepolia", cfg.Network.Name)
	assert.Equal(t, "https://sepolia.example.org", cfg.Network.RPCURL)
	assert.Equal(t, uint64(11155111), cfg.Network.ChainID)
	assert.Equal(t, "https://sepolia.etherscan.io", cfg.Network.ExplorerURL)
	assert.Equal(t, "http://127.0.0.1:9545", cfg.Networks["local"].RPCURL)

	assert.Equal(t, "/opt/solc-0.8.24", cfg.Compiler.Solc)
	assert.False(t, cfg.Compiler.Optimizer)
	assert.Equal(t, 200, cfg.Compiler.OptimizerRuns)
	assert.Equal(t, "paris", cfg.Compiler.EVMVersion)

	assert.Equal(t, 90*time.Second, cfg.Deploy.ConfirmationTimeout)
	assert.Equal(t, 2*time.Second, cfg.Deploy.PollInterval)
	assert.Equal(t, config.SubmitModeBind, cfg.Deploy.SubmitMode)
	assert.False(t, cfg.Deploy.CheckCode)
	assert.Equal(t, "yaml", cfg.Deploy.HandoffFormat)
	assert.Equal(t, "0xabc123", cfg.Signer)
}

func TestProviderOverrides(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ConfigFileName, `
[deploy]
poll_interval = "10s"
`)

	v := newTestViper(dir)
	v.Set("deploy.poll_interval", "250ms")
	v.Set("compiler.runs", 10000)
	v.Set("data_dir", "/var/lib/catapult")

	cfg, err := Provider(v)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, cfg.Deploy.PollInterval)
	assert.Equal(t, 10000, cfg.Compiler.OptimizerRuns)
	assert.Equal(t, "/var/lib/catapult", cfg.DataDir)
}

func TestProviderAdHocNetwork(t *testing.T) {
	t.Run("rpc url without a network name", func(t *testing.T) {
		v := newTestViper(t.TempDir())
		v.Set("rpc_url", "http://10.0.0.5:8545")
		v.Set("chain_id", 1337)

		cfg, err := Provider(v)
		require.NoError(t, err)
		require.NotNil(t, cfg.Network)
		assert.Equal(t, "custom", cfg.Network.Name)
		assert.Equal(t, "http://10.0.0.5:8545", cfg.Network.RPCURL)
		assert.Equal(t, uint64(1337), cfg.Network.ChainID)
	})

	t.Run("rpc url replaces a known endpoint", func(t *testing.T) {
		v := newTestViper(t.TempDir())
		v.Set("network", "local")
		v.Set("rpc_url", "http://127.0.0.1:7777")

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:7777", cfg.Network.RPCURL)
		assert.Equal(t, uint64(31337), cfg.Network.ChainID)
	})

	t.Run("unknown network without url", func(t *testing.T) {
		v := newTestViper(t.TempDir())
		v.Set("network", "nowhere")

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Nil(t, cfg.Network)
		assert.Equal(t, "nowhere", cfg.NetworkName)
	})
}

func TestProviderValidation(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		wantErr string
	}{
		{
			name:    "submit mode",
			file:    "[deploy]\nsubmit_mode = \"raw\"\n",
			wantErr: "invalid deploy.submit_mode",
		},
		{
			name:    "handoff format",
			file:    "[deploy]\nhandoff_format = \"xml\"\n",
			wantErr: "invalid deploy.handoff_format",
		},
		{
			name:    "poll interval",
			file:    "[deploy]\npoll_interval = \"0s\"\n",
			wantErr: "poll_interval must be positive",
		},
		{
			name:    "malformed toml",
			file:    "[deploy\n",
			wantErr: "failed to parse catapult.toml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeProjectFile(t, dir, ConfigFileName, tt.file)

			_, err := Provider(newTestViper(dir))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProviderLoadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ".env", "CATAPULT_TEST_DOTENV_KEY=0xfeed\n")
	writeProjectFile(t, dir, ConfigFileName, "[deploy]\nsigner_env = \"CATAPULT_TEST_DOTENV_KEY\"\n")
	t.Cleanup(func() { os.Unsetenv("CATAPULT_TEST_DOTENV_KEY") })

	cfg, err := Provider(newTestViper(dir))
	require.NoError(t, err)
	assert.Equal(t, "0xfeed", cfg.Signer)
}

func TestSetupViperBindsFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "deploy", Run: func(*cobra.Command, []string) {}}
	cmd.Flags().Duration("confirmation-timeout", 0, "")
	cmd.Flags().String("submit-mode", "", "")
	cmd.Flags().Bool("non-interactive", false, "")
	require.NoError(t, cmd.ParseFlags([]string{"--confirmation-timeout", "45s", "--submit-mode", "bind", "--non-interactive"}))

	v := SetupViper("/project", cmd)

	assert.Equal(t, 45*time.Second, v.GetDuration("deploy.confirmation_timeout"))
	assert.Equal(t, "bind", v.GetString("deploy.submit_mode"))
	assert.True(t, v.GetBool("non_interactive"))
	assert.Equal(t, "/project", v.GetString("project_root"))
	assert.Equal(t, 30*time.Minute, v.GetDuration("timeout"))
	assert.False(t, v.IsSet("deploy.gas_limit"))
}

func TestFindProjectRoot(t *testing.T) {
	dir := t.TempDir()
	writeProjectFile(t, dir, ConfigFileName, "")
	nested := filepath.Join(dir, "contracts", "tokens")
	require.NoError(t, os.MkdirAll(nested, 0755))
	t.Chdir(nested)

	root, err := FindProjectRoot()
	require.NoError(t, err)

	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(root)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
