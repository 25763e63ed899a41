package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/adapters/progress"
	"github.com/trebuchet-org/catapult/internal/app"
	"github.com/trebuchet-org/catapult/internal/config"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
	// progressKey is the context key for the progress sink
	progressKey contextKey = "progress"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "catapult",
		Short: "Compile and deploy smart contracts",
		Long: `Catapult compiles a Solidity source file into a stored artifact and deploys
it to an EVM network, reporting the deployed address and a verification record.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			// compile works outside a configured project
			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				projectRoot = ""
			}

			v := config.SetupViper(projectRoot, cmd)

			var sink usecase.ProgressSink = progress.NewNopSink()
			if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
				nonInteractive, _ := cmd.Flags().GetBool("non-interactive")
				sink = progress.NewSpinnerProgress(cmd.OutOrStdout(), !nonInteractive)
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return domain.AtStage(domain.StageConfig, &domain.ConfigurationError{
					Reason: "failed to load configuration",
					Err:    err,
				})
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			ctx = context.WithValue(ctx, progressKey, sink)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., sepolia, local)")
	rootCmd.PersistentFlags().String("rpc-url", "", "RPC endpoint, overrides the configured network URL")
	rootCmd.PersistentFlags().Uint64("chain-id", 0, "Expected chain ID")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip confirmation prompts")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Overall command timeout (default 30m)")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	compileCmd := NewCompileCmd()
	compileCmd.GroupID = "main"
	rootCmd.AddCommand(compileCmd)

	deployCmd := NewDeployCmd()
	deployCmd.GroupID = "main"
	rootCmd.AddCommand(deployCmd)

	artifactsCmd := NewArtifactsCmd()
	artifactsCmd.GroupID = "management"
	rootCmd.AddCommand(artifactsCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	codeCmd := NewCodeCmd()
	codeCmd.GroupID = "management"
	rootCmd.AddCommand(codeCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// stopProgress halts any running spinner before output is rendered
func stopProgress(cmd *cobra.Command) {
	if sink, ok := cmd.Context().Value(progressKey).(*progress.SpinnerProgress); ok {
		sink.Stop()
	}
}
