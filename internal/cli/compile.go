package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewCompileCmd creates the compile command
func NewCompileCmd() *cobra.Command {
	var (
		contractName string
		name         string
		noSave       bool
	)

	cmd := &cobra.Command{
		Use:   "compile <source.sol>",
		Short: "Compile a Solidity source file into a stored artifact",
		Long: `Compile a single Solidity source file with solc and store the resulting
artifact (ABI and creation bytecode) under a name for later deployment.

When the file defines several contracts the first deployable one is used
unless --contract selects another.`,
		Example: `  catapult compile src/Counter.sol
  catapult compile src/Tokens.sol --contract Token --name token-v2
  catapult compile src/Counter.sol --optimizer-runs 10000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CompileArtifact.Run(cmd.Context(), usecase.CompileArtifactParams{
				SourcePath:   args[0],
				ContractName: contractName,
				Name:         name,
				NoSave:       noSave,
			})
			stopProgress(cmd)
			if err != nil {
				return err
			}

			return render.NewCompileRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&contractName, "contract", "", "Contract to select when the file defines several")
	cmd.Flags().StringVar(&name, "name", "", "Name to store the artifact under (defaults to the contract name)")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Compile without storing the artifact")
	cmd.Flags().String("solc", "", "Path to the solc binary")
	cmd.Flags().String("evm-version", "", "Target EVM version")
	cmd.Flags().Int("optimizer-runs", 0, "Optimizer runs")

	return cmd
}
