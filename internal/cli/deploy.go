package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		sourcePath    string
		contractName  string
		skipCodeCheck bool
	)

	cmd := &cobra.Command{
		Use:   "deploy [artifact] [constructor-args...]",
		Short: "Deploy a stored artifact to a network",
		Long: `Deploy a compiled artifact to the selected network, wait for the
transaction to be mined and report the deployed contract address.

If the artifact is not stored yet and --source is given, the source is
compiled first. Constructor arguments follow the artifact name and are
checked against the constructor ABI before anything is sent.

The signer's private key is read from the environment variable named by
deploy.signer_env (DEPLOYER_PRIVATE_KEY by default).`,
		Example: `  catapult deploy Counter --network sepolia
  catapult deploy Token "My Token" MTK 1000000 -n local
  catapult deploy --source src/Counter.sol -n local`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var name string
			var ctorArgs []string
			if len(args) > 0 {
				name, ctorArgs = args[0], args[1:]
			}

			if name == "" && sourcePath == "" && !app.Config.NonInteractive {
				name, err = pickArtifact(cmd)
				if err != nil {
					return err
				}
			}

			result, err := app.DeployContract.Run(cmd.Context(), usecase.DeployContractParams{
				Name:            name,
				SourcePath:      sourcePath,
				ContractName:    contractName,
				ConstructorArgs: ctorArgs,
				SkipCodeCheck:   skipCodeCheck,
			})
			stopProgress(cmd)
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&sourcePath, "source", "", "Source file to compile when the artifact is not stored")
	cmd.Flags().StringVar(&contractName, "contract", "", "Contract to select when compiling from --source")
	cmd.Flags().BoolVar(&skipCodeCheck, "no-code-check", false, "Skip checking for code at the deployed address")
	cmd.Flags().Duration("confirmation-timeout", 0, "How long to wait for the transaction to be mined")
	cmd.Flags().Duration("poll-interval", 0, "How often to poll for the receipt")
	cmd.Flags().String("submit-mode", "", "How to send the transaction (signed-tx or bind)")
	cmd.Flags().Uint64("gas-limit", 0, "Fixed gas limit, estimated when zero")
	cmd.Flags().String("handoff-format", "", "Verification record format (json or yaml)")

	return cmd
}

// pickArtifact asks the operator to choose among stored artifacts
func pickArtifact(cmd *cobra.Command) (string, error) {
	app, err := getApp(cmd)
	if err != nil {
		return "", err
	}

	listed, err := app.ListArtifacts.Run(cmd.Context())
	if err != nil {
		return "", err
	}

	names := make([]string, 0, len(listed.Artifacts))
	for _, a := range listed.Artifacts {
		if a.Error == nil {
			names = append(names, a.Name)
		}
	}
	if len(names) == 0 {
		return "", domain.AtStage(domain.StageConfig, &domain.ConfigurationError{
			Field:  "artifact",
			Reason: "no artifact name or source file given and no artifacts are stored",
		})
	}

	return app.Selector.SelectArtifact(cmd.Context(), names, "Select an artifact to deploy")
}
