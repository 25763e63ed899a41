package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List networks from catapult.toml",
		Long: `List all networks configured in the [networks] section of catapult.toml.

The network selected with --network is marked with an asterisk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context(), usecase.ListNetworksParams{})
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout()).Render(result)
		},
	}
}
