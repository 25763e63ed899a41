package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/catapult/internal/cli/render"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NewCodeCmd creates the code command
func NewCodeCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "code <address>",
		Short: "Fetch the runtime bytecode at an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.FetchCode.Run(cmd.Context(), usecase.FetchCodeParams{
				Address: args[0],
				OutPath: outPath,
			})
			stopProgress(cmd)
			if err != nil {
				return err
			}

			return render.NewCodeRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write the bytecode to a file instead of stdout")

	return cmd
}
