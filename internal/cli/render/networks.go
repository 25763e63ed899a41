package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out io.Writer
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer) *NetworksRenderer {
	return &NetworksRenderer{out: out}
}

// Render renders the list of networks, marking the selected one
func (r *NetworksRenderer) Render(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"", "NAME", "CHAIN ID", "RPC URL", "EXPLORER"})
	for _, n := range result.Networks {
		marker := " "
		name := n.Name
		if n.Current {
			marker = "*"
			name = color.New(color.FgGreen, color.Bold).Sprint(n.Name)
		}

		rpc := n.RPCURL
		if n.Error != nil {
			rpc = color.RedString("not set")
		}
		chainID := "-"
		if n.ChainID != 0 {
			chainID = fmt.Sprintf("%d", n.ChainID)
		}

		t.AppendRow(table.Row{marker, name, chainID, rpc, n.ExplorerURL})
	}

	fmt.Fprintln(r.out, t.Render())
	return nil
}

var _ Renderer[*usecase.ListNetworksResult] = (*NetworksRenderer)(nil)
