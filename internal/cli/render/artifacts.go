package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// ArtifactsRenderer renders the artifact store contents
type ArtifactsRenderer struct {
	out io.Writer
}

// NewArtifactsRenderer creates a new artifacts renderer
func NewArtifactsRenderer(out io.Writer) *ArtifactsRenderer {
	return &ArtifactsRenderer{out: out}
}

// Render prints one row per stored artifact
func (r *ArtifactsRenderer) Render(result *usecase.ListArtifactsResult) error {
	if len(result.Artifacts) == 0 {
		fmt.Fprintln(r.out, "No artifacts stored yet. Run `catapult compile <source.sol>` first.")
		return nil
	}

	t := newTable()
	t.AppendHeader(table.Row{"NAME", "CONTRACT", "SOURCE", "ABI", "BYTECODE", "COMPILER"})
	for _, a := range result.Artifacts {
		if a.Error != nil {
			t.AppendRow(table.Row{a.Name, color.RedString("unreadable: %v", a.Error), "", "", "", ""})
			continue
		}
		t.AppendRow(table.Row{
			color.New(color.FgCyan, color.Bold).Sprint(a.Name),
			a.ContractName,
			a.SourceName,
			a.ABIEntries,
			fmt.Sprintf("%d B", a.BytecodeSize),
			a.CompilerVersion,
		})
	}

	fmt.Fprintln(r.out, t.Render())
	return nil
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateRows = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	return t
}

var _ Renderer[*usecase.ListArtifactsResult] = (*ArtifactsRenderer)(nil)
