package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/catapult/internal/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DeployRenderer renders the outcome of a deployment
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render prints the deployed address, transaction and a verify hint
func (r *DeployRenderer) Render(result *domain.DeploymentResult) error {
	label := color.New(color.Faint)
	title := cases.Title(language.English)

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s deployed", result.Contract)))
	fmt.Fprintf(r.out, "  %s %s\n", label.Sprint("Address:    "), color.New(color.FgCyan, color.Bold).Sprint(result.Address))
	fmt.Fprintf(r.out, "  %s %s\n", label.Sprint("Transaction:"), result.TransactionHash)
	fmt.Fprintf(r.out, "  %s %s (chain %d)\n", label.Sprint("Network:    "), result.Network.Name, result.Network.ChainID)
	if result.BlockNumber > 0 {
		fmt.Fprintf(r.out, "  %s %d\n", label.Sprint("Block:      "), result.BlockNumber)
	}
	fmt.Fprintf(r.out, "  %s %s\n", label.Sprint("Resolved by:"), title.String(strings.ReplaceAll(result.ResolvedBy, "-", " ")))
	if result.HandoffPath != "" {
		fmt.Fprintf(r.out, "  %s %s\n", label.Sprint("Record:     "), result.HandoffPath)
	}
	if result.Network.ExplorerURL != "" {
		fmt.Fprintf(r.out, "  %s %s/address/%s\n", label.Sprint("Explorer:   "),
			strings.TrimRight(result.Network.ExplorerURL, "/"), result.Address)
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Verify with:")
	fmt.Fprintf(r.out, "  %s\n", VerifyCommand(result))
	return nil
}

// VerifyCommand builds the forge verify-contract invocation for a deployment
func VerifyCommand(result *domain.DeploymentResult) string {
	source := result.SourcePath
	if source == "" {
		source = result.SourceName
	}
	parts := []string{
		"forge verify-contract",
		result.Address,
		fmt.Sprintf("%s:%s", source, result.Contract),
		fmt.Sprintf("--chain %d", result.Network.ChainID),
	}
	if result.Compiler.Version != "" {
		parts = append(parts, "--compiler-version "+result.Compiler.Version)
	}
	if result.Compiler.OptimizerEnabled {
		parts = append(parts, fmt.Sprintf("--num-of-optimizations %d", result.Compiler.OptimizerRuns))
	}
	if result.EncodedConstructorArgs != "" {
		parts = append(parts, "--constructor-args 0x"+result.EncodedConstructorArgs)
	}
	return strings.Join(parts, " ")
}

var _ Renderer[*domain.DeploymentResult] = (*DeployRenderer)(nil)
