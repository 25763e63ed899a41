package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// CodeRenderer renders bytecode fetched from a chain
type CodeRenderer struct {
	out io.Writer
}

// NewCodeRenderer creates a new code renderer
func NewCodeRenderer(out io.Writer) *CodeRenderer {
	return &CodeRenderer{out: out}
}

// Render prints the code, or where it was written
func (r *CodeRenderer) Render(result *usecase.FetchCodeResult) error {
	if result.Empty() {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("No contract found at %s on %s", result.Address, result.Network.Name)))
		return nil
	}

	if result.Written != "" {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Wrote %d bytes of code at %s to %s", len(result.Code), result.Address, result.Written)))
		return nil
	}

	fmt.Fprintln(r.out, color.New(color.Faint).Sprintf("%d bytes at %s on %s", len(result.Code), result.Address, result.Network.Name))
	fmt.Fprintln(r.out, result.Hex())
	return nil
}

var _ Renderer[*usecase.FetchCodeResult] = (*CodeRenderer)(nil)
