package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// CompileRenderer renders a compilation result
type CompileRenderer struct {
	out io.Writer
}

// NewCompileRenderer creates a new compile renderer
func NewCompileRenderer(out io.Writer) *CompileRenderer {
	return &CompileRenderer{out: out}
}

// Render prints the artifact summary and any compiler warnings
func (r *CompileRenderer) Render(result *usecase.CompileArtifactResult) error {
	artifact := result.Artifact
	code, _ := artifact.Bytecode()

	for _, warning := range artifact.Warnings {
		fmt.Fprintln(r.out, FormatWarning(warning))
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Compiled %s from %s", artifact.ContractName, artifact.SourceName)))
	label := color.New(color.Faint)
	fmt.Fprintf(r.out, "  %s %d entries\n", label.Sprint("ABI:     "), len(artifact.ABI))
	fmt.Fprintf(r.out, "  %s %d bytes\n", label.Sprint("Bytecode:"), len(code))
	if artifact.Compiler.Version != "" {
		fmt.Fprintf(r.out, "  %s solc %s\n", label.Sprint("Compiler:"), artifact.Compiler.Version)
	}
	if result.Saved {
		fmt.Fprintf(r.out, "  %s %s\n", label.Sprint("Artifact:"), result.Name)
	}
	return nil
}

var _ Renderer[*usecase.CompileArtifactResult] = (*CompileRenderer)(nil)
