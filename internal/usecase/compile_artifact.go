package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/trebuchet-org/catapult/internal/domain"
)

// CompileArtifactParams contains parameters for compiling a source file
type CompileArtifactParams struct {
	SourcePath   string
	ContractName string
	// Name is the key the artifact is stored under, defaults to the contract name
	Name   string
	NoSave bool
}

// CompileArtifactResult contains the result of a compilation
type CompileArtifactResult struct {
	Name     string
	Artifact *domain.CompilationArtifact
	Saved    bool
}

// CompileArtifact reads a source file, compiles it and stores the artifact
type CompileArtifact struct {
	reader   SourceReader
	compiler ArtifactCompiler
	store    ArtifactStore
	sink     ProgressSink
	log      *slog.Logger
}

// NewCompileArtifact creates a new CompileArtifact use case
func NewCompileArtifact(
	reader SourceReader,
	compiler ArtifactCompiler,
	store ArtifactStore,
	sink ProgressSink,
	log *slog.Logger,
) *CompileArtifact {
	return &CompileArtifact{
		reader:   reader,
		compiler: compiler,
		store:    store,
		sink:     sink,
		log:      log.With("component", "compile_artifact"),
	}
}

// Run executes the compile use case
func (uc *CompileArtifact) Run(ctx context.Context, params CompileArtifactParams) (*CompileArtifactResult, error) {
	if params.SourcePath == "" {
		return nil, domain.AtStage(domain.StageConfig, &domain.ConfigurationError{
			Field:  "source",
			Reason: "no source file given",
		})
	}

	// A missing source is reported before the compiler is ever invoked
	source, err := uc.reader.ReadSource(ctx, params.SourcePath)
	if err != nil {
		return nil, domain.AtStage(domain.StageArtifact, err)
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "compiling",
		Message: fmt.Sprintf("Compiling %s", params.SourcePath),
		Spinner: true,
	})

	artifact, err := uc.compiler.Compile(ctx, source.Text, filepath.Base(params.SourcePath), CompileOptions{
		ContractName: params.ContractName,
	})
	if err != nil {
		return nil, domain.AtStage(domain.StageCompile, err)
	}
	if err := artifact.Validate(); err != nil {
		return nil, domain.AtStage(domain.StageCompile, &domain.CompilationError{
			Source:      params.SourcePath,
			Diagnostics: []domain.Diagnostic{{Severity: "error", Message: err.Error()}},
		})
	}
	artifact.SourcePath = source.Path

	for _, warning := range artifact.Warnings {
		uc.log.Warn("compiler warning", "source", params.SourcePath, "message", warning)
	}

	name := params.Name
	if name == "" {
		name = artifact.ContractName
	}

	result := &CompileArtifactResult{Name: name, Artifact: artifact}
	if !params.NoSave {
		if err := uc.store.Save(ctx, name, artifact); err != nil {
			return nil, domain.AtStage(domain.StageArtifact, err)
		}
		result.Saved = true
	}

	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "compiled",
		Message: fmt.Sprintf("Compiled %s (%d ABI entries)", artifact.ContractName, len(artifact.ABI)),
	})

	return result, nil
}
