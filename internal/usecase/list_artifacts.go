package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/catapult/internal/domain"
)

// ArtifactSummary describes one stored artifact
type ArtifactSummary struct {
	Name            string
	ContractName    string
	SourceName      string
	ABIEntries      int
	BytecodeSize    int
	CompilerVersion string
	Error           error
}

// ListArtifactsResult contains the stored artifacts
type ListArtifactsResult struct {
	Artifacts []ArtifactSummary
}

// ListArtifacts lists every artifact in the store
type ListArtifacts struct {
	store ArtifactStore
	log   *slog.Logger
}

// NewListArtifacts creates a new ListArtifacts use case
func NewListArtifacts(store ArtifactStore, log *slog.Logger) *ListArtifacts {
	return &ListArtifacts{
		store: store,
		log:   log.With("component", "list_artifacts"),
	}
}

// Run executes the use case. Unreadable artifacts are listed with their error.
func (uc *ListArtifacts) Run(ctx context.Context) (*ListArtifactsResult, error) {
	names, err := uc.store.List(ctx)
	if err != nil {
		return nil, domain.AtStage(domain.StageArtifact, fmt.Errorf("failed to list artifacts: %w", err))
	}

	result := &ListArtifactsResult{Artifacts: make([]ArtifactSummary, 0, len(names))}
	for _, name := range names {
		summary := ArtifactSummary{Name: name}

		artifact, err := uc.store.Load(ctx, name)
		if err != nil {
			uc.log.Debug("skipping unreadable artifact", "name", name, "error", err)
			summary.Error = err
			result.Artifacts = append(result.Artifacts, summary)
			continue
		}

		summary.ContractName = artifact.ContractName
		summary.SourceName = artifact.SourceName
		summary.ABIEntries = len(artifact.ABI)
		summary.CompilerVersion = artifact.Compiler.Version
		if code, err := artifact.Bytecode(); err == nil {
			summary.BytecodeSize = len(code)
		}
		result.Artifacts = append(result.Artifacts, summary)
	}

	return result, nil
}
