package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// SourceReaderAdapter reads contract sources. Relative paths are tried as
// given, then under the configured sources directory.
type SourceReaderAdapter struct {
	projectRoot string
	sourcesDir  string
}

// NewSourceReaderAdapter creates a new SourceReaderAdapter
func NewSourceReaderAdapter(cfg *config.RuntimeConfig) *SourceReaderAdapter {
	dir := cfg.Compiler.SourcesDir
	if dir != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.ProjectRoot, dir)
	}
	return &SourceReaderAdapter{projectRoot: cfg.ProjectRoot, sourcesDir: dir}
}

// ReadSource returns the file's text and where it was found
func (r *SourceReaderAdapter) ReadSource(_ context.Context, path string) (domain.SourceFile, error) {
	candidates := []string{path}
	if !filepath.IsAbs(path) && r.sourcesDir != "" {
		candidates = append(candidates, filepath.Join(r.sourcesDir, path))
	}

	for _, candidate := range candidates {
		data, err := os.ReadFile(candidate)
		if err == nil {
			return domain.SourceFile{Path: r.projectPath(candidate), Text: string(data)}, nil
		}
		if !os.IsNotExist(err) {
			return domain.SourceFile{}, &domain.ArtifactNotFoundError{
				Name: path,
				Path: candidate,
				Err:  fmt.Errorf("source is unreadable: %w", err),
			}
		}
	}

	return domain.SourceFile{}, &domain.ArtifactNotFoundError{Name: path, Path: candidates[len(candidates)-1]}
}

// projectPath makes path relative to the project root, as build tools expect
// it. Files outside the root keep the path they were read from.
func (r *SourceReaderAdapter) projectPath(path string) string {
	if r.projectRoot == "" {
		return filepath.ToSlash(filepath.Clean(path))
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	root := r.projectRoot
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Ensure SourceReaderAdapter implements SourceReader
var _ usecase.SourceReader = (*SourceReaderAdapter)(nil)
