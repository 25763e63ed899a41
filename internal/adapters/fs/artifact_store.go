package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

const maxSuggestions = 3

var artifactNamePattern = regexp.MustCompile(`^[A-Za-z0-9_][A-Za-z0-9_.-]*$`)

// ArtifactStoreAdapter keeps one JSON document per artifact under the data dir
type ArtifactStoreAdapter struct {
	dir string
}

// NewArtifactStoreAdapter creates a new ArtifactStoreAdapter
func NewArtifactStoreAdapter(cfg *config.RuntimeConfig) *ArtifactStoreAdapter {
	return &ArtifactStoreAdapter{
		dir: filepath.Join(cfg.DataDir, "artifacts"),
	}
}

// Save writes the artifact, replacing any previous one with the same name.
// Readers never observe a partially written file.
func (s *ArtifactStoreAdapter) Save(_ context.Context, name string, artifact *domain.CompilationArtifact) error {
	if err := validateName(name); err != nil {
		return err
	}
	if artifact == nil {
		return fmt.Errorf("cannot save nil artifact %q", name)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal artifact %s: %w", name, err)
	}

	if err := writeFileAtomic(s.path(name), append(data, '\n')); err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", name, err)
	}
	return nil
}

// Load reads a stored artifact
func (s *ArtifactStoreAdapter) Load(ctx context.Context, name string) (*domain.CompilationArtifact, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	path := s.path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			notFound := &domain.ArtifactNotFoundError{Name: name, Path: path}
			if names, listErr := s.List(ctx); listErr == nil {
				notFound.Suggestions = suggest(name, names)
			}
			return nil, notFound
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", name, err)
	}

	var artifact domain.CompilationArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}
	if err := artifact.Validate(); err != nil {
		return nil, fmt.Errorf("stored artifact %s is unusable: %w", path, err)
	}

	return &artifact, nil
}

// List returns the names of all stored artifacts, sorted
func (s *ArtifactStoreAdapter) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(names)
	return names, nil
}

func (s *ArtifactStoreAdapter) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func validateName(name string) error {
	if !artifactNamePattern.MatchString(name) {
		return &domain.ConfigurationError{
			Field:  "artifact name",
			Reason: fmt.Sprintf("%q may only contain letters, digits, '_', '-' and '.'", name),
		}
	}
	return nil
}

// suggest returns the closest stored names to a missing one
func suggest(name string, names []string) []string {
	matches := fuzzy.Find(strings.ToLower(name), lowerAll(names))
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, names[m.Index])
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}

// writeFileAtomic writes through a temp file in the target directory and
// renames it into place
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Ensure ArtifactStoreAdapter implements ArtifactStore
var _ usecase.ArtifactStore = (*ArtifactStoreAdapter)(nil)
