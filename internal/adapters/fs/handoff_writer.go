package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
	"gopkg.in/yaml.v3"
)

// HandoffWriterAdapter writes verification records to
// <data dir>/deployments/<network>/<name>.<format>
type HandoffWriterAdapter struct {
	dir    string
	format string
}

// NewHandoffWriterAdapter creates a new HandoffWriterAdapter
func NewHandoffWriterAdapter(cfg *config.RuntimeConfig) *HandoffWriterAdapter {
	format := cfg.Deploy.HandoffFormat
	if format == "" {
		format = "json"
	}
	return &HandoffWriterAdapter{
		dir:    filepath.Join(cfg.DataDir, "deployments"),
		format: format,
	}
}

// Write persists the record and returns the file path
func (w *HandoffWriterAdapter) Write(_ context.Context, name string, record *domain.VerificationRecord) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	network := record.Network
	if network == "" {
		network = fmt.Sprintf("%d", record.ChainID)
	}

	var (
		data []byte
		err  error
		ext  string
	)
	switch w.format {
	case "yaml":
		data, err = yaml.Marshal(record)
		ext = ".yaml"
	default:
		data, err = json.MarshalIndent(record, "", "  ")
		data = append(data, '\n')
		ext = ".json"
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode verification record: %w", err)
	}

	path := filepath.Join(w.dir, network, name+ext)
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("failed to write verification record: %w", err)
	}
	return path, nil
}

// Ensure HandoffWriterAdapter implements HandoffWriter
var _ usecase.HandoffWriter = (*HandoffWriterAdapter)(nil)
