package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/catapult/internal/usecase"
)

// FileWriterAdapter handles plain file output for commands
type FileWriterAdapter struct{}

// NewFileWriterAdapter creates a new file writer adapter
func NewFileWriterAdapter() *FileWriterAdapter {
	return &FileWriterAdapter{}
}

// WriteFile writes data to path, creating parent directories
func (f *FileWriterAdapter) WriteFile(ctx context.Context, path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Ensure the adapter implements the interface
var _ usecase.FileWriter = (*FileWriterAdapter)(nil)
