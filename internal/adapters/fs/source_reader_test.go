package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

func TestSourceReader(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "contracts"), 0755))
	source := "// SPDX-License-Identifier: MIT\npragma solidity ^0.8.28;\ncontract A {}\n"
	abs := filepath.Join(root, "contracts", "A.sol")
	require.NoError(t, os.WriteFile(abs, []byte(source), 0644))

	reader := NewSourceReaderAdapter(&config.RuntimeConfig{
		ProjectRoot: root,
		Compiler:    config.CompilerConfig{SourcesDir: "contracts"},
	})
	ctx := context.Background()

	t.Run("absolute path", func(t *testing.T) {
		got, err := reader.ReadSource(ctx, abs)
		require.NoError(t, err)
		assert.Equal(t, source, got.Text)
		assert.Equal(t, "contracts/A.sol", got.Path)
	})

	t.Run("relative to sources dir", func(t *testing.T) {
		got, err := reader.ReadSource(ctx, "A.sol")
		require.NoError(t, err)
		assert.Equal(t, source, got.Text)
		assert.Equal(t, "contracts/A.sol", got.Path)
	})

	t.Run("relative to working directory", func(t *testing.T) {
		t.Chdir(root)
		got, err := reader.ReadSource(ctx, "contracts/A.sol")
		require.NoError(t, err)
		assert.Equal(t, "contracts/A.sol", got.Path)
	})

	t.Run("outside the project keeps its path", func(t *testing.T) {
		outside := filepath.Join(t.TempDir(), "B.sol")
		require.NoError(t, os.WriteFile(outside, []byte(source), 0644))

		got, err := reader.ReadSource(ctx, outside)
		require.NoError(t, err)
		assert.Equal(t, filepath.ToSlash(outside), got.Path)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := reader.ReadSource(ctx, "Missing.sol")
		require.Error(t, err)
		assert.Equal(t, domain.KindArtifactNotFound, domain.KindOf(err))
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Contains(t, err.Error(), "Missing.sol")
	})
}
