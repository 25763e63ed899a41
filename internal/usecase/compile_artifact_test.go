package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func TestCompileArtifact(t *testing.T) {
	ctx := context.Background()

	newUseCase := func() (*usecase.CompileArtifact, *MockSourceReader, *MockCompiler, *MockArtifactStore, *recordingSink) {
		reader := new(MockSourceReader)
		compiler := new(MockCompiler)
		store := new(MockArtifactStore)
		sink := &recordingSink{}
		return usecase.NewCompileArtifact(reader, compiler, store, sink, discardLogger()), reader, compiler, store, sink
	}

	t.Run("stores under the contract name by default", func(t *testing.T) {
		uc, reader, compiler, store, sink := newUseCase()
		artifact := greeterArtifact()

		reader.On("ReadSource", mock.Anything, "contracts/Greeter.sol").Return(domain.SourceFile{Path: "contracts/Greeter.sol", Text: "source"}, nil)
		compiler.On("Compile", mock.Anything, "source", "Greeter.sol", usecase.CompileOptions{}).Return(artifact, nil)
		store.On("Save", mock.Anything, "Greeter", artifact).Return(nil)

		result, err := uc.Run(ctx, usecase.CompileArtifactParams{SourcePath: "contracts/Greeter.sol"})
		require.NoError(t, err)

		assert.Equal(t, "Greeter", result.Name)
		assert.True(t, result.Saved)
		assert.Same(t, artifact, result.Artifact)
		assert.Equal(t, "contracts/Greeter.sol", result.Artifact.SourcePath)
		assert.Equal(t, []string{"compiling", "compiled"}, sink.stages())
		store.AssertExpectations(t)
	})

	t.Run("explicit name and contract selection", func(t *testing.T) {
		uc, reader, compiler, store, _ := newUseCase()
		artifact := greeterArtifact()

		reader.On("ReadSource", mock.Anything, "Multi.sol").Return(domain.SourceFile{Path: "Multi.sol", Text: "source"}, nil)
		compiler.On("Compile", mock.Anything, "source", "Multi.sol", usecase.CompileOptions{ContractName: "Greeter"}).Return(artifact, nil)
		store.On("Save", mock.Anything, "greeter-v2", artifact).Return(nil)

		result, err := uc.Run(ctx, usecase.CompileArtifactParams{
			SourcePath:   "Multi.sol",
			ContractName: "Greeter",
			Name:         "greeter-v2",
		})
		require.NoError(t, err)
		assert.Equal(t, "greeter-v2", result.Name)
	})

	t.Run("no save", func(t *testing.T) {
		uc, reader, compiler, store, _ := newUseCase()

		reader.On("ReadSource", mock.Anything, "Greeter.sol").Return(domain.SourceFile{Path: "Greeter.sol", Text: "source"}, nil)
		compiler.On("Compile", mock.Anything, "source", "Greeter.sol", usecase.CompileOptions{}).Return(greeterArtifact(), nil)

		result, err := uc.Run(ctx, usecase.CompileArtifactParams{SourcePath: "Greeter.sol", NoSave: true})
		require.NoError(t, err)
		assert.False(t, result.Saved)
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing source never reaches the compiler", func(t *testing.T) {
		uc, reader, compiler, _, _ := newUseCase()
		reader.On("ReadSource", mock.Anything, "Nope.sol").Return(domain.SourceFile{}, &domain.ArtifactNotFoundError{Name: "Nope.sol"})

		_, err := uc.Run(ctx, usecase.CompileArtifactParams{SourcePath: "Nope.sol"})
		assert.Equal(t, domain.KindArtifactNotFound, domain.KindOf(err))
		compiler.AssertNotCalled(t, "Compile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no source given", func(t *testing.T) {
		uc, reader, _, _, _ := newUseCase()

		_, err := uc.Run(ctx, usecase.CompileArtifactParams{})
		assert.Equal(t, domain.KindConfiguration, domain.KindOf(err))
		reader.AssertNotCalled(t, "ReadSource", mock.Anything, mock.Anything)
	})

	t.Run("compiler diagnostics are surfaced", func(t *testing.T) {
		uc, reader, compiler, store, _ := newUseCase()
		compileErr := &domain.CompilationError{
			Source: "Broken.sol",
			Diagnostics: []domain.Diagnostic{
				{Severity: "error", Type: "ParserError", Message: "Expected ';' but got '}'"},
			},
		}

		reader.On("ReadSource", mock.Anything, "Broken.sol").Return(domain.SourceFile{Path: "Broken.sol", Text: "source"}, nil)
		compiler.On("Compile", mock.Anything, "source", "Broken.sol", usecase.CompileOptions{}).Return(nil, compileErr)

		_, err := uc.Run(ctx, usecase.CompileArtifactParams{SourcePath: "Broken.sol"})

		var stageErr *domain.StageError
		require.ErrorAs(t, err, &stageErr)
		assert.Equal(t, domain.StageCompile, stageErr.Stage)

		var got *domain.CompilationError
		require.ErrorAs(t, err, &got)
		assert.Equal(t, []string{"ParserError: Expected ';' but got '}'"}, got.Messages())
		store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("undeployable artifact is a compilation error", func(t *testing.T) {
		uc, reader, compiler, _, _ := newUseCase()
		empty := greeterArtifact()
		empty.BytecodeHex = "0x"

		reader.On("ReadSource", mock.Anything, "Greeter.sol").Return(domain.SourceFile{Path: "Greeter.sol", Text: "source"}, nil)
		compiler.On("Compile", mock.Anything, "source", "Greeter.sol", usecase.CompileOptions{}).Return(empty, nil)

		_, err := uc.Run(ctx, usecase.CompileArtifactParams{SourcePath: "Greeter.sol"})
		assert.Equal(t, domain.KindCompilation, domain.KindOf(err))
		assert.Contains(t, err.Error(), "empty bytecode")
	})

	t.Run("save failure", func(t *testing.T) {
		uc, reader, compiler, store, _ := newUseCase()

		reader.On("ReadSource", mock.Anything, "Greeter.sol").Return(domain.SourceFile{Path: "Greeter.sol", Text: "source"}, nil)
		compiler.On("Compile", mock.Anything, "source", "Greeter.sol", usecase.CompileOptions{}).Return(greeterArtifact(), nil)
		store.On("Save", mock.Anything, "Greeter", mock.Anything).Return(errors.New("read-only file system"))

		_, err := uc.Run(ctx, usecase.CompileArtifactParams{SourcePath: "Greeter.sol"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "[artifact]")
	})
}
