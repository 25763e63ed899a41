package usecase_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// MockArtifactStore is a mock implementation of ArtifactStore
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) Save(ctx context.Context, name string, artifact *domain.CompilationArtifact) error {
	args := m.Called(ctx, name, artifact)
	return args.Error(0)
}

func (m *MockArtifactStore) Load(ctx context.Context, name string) (*domain.CompilationArtifact, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompilationArtifact), args.Error(1)
}

func (m *MockArtifactStore) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockCompiler is a mock implementation of ArtifactCompiler
type MockCompiler struct {
	mock.Mock
}

func (m *MockCompiler) Compile(ctx context.Context, sourceText, entryFileName string, opts usecase.CompileOptions) (*domain.CompilationArtifact, error) {
	args := m.Called(ctx, sourceText, entryFileName, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CompilationArtifact), args.Error(1)
}

// MockSourceReader is a mock implementation of SourceReader
type MockSourceReader struct {
	mock.Mock
}

func (m *MockSourceReader) ReadSource(ctx context.Context, path string) (domain.SourceFile, error) {
	args := m.Called(ctx, path)
	return args.Get(0).(domain.SourceFile), args.Error(1)
}

// MockChainClient is a mock implementation of ChainClient
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) Connect(ctx context.Context, rpcURL string, chainID uint64) error {
	args := m.Called(ctx, rpcURL, chainID)
	return args.Error(0)
}

func (m *MockChainClient) Close() {
	m.Called()
}

func (m *MockChainClient) ChainID() uint64 {
	args := m.Called()
	return args.Get(0).(uint64)
}

func (m *MockChainClient) SignerAddress(signer domain.Signer) (string, error) {
	args := m.Called(signer)
	return args.String(0), args.Error(1)
}

func (m *MockChainClient) Balance(ctx context.Context, address string) (string, error) {
	args := m.Called(ctx, address)
	return args.String(0), args.Error(1)
}

func (m *MockChainClient) Submit(ctx context.Context, req *domain.DeploymentRequest) (*domain.PendingDeployment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingDeployment), args.Error(1)
}

func (m *MockChainClient) AwaitConfirmation(ctx context.Context, pending *domain.PendingDeployment) (*domain.Receipt, error) {
	args := m.Called(ctx, pending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockChainClient) TransactionReceipt(ctx context.Context, txHash string) (*domain.Receipt, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Receipt), args.Error(1)
}

func (m *MockChainClient) GetCode(ctx context.Context, address string) ([]byte, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockArgumentEncoder is a mock implementation of ArgumentEncoder
type MockArgumentEncoder struct {
	mock.Mock
}

func (m *MockArgumentEncoder) EncodeConstructorArgs(artifact *domain.CompilationArtifact, args []string) (string, error) {
	ret := m.Called(artifact, args)
	return ret.String(0), ret.Error(1)
}

// MockHandoffWriter is a mock implementation of HandoffWriter
type MockHandoffWriter struct {
	mock.Mock
}

func (m *MockHandoffWriter) Write(ctx context.Context, name string, record *domain.VerificationRecord) (string, error) {
	args := m.Called(ctx, name, record)
	return args.String(0), args.Error(1)
}

// MockFileWriter is a mock implementation of FileWriter
type MockFileWriter struct {
	mock.Mock
}

func (m *MockFileWriter) WriteFile(ctx context.Context, path string, data []byte) error {
	args := m.Called(ctx, path, data)
	return args.Error(0)
}

// MockConfirmer is a mock implementation of Confirmer
type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	args := m.Called(ctx, prompt)
	return args.Bool(0), args.Error(1)
}

// recordingSink captures progress output
type recordingSink struct {
	events []usecase.ProgressEvent
	infos  []string
	errors []string
}

func (s *recordingSink) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	s.events = append(s.events, event)
}

func (s *recordingSink) Info(message string) {
	s.infos = append(s.infos, message)
}

func (s *recordingSink) Error(message string) {
	s.errors = append(s.errors, message)
}

func (s *recordingSink) stages() []string {
	stages := make([]string, 0, len(s.events))
	for _, e := range s.events {
		stages = append(stages, e.Stage)
	}
	return stages
}
