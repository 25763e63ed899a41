package usecase

import (
	"context"

	"github.com/trebuchet-org/catapult/internal/domain"
)

// CompileOptions controls a single compiler invocation
type CompileOptions struct {
	// ContractName selects a contract when the unit defines several.
	// Empty means the first contract defined in the file.
	ContractName string
}

// ArtifactCompiler turns source text into a deployable artifact. Compiler
// diagnostics come back as *domain.CompilationError, never as a panic.
type ArtifactCompiler interface {
	Compile(ctx context.Context, sourceText, entryFileName string, opts CompileOptions) (*domain.CompilationArtifact, error)
}

// ArtifactStore handles persistence of compiled artifacts
type ArtifactStore interface {
	Save(ctx context.Context, name string, artifact *domain.CompilationArtifact) error
	Load(ctx context.Context, name string) (*domain.CompilationArtifact, error)
	List(ctx context.Context) ([]string, error)
}

// SourceReader reads contract sources from disk
type SourceReader interface {
	ReadSource(ctx context.Context, path string) (domain.SourceFile, error)
}

// ChainClient normalizes the chain library behind one stable interface
type ChainClient interface {
	Connect(ctx context.Context, rpcURL string, chainID uint64) error
	Close()
	ChainID() uint64
	SignerAddress(signer domain.Signer) (string, error)
	Balance(ctx context.Context, address string) (string, error)
	Submit(ctx context.Context, req *domain.DeploymentRequest) (*domain.PendingDeployment, error)
	AwaitConfirmation(ctx context.Context, pending *domain.PendingDeployment) (*domain.Receipt, error)
	// TransactionReceipt returns nil without error if the transaction is not mined
	TransactionReceipt(ctx context.Context, txHash string) (*domain.Receipt, error)
	GetCode(ctx context.Context, address string) ([]byte, error)
}

// ArgumentEncoder validates and ABI-encodes constructor arguments
type ArgumentEncoder interface {
	EncodeConstructorArgs(artifact *domain.CompilationArtifact, args []string) (string, error)
}

// HandoffWriter persists the record a verification tool consumes
type HandoffWriter interface {
	Write(ctx context.Context, name string, record *domain.VerificationRecord) (string, error)
}

// FileWriter writes plain files on behalf of commands
type FileWriter interface {
	WriteFile(ctx context.Context, path string, data []byte) error
}

// Confirmer asks the operator before irreversible actions
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ArtifactSelector lets the operator pick among stored artifacts
type ArtifactSelector interface {
	SelectArtifact(ctx context.Context, names []string, prompt string) (string, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}
