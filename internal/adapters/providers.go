package adapters

import (
	"github.com/google/wire"
	"github.com/trebuchet-org/catapult/internal/adapters/abi"
	"github.com/trebuchet-org/catapult/internal/adapters/blockchain"
	"github.com/trebuchet-org/catapult/internal/adapters/compiler"
	"github.com/trebuchet-org/catapult/internal/adapters/fs"
	"github.com/trebuchet-org/catapult/internal/adapters/interactive"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewArtifactStoreAdapter,
	wire.Bind(new(usecase.ArtifactStore), new(*fs.ArtifactStoreAdapter)),

	fs.NewSourceReaderAdapter,
	wire.Bind(new(usecase.SourceReader), new(*fs.SourceReaderAdapter)),

	fs.NewHandoffWriterAdapter,
	wire.Bind(new(usecase.HandoffWriter), new(*fs.HandoffWriterAdapter)),

	fs.NewFileWriterAdapter,
	wire.Bind(new(usecase.FileWriter), new(*fs.FileWriterAdapter)),
)

// CompilerSet provides the Solidity compiler
var CompilerSet = wire.NewSet(
	compiler.NewSolcAdapter,
	wire.Bind(new(usecase.ArtifactCompiler), new(*compiler.SolcAdapter)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.ArtifactSelector), new(*interactive.SelectorAdapter)),
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewClientAdapter,
	wire.Bind(new(usecase.ChainClient), new(*blockchain.ClientAdapter)),

	abi.NewEncoderAdapter,
	wire.Bind(new(usecase.ArgumentEncoder), new(*abi.EncoderAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	CompilerSet,
	InteractiveSet,
	BlockchainSet,
)
