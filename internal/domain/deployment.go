package domain

import (
	"context"
	"time"
)

// ReceiptStatus is the execution outcome of a mined transaction
type ReceiptStatus string

const (
	ReceiptStatusSuccess  ReceiptStatus = "success"
	ReceiptStatusReverted ReceiptStatus = "revert"
)

// Signer is an opaque credential authorizing transaction submission.
// It never renders its value.
type Signer string

func (s Signer) String() string {
	if s == "" {
		return ""
	}
	return "[redacted]"
}

// GoString keeps the credential out of %#v output as well
func (s Signer) GoString() string {
	return s.String()
}

// Network identifies the chain a deployment targets
type Network struct {
	Name        string `json:"name" yaml:"name"`
	RPCURL      string `json:"rpcUrl" yaml:"rpcUrl"`
	ChainID     uint64 `json:"chainId" yaml:"chainId"`
	ExplorerURL string `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
}

// IsLocal reports whether the network is a development chain
func (n *Network) IsLocal() bool {
	switch n.ChainID {
	case 31337, 1337:
		return true
	}
	return false
}

// DeploymentRequest is everything needed for one deployment attempt
type DeploymentRequest struct {
	Name            string
	Artifact        *CompilationArtifact
	ConstructorArgs []string
	Network         Network
	Signer          Signer
}

// AddressAccessor is the preferred way a submitting client exposes the
// address of the contract it is creating
type AddressAccessor func(ctx context.Context) (string, error)

// DeploymentHandle is the deployment object returned by the submitting client.
// Depending on how the transaction was sent, any combination of these may be
// populated, including none of them.
type DeploymentHandle struct {
	Accessor AddressAccessor
	Address  string
	Target   string
}

// PendingDeployment is a broadcast but unconfirmed contract creation
type PendingDeployment struct {
	TransactionHash string
	SubmittedAt     time.Time
	Sender          string
	Nonce           uint64
	Handle          DeploymentHandle
}

// Receipt is the network-confirmed outcome of a transaction
type Receipt struct {
	TransactionHash string
	ContractAddress string
	BlockNumber     *uint64
	GasUsed         uint64
	Status          ReceiptStatus
}

// DeploymentResult is the terminal record of a successful deployment
type DeploymentResult struct {
	Name            string
	Contract        string
	SourceName      string
	SourcePath      string
	Address         string
	TransactionHash string
	Network         Network
	BlockNumber     uint64
	ConstructorArgs []string
	// EncodedConstructorArgs is the hex ABI encoding, without 0x prefix
	EncodedConstructorArgs string
	Compiler               CompilerInfo
	ResolvedBy             string
	HandoffPath            string
}

// VerificationRecord is handed to a separate source verification tool
type VerificationRecord struct {
	Contract               string    `json:"contract" yaml:"contract"`
	SourceName             string    `json:"sourceName" yaml:"sourceName"`
	SourcePath             string    `json:"sourcePath,omitempty" yaml:"sourcePath,omitempty"`
	Address                string    `json:"address" yaml:"address"`
	Network                string    `json:"network" yaml:"network"`
	ChainID                uint64    `json:"chainId" yaml:"chainId"`
	ExplorerURL            string    `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
	ConstructorArgs        []string  `json:"constructorArgs" yaml:"constructorArgs"`
	EncodedConstructorArgs string    `json:"encodedConstructorArgs" yaml:"encodedConstructorArgs"`
	TransactionHash        string    `json:"transactionHash" yaml:"transactionHash"`
	CompilerVersion        string    `json:"compilerVersion,omitempty" yaml:"compilerVersion,omitempty"`
	OptimizerEnabled       bool      `json:"optimizer" yaml:"optimizer"`
	OptimizerRuns          int       `json:"runs,omitempty" yaml:"runs,omitempty"`
	CreatedAt              time.Time `json:"createdAt" yaml:"createdAt"`
}
