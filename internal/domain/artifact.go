package domain

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// ABIEntry is a single record of a contract ABI. The raw JSON is kept so the
// declaration order and any fields we do not model survive a round trip.
type ABIEntry struct {
	Type string
	Name string
	Raw  json.RawMessage
}

// MarshalJSON writes the entry back out verbatim
func (e ABIEntry) MarshalJSON() ([]byte, error) {
	if len(e.Raw) == 0 {
		return json.Marshal(map[string]string{"type": e.Type, "name": e.Name})
	}
	return e.Raw, nil
}

// UnmarshalJSON keeps the raw record and decodes its type and name
func (e *ABIEntry) UnmarshalJSON(data []byte) error {
	var head struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("invalid ABI entry: %w", err)
	}
	e.Type = head.Type
	e.Name = head.Name
	e.Raw = append(json.RawMessage(nil), bytes.TrimSpace(data)...)
	return nil
}

// CompilerInfo records how an artifact was produced
type CompilerInfo struct {
	Version          string `json:"version,omitempty"`
	EVMVersion       string `json:"evmVersion,omitempty"`
	OptimizerEnabled bool   `json:"optimizer"`
	OptimizerRuns    int    `json:"runs,omitempty"`
}

// SourceFile is a contract source as read from disk
type SourceFile struct {
	// Path is relative to the project root when the file lives inside it
	Path string
	Text string
}

// CompilationArtifact is the deployable output of compiling one contract.
// Artifacts are immutable once produced.
type CompilationArtifact struct {
	SourceName   string       `json:"sourceName"`
	SourcePath   string       `json:"sourcePath,omitempty"`
	ContractName string       `json:"contractName"`
	ABI          []ABIEntry   `json:"abi"`
	BytecodeHex  string       `json:"bytecode"`
	Compiler     CompilerInfo `json:"compiler"`
	Warnings     []string     `json:"-"`
}

// Validate checks that the artifact can be deployed
func (a *CompilationArtifact) Validate() error {
	if len(a.ABI) == 0 {
		return fmt.Errorf("artifact %s has an empty ABI", a.displayName())
	}
	code := strings.TrimPrefix(a.BytecodeHex, "0x")
	if code == "" {
		return fmt.Errorf("artifact %s has empty bytecode", a.displayName())
	}
	if _, err := hex.DecodeString(code); err != nil {
		return fmt.Errorf("artifact %s has malformed bytecode: %w", a.displayName(), err)
	}
	return nil
}

// Bytecode returns the decoded creation bytecode
func (a *CompilationArtifact) Bytecode() ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(a.BytecodeHex, "0x"))
}

// ABIJSON renders the ABI as a JSON array in declaration order
func (a *CompilationArtifact) ABIJSON() ([]byte, error) {
	return json.Marshal(a.ABI)
}

// ParsedABI parses the ABI with go-ethereum
func (a *CompilationArtifact) ParsedABI() (*abi.ABI, error) {
	raw, err := a.ABIJSON()
	if err != nil {
		return nil, err
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI for %s: %w", a.displayName(), err)
	}
	return &parsed, nil
}

// ConstructorInputs returns the constructor parameter list, empty if the
// contract declares no constructor
func (a *CompilationArtifact) ConstructorInputs() (abi.Arguments, error) {
	parsed, err := a.ParsedABI()
	if err != nil {
		return nil, err
	}
	return parsed.Constructor.Inputs, nil
}

func (a *CompilationArtifact) displayName() string {
	if a.ContractName != "" {
		return a.ContractName
	}
	return a.SourceName
}
