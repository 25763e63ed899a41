package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrNetworkMismatch is returned when the endpoint serves a different chain
	ErrNetworkMismatch = errors.New("network mismatch")
)

// ErrorKind is the taxonomy bucket an error belongs to
type ErrorKind string

const (
	KindConfiguration     ErrorKind = "ConfigurationError"
	KindArtifactNotFound  ErrorKind = "ArtifactNotFoundError"
	KindCompilation       ErrorKind = "CompilationError"
	KindNetwork           ErrorKind = "NetworkError"
	KindAddressResolution ErrorKind = "AddressResolutionError"
	KindDeployment        ErrorKind = "DeploymentError"
	KindUnknown           ErrorKind = "Error"
)

// Stage names the pipeline step that produced an error
type Stage string

const (
	StageConfig     Stage = "config"
	StageArtifact   Stage = "artifact"
	StageCompile    Stage = "compile"
	StageConnect    Stage = "connect"
	StageSubmit     Stage = "submit"
	StageConfirm    Stage = "confirm"
	StageResolve    Stage = "resolve"
	StageVerifyCode Stage = "verify-code"
	StageHandoff    Stage = "handoff"
)

// KindOf returns the taxonomy kind of err, looking through wrappers
func KindOf(err error) ErrorKind {
	var k interface{ Kind() ErrorKind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// StageError tags an error with the stage that produced it. The wrapped
// error is returned untouched by Unwrap.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("[%s] %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Kind returns the kind of the wrapped error
func (e *StageError) Kind() ErrorKind {
	return KindOf(e.Err)
}

// AtStage wraps err with a stage tag, nil stays nil
func AtStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// ConfigurationError is a missing or invalid required input, detected before
// any network call
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := e.Reason
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func (e *ConfigurationError) Kind() ErrorKind {
	return KindConfiguration
}

// ArtifactNotFoundError is returned when a named artifact or source file is absent
type ArtifactNotFoundError struct {
	Name        string
	Path        string
	Suggestions []string
	Err         error
}

func (e *ArtifactNotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "artifact %q not found", e.Name)
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if len(e.Suggestions) > 0 {
		fmt.Fprintf(&b, " (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return b.String()
}

func (e *ArtifactNotFoundError) Unwrap() error {
	return e.Err
}

func (e *ArtifactNotFoundError) Kind() ErrorKind {
	return KindArtifactNotFound
}

// Is makes errors.Is(err, ErrNotFound) hold for missing artifacts
func (e *ArtifactNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Diagnostic is one compiler-reported message
type Diagnostic struct {
	Severity         string `json:"severity"`
	Type             string `json:"type"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage"`
	SourceFile       string `json:"sourceFile,omitempty"`
	Start            int    `json:"start,omitempty"`
	End              int    `json:"end,omitempty"`
}

// String prefers the compiler's own formatting
func (d Diagnostic) String() string {
	if d.FormattedMessage != "" {
		return strings.TrimRight(d.FormattedMessage, "\n")
	}
	if d.Type != "" {
		return fmt.Sprintf("%s: %s", d.Type, d.Message)
	}
	return d.Message
}

// CompilationError carries the compiler's diagnostics in the order reported
type CompilationError struct {
	Source      string
	Diagnostics []Diagnostic
}

func (e *CompilationError) Error() string {
	if len(e.Diagnostics) == 0 {
		return fmt.Sprintf("compilation of %s failed", e.Source)
	}
	lines := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		lines = append(lines, d.String())
	}
	return fmt.Sprintf("compilation of %s failed with %d error(s):\n%s",
		e.Source, len(e.Diagnostics), strings.Join(lines, "\n"))
}

func (e *CompilationError) Kind() ErrorKind {
	return KindCompilation
}

// Messages returns the diagnostic texts in order
func (e *CompilationError) Messages() []string {
	out := make([]string, 0, len(e.Diagnostics))
	for _, d := range e.Diagnostics {
		out = append(out, d.String())
	}
	return out
}

// NetworkErrorType subdivides network failures
type NetworkErrorType string

const (
	NetworkUnreachable NetworkErrorType = "unreachable"
	NetworkBroadcast   NetworkErrorType = "broadcast"
	NetworkTimeout     NetworkErrorType = "timeout"
	NetworkRPC         NetworkErrorType = "rpc"
)

// NetworkError is a broadcast, transport or confirmation failure
type NetworkError struct {
	Type            NetworkErrorType
	Op              string
	TransactionHash string
	Err             error
}

func (e *NetworkError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s failed (%s)", e.Op, e.Type)
	if e.TransactionHash != "" {
		fmt.Fprintf(&b, " for transaction %s", e.TransactionHash)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func (e *NetworkError) Kind() ErrorKind {
	return KindNetwork
}

// IsTimeout reports whether err is a confirmation timeout
func IsTimeout(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr) && netErr.Type == NetworkTimeout
}

// AddressResolutionError means no strategy produced a contract address
type AddressResolutionError struct {
	TransactionHash string
	Attempted       []string
	Cause           error
}

func (e *AddressResolutionError) Error() string {
	msg := fmt.Sprintf("could not determine deployed contract address for transaction %s (tried %s)",
		e.TransactionHash, strings.Join(e.Attempted, ", "))
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: last error: %v", msg, e.Cause)
	}
	return msg
}

func (e *AddressResolutionError) Unwrap() error {
	return e.Cause
}

func (e *AddressResolutionError) Kind() ErrorKind {
	return KindAddressResolution
}

// DeploymentErrorType subdivides deployment failures
type DeploymentErrorType string

const (
	DeploymentReverted DeploymentErrorType = "reverted"
	DeploymentNoCode   DeploymentErrorType = "no-code"
)

// DeploymentError is a mined but unsuccessful deployment
type DeploymentError struct {
	Type            DeploymentErrorType
	TransactionHash string
	Address         string
}

func (e *DeploymentError) Error() string {
	switch e.Type {
	case DeploymentReverted:
		return fmt.Sprintf("deployment transaction %s reverted", e.TransactionHash)
	case DeploymentNoCode:
		return fmt.Sprintf("no code at resolved address %s (transaction %s)", e.Address, e.TransactionHash)
	}
	return fmt.Sprintf("deployment %s failed", e.TransactionHash)
}

func (e *DeploymentError) Kind() ErrorKind {
	return KindDeployment
}

