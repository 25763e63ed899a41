package compiler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// Runner executes the compiler with a standard-JSON input document and
// returns its standard-JSON output
type Runner func(ctx context.Context, input []byte) ([]byte, error)

// SolcAdapter compiles Solidity through solc's standard-JSON interface
type SolcAdapter struct {
	cfg    config.CompilerConfig
	run    Runner
	log    *slog.Logger
	mu     sync.Mutex
	cached string
}

// NewSolcAdapter creates a compiler that shells out to the configured solc binary
func NewSolcAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *SolcAdapter {
	a := &SolcAdapter{
		cfg: cfg.Compiler,
		log: log.With("component", "solc"),
	}
	a.run = a.execSolc
	return a
}

// NewSolcAdapterWithRunner creates a compiler over an arbitrary runner
func NewSolcAdapterWithRunner(cfg config.CompilerConfig, run Runner, log *slog.Logger) *SolcAdapter {
	return &SolcAdapter{
		cfg: cfg,
		run: run,
		log: log.With("component", "solc"),
	}
}

// Compile compiles sourceText as the compilation unit entryFileName
func (a *SolcAdapter) Compile(ctx context.Context, sourceText, entryFileName string, opts usecase.CompileOptions) (*domain.CompilationArtifact, error) {
	input, err := buildInput(sourceText, entryFileName, a.cfg)
	if err != nil {
		return nil, err
	}

	a.log.Debug("invoking compiler", "entry", entryFileName, "solc", a.cfg.Solc)
	output, err := a.run(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to run compiler: %w", err)
	}

	artifact, err := parseOutput(output, entryFileName, opts.ContractName)
	if err != nil {
		return nil, err
	}

	artifact.Compiler = domain.CompilerInfo{
		Version:          a.version(ctx),
		EVMVersion:       a.cfg.EVMVersion,
		OptimizerEnabled: a.cfg.Optimizer,
	}
	if a.cfg.Optimizer {
		artifact.Compiler.OptimizerRuns = a.cfg.OptimizerRuns
	}

	return artifact, nil
}

type standardInput struct {
	Language string                 `json:"language"`
	Sources  map[string]inputSource `json:"sources"`
	Settings inputSettings          `json:"settings"`
}

type inputSource struct {
	Content string `json:"content"`
}

type inputSettings struct {
	Optimizer       optimizerSettings              `json:"optimizer"`
	EVMVersion      string                         `json:"evmVersion,omitempty"`
	OutputSelection map[string]map[string][]string `json:"outputSelection"`
}

type optimizerSettings struct {
	Enabled bool `json:"enabled"`
	Runs    int  `json:"runs,omitempty"`
}

// buildInput renders the standard-JSON input. encoding/json sorts map keys,
// so equal inputs always produce identical documents.
func buildInput(sourceText, entryFileName string, cfg config.CompilerConfig) ([]byte, error) {
	in := standardInput{
		Language: "Solidity",
		Sources: map[string]inputSource{
			entryFileName: {Content: sourceText},
		},
		Settings: inputSettings{
			Optimizer:  optimizerSettings{Enabled: cfg.Optimizer},
			EVMVersion: cfg.EVMVersion,
			OutputSelection: map[string]map[string][]string{
				"*": {
					"":  {"ast"},
					"*": {"abi", "evm.bytecode.object"},
				},
			},
		},
	}
	if cfg.Optimizer {
		in.Settings.Optimizer.Runs = cfg.OptimizerRuns
	}
	return json.Marshal(in)
}

type standardOutput struct {
	Errors    []outputError                        `json:"errors"`
	Sources   map[string]outputSource              `json:"sources"`
	Contracts map[string]map[string]outputContract `json:"contracts"`
}

type outputError struct {
	Severity         string `json:"severity"`
	Type             string `json:"type"`
	Message          string `json:"message"`
	FormattedMessage string `json:"formattedMessage"`
	SourceLocation   *struct {
		File  string `json:"file"`
		Start int    `json:"start"`
		End   int    `json:"end"`
	} `json:"sourceLocation"`
}

type outputSource struct {
	AST astNode `json:"ast"`
}

type astNode struct {
	NodeType string    `json:"nodeType"`
	Name     string    `json:"name"`
	Nodes    []astNode `json:"nodes"`
}

type outputContract struct {
	ABI []domain.ABIEntry `json:"abi"`
	EVM struct {
		Bytecode struct {
			Object string `json:"object"`
		} `json:"bytecode"`
	} `json:"evm"`
}

// parseOutput extracts the selected contract from the compiler output.
// Compiler-reported errors become a *domain.CompilationError.
func parseOutput(output []byte, entryFileName, contractName string) (*domain.CompilationArtifact, error) {
	var out standardOutput
	if err := json.Unmarshal(output, &out); err != nil {
		return nil, fmt.Errorf("failed to parse compiler output: %w", err)
	}

	var diagnostics []domain.Diagnostic
	var warnings []string
	for _, e := range out.Errors {
		d := domain.Diagnostic{
			Severity:         e.Severity,
			Type:             e.Type,
			Message:          e.Message,
			FormattedMessage: e.FormattedMessage,
		}
		if e.SourceLocation != nil {
			d.SourceFile = e.SourceLocation.File
			d.Start = e.SourceLocation.Start
			d.End = e.SourceLocation.End
		}
		if e.Severity == "error" {
			diagnostics = append(diagnostics, d)
		} else {
			warnings = append(warnings, d.String())
		}
	}
	if len(diagnostics) > 0 {
		return nil, &domain.CompilationError{Source: entryFileName, Diagnostics: diagnostics}
	}

	contracts, ok := out.Contracts[entryFileName]
	if !ok || len(contracts) == 0 {
		return nil, compilationFailure(entryFileName, "no contracts found in compilation output")
	}

	order := declarationOrder(out.Sources[entryFileName].AST, contracts)

	name, err := selectContract(entryFileName, contractName, order, contracts)
	if err != nil {
		return nil, err
	}
	selected := contracts[name]

	object := selected.EVM.Bytecode.Object
	if strings.Contains(object, "__$") {
		return nil, compilationFailure(entryFileName, fmt.Sprintf("contract %s requires library linking, which is not supported", name))
	}

	artifact := &domain.CompilationArtifact{
		SourceName:   entryFileName,
		ContractName: name,
		ABI:          selected.ABI,
		BytecodeHex:  "0x" + strings.TrimPrefix(object, "0x"),
		Warnings:     warnings,
	}

	raw, err := artifact.ABIJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to encode ABI for %s: %w", name, err)
	}
	if _, err := abi.JSON(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
	}

	return artifact, nil
}

// declarationOrder lists contract names in the order they are defined in the
// source. Names the AST does not mention are appended alphabetically.
func declarationOrder(ast astNode, contracts map[string]outputContract) []string {
	var order []string
	for _, node := range ast.Nodes {
		if node.NodeType != "ContractDefinition" {
			continue
		}
		if _, ok := contracts[node.Name]; ok {
			order = append(order, node.Name)
		}
	}

	rest := lo.Filter(lo.Keys(contracts), func(name string, _ int) bool {
		return !lo.Contains(order, name)
	})
	sort.Strings(rest)

	return append(order, rest...)
}

// selectContract applies the selection policy: the named contract when a
// discriminator is given, otherwise the first deployable one in file order
func selectContract(entryFileName, contractName string, order []string, contracts map[string]outputContract) (string, error) {
	if contractName != "" {
		c, ok := contracts[contractName]
		if !ok {
			return "", compilationFailure(entryFileName, fmt.Sprintf("contract %s not found (available: %s)",
				contractName, strings.Join(order, ", ")))
		}
		if c.EVM.Bytecode.Object == "" {
			return "", compilationFailure(entryFileName, fmt.Sprintf("contract %s is abstract or an interface and cannot be deployed", contractName))
		}
		return contractName, nil
	}

	for _, name := range order {
		if contracts[name].EVM.Bytecode.Object != "" {
			return name, nil
		}
	}
	return "", compilationFailure(entryFileName, "no deployable contract found (all contracts are abstract or interfaces)")
}

func compilationFailure(source, message string) *domain.CompilationError {
	return &domain.CompilationError{
		Source:      source,
		Diagnostics: []domain.Diagnostic{{Severity: "error", Message: message}},
	}
}

func (a *SolcAdapter) execSolc(ctx context.Context, input []byte) ([]byte, error) {
	cmd := exec.CommandContext(ctx, a.cfg.Solc, "--standard-json")
	cmd.Stdin = bytes.NewReader(input)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s --standard-json: %w: %s", a.cfg.Solc, err, msg)
		}
		return nil, fmt.Errorf("%s --standard-json: %w", a.cfg.Solc, err)
	}
	return output, nil
}

var versionPattern = regexp.MustCompile(`Version:\s*(\S+)`)

// version reports the solc version, empty if it cannot be determined
func (a *SolcAdapter) version(ctx context.Context) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.cached != "" || a.cfg.Solc == "" {
		return a.cached
	}

	out, err := exec.CommandContext(ctx, a.cfg.Solc, "--version").Output()
	if err != nil {
		a.log.Debug("could not determine solc version", "error", err)
		return ""
	}
	if m := versionPattern.FindSubmatch(out); m != nil {
		a.cached = "v" + string(m[1])
	}
	return a.cached
}

var _ usecase.ArtifactCompiler = (*SolcAdapter)(nil)
