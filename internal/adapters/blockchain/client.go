package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"
	abiargs "github.com/trebuchet-org/catapult/internal/adapters/abi"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
	"github.com/trebuchet-org/catapult/internal/usecase"
)

// Backend is the subset of the RPC client the adapter needs. Both
// *ethclient.Client and the simulated backend's client satisfy it.
type Backend interface {
	bind.ContractBackend
	ethereum.ChainStateReader
	ethereum.TransactionReader
	ChainID(ctx context.Context) (*big.Int, error)
}

// ClientAdapter implements ChainClient on top of go-ethereum
type ClientAdapter struct {
	deploy  config.DeployConfig
	dial    func(ctx context.Context, rpcURL string) (Backend, func(), error)
	backend Backend
	closer  func()
	chainID uint64
	now     func() time.Time
	log     *slog.Logger
}

// NewClientAdapter creates an adapter that dials the endpoint on Connect
func NewClientAdapter(cfg *config.RuntimeConfig, log *slog.Logger) *ClientAdapter {
	return &ClientAdapter{
		deploy: cfg.Deploy,
		dial:   dialEthclient,
		now:    time.Now,
		log:    log.With("component", "chain_client"),
	}
}

// NewClientAdapterWithBackend creates an adapter over an already connected
// backend. Connect then only verifies the chain ID.
func NewClientAdapterWithBackend(backend Backend, deploy config.DeployConfig, log *slog.Logger) *ClientAdapter {
	return &ClientAdapter{
		deploy:  deploy,
		backend: backend,
		now:     time.Now,
		log:     log.With("component", "chain_client"),
	}
}

func dialEthclient(ctx context.Context, rpcURL string) (Backend, func(), error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, nil, err
	}
	return client, client.Close, nil
}

// Connect establishes the connection and checks the chain ID. A zero chainID
// accepts whatever the endpoint serves.
func (c *ClientAdapter) Connect(ctx context.Context, rpcURL string, chainID uint64) error {
	if c.dial != nil {
		backend, closer, err := c.dial(ctx, rpcURL)
		if err != nil {
			return &domain.NetworkError{Type: domain.NetworkUnreachable, Op: "connect", Err: err}
		}
		c.backend = backend
		c.closer = closer
	}
	if c.backend == nil {
		return &domain.NetworkError{Type: domain.NetworkUnreachable, Op: "connect", Err: errors.New("no backend")}
	}

	networkChainID, err := c.backend.ChainID(ctx)
	if err != nil {
		c.Close()
		return &domain.NetworkError{Type: domain.NetworkUnreachable, Op: "connect", Err: fmt.Errorf("failed to get chain ID: %w", err)}
	}

	if chainID != 0 && networkChainID.Uint64() != chainID {
		c.Close()
		return &domain.NetworkError{
			Type: domain.NetworkUnreachable,
			Op:   "connect",
			Err:  fmt.Errorf("%w: expected chain %d, endpoint serves %d", domain.ErrNetworkMismatch, chainID, networkChainID.Uint64()),
		}
	}
	c.chainID = networkChainID.Uint64()

	c.log.Debug("connected", "chain_id", c.chainID)
	return nil
}

// Close releases the connection, if this adapter dialed it
func (c *ClientAdapter) Close() {
	if c.closer != nil {
		c.closer()
		c.closer = nil
		c.backend = nil
	}
}

// ChainID returns the chain ID observed on Connect
func (c *ClientAdapter) ChainID() uint64 {
	return c.chainID
}

// SignerAddress derives the sender address from the credential
func (c *ClientAdapter) SignerAddress(signer domain.Signer) (string, error) {
	key, err := privateKey(signer)
	if err != nil {
		return "", err
	}
	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

// Balance returns the account balance in whole native units
func (c *ClientAdapter) Balance(ctx context.Context, address string) (string, error) {
	if err := c.requireConnected(); err != nil {
		return "", err
	}
	wei, err := c.backend.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return "", &domain.NetworkError{Type: domain.NetworkRPC, Op: "get balance", Err: err}
	}
	return FormatEther(wei), nil
}

// Submit signs and broadcasts the contract creation
func (c *ClientAdapter) Submit(ctx context.Context, req *domain.DeploymentRequest) (*domain.PendingDeployment, error) {
	if err := c.requireConnected(); err != nil {
		return nil, err
	}

	key, err := privateKey(req.Signer)
	if err != nil {
		return nil, err
	}
	bytecode, err := req.Artifact.Bytecode()
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode for %s: %w", req.Artifact.ContractName, err)
	}
	packed, values, err := abiargs.PackConstructorArgs(req.Artifact, req.ConstructorArgs)
	if err != nil {
		return nil, err
	}

	switch c.deploy.SubmitMode {
	case config.SubmitModeBind:
		return c.submitBind(ctx, key, req.Artifact, bytecode, values)
	default:
		return c.submitSignedTx(ctx, key, append(bytecode, packed...))
	}
}

// submitSignedTx builds the transaction itself. The handle exposes the
// address through an accessor computed from sender and nonce.
func (c *ClientAdapter) submitSignedTx(ctx context.Context, key *ecdsa.PrivateKey, data []byte) (*domain.PendingDeployment, error) {
	from := crypto.PubkeyToAddress(key.PublicKey)
	chainID := new(big.Int).SetUint64(c.chainID)

	nonce, err := c.backend.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, &domain.NetworkError{Type: domain.NetworkRPC, Op: "get nonce", Err: err}
	}

	gasLimit := c.deploy.GasLimit
	if gasLimit == 0 {
		gasLimit, err = c.backend.EstimateGas(ctx, ethereum.CallMsg{From: from, Data: data})
		if err != nil {
			return nil, &domain.NetworkError{Type: domain.NetworkRPC, Op: "estimate gas", Err: err}
		}
	}

	head, err := c.backend.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, &domain.NetworkError{Type: domain.NetworkRPC, Op: "get head", Err: err}
	}

	var txData types.TxData
	if head.BaseFee != nil {
		tip, err := c.backend.SuggestGasTipCap(ctx)
		if err != nil {
			return nil, &domain.NetworkError{Type: domain.NetworkRPC, Op: "suggest tip", Err: err}
		}
		feeCap := new(big.Int).Add(tip, new(big.Int).Mul(head.BaseFee, big.NewInt(2)))
		txData = &types.DynamicFeeTx{
			ChainID:   chainID,
			Nonce:     nonce,
			GasTipCap: tip,
			GasFeeCap: feeCap,
			Gas:       gasLimit,
			Data:      data,
		}
	} else {
		gasPrice, err := c.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, &domain.NetworkError{Type: domain.NetworkRPC, Op: "suggest gas price", Err: err}
		}
		txData = &types.LegacyTx{
			Nonce:    nonce,
			GasPrice: gasPrice,
			Gas:      gasLimit,
			Data:     data,
		}
	}

	tx, err := types.SignNewTx(key, types.LatestSignerForChainID(chainID), txData)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := c.backend.SendTransaction(ctx, tx); err != nil {
		return nil, &domain.NetworkError{
			Type:            domain.NetworkBroadcast,
			Op:              "broadcast",
			TransactionHash: tx.Hash().Hex(),
			Err:             err,
		}
	}

	return &domain.PendingDeployment{
		TransactionHash: tx.Hash().Hex(),
		SubmittedAt:     c.now(),
		Sender:          from.Hex(),
		Nonce:           nonce,
		Handle: domain.DeploymentHandle{
			Accessor: func(context.Context) (string, error) {
				return crypto.CreateAddress(from, nonce).Hex(), nil
			},
		},
	}, nil
}

// submitBind goes through bind.DeployContract, whose result only carries
// the plain address
func (c *ClientAdapter) submitBind(ctx context.Context, key *ecdsa.PrivateKey, artifact *domain.CompilationArtifact, bytecode []byte, values []any) (*domain.PendingDeployment, error) {
	parsed, err := artifact.ParsedABI()
	if err != nil {
		return nil, err
	}

	auth, err := bind.NewKeyedTransactorWithChainID(key, new(big.Int).SetUint64(c.chainID))
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx
	auth.GasLimit = c.deploy.GasLimit

	address, tx, _, err := bind.DeployContract(auth, *parsed, bytecode, c.backend, values...)
	if err != nil {
		netErr := &domain.NetworkError{Type: domain.NetworkBroadcast, Op: "deploy", Err: err}
		if tx != nil {
			netErr.TransactionHash = tx.Hash().Hex()
		}
		return nil, netErr
	}

	return &domain.PendingDeployment{
		TransactionHash: tx.Hash().Hex(),
		SubmittedAt:     c.now(),
		Sender:          auth.From.Hex(),
		Nonce:           tx.Nonce(),
		Handle: domain.DeploymentHandle{
			Address: address.Hex(),
		},
	}, nil
}

// AwaitConfirmation polls for the receipt until it is mined or the
// confirmation timeout elapses. Lookup errors are logged and polling goes on,
// the same way bind.WaitMined treats them.
func (c *ClientAdapter) AwaitConfirmation(ctx context.Context, pending *domain.PendingDeployment) (*domain.Receipt, error) {
	if err := c.requireConnected(); err != nil {
		return nil, err
	}

	waitCtx := ctx
	if c.deploy.ConfirmationTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, c.deploy.ConfirmationTimeout)
		defer cancel()
	}

	interval := c.deploy.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for {
		receipt, err := c.TransactionReceipt(waitCtx, pending.TransactionHash)
		if err == nil && receipt != nil {
			c.log.Debug("transaction mined", "tx_hash", pending.TransactionHash, "status", receipt.Status)
			return receipt, nil
		}
		if err != nil && waitCtx.Err() == nil {
			c.log.Debug("receipt lookup failed, retrying", "tx_hash", pending.TransactionHash, "error", err)
			lastErr = err
		}

		select {
		case <-waitCtx.Done():
			// only an explicit cancel is passed through untyped; any deadline,
			// ours or the caller's, is a confirmation timeout
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil, ctx.Err()
			}
			return nil, c.timeoutError(pending, lastErr)
		case <-ticker.C:
		}
	}
}

func (c *ClientAdapter) timeoutError(pending *domain.PendingDeployment, lastErr error) error {
	var cause error
	if c.deploy.ConfirmationTimeout > 0 {
		cause = fmt.Errorf("not mined within %s", c.deploy.ConfirmationTimeout)
	} else {
		cause = errors.New("not mined before the command deadline")
	}
	if lastErr != nil {
		cause = fmt.Errorf("%w (last lookup error: %v)", cause, lastErr)
	}
	return &domain.NetworkError{
		Type:            domain.NetworkTimeout,
		Op:              "await confirmation",
		TransactionHash: pending.TransactionHash,
		Err:             cause,
	}
}

// TransactionReceipt fetches a receipt, nil if the transaction is not mined
// yet or the node has not finished indexing it
func (c *ClientAdapter) TransactionReceipt(ctx context.Context, txHash string) (*domain.Receipt, error) {
	if err := c.requireConnected(); err != nil {
		return nil, err
	}

	r, err := c.backend.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) || isIndexingInProgress(err) {
			return nil, nil
		}
		return nil, &domain.NetworkError{Type: domain.NetworkRPC, Op: "get receipt", TransactionHash: txHash, Err: err}
	}
	return toReceipt(r), nil
}

// txIndexingMessage is what nodes answer while their transaction index is
// still being built. It only crosses the RPC boundary as text.
const txIndexingMessage = "transaction indexing is in progress"

func isIndexingInProgress(err error) bool {
	return strings.Contains(err.Error(), txIndexingMessage)
}

// GetCode returns the runtime bytecode at address on the latest block
func (c *ClientAdapter) GetCode(ctx context.Context, address string) ([]byte, error) {
	if err := c.requireConnected(); err != nil {
		return nil, err
	}
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAddress, address)
	}

	code, err := c.backend.CodeAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, &domain.NetworkError{Type: domain.NetworkRPC, Op: "get code", Err: err}
	}
	return code, nil
}

func (c *ClientAdapter) requireConnected() error {
	if c.backend == nil || c.chainID == 0 {
		return &domain.NetworkError{Type: domain.NetworkUnreachable, Op: "rpc", Err: errors.New("not connected to blockchain")}
	}
	return nil
}

func toReceipt(r *types.Receipt) *domain.Receipt {
	receipt := &domain.Receipt{
		TransactionHash: r.TxHash.Hex(),
		GasUsed:         r.GasUsed,
		Status:          domain.ReceiptStatusReverted,
	}
	if r.Status == types.ReceiptStatusSuccessful {
		receipt.Status = domain.ReceiptStatusSuccess
	}
	if r.ContractAddress != (common.Address{}) {
		receipt.ContractAddress = r.ContractAddress.Hex()
	}
	if r.BlockNumber != nil {
		n := r.BlockNumber.Uint64()
		receipt.BlockNumber = &n
	}
	return receipt
}

// privateKey parses the credential. The key material never appears in errors.
func privateKey(signer domain.Signer) (*ecdsa.PrivateKey, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(string(signer)), "0x")
	key, err := crypto.HexToECDSA(raw)
	if err != nil {
		return nil, errors.New("signer is not a valid secp256k1 private key")
	}
	return key, nil
}

// FormatEther renders wei as a decimal amount of ether, e.g. "1.5"
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	return decimal.NewFromBigInt(wei, -18).String()
}

// Ensure ClientAdapter implements ChainClient
var _ usecase.ChainClient = (*ClientAdapter)(nil)
