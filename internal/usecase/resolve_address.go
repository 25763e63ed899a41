package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/catapult/internal/domain"
)

// Strategy names, in the order they are tried by default
const (
	StrategyAccessor      = "accessor"
	StrategyAddressField  = "address-field"
	StrategyTargetField   = "target-field"
	StrategyReceiptLookup = "receipt-lookup"
)

// AddressStrategy is one way of extracting the deployed address. An empty
// address with a nil error means the strategy had nothing to offer.
type AddressStrategy struct {
	Name    string
	Resolve func(ctx context.Context, pending *domain.PendingDeployment, receipt *domain.Receipt) (string, error)
}

// ReceiptFetcher looks up a receipt by transaction hash
type ReceiptFetcher interface {
	TransactionReceipt(ctx context.Context, txHash string) (*domain.Receipt, error)
}

// AccessorStrategy asks the deployment handle through its modern accessor
func AccessorStrategy() AddressStrategy {
	return AddressStrategy{
		Name: StrategyAccessor,
		Resolve: func(ctx context.Context, pending *domain.PendingDeployment, _ *domain.Receipt) (string, error) {
			if pending == nil || pending.Handle.Accessor == nil {
				return "", nil
			}
			return pending.Handle.Accessor(ctx)
		},
	}
}

// AddressFieldStrategy reads the handle's plain address field
func AddressFieldStrategy() AddressStrategy {
	return AddressStrategy{
		Name: StrategyAddressField,
		Resolve: func(_ context.Context, pending *domain.PendingDeployment, _ *domain.Receipt) (string, error) {
			if pending == nil {
				return "", nil
			}
			return pending.Handle.Address, nil
		},
	}
}

// TargetFieldStrategy reads the handle's alternately named address field
func TargetFieldStrategy() AddressStrategy {
	return AddressStrategy{
		Name: StrategyTargetField,
		Resolve: func(_ context.Context, pending *domain.PendingDeployment, _ *domain.Receipt) (string, error) {
			if pending == nil {
				return "", nil
			}
			return pending.Handle.Target, nil
		},
	}
}

// ReceiptLookupStrategy reads contractAddress from the receipt, fetching it
// again by hash when the one in hand does not carry it
func ReceiptLookupStrategy(fetcher ReceiptFetcher) AddressStrategy {
	return AddressStrategy{
		Name: StrategyReceiptLookup,
		Resolve: func(ctx context.Context, pending *domain.PendingDeployment, receipt *domain.Receipt) (string, error) {
			if receipt != nil && receipt.ContractAddress != "" {
				return receipt.ContractAddress, nil
			}
			txHash := transactionHash(pending, receipt)
			if txHash == "" || fetcher == nil {
				return "", nil
			}
			fetched, err := fetcher.TransactionReceipt(ctx, txHash)
			if err != nil {
				return "", err
			}
			if fetched == nil {
				return "", nil
			}
			return fetched.ContractAddress, nil
		},
	}
}

// DefaultAddressStrategies returns the standard fallback chain
func DefaultAddressStrategies(fetcher ReceiptFetcher) []AddressStrategy {
	return []AddressStrategy{
		AccessorStrategy(),
		AddressFieldStrategy(),
		TargetFieldStrategy(),
		ReceiptLookupStrategy(fetcher),
	}
}

// Resolution is a resolved address and the strategy that produced it
type Resolution struct {
	Address  string
	Strategy string
}

// AddressResolver determines the canonical address of a confirmed deployment
// by trying its strategies in order. The first usable address wins and later
// strategies are not invoked.
type AddressResolver struct {
	strategies []AddressStrategy
	log        *slog.Logger
}

// NewAddressResolver creates a resolver over an explicit strategy list
func NewAddressResolver(strategies []AddressStrategy, log *slog.Logger) *AddressResolver {
	if log == nil {
		log = slog.Default()
	}
	return &AddressResolver{
		strategies: strategies,
		log:        log.With("component", "address_resolver"),
	}
}

// NewDefaultAddressResolver creates a resolver with the standard strategies,
// using the chain client for receipt lookups
func NewDefaultAddressResolver(client ChainClient, log *slog.Logger) *AddressResolver {
	return NewAddressResolver(DefaultAddressStrategies(client), log)
}

// Resolve runs the strategy chain
func (r *AddressResolver) Resolve(ctx context.Context, pending *domain.PendingDeployment, receipt *domain.Receipt) (*Resolution, error) {
	attempted := make([]string, 0, len(r.strategies))
	var lastErr error

	for _, strategy := range r.strategies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		attempted = append(attempted, strategy.Name)

		raw, err := strategy.Resolve(ctx, pending, receipt)
		if err != nil {
			r.log.Debug("address strategy failed", "strategy", strategy.Name, "error", err)
			lastErr = err
			continue
		}

		address, err := normalizeAddress(raw)
		if err != nil {
			r.log.Debug("address strategy returned unusable value", "strategy", strategy.Name, "value", raw)
			lastErr = err
			continue
		}
		if address == "" {
			r.log.Debug("address strategy yielded nothing", "strategy", strategy.Name)
			continue
		}

		r.log.Debug("resolved contract address", "strategy", strategy.Name, "address", address)
		return &Resolution{Address: address, Strategy: strategy.Name}, nil
	}

	return nil, &domain.AddressResolutionError{
		TransactionHash: transactionHash(pending, receipt),
		Attempted:       attempted,
		Cause:           lastErr,
	}
}

// normalizeAddress checksums a hex address. Empty and zero addresses
// normalize to "".
func normalizeAddress(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if !common.IsHexAddress(raw) {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidAddress, raw)
	}
	addr := common.HexToAddress(raw)
	if addr == (common.Address{}) {
		return "", nil
	}
	return addr.Hex(), nil
}

func transactionHash(pending *domain.PendingDeployment, receipt *domain.Receipt) string {
	if pending != nil && pending.TransactionHash != "" {
		return pending.TransactionHash
	}
	if receipt != nil {
		return receipt.TransactionHash
	}
	return ""
}
