package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/catapult/internal/domain"
	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// ListNetworksParams contains parameters for listing networks
type ListNetworksParams struct{}

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
	Current  string
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name        string
	ChainID     uint64
	RPCURL      string
	ExplorerURL string
	Current     bool
	Error       error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	cfg *config.RuntimeConfig
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(cfg *config.RuntimeConfig) *ListNetworks {
	return &ListNetworks{cfg: cfg}
}

// Run executes the use case
func (uc *ListNetworks) Run(ctx context.Context, params ListNetworksParams) (*ListNetworksResult, error) {
	names := lo.Keys(uc.cfg.Networks)
	sort.Strings(names)

	networks := make([]NetworkStatus, 0, len(names))
	for _, name := range names {
		n := uc.cfg.Networks[name]
		status := NetworkStatus{
			Name:        name,
			ChainID:     n.ChainID,
			RPCURL:      n.RPCURL,
			ExplorerURL: n.ExplorerURL,
			Current:     name == uc.cfg.NetworkName,
		}
		if n.RPCURL == "" {
			status.Error = &domain.ConfigurationError{
				Field:  "network",
				Reason: fmt.Sprintf("network %q has no RPC endpoint", name),
			}
		}
		networks = append(networks, status)
	}

	return &ListNetworksResult{
		Networks: networks,
		Current:  uc.cfg.NetworkName,
	}, nil
}
