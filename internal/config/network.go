package config

import (
	"os"

	"github.com/trebuchet-org/catapult/internal/domain/config"
)

// builtinNetworks are available without a catapult.toml. Their RPC URLs can
// be overridden with the <NAME>_RPC_URL convention.
var builtinNetworks = map[string]config.Network{
	"local": {
		RPCURL:  "http://127.0.0.1:8545",
		ChainID: 31337,
	},
	"fantom": {
		RPCURL:  "https://rpc.ftm.tools/",
		ChainID: 250,
	},
	"fantomTestnet": {
		RPCURL:  "https://rpc.testnet.fantom.network",
		ChainID: 4002,
	},
}

// builtinEnvVars maps built-in network names to the env var overriding the RPC URL
var builtinEnvVars = map[string]string{
	"local":         "LOCAL_RPC_URL",
	"fantom":        "FANTOM_RPC_URL",
	"fantomTestnet": "FANTOM_TESTNET_RPC_URL",
}

// resolveNetworks merges built-in networks with the configured ones.
// Configured networks replace built-ins of the same name.
func resolveNetworks(file *config.CatapultFileConfig) map[string]config.Network {
	networks := make(map[string]config.Network, len(builtinNetworks))

	for name, network := range builtinNetworks {
		network.Name = name
		if envVar, ok := builtinEnvVars[name]; ok {
			if url := os.Getenv(envVar); url != "" {
				network.RPCURL = url
			}
		}
		networks[name] = network
	}

	if file != nil {
		for name, network := range file.Networks {
			network.Name = name
			networks[name] = network
		}
	}

	for name, network := range networks {
		if network.ExplorerURL == "" {
			network.ExplorerURL = explorerURL(network.ChainID)
			networks[name] = network
		}
	}

	return networks
}

// explorerURL returns the default explorer for well-known chains
func explorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 43114:
		return "https://snowtrace.io"
	case 56:
		return "https://bscscan.com"
	case 250:
		return "https://ftmscan.com"
	case 4002:
		return "https://testnet.ftmscan.com"
	default:
		return ""
	}
}
