// Package subgraph is the indexed read path: a per-chain GraphQL client
// over the poll subgraph, with an in-process cache that merges paginated
// result pages into stable entries keyed by query parameters.
package subgraph

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pollbase/pollbase/pkg/utils"
)

// FallbackChainID is used when the active chain has no configured subgraph
// endpoint. Falling back is a degraded-but-working state, surfaced as a
// warning rather than an error.
const FallbackChainID uint64 = 5000

// defaultEndpoints maps chain IDs to subgraph URLs. Each entry can be
// overridden with SUBGRAPH_URL_<chainID>.
var defaultEndpoints = map[uint64]string{
	5000: "https://graph.mantle.xyz/subgraphs/name/pollbase/polls",
	5003: "https://graph-sepolia.mantle.xyz/subgraphs/name/pollbase/polls",
}

// HasEndpoint reports whether the chain has its own subgraph endpoint,
// counting env overrides. Chains without one are candidates for a locked
// data-source gateway.
func HasEndpoint(chainID uint64) bool {
	if utils.Env(envKey(chainID), "") != "" {
		return true
	}
	_, ok := defaultEndpoints[chainID]
	return ok
}

// EndpointFor resolves the subgraph URL for a chain, falling back to the
// FallbackChainID endpoint (with a warning) when the chain is unconfigured.
// It returns the URL and the chain whose endpoint was actually chosen.
func EndpointFor(chainID uint64, logger *zap.Logger) (string, uint64) {
	if url := utils.Env(envKey(chainID), ""); url != "" {
		return url, chainID
	}
	if url, ok := defaultEndpoints[chainID]; ok {
		return url, chainID
	}

	logger.Warn("No subgraph endpoint configured for chain, using fallback",
		zap.Uint64("chainID", chainID),
		zap.Uint64("fallbackChainID", FallbackChainID))
	if url := utils.Env(envKey(FallbackChainID), ""); url != "" {
		return url, FallbackChainID
	}
	return defaultEndpoints[FallbackChainID], FallbackChainID
}

func envKey(chainID uint64) string {
	return fmt.Sprintf("SUBGRAPH_URL_%d", chainID)
}
