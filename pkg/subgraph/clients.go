package subgraph

import (
	"context"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"
)

// Clients is the explicit per-chain client factory. The first caller to ask
// for a chain owns its client's construction; everyone after shares it.
type Clients struct {
	logger  *zap.Logger
	byChain *xsync.Map[uint64, *Client]
}

// NewClients builds an empty factory.
func NewClients(logger *zap.Logger) *Clients {
	return &Clients{
		logger:  logger,
		byChain: xsync.NewMap[uint64, *Client](),
	}
}

// For returns the chain's client, creating it on first use. Chains without
// a configured endpoint get a client pointed at the fallback endpoint; the
// construction path logs the warning.
func (c *Clients) For(chainID uint64) *Client {
	if client, ok := c.byChain.Load(chainID); ok {
		return client
	}
	client, _ := c.byChain.LoadOrStore(chainID, NewClient(chainID, c.logger, ClientOpts{}))
	return client
}

// RefreshAll reconciles every chain's cached queries with the network.
func (c *Clients) RefreshAll(ctx context.Context) {
	c.byChain.Range(func(chainID uint64, client *Client) bool {
		if err := client.Refresh(ctx); err != nil {
			c.logger.Warn("Subgraph cache refresh finished with errors",
				zap.Uint64("chainID", chainID), zap.Error(err))
		}
		return true
	})
}
