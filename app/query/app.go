package query

import (
	"context"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/pollbase/pollbase/app/query/types"
	"github.com/pollbase/pollbase/pkg/chain"
	"github.com/pollbase/pollbase/pkg/logging"
	"github.com/pollbase/pollbase/pkg/redis"
	"github.com/pollbase/pollbase/pkg/refresh"
	"github.com/pollbase/pollbase/pkg/source"
	"github.com/pollbase/pollbase/pkg/subgraph"
	"github.com/pollbase/pollbase/pkg/utils"
)

// Initialize wires the application: logger, persisted data-source gateway,
// subgraph clients with their background refresher, and (when configured)
// the direct contract read path.
func Initialize(ctx context.Context) *types.App {
	logger, err := logging.New()
	if err != nil {
		// nothing else to do here, we'll just log to stderr
		panic(err)
	}

	chainID := utils.EnvUint64("CHAIN_ID", subgraph.FallbackChainID)

	// The gateway is locked to contract reads when the active chain has no
	// subgraph to fall back on.
	locked := !subgraph.HasEndpoint(chainID)

	var store source.PreferenceStore
	if !locked {
		if utils.EnvBool("REDIS_ENABLED", false) {
			rdb, redisErr := redis.NewClient(ctx, logger)
			if redisErr != nil {
				logger.Warn("Failed to connect to Redis - data source preference will not survive restarts",
					zap.Error(redisErr))
			} else {
				store = source.NewRedisStore(rdb)
			}
		}
		if store == nil {
			store = &source.MemoryStore{}
		}
	}

	gateway, err := source.NewGateway(ctx, source.GatewayOpts{
		Default: source.Source(utils.Env("DATA_SOURCE_DEFAULT", string(source.SourceSubgraph))),
		Locked:  locked,
		Store:   store,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Unable to initialize data source gateway", zap.Error(err))
	}

	clients := subgraph.NewClients(logger)

	var reader *chain.Reader
	if rpcURL := utils.Env("CHAIN_RPC_URL", ""); rpcURL != "" {
		reader, err = chain.NewReader(ctx, chain.Opts{
			RPCURL:   rpcURL,
			Contract: utils.Env("POLL_CONTRACT_ADDRESS", ""),
			Logger:   logger,
		})
		if err != nil {
			logger.Fatal("Unable to initialize chain reader", zap.Error(err))
		}
	} else if locked {
		logger.Fatal("Chain has no subgraph endpoint and CHAIN_RPC_URL is unset; no read path available",
			zap.Uint64("chainID", chainID))
	} else {
		logger.Info("CHAIN_RPC_URL unset - direct contract reads disabled")
	}

	refresher := refresh.New(clients, logger)
	if err := refresher.Start(ctx); err != nil {
		logger.Fatal("Unable to start cache refresher", zap.Error(err))
	}

	return &types.App{
		Gateway:   gateway,
		Subgraph:  clients,
		Chain:     reader,
		Refresher: refresher,
		Views:     xsync.NewMap[uint64, *types.ChainView](),
		Logger:    logger,
	}
}
