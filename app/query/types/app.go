package types

import (
	"context"
	"net/http"
	"time"

	"github.com/puzpuzpuz/xsync/v4"
	"go.uber.org/zap"

	"github.com/pollbase/pollbase/pkg/chain"
	"github.com/pollbase/pollbase/pkg/format"
	"github.com/pollbase/pollbase/pkg/mapper"
	"github.com/pollbase/pollbase/pkg/refresh"
	"github.com/pollbase/pollbase/pkg/source"
	"github.com/pollbase/pollbase/pkg/subgraph"
	"github.com/pollbase/pollbase/pkg/token"
)

// ChainView bundles the per-chain normalization pipeline: the token
// registry and the mapper/formatter bound to it.
type ChainView struct {
	Registry  *token.Registry
	Mapper    *mapper.PollMapper
	Formatter *format.Formatter
}

type App struct {
	Gateway  *source.Gateway
	Subgraph *subgraph.Clients
	// Chain is the direct read path; nil when no chain RPC is configured.
	Chain     *chain.Reader
	Refresher *refresh.Refresher
	// Views caches one ChainView per chain ID.
	Views *xsync.Map[uint64, *ChainView]
	// Zap Logger
	Logger *zap.Logger
	// Server represents the HTTP server instance used to handle incoming client requests.
	Server *http.Server
}

// View returns the chain's normalization pipeline, building it on first
// use. Construction is pure, so a racing duplicate is harmless.
func (a *App) View(chainID uint64) (*ChainView, error) {
	if view, ok := a.Views.Load(chainID); ok {
		return view, nil
	}

	registry := token.NewRegistry(chainID, token.Opts{})
	pollMapper, err := mapper.NewPollMapper(registry)
	if err != nil {
		return nil, err
	}
	view := &ChainView{
		Registry:  registry,
		Mapper:    pollMapper,
		Formatter: format.NewFormatter(registry, format.Opts{}),
	}
	actual, _ := a.Views.LoadOrStore(chainID, view)
	return actual, nil
}

// Start starts the application and blocks until the context is cancelled.
func (a *App) Start(ctx context.Context) {
	go func() { _ = a.Server.ListenAndServe() }()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if a.Refresher != nil {
		a.Refresher.Stop()
	}
	if a.Chain != nil {
		a.Chain.Close()
	}

	_ = a.Server.Shutdown(shutdownCtx)
	a.Logger.Info("Query service stopped")
}
