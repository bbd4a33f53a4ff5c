package source

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Gateway holds the active read-path preference. Exactly one value is
// active at any time; Set and Toggle persist through the store with
// last-write-wins semantics.
//
// A locked gateway is statically pinned to the contract path. Locking is a
// construction-time decision for chains whose subgraph is unavailable, not
// a runtime fallback: mutations on a locked gateway warn and do nothing.
type Gateway struct {
	mu      sync.Mutex
	current Source
	locked  bool
	store   PreferenceStore
	logger  *zap.Logger
}

// GatewayOpts configures a Gateway.
type GatewayOpts struct {
	// Default is the source used when the store holds no preference.
	Default Source
	// Locked pins the gateway to SourceContract and disables mutation.
	Locked bool
	// Store persists the preference. Required unless Locked.
	Store PreferenceStore
	// Logger is required.
	Logger *zap.Logger
}

// NewGateway builds a gateway, seeding the active source from the config
// default and then overriding it with the persisted value when one exists.
func NewGateway(ctx context.Context, opts GatewayOpts) (*Gateway, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("gateway requires a logger")
	}
	if opts.Default == "" {
		opts.Default = SourceSubgraph
	}
	if !opts.Default.Valid() {
		return nil, fmt.Errorf("unknown default source %q", opts.Default)
	}

	g := &Gateway{
		current: opts.Default,
		locked:  opts.Locked,
		store:   opts.Store,
		logger:  opts.Logger,
	}

	if opts.Locked {
		g.current = SourceContract
		g.logger.Info("Data source gateway locked to contract reads")
		return g, nil
	}

	if opts.Store == nil {
		return nil, fmt.Errorf("gateway requires a preference store")
	}
	if persisted, ok, err := opts.Store.Load(ctx); err != nil {
		// A broken store degrades to the config default; the preference is
		// a convenience, not correctness-critical state.
		g.logger.Warn("Failed to load persisted data source, using default",
			zap.String("default", string(opts.Default)), zap.Error(err))
	} else if ok {
		if persisted.Valid() {
			g.current = persisted
		} else {
			g.logger.Warn("Ignoring invalid persisted data source",
				zap.String("value", string(persisted)))
		}
	}

	return g, nil
}

// Current returns the active source.
func (g *Gateway) Current() Source {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// IsContract reports whether direct contract reads are active.
func (g *Gateway) IsContract() bool { return g.Current() == SourceContract }

// IsSubgraph reports whether indexed reads are active.
func (g *Gateway) IsSubgraph() bool { return g.Current() == SourceSubgraph }

// Set activates a source and persists the choice. On a locked gateway this
// is a warning no-op, never an error.
func (g *Gateway) Set(ctx context.Context, s Source) error {
	if g.locked {
		g.logger.Warn("Ignoring data source change: gateway is locked to contract reads",
			zap.String("requested", string(s)))
		return nil
	}
	if !s.Valid() {
		return fmt.Errorf("unknown source %q", s)
	}

	g.mu.Lock()
	g.current = s
	g.mu.Unlock()

	if err := g.store.Save(ctx, s); err != nil {
		g.logger.Warn("Failed to persist data source preference",
			zap.String("source", string(s)), zap.Error(err))
	}
	return nil
}

// Toggle flips between the two sources via Set.
func (g *Gateway) Toggle(ctx context.Context) error {
	return g.Set(ctx, g.Current().Other())
}
