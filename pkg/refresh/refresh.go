// Package refresh drives background reconciliation: live queries serve
// cached data immediately, and a scheduled tick re-runs them against the
// network so the cache converges on fresh state.
package refresh

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pollbase/pollbase/pkg/subgraph"
	"github.com/pollbase/pollbase/pkg/utils"
)

// Refresher re-fetches every cached subgraph query on a fixed schedule.
type Refresher struct {
	cron    *cron.Cron
	clients *subgraph.Clients
	logger  *zap.Logger
}

// New builds a refresher over the given client factory.
func New(clients *subgraph.Clients, logger *zap.Logger) *Refresher {
	return &Refresher{
		cron:    cron.New(cron.WithSeconds()),
		clients: clients,
		logger:  logger,
	}
}

// Start schedules reconciliation every REFRESH_INTERVAL_SECONDS (default
// 20) and runs until Stop or context cancellation.
func (r *Refresher) Start(ctx context.Context) error {
	interval := utils.EnvInt("REFRESH_INTERVAL_SECONDS", 20)
	schedule := fmt.Sprintf("@every %ds", interval)

	_, err := r.cron.AddFunc(schedule, func() {
		r.clients.RefreshAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("schedule cache refresh: %w", err)
	}

	r.cron.Start()
	r.logger.Info("Subgraph cache refresher started", zap.Int("intervalSeconds", interval))

	go func() {
		<-ctx.Done()
		r.Stop()
	}()
	return nil
}

// Stop halts the schedule, waiting for an in-flight run to finish.
func (r *Refresher) Stop() {
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
	r.logger.Info("Subgraph cache refresher stopped")
}
