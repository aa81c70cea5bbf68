package app

import (
	"context"
	"time"
)

// StartRefreshScheduler re-warms the tracked-universe snapshot on a fixed
// interval so list requests mostly hit a warm cache.
func (a *App) StartRefreshScheduler() {
	interval := a.Config.Funds.GetRefreshInterval()
	ctx, cancel := context.WithCancel(context.Background())
	a.refreshCancel = cancel

	go a.runRefreshScheduler(ctx, interval)
	a.Logger.Info().Dur("interval", interval).Msg("Refresh scheduler started")
}

// StopRefreshScheduler stops the background refresh loop.
func (a *App) StopRefreshScheduler() {
	if a.refreshCancel != nil {
		a.refreshCancel()
		a.refreshCancel = nil
	}
}

func (a *App) runRefreshScheduler(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			a.Logger.Info().Msg("Refresh scheduler: stopped")
			return
		case <-ticker.C:
			start := time.Now()
			if err := a.Funds.RefreshTracked(ctx); err != nil {
				a.Logger.Warn().Err(err).Msg("Refresh scheduler: universe sweep failed")
				continue
			}
			a.Logger.Info().Dur("elapsed", time.Since(start)).Msg("Refresh scheduler: snapshot re-warmed")
		}
	}
}
