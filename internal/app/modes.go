package app

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/prophetlabs/signal2store/internal/analytics"
	"github.com/prophetlabs/signal2store/internal/server"
	"github.com/prophetlabs/signal2store/internal/server/handler"
	"github.com/prophetlabs/signal2store/internal/server/ws"
	"github.com/prophetlabs/signal2store/internal/service"
)

// shutdownGrace is how long in-flight requests get to finish after the run
// context is cancelled.
const shutdownGrace = 10 * time.Second

// Serve builds the service and HTTP layers on top of the wired dependencies
// and runs the server plus the WebSocket hub until the context is
// cancelled.
func (a *App) Serve(ctx context.Context, deps *Dependencies) error {
	backend, err := url.Parse(a.cfg.Proxy.BackendOrigin)
	if err != nil {
		return fmt.Errorf("app: parse proxy backend origin: %w", err)
	}

	// Live event feed.
	hub := ws.NewHub(a.logger)

	// Analytics: local event log plus best-effort Amplitude dispatch, fanned
	// out to the hub.
	sender := analytics.NewAmplitudeSender(
		a.cfg.Analytics.Endpoint,
		a.cfg.Analytics.APIKey,
		a.cfg.Analytics.UserID,
		time.Duration(a.cfg.Analytics.TimeoutSeconds)*time.Second,
	)
	tracker := analytics.NewTracker(deps.EventStore, sender, hub, a.logger)

	// Services.
	marketSvc := service.NewMarketService(
		deps.Gamma,
		deps.MarketCache,
		deps.PrefsStore,
		a.cfg.Polymarket.FetchLimit,
		a.cfg.Polymarket.TopN,
		a.logger,
	)
	workspaceSvc := service.NewWorkspaceService(
		deps.DraftStore,
		deps.PublishedStore,
		deps.EventStore,
		deps.PrefsStore,
		tracker,
		a.logger,
	)
	agentSvc := service.NewAgentService(marketSvc, deps.PrefsStore, deps.LLM, a.logger)

	// HTTP handlers.
	handlers := server.Handlers{
		Health:    handler.NewHealthHandler(a.logger),
		Markets:   handler.NewMarketHandler(marketSvc, a.logger),
		Agent:     handler.NewAgentHandler(agentSvc, a.logger),
		Workspace: handler.NewWorkspaceHandler(workspaceSvc, marketSvc, a.logger),
		Analytics: handler.NewAnalyticsHandler(tracker, deps.Archiver, a.logger),
		Proxy: handler.NewProxyHandler(
			backend,
			time.Duration(a.cfg.Proxy.TimeoutSeconds)*time.Second,
			a.logger,
		),
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
	}, handlers, hub, a.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := hub.Run(ctx); err != nil && err != context.Canceled {
			return fmt.Errorf("app: ws hub: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
