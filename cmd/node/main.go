package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Morph/internal/adapters/http"
	"github.com/dkeye/Morph/internal/adapters/rtc"
	"github.com/dkeye/Morph/internal/app"
	"github.com/dkeye/Morph/internal/config"
	"github.com/dkeye/Morph/internal/engine"
	"github.com/dkeye/Morph/internal/signaling"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	nodeID := cfg.NodeID
	if nodeID == "" {
		nodeID = uuid.NewString()
	}

	// Real model backends register themselves by model_type; without
	// one the node runs the passthrough engine and plain relay codec.
	eng := engine.Passthrough{}
	probe := engine.HostProbe{}

	registry := app.NewRegistry(cfg.MaxSessions, cfg.IdleTimeout)
	factory := rtc.NewFactory(cfg.StunServer, rtc.PassCodec{}, rtc.PassCodec{})

	var sig *signaling.Client
	if cfg.OrchestratorURL != "" {
		sig = signaling.NewClient(cfg.OrchestratorURL, nodeID)
	} else {
		log.Warn().Msg("no orchestrator URL configured, signaling disabled")
	}

	node := &app.Node{
		ID:             nodeID,
		BaseCtx:        ctx,
		Registry:       registry,
		Engine:         eng,
		Factory:        factory,
		Signaling:      sig,
		Probe:          probe,
		PollInterval:   cfg.PollInterval,
		HealthInterval: cfg.HealthCheckInterval,
		FallbackWidth:  cfg.FallbackWidth,
		FallbackHeight: cfg.FallbackHeight,
		TargetWidth:    cfg.TargetWidth,
		TargetHeight:   cfg.TargetHeight,
	}

	node.Register(ctx, cfg.Port)
	go node.PollLoop(ctx)
	go node.HealthLoop(ctx)

	r := router.SetupRouter(cfg, node)
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Str("node_id", nodeID).Msg("Morph node started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	registry.CloseAll()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
