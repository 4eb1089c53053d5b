package setup

import (
	"context"
	"log"

	"github.com/kcdcommunity/kcdbot/internal/setup/config"
	"github.com/kcdcommunity/kcdbot/internal/setup/telemetry"
	"go.uber.org/zap"
)

// App bundles the configuration and ambient services the bot runs on.
type App struct {
	Config         *config.Config     // Application configuration
	Logger         *zap.Logger        // Main application logger
	LogManager     *telemetry.Manager // Log management system
	debugServer    *debugServer       // Debug HTTP server for pprof and metrics
	tracerShutdown shutdownFunc       // Flushes pending spans
}

// InitializeApp loads the configuration and starts logging, tracing and the
// optional debug server.
func InitializeApp(ctx context.Context, logDir string) (*App, error) {
	// Load app configuration
	cfg, configDir, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}

	// Logging system is initialized next to capture setup issues
	logManager := telemetry.NewManager(ctx, logDir, &cfg.Debug, &cfg.Loki)

	logger, err := logManager.GetLogger()
	if err != nil {
		logManager.Stop()
		return nil, err
	}

	if configDir == "" {
		logger.Info("No config file found, using environment only")
	} else {
		logger.Info("Loaded config", zap.String("dir", configDir))
	}

	tracerShutdown, err := initTracing(ctx, &cfg.Telemetry)
	if err != nil {
		logManager.Stop()
		return nil, err
	}

	// Start debug server if enabled
	var debugSrv *debugServer

	if cfg.Debug.EnablePprof {
		srv, err := startDebugServer(cfg.Debug.PprofPort, logger)
		if err != nil {
			logger.Error("Failed to start debug server", zap.Error(err))
		} else {
			debugSrv = srv

			logger.Warn("pprof debugging endpoint enabled - this should not be used in production!")
		}
	}

	return &App{
		Config:         cfg,
		Logger:         logger,
		LogManager:     logManager,
		debugServer:    debugSrv,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Cleanup shuts components down in reverse initialization order.
// Logs but does not fail on cleanup errors to ensure all components get cleanup attempts.
func (s *App) Cleanup(ctx context.Context) {
	if s.debugServer != nil {
		if err := s.debugServer.srv.Shutdown(ctx); err != nil {
			s.Logger.Error("Failed to shutdown debug server", zap.Error(err))
		}

		s.debugServer.listener.Close()
	}

	if err := s.tracerShutdown(ctx); err != nil {
		s.Logger.Error("Failed to flush traces", zap.Error(err))
	}

	// Sync buffered logs before shutdown
	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	// Stop telemetry manager to flush Loki logs
	s.LogManager.Stop()
}
