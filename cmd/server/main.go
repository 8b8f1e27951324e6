package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/asurahunt/karma-server-go/internal/bot"
	"github.com/asurahunt/karma-server-go/internal/config"
	"github.com/asurahunt/karma-server-go/internal/game"
	"github.com/asurahunt/karma-server-go/internal/repository"
	"github.com/asurahunt/karma-server-go/internal/room"
	"github.com/asurahunt/karma-server-go/internal/server"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath = flag.String("config", "config/config.yaml", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting karma server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	// Create context that listens for termination signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize identity store: database-backed when configured, otherwise
	// in-memory for the process lifetime.
	var identities room.IdentityStore
	if cfg.Database.Enabled {
		db, dbErr := repository.NewDB(ctx, cfg.Database, logger)
		if dbErr != nil {
			logger.Fatal("failed to connect to database", zap.Error(dbErr))
		}
		defer db.Close()

		if migErr := db.Migrate(ctx); migErr != nil {
			logger.Fatal("failed to run migrations", zap.Error(migErr))
		}

		stats := db.Stats()
		logger.Info("database connection pool initialized",
			zap.Int32("total_conns", stats.TotalConns()),
			zap.Int32("idle_conns", stats.IdleConns()),
		)

		identities = repository.NewIdentityRepository(db)
	} else {
		logger.Info("database disabled, using in-memory identity store")
		identities = repository.NewMemoryIdentityStore()
	}

	rules := game.Rules{
		StartingKarma: cfg.Game.StartingKarma,
		TurnKarma:     cfg.Game.TurnKarma,
		MaxKarma:      cfg.Game.MaxKarma,
		HandSize:      cfg.Game.HandSize,
		DrawCost:      cfg.Game.DrawCost,
		CaptureCost:   cfg.Game.CaptureCost,
	}

	// Initialize publication hub
	hub := server.NewHub(logger)

	// Initialize room registry
	roomMgr := room.NewManager(rules, hub, identities, logger)
	roomMgr.SetSinglePlayerBots(cfg.Game.SinglePlayerBots)
	roomMgr.SetDefaultMaxPlayers(cfg.Game.DefaultMaxPlayers)
	hub.SetManager(roomMgr)
	logger.Info("room manager initialized")

	// Initialize bot driver
	botDriver := bot.NewDriver(roomMgr, cfg.Game.BotStepDelay, logger)
	roomMgr.SetBotDriver(botDriver)
	logger.Info("bot driver initialized",
		zap.Duration("step_delay", cfg.Game.BotStepDelay),
	)

	go hub.Run(ctx)

	// Start WebSocket server
	wsServer := server.NewWebSocketServer(cfg.Server.WebSocket, hub, logger)
	go func() {
		logger.Info("websocket server listening", zap.String("address", cfg.Server.WebSocket.Address))
		if wsErr := wsServer.ListenAndServe(); wsErr != nil && !errors.Is(wsErr, http.ErrServerClosed) {
			logger.Error("WebSocket server error", zap.Error(wsErr))
		}
	}()

	logger.Info("karma server initialized",
		zap.String("version", version),
		zap.String("websocket_address", cfg.Server.WebSocket.Address),
	)

	// Wait for termination signal
	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := wsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("websocket server shutdown", zap.Error(err))
	}

	logger.Info("karma server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
