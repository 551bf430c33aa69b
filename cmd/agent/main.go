package main

import (
	"agent-lab/auth"
	"agent-lab/commands"
	"agent-lab/domain/event"
	"agent-lab/gateway"
	"agent-lab/infrastructure/webhook"
	"agent-lab/internal"
	"agent-lab/repositories"
	"agent-lab/resolver"
	"agent-lab/rlv"
	"agent-lab/runtime"
	"agent-lab/runtime/workers"
	"agent-lab/sink"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run keeps every defer (database close, cache save) on the exit path.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB) holding the resolver cache between sessions
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()
	cacheRepository := repositories.NewCacheRepository(db, log)

	// 3. Groups
	groups, err := auth.LoadFile(config.GroupsFilepath)
	if err != nil {
		return fmt.Errorf("groups loading failed: %w", err)
	}
	store := auth.NewStore(groups...)
	log.Info("Groups loaded", "count", len(groups))

	// 4. World gateway and name resolution
	world := gateway.NewLoopback("Home")
	world.AddAgent(uuid.New(), config.AgentName())

	names := resolver.NewResolver(log, world, config.ServicesTimeout)
	entries, err := cacheRepository.LoadEntries()
	if err != nil {
		return fmt.Errorf("cache loading failed: %w", err)
	}
	names.Load(entries)
	defer func() {
		if err := cacheRepository.SaveEntries(names.Snapshot()); err != nil {
			log.Error("Unable to save resolver cache", "error", err)
		}
	}()

	// 5. Delivery pipelines
	poster := webhook.NewPoster(&http.Client{Timeout: config.DeliveryTimeout})
	callbacks := workers.NewDeliveryWorker("callbacks", log, poster,
		config.CallbackQueueLength, config.CallbackThrottle, config.DeliveryTimeout)
	notifications := workers.NewDeliveryWorker("notifications", log, poster,
		config.NotificationQueueLength, config.NotificationThrottle, config.DeliveryTimeout)

	// 6. Setup Supervision & Orchestration
	sup := workers.NewSupervisor(log, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(log, world, sup,
		config.NumberOfWorkers, config.BufferSize, config.SinkTimeout)

	engine := rlv.NewEngine(log, world, config.EnableRLV,
		rlv.WithRemoveOnRevoke(config.RLVRemoveOnRevoke),
		rlv.WithObserver(func(b event.RLVBehaviour) {
			orchestrator.Publish(event.New(event.RLVBehaviourType, b))
		}))
	bindings := runtime.NewBindingTable(log, store, notifications)
	registry := commands.Registry(commands.Dependencies{
		Log:         log,
		Gateway:     world,
		Resolver:    names,
		Credentials: store,
		Bindings:    bindings,
		Rules:       engine,
		Version:     version,
	})
	router := runtime.NewRouter(log, store, names, registry, callbacks)

	channels := append(orchestrator.Channels(),
		workers.NamedChannel{Name: callbacks.Name(), Channel: callbacks},
		workers.NamedChannel{Name: notifications.Name(), Channel: notifications},
	)
	orchestrator.
		Route(runtime.NewInbound(log, router, engine)).
		Add(bindings, sink.NewPromptPolicy(log, engine, world)).
		AddWorkers(callbacks, notifications,
			workers.NewChannelCapacityWorker(log, channels, config.MetricInterval))

	// 7. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 8. Start the Engine
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := orchestrator.Start(ctx); err != nil {
			log.Error("Orchestrator stopped with error", "error", err)
		}
	}()
	log.Info("Agent session started", "agent", config.AgentName(), "version", version, "commands", registry.Verbs())

	// 9. HTTP command listener
	errChan := make(chan error, 1)
	var server *internal.HTTPServer
	if config.HTTPEnabled {
		server = internal.NewHTTPServer(log, config.Address(), router)
		go func() {
			if err := server.Start(); err != nil {
				errChan <- fmt.Errorf("http server error: %w", err)
			}
		}()
	}

	// 10. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err = <-errChan:
		log.Error("Shutting down after failure", "error", err)
	}

	// 11. Final Cleanup
	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("HTTP server shutdown failed", "error", err)
		}
		cancel()
	}
	stop()
	orchestrator.Stop()
	<-done
	log.Info("Program stopped cleanly")

	return err
}
