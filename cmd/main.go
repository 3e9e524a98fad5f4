package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/benbjohnson/clock"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"chat-sim/domain"
	"chat-sim/domain/event"
	"chat-sim/internal"
	"chat-sim/moderation"
	"chat-sim/projection"
	"chat-sim/repositories"
	"chat-sim/runtime"
	"chat-sim/runtime/workers"
	"chat-sim/search"
	"chat-sim/services"
	"chat-sim/sink"
)

const demoUser = "Visitor"

// Connection simulation timings, mirroring the modeled client behavior.
var connectionConfig = workers.ConnectionConfig{
	StartupDelay:   1 * time.Second,
	LivenessPeriod: 10 * time.Second,
	RetryPeriod:    3 * time.Second,
	Latency:        2 * time.Second,
	MaxAttempts:    3,
}

const presencePeriod = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the lifecycle, and centralizes
// error reporting. This pattern is preferred over calling os.Exit or panic
// directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed before the program exits.
// 2. It improves testability by decoupling the initialization logic from the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. History store (BadgerDB, in-memory: the export file is the only
	// durable artifact)
	db, err := repositories.OpenInMemory()
	if err != nil {
		return fmt.Errorf("history store opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Moderation
	censoredChar, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return err
	}
	censoredData, err := moderation.LoadCensoredWords()
	if err != nil {
		return fmt.Errorf("loading censored words failed: %w", err)
	}
	log.Info("Moderation dictionaries loaded", "languages", censoredData.Languages)
	moderator, err := moderation.NewModerator(censoredData.Words, censoredChar, log)
	if err != nil {
		return err
	}

	// 4. Engine, registry and default rooms
	engine := runtime.NewEngine(log, config.BufferSize)
	registry := runtime.NewRegistry()
	loadDefaultRooms(engine)

	historyRepository := repositories.NewHistoryRepository(db, log, config.LimitMessages)
	archive, err := search.NewArchive()
	if err != nil {
		return fmt.Errorf("archive opening failed: %w", err)
	}
	defer func() { _ = archive.Close() }()
	timeline := projection.NewTimeline()

	// 5. Workers under supervision
	telemetryChan := make(chan event.Event, config.TelemetryBufferSize)
	counter := event.NewCounter()
	clk := clock.New()
	rnd := runtime.SystemRand()

	fanout := workers.NewEventFanout(log, engine.Events(), telemetryChan, registry, config.SinkTimeout).
		Add(sink.NewHistorySink(historyRepository, log), sink.NewIndexSink(archive, log), timeline)

	connection := workers.NewConnectionWorker(log, clk, connectionConfig,
		func() bool { return rnd.Float64() > 0.5 }, engine.Emit)
	presence := workers.NewPresenceWorker(log, clk, rnd, engine, registry.ActiveRoom, presencePeriod)
	capacity := workers.NewChannelCapacityWorker(log, []workers.NamedChannel{
		{Name: "domainEvents", Channel: engine.Events()},
		{Name: "telemetry", Channel: telemetryChan},
	}, telemetryChan, config.MetricInterval)
	heartbeat := workers.NewHeartbeatWorker(log, telemetryChan, config.HeartbeatInterval)
	telemetry := workers.NewTelemetryWorker(log, telemetryChan, []event.Handler{
		event.NewMessagePostedHandler(log, counter),
		event.NewChannelCapacityHandler(log, config.LowCapacityThreshold),
		event.NewWorkerRestartedHandler(log, counter),
		event.NewProcessStatsHandler(log, counter),
	})

	sup := workers.NewSupervisor(log, telemetryChan, config.RestartInterval)
	sup.Add(fanout, connection, presence, capacity, heartbeat, telemetry)

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	supDone := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(supDone)
	}()

	// 7. Debug server over the history store
	internal.StartDebugServer(db, config.DebugPort, "/inspect", internal.HistoryMapper, func() map[string]any {
		stats := map[string]any{"Rooms": len(engine.ListRooms())}
		for t, count := range counter.Snapshot() {
			stats[string(t)] = count
		}
		return stats
	})
	log.Info(fmt.Sprintf("Inspector available at http://localhost:%d/inspect", config.DebugPort))

	// 8. Demo session driving the simulation
	service := services.NewChatService(log, engine, registry, &moderator, historyRepository, archive, clk, rnd)
	session, err := service.Login(demoUser)
	if err != nil {
		return err
	}
	if err := service.JoinRoom(session, "General", ConsoleSink{}); err != nil {
		return err
	}
	if _, err := service.SendMessage(session, "Hello everyone!"); err != nil {
		return err
	}

	// 9. Wait for Stop
	<-ctx.Done()
	log.Info("Shutting down gracefully...")

	// 10. Export the room history before the stores vanish
	export, err := service.ExportHistory(session)
	if err != nil {
		log.Warn("Export failed", "error", err)
	} else if path, err := services.WriteExport(config.ExportDir, export); err != nil {
		log.Warn("Writing export failed", "error", err)
	} else {
		log.Info("History exported", "path", path, "messages", len(export.Messages))
	}

	sup.Stop()
	<-supDone
	log.Info("Program stopped cleanly")

	return nil
}

func loadDefaultRooms(engine *runtime.Engine) {
	engine.RegisterRoom(domain.NewRoom("General").WithUsers("Karan", "Max", "Smith"))
	engine.RegisterRoom(domain.NewRoom("Technology").WithUsers("TechGuru", "CodeMaster"))
	engine.RegisterRoom(domain.NewRoom("Random").WithUsers("User1", "User2", "User3"))
}
