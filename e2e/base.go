package e2e

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"

	"chat-sim/domain/event"
	"chat-sim/moderation"
	"chat-sim/projection"
	"chat-sim/repositories"
	"chat-sim/runtime"
	"chat-sim/runtime/workers"
	"chat-sim/search"
	"chat-sim/services"
	"chat-sim/sink"
)

// quietRand never crosses any probability threshold, keeping the scenarios
// free of ambient noise.
type quietRand struct{}

func (quietRand) Float64() float64 { return 0 }
func (quietRand) IntN(int) int     { return 0 }

// Collector records delivered events, standing in for a display layer.
type Collector struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (c *Collector) Consume(_ context.Context, e event.DomainEvent) error {
	c.mu.Lock()
	c.events = append(c.events, e)
	c.mu.Unlock()
	return nil
}

func (c *Collector) Events() []event.DomainEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]event.DomainEvent, len(c.events))
	copy(out, c.events)
	return out
}

// BaseSuite boots the whole engine in-process: badger-backed history, bluge
// archive, fanout under supervision and the chat service on top.
type BaseSuite struct {
	suite.Suite
	Config Config

	DB       *badger.DB
	Engine   *runtime.Engine
	Registry *runtime.Registry
	History  repositories.HistoryRepository
	Archive  *search.Archive
	Timeline *projection.Timeline
	Service  *services.ChatService

	sup    *workers.Supervisor
	cancel context.CancelFunc
	done   chan struct{}
}

func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

func (s *BaseSuite) SetupTest() {
	log := logs.GetLoggerFromString(s.Config.LogLevel)

	db, err := repositories.OpenInMemory()
	s.Require().NoError(err)
	s.DB = db

	moderator, err := moderation.NewModerator([]string{"classified"}, '*', log)
	s.Require().NoError(err)

	s.Engine = runtime.NewEngine(log, 256)
	s.Registry = runtime.NewRegistry()
	s.History = repositories.NewHistoryRepository(db, log, nil)
	s.Archive, err = search.NewArchive()
	s.Require().NoError(err)
	s.Timeline = projection.NewTimeline()

	telemetryChan := make(chan event.Event, 64)
	fanout := workers.NewEventFanout(log, s.Engine.Events(), telemetryChan, s.Registry, time.Second).
		Add(sink.NewHistorySink(s.History, log), sink.NewIndexSink(s.Archive, log), s.Timeline)
	telemetry := workers.NewTelemetryWorker(log, telemetryChan, []event.Handler{
		event.NewMessagePostedHandler(log, event.NewCounter()),
	})

	s.Service = services.NewChatService(log, s.Engine, s.Registry, &moderator,
		s.History, s.Archive, clock.New(), quietRand{})

	s.sup = workers.NewSupervisor(log, telemetryChan, 100*time.Millisecond)
	s.sup.Add(fanout, telemetry)

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go func() {
		s.sup.Run(ctx)
		close(s.done)
	}()
}

func (s *BaseSuite) TearDownTest() {
	s.cancel()
	<-s.done
	s.Require().NoError(s.Archive.Close())
	s.Require().NoError(s.DB.Close())
}

// Step prints a colorized scenario header in the test log.
func (s *BaseSuite) Step(name string) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
}

// EventuallyTimeout is the ceiling for asynchronous delivery assertions.
func (s *BaseSuite) EventuallyTimeout() time.Duration {
	return time.Duration(s.Config.EventTimeout) * time.Second
}
