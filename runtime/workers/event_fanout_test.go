package workers

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"chat-sim/contract"
	"chat-sim/domain/event"
	"chat-sim/mocks"
)

func TestEventFanout_RoomEventReachesRoomSinks(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)
	roomSink := mocks.NewMockEventSink(ctrl)

	telemetryChan := make(chan event.Event, 1)
	worker := NewEventFanout(log, make(chan event.DomainEvent), telemetryChan, mockRegistry, time.Second).
		Add(permanentSink)

	evt := event.MessagePosted{Room: "general", Author: "Karan", Content: "hello"}

	// Given the room has one registered sink
	mockRegistry.EXPECT().GetSinksForRoom("general").Return([]contract.EventSink{roomSink}).Times(1)
	// Then both the permanent and the room sink consume the event
	permanentSink.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)
	roomSink.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)

	worker.Fanout(context.Background(), evt)
	worker.report(evt)

	telemetry := <-telemetryChan
	req.Equal(event.MessagePostedType, telemetry.Type)
}

func TestEventFanout_EngineEventSkipsRegistry(t *testing.T) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	permanentSink := mocks.NewMockEventSink(ctrl)

	worker := NewEventFanout(log, make(chan event.DomainEvent), make(chan event.Event, 1), mockRegistry, time.Second).
		Add(permanentSink)

	evt := event.ConnectionStateChanged{State: "CONNECTED", At: time.Now()}

	// Not a room event: the registry is never consulted
	permanentSink.EXPECT().Consume(gomock.Any(), evt).Return(nil).Times(1)

	worker.Fanout(context.Background(), evt)
}

func TestEventFanout_SinkTimeout(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRegistry := mocks.NewMockIRegistry(ctrl)
	slowSink := mocks.NewMockEventSink(ctrl)

	sinkTimeout := 20 * time.Millisecond
	worker := NewEventFanout(log, make(chan event.DomainEvent), make(chan event.Event, 1), mockRegistry, sinkTimeout).
		Add(slowSink)

	mockRegistry.EXPECT().GetSinksForRoom(gomock.Any()).Return(nil).Times(1)
	slowSink.EXPECT().Consume(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, evt event.DomainEvent) error {
			<-ctx.Done()     // Waiting for timeout to trigger cancellation
			return ctx.Err() // Sending back "context deadline exceeded"
		}).
		Times(1)

	start := time.Now()
	worker.Fanout(context.Background(), event.UserJoined{Room: "general", User: "Max"})

	// Then the slow sink did not stall the pipeline beyond its timeout
	req.Less(time.Since(start), 500*time.Millisecond)
}
