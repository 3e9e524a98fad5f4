package workers

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"chat-sim/contract"
	"chat-sim/domain"
)

// presenceThreshold gates each tick: only draws above it trigger a toggle.
const presenceThreshold = 0.8

// PresencePool is the fixed set of ambient identities the simulator toggles.
var PresencePool = []string{"Karan", "Max", "Smith", "TechGuru", "CodeMaster", "User1", "User2"}

// PresenceWorker emulates ambient room activity. On each tick it may toggle
// one pool identity's membership in the currently active room, posting the
// same joined/left system notices a real participant would produce. The
// activity is not attributable to any client session.
type PresenceWorker struct {
	log        *slog.Logger
	clock      clock.Clock
	rand       contract.Rand
	dispatcher contract.Dispatcher
	activeRoom func() string
	period     time.Duration
	pool       []string
}

func NewPresenceWorker(log *slog.Logger,
	clk clock.Clock,
	rand contract.Rand,
	dispatcher contract.Dispatcher,
	activeRoom func() string,
	period time.Duration) *PresenceWorker {
	return &PresenceWorker{
		log:        log,
		clock:      clk,
		rand:       rand,
		dispatcher: dispatcher,
		activeRoom: activeRoom,
		period:     period,
		pool:       PresencePool,
	}
}

func (w *PresenceWorker) Run(ctx context.Context) error {
	ticker := w.clock.Ticker(w.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping presence simulation")
			return nil
		case <-ticker.C:
			w.tick()
		}
	}
}

func (w *PresenceWorker) tick() {
	room := w.activeRoom()
	if room == "" {
		return
	}
	if w.rand.Float64() <= presenceThreshold {
		return
	}

	user := w.pool[w.rand.IntN(len(w.pool))]
	err := w.dispatcher.Dispatch(room, func(r *domain.Room) {
		if r.HasUser(user) {
			r.RemoveUser(user)
			r.PostSystem(user + " left the room")
			return
		}
		r.AddUser(user)
		r.PostSystem(user + " joined the room")
	})
	if err != nil {
		// The active room can disappear between the provider call and the
		// dispatch, the toggle is simply skipped.
		w.log.Debug("Presence toggle skipped", "room", room, "error", err)
	}
}
