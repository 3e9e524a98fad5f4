package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"chat-sim/domain/event"
)

// HeartbeatWorker samples the process own health metrics (CPU, RAM, Status)
// on a fixed period and feeds them to the telemetry pipeline.
type HeartbeatWorker struct {
	log            *slog.Logger
	telemetryChan  chan event.Event
	metricInterval time.Duration
}

func NewHeartbeatWorker(log *slog.Logger,
	telemetryChan chan event.Event,
	metricInterval time.Duration) *HeartbeatWorker {
	return &HeartbeatWorker{
		log:            log,
		telemetryChan:  telemetryChan,
		metricInterval: metricInterval,
	}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker")
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, status, err := getSelfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			select {
			case w.telemetryChan <- event.Event{
				Type:      event.ProcessStatsType,
				CreatedAt: time.Now().UTC(),
				Payload: event.ProcessStats{
					PID:    int64(os.Getpid()),
					Status: status,
					Cpu:    cpu,
					Ram:    rss,
				},
			}:
			default:
				w.log.Debug("Observability telemetry event lost")
			}
		}
	}
}

// getSelfStats retrieves technical metrics (Memory, CPU, and OS Status) for the given process.
func getSelfStats(p *process.Process) (uint64, float64, string, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}

	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}

	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return memInfo.RSS, cpuPercent, status, nil
}
