package internal

import (
	"fmt"
	"time"
)

type Config struct {
	BufferSize          int           `env:"BUFFER_SIZE,required=true"`
	TelemetryBufferSize int           `env:"TELEMETRY_BUFFER_SIZE,required=true"`
	CharReplacement     string        `env:"CHARACTER_REPLACEMENT,required=true"`
	LimitMessages       *int          `env:"LIMIT_MESSAGES"`
	SinkTimeout         time.Duration `env:"SINK_TIMEOUT,required=true"`
	MetricInterval      time.Duration `env:"METRIC_INTERVAL,required=true"`
	HeartbeatInterval   time.Duration `env:"HEARTBEAT_INTERVAL,required=true"`
	RestartInterval     time.Duration `env:"RESTART_INTERVAL,required=true"`

	LowCapacityThreshold int    `env:"LOW_CAPACITY_THRESHOLD,required=true"`
	LogLevel             string `env:"LOG_LEVEL,required=true"`
	DebugPort            int    `env:"DEBUG_PORT,default=8090"`
	ExportDir            string `env:"EXPORT_DIR,default=."`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
