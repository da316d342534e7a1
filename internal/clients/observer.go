package clients

import (
	"github.com/planea/back/internal/platform/logger"
)

// CallEvent records one candidate attempt made by the gateway.
type CallEvent struct {
	Task      Task
	Provider  string
	Model     string
	Attempt   int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives gateway call events for logging.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to the structured logger.
type LogObserver struct {
	log *logger.Logger
}

func NewLogObserver(log *logger.Logger) *LogObserver {
	return &LogObserver{log: log}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	fields := []interface{}{
		"task", string(event.Task),
		"provider", event.Provider,
		"model", event.Model,
		"attempt", event.Attempt,
		"latency_ms", event.LatencyMs,
	}
	if event.Success {
		o.log.Info("🤖 model call succeeded", fields...)
		return
	}
	o.log.Warn("⚠️ model call failed", append(fields, "error_code", event.ErrorCode)...)
}

// NoopObserver discards all events.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
