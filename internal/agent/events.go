package agent

import (
	"context"
	"log/slog"

	"github.com/i474232898/weather-agent/internal/common"
)

// EventType names a host event a plugin can subscribe to.
type EventType string

const EventMessageReceived EventType = "MESSAGE_RECEIVED"

// EventHandler reacts to a host event carrying a message.
type EventHandler func(ctx context.Context, msg Message) error

// MessageReceivedHandler notes weather-related messages in the debug log.
func MessageReceivedHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, msg Message) error {
		if common.HasAnyFold(msg.Text, "weather") {
			logger.DebugContext(ctx, "weather-related message received")
		}
		return nil
	}
}
