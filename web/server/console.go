package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "info", "warning", "error"
}

// WebLogger implements core.Logger by sending messages to a console channel
type WebLogger struct {
	consoleChan chan<- ConsoleMessage
}

// NewWebLogger creates a logger for a single render
func NewWebLogger(consoleChan chan<- ConsoleMessage) core.Logger {
	return &WebLogger{consoleChan: consoleChan}
}

// Printf implements core.Logger. Carriage returns used for in-place
// terminal progress are dropped; blank messages are not sent.
func (wl *WebLogger) Printf(format string, args ...interface{}) {
	if wl.consoleChan == nil {
		return
	}

	message := strings.TrimSpace(strings.ReplaceAll(fmt.Sprintf(format, args...), "\r", ""))
	if message == "" {
		return
	}

	level := "info"
	if strings.HasPrefix(message, "Render cancelled") {
		level = "warning"
	}

	// Never block the render on a slow client
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
	}
}
