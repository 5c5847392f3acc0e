// README: Structured JSON logger built on log/slog.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// New builds a JSON logger for the API process. The domain services never
// log; this is consumed by the HTTP middleware and main only.
func New(level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: levelFromString(level),
	})
	return slog.New(handler)
}

func levelFromString(level string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
