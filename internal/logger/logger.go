package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/lats-procurement-ledger/internal/config"
)

var levelNames = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// NewLogger builds the process-wide JSON slog.Logger. Unknown level names
// fall back to info. Source locations are only recorded at debug level.
func NewLogger(cfg *config.Config) *slog.Logger {
	level, ok := levelNames[strings.ToLower(cfg.Logging.Level)]
	if !ok {
		level = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})
	logger := slog.New(handler)

	logger.Info("logger initialized", "level", level)

	return logger
}
