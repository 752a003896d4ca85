package main

import (
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// setupLogging installs the logger. Logs always go to stderr so they never
// mix with paste content on stdout.
func (a *app) setupLogging() {
	level := parseLevel(a.v.GetString("log-level"))

	var h slog.Handler
	if strings.EqualFold(a.v.GetString("log-format"), "json") {
		h = slog.NewJSONHandler(a.stderr, &slog.HandlerOptions{
			Level: level,
			ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
				if attr.Key == slog.TimeKey {
					return slog.String("ts", attr.Value.Time().UTC().Format(time.RFC3339Nano))
				}
				return attr
			},
		})
	} else {
		h = tint.NewHandler(a.stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
			NoColor:    !a.stderrIsTerminal,
		})
	}

	a.logger = slog.New(h)
	slog.SetDefault(a.logger)

	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(h, slog.LevelInfo).Writer())
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
