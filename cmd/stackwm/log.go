package main

import (
	"io"
	"log/slog"

	charmlog "github.com/charmbracelet/log"
)

// newLogger returns a slog logger backed by a charm handler writing to w.
// Unknown levels fall back to info.
func newLogger(w io.Writer, level string) *slog.Logger {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = charmlog.InfoLevel
	}
	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           lvl,
	})
	return slog.New(handler)
}
