package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
)

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", Value: "warn"},
		&cli.StringFlag{Name: "log-format", Usage: "text or json", Value: "text"},
	}
}

// newLogger builds the slog logger for one invocation. Every record carries
// a run id so that interleaved logs from batch jobs can be told apart.
func newLogger(c *cli.Command, cfg Config, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(stringSetting(c, "log-level", cfg.LogLevel))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch format := strings.ToLower(stringSetting(c, "log-format", cfg.LogFormat)); format {
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", format)
	}

	return slog.New(handler).With("run", uuid.NewString(), "command", c.Name), nil
}
