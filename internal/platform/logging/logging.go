package logging

import (
	"io"
	"os"
	"strings"

	hclog "github.com/hashicorp/go-hclog"
)

// New builds the root logger. Unknown levels fall back to info.
func New(level string, out io.Writer) hclog.Logger {
	if out == nil {
		out = os.Stderr
	}
	lvl := hclog.LevelFromString(strings.TrimSpace(level))
	if lvl == hclog.NoLevel {
		lvl = hclog.Info
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "timebox",
		Level:  lvl,
		Output: out,
	})
}

// OrNull returns logger, or a logger that discards everything when nil.
func OrNull(logger hclog.Logger) hclog.Logger {
	if logger == nil {
		return hclog.NewNullLogger()
	}
	return logger
}
