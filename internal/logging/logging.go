// Package logging builds the zerolog logger shared by the console.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/alfredjeanlab/granja/internal/ui"
)

// Formats accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options select the level and encoding.
type Options struct {
	Level  string // trace|debug|info|warn|error, empty means info
	Format string // console|json, empty means console
	// Color forces colored console output; otherwise it is enabled when w
	// is a terminal.
	Color *bool
}

// New creates a logger writing to w. Console output is human readable;
// json output has one object per line.
func New(w io.Writer, opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), errors.Wrapf(err, "log level %q", opts.Level)
		}
		level = l
	}

	switch strings.ToLower(opts.Format) {
	case "", FormatConsole:
		color := isTerminal(w)
		if opts.Color != nil {
			color = *opts.Color
		}
		w = zerolog.ConsoleWriter{Out: w, NoColor: !color, TimeFormat: time.Kitchen}
	case FormatJSON:
	default:
		return zerolog.Nop(), errors.Errorf("unknown log format %q", opts.Format)
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// Subsystem returns a child logger tagged with name.
func Subsystem(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("subsystem", name).Logger()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && ui.IsTerminal(f) && ui.ColorEnabled()
}
