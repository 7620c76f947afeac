package util

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// GetZeroLogger returns a console logger tagged with the given name.
func GetZeroLogger(name string, out io.Writer) *zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}
	output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Str("logger", name).Logger()
	return &logger
}
