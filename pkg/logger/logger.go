// Package logger builds the zerolog loggers the gateway processes share.
package logger

import (
	"io"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Service is stamped on every line so API, worker and CLI logs can be
// told apart once aggregated.
const Service = "pix-gateway"

// New logs JSON to stdout, or console output when pretty is set.
func New(level string, pretty bool) zerolog.Logger {
	var w io.Writer = os.Stdout
	if pretty {
		w = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	return build(level, w).With().Caller().Logger()
}

// NewWithWriter logs JSON to w.
func NewWithWriter(level string, w io.Writer) zerolog.Logger {
	return build(level, w)
}

func build(level string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("service", Service).
		Logger()
}

// ParseLevel accepts zerolog level names; anything else is info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// RequestFields is implemented by request-scoped values carrying correlation
// ids (request, tenant, actor, trace).
type RequestFields interface {
	LogFields() map[string]string
}

// WithRequest tags l with r's non-empty fields in key order.
func WithRequest(l zerolog.Logger, r RequestFields) zerolog.Logger {
	fields := r.LogFields()
	keys := make([]string, 0, len(fields))
	for k, v := range fields {
		if v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	ctx := l.With()
	for _, k := range keys {
		ctx = ctx.Str(k, fields[k])
	}
	return ctx.Logger()
}
